package preview

import (
	"fmt"

	"urdf-scene-exporter/internal/entitypath"
	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/scene"
	"urdf-scene-exporter/internal/transform"
)

// Collect places every static mesh recorded at a link's visual path into the
// root frame, using the link poses in worlds and the static transform
// recorded at the same visual path.
func Collect(src kinematics.Source, paths *entitypath.Resolver, worlds map[string]transform.Transform, rec *scene.Recorder) ([]Item, error) {
	var items []Item
	for _, l := range src.Links() {
		linkPath, err := paths.Link(l.Name)
		if err != nil {
			return nil, fmt.Errorf("preview: link %s: %w", l.Name, err)
		}
		world, ok := worlds[l.Name]
		if !ok {
			world = transform.Identity()
		}
		for i := range l.Visuals {
			vp := entitypath.VisualPath(linkPath, i)
			var (
				m     *scene.Mesh3D
				local = transform.None()
			)
			for _, r := range rec.Find(vp) {
				if !r.Static {
					continue
				}
				switch r.Kind {
				case scene.KindMesh:
					m = r.Mesh
				case scene.KindTransform:
					local = transform.Some(r.Transform)
				}
			}
			if m == nil {
				continue
			}
			items = append(items, Item{Path: vp, Mesh: *m, World: place(world, local)})
		}
	}
	return items, nil
}

// place composes a link pose with a visual's local transform, keeping the
// visual's scale.
func place(world transform.Transform, local transform.Maybe) transform.Transform {
	t := transform.Compose(transform.Some(world), local).OrIdentity()
	if l, ok := local.Get(); ok && l.HasScale() {
		t = t.WithScale(l.Scale())
	}
	return t
}
