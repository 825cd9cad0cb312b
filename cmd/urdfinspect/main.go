package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"urdf-scene-exporter/internal/assets"
	"urdf-scene-exporter/internal/entitypath"
	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/mesh"
	"urdf-scene-exporter/internal/motion"
	"urdf-scene-exporter/internal/skeleton"
	"urdf-scene-exporter/internal/transform"
	"urdf-scene-exporter/internal/urdf"
)

func main() {
	sample := flag.Bool("sample", false, "Pose joints at random values within their limits instead of zero")
	seed := flag.Int64("seed", 1, "Random seed for -sample")
	meshes := flag.Bool("meshes", false, "Load meshes and print their world bounding boxes")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: urdfinspect [-sample] [-meshes] robot.urdf")
		os.Exit(2)
	}
	path := flag.Arg(0)

	model, err := urdf.Parse(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	paths := entitypath.New(model, "")
	fmt.Printf("Robot %q: links=%d, joints=%d, root=%s\n", model.Name(), len(model.Links()), len(model.Joints()), model.Root())

	values := map[string]float64{}
	if *sample {
		s := motion.NewSampler(*seed)
		for _, j := range model.Joints() {
			values[j.Name] = s.Value(j)
		}
	}

	fmt.Println("--- Joints ---")
	for _, j := range model.Joints() {
		p, err := paths.Joint(j)
		if err != nil {
			fmt.Printf("  %s: %v\n", j.Name, err)
			continue
		}
		lo, hi := motion.Range(j)
		fmt.Printf("  %-24s %-10s %s -> %s  range=[%.3f, %.3f] value=%.3f\n", p, j.Type, j.Parent, j.Child, lo, hi, values[j.Name])
	}

	worlds, err := skeleton.WorldTransforms(model, values)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	index := assets.NewIndex(filepath.Dir(path))
	fmt.Println("--- Links ---")
	for _, name := range model.TopologicalLinks() {
		l, _ := model.Link(name)
		p, _ := paths.Link(name)
		w := worlds[name]
		fmt.Printf("  %s\n    world: t=%.4v\n", p, w.Translation())
		for i := range l.Visuals {
			printVisual(index, w, paths.Visual(p, i), &l.Visuals[i], *meshes)
		}
	}
}

func printVisual(index *assets.Index, link transform.Transform, path string, v *kinematics.Visual, load bool) {
	g := v.Geometry
	if g.Kind != kinematics.Mesh {
		fmt.Printf("    %s: %s (not exportable)\n", path, g.Kind)
		return
	}
	fmt.Printf("    %s: mesh %s\n", path, g.Filename)
	if !load {
		return
	}
	file, err := index.Resolve(g.Filename)
	if err != nil {
		fmt.Printf("      error: %v\n", err)
		return
	}
	m, err := mesh.FileLoader{}.Load(file)
	if err != nil {
		fmt.Printf("      error: %v\n", err)
		return
	}
	posed := skeleton.PoseMesh(m, skeleton.VisualWorld(link, v))
	lo, hi, ok := skeleton.Bounds(posed)
	fmt.Printf("      verts=%d, tris=%d, visual=%s\n", len(m.Vertices), len(m.Faces), m.Visual)
	if ok {
		size := hi.Sub(lo)
		fmt.Printf("      BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
		fmt.Printf("      Size: %.3f x %.3f x %.3f\n", size[0], size[1], size[2])
	}
}
