// Package entitypath derives hierarchical scene identifiers from the
// root-to-node chain of a kinematic tree.
package entitypath

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"urdf-scene-exporter/internal/kinematics"
)

// Resolver builds entity paths for links and joints of one model.
// Paths depend only on topology, so a Resolver is safe for concurrent use.
type Resolver struct {
	source kinematics.Source
	prefix string
}

// New returns a Resolver. A non-empty prefix is prepended verbatim;
// otherwise paths start with "/".
func New(source kinematics.Source, prefix string) *Resolver {
	return &Resolver{source: source, prefix: prefix}
}

// Prefix returns the configured prefix.
func (r *Resolver) Prefix() string { return r.prefix }

// Link returns the path of a link: the link names from the root to it.
func (r *Resolver) Link(name string) (string, error) {
	chain, err := r.source.Chain(r.source.Root(), name)
	if err != nil {
		return "", err
	}
	return r.join(stride(chain, 0)), nil
}

// Joint returns the path of a joint: the joint names from the root to its child.
func (r *Resolver) Joint(j *kinematics.Joint) (string, error) {
	chain, err := r.source.Chain(r.source.Root(), j.Child)
	if err != nil {
		return "", err
	}
	return r.join(stride(chain, 1)), nil
}

// Visual returns the path of the i-th visual under a link path.
func (r *Resolver) Visual(linkPath string, i int) string { return VisualPath(linkPath, i) }

// VisualPath returns linkPath + "/visual_" + i.
func VisualPath(linkPath string, i int) string {
	return linkPath + "/visual_" + strconv.Itoa(i)
}

func (r *Resolver) join(names []string) string {
	joined := strings.Join(names, "/")
	if r.prefix != "" {
		return r.prefix + joined
	}
	return "/" + joined
}

// stride keeps every second element starting at offset.
func stride(chain []string, offset int) []string {
	return lo.Filter(chain, func(_ string, i int) bool {
		return i >= offset && (i-offset)%2 == 0
	})
}
