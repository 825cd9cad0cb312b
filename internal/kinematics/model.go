package kinematics

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Source is the read-only view of a kinematic tree the exporter consumes.
type Source interface {
	// Root returns the name of the root link.
	Root() string
	Link(name string) (*Link, bool)
	// Links returns every link in declaration order.
	Links() []*Link
	// Joints returns every joint in declaration order.
	Joints() []*Joint
	// Chain returns the names from root to tip, alternating link and joint:
	// [root, joint, link, ..., joint, tip].
	Chain(root, tip string) ([]string, error)
}

// Model is an immutable, validated kinematic tree.
type Model struct {
	name   string
	root   string
	links  []*Link
	joints []*Joint

	byName map[string]*Link
	parent map[string]*Joint // child link name -> joint
	ids    map[string]int64
	names  []string // link name by node id
	order  []string // parents before children

	g     *simple.DirectedGraph
	paths path.Shortest
}

var _ Source = (*Model)(nil)

// NewModel validates that links and joints form a single-rooted tree.
// The slices are retained; callers must not modify them afterwards.
func NewModel(name string, links []*Link, joints []*Joint) (*Model, error) {
	if len(links) == 0 {
		return nil, invalid("no links")
	}

	m := &Model{
		name:   name,
		links:  links,
		joints: joints,
		byName: make(map[string]*Link, len(links)),
		parent: make(map[string]*Joint, len(joints)),
		ids:    make(map[string]int64, len(links)),
		names:  make([]string, len(links)),
		g:      simple.NewDirectedGraph(),
	}

	for i, l := range links {
		if l.Name == "" {
			return nil, invalid("link %d has no name", i)
		}
		if _, dup := m.byName[l.Name]; dup {
			return nil, invalid("duplicate link %q", l.Name)
		}
		m.byName[l.Name] = l
		m.ids[l.Name] = int64(i)
		m.names[i] = l.Name
		m.g.AddNode(simple.Node(i))
	}

	seen := make(map[string]bool, len(joints))
	for _, j := range joints {
		if seen[j.Name] {
			return nil, invalid("duplicate joint %q", j.Name)
		}
		seen[j.Name] = true

		pid, ok := m.ids[j.Parent]
		if !ok {
			return nil, invalid("joint %q: unknown parent link %q", j.Name, j.Parent)
		}
		cid, ok := m.ids[j.Child]
		if !ok {
			return nil, invalid("joint %q: unknown child link %q", j.Name, j.Child)
		}
		if pid == cid {
			return nil, invalid("joint %q connects link %q to itself", j.Name, j.Parent)
		}
		if other, dup := m.parent[j.Child]; dup {
			return nil, invalid("link %q has two parent joints (%q, %q)", j.Child, other.Name, j.Name)
		}
		m.parent[j.Child] = j
		m.g.SetEdge(simple.Edge{F: simple.Node(pid), T: simple.Node(cid)})
	}

	sorted, err := topo.Sort(m.g)
	if err != nil {
		return nil, invalid("cycle in joint graph: %v", err)
	}
	for _, n := range sorted {
		m.order = append(m.order, m.names[n.ID()])
	}

	var roots []string
	for _, l := range links {
		if _, ok := m.parent[l.Name]; !ok {
			roots = append(roots, l.Name)
		}
	}
	if len(roots) != 1 {
		return nil, invalid("expected exactly one root link, found %d %v", len(roots), roots)
	}
	m.root = roots[0]
	m.paths = path.DijkstraFrom(simple.Node(m.ids[m.root]), m.g)

	return m, nil
}

// Name returns the robot name.
func (m *Model) Name() string { return m.name }

func (m *Model) Root() string { return m.root }

func (m *Model) Link(name string) (*Link, bool) {
	l, ok := m.byName[name]
	return l, ok
}

func (m *Model) Links() []*Link { return m.links }

func (m *Model) Joints() []*Joint { return m.joints }

// ParentJoint returns the joint whose child is link, or false for the root.
func (m *Model) ParentJoint(link string) (*Joint, bool) {
	j, ok := m.parent[link]
	return j, ok
}

// TopologicalLinks returns link names ordered so that every parent precedes its children.
func (m *Model) TopologicalLinks() []string { return m.order }

// Chain returns [root, joint, link, ..., joint, tip].
// root may be any link that is an ancestor of tip (or tip itself).
func (m *Model) Chain(root, tip string) ([]string, error) {
	rid, ok := m.ids[root]
	if !ok {
		return nil, &UnresolvedPathError{Root: root, Target: tip}
	}
	tid, ok := m.ids[tip]
	if !ok {
		return nil, &UnresolvedPathError{Root: root, Target: tip}
	}

	sp := m.paths
	if root != m.root {
		sp = path.DijkstraFrom(simple.Node(rid), m.g)
	}
	nodes, _ := sp.To(tid)
	if len(nodes) == 0 {
		return nil, &UnresolvedPathError{Root: root, Target: tip}
	}
	return m.interleave(nodes), nil
}

func (m *Model) interleave(nodes []graph.Node) []string {
	chain := make([]string, 0, 2*len(nodes)-1)
	for i, n := range nodes {
		name := m.names[n.ID()]
		if i > 0 {
			chain = append(chain, m.parent[name].Name)
		}
		chain = append(chain, name)
	}
	return chain
}
