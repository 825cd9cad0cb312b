package kinematics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arm(t *testing.T) *Model {
	t.Helper()
	links := []*Link{{Name: "base"}, {Name: "upper"}, {Name: "lower"}, {Name: "tool"}, {Name: "camera"}}
	joints := []*Joint{
		{Name: "shoulder", Type: Revolute, Parent: "base", Child: "upper"},
		{Name: "elbow", Type: Revolute, Parent: "upper", Child: "lower"},
		{Name: "wrist", Type: Fixed, Parent: "lower", Child: "tool"},
		{Name: "mount", Type: Fixed, Parent: "base", Child: "camera"},
	}
	m, err := NewModel("arm", links, joints)
	require.NoError(t, err)
	return m
}

func TestChain(t *testing.T) {
	m := arm(t)
	assert.Equal(t, "base", m.Root())

	chain, err := m.Chain("base", "tool")
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "shoulder", "upper", "elbow", "lower", "wrist", "tool"}, chain)

	chain, err = m.Chain("base", "base")
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, chain)

	chain, err = m.Chain("upper", "lower")
	require.NoError(t, err)
	assert.Equal(t, []string{"upper", "elbow", "lower"}, chain)
}

func TestChainUnresolved(t *testing.T) {
	m := arm(t)

	_, err := m.Chain("base", "nowhere")
	var upe *UnresolvedPathError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, "nowhere", upe.Target)

	// camera is not below upper
	_, err = m.Chain("upper", "camera")
	assert.True(t, errors.As(err, &upe))
}

func TestTopologicalLinks(t *testing.T) {
	m := arm(t)
	pos := map[string]int{}
	for i, n := range m.TopologicalLinks() {
		pos[n] = i
	}
	require.Len(t, pos, 5)
	for _, j := range m.Joints() {
		assert.Less(t, pos[j.Parent], pos[j.Child], j.Name)
	}
}

func TestNewModelValidation(t *testing.T) {
	tests := []struct {
		name   string
		links  []*Link
		joints []*Joint
	}{
		{"empty", nil, nil},
		{"duplicate link", []*Link{{Name: "a"}, {Name: "a"}}, nil},
		{"two roots", []*Link{{Name: "a"}, {Name: "b"}}, nil},
		{
			"unknown child",
			[]*Link{{Name: "a"}},
			[]*Joint{{Name: "j", Parent: "a", Child: "b"}},
		},
		{
			"self joint",
			[]*Link{{Name: "a"}, {Name: "b"}},
			[]*Joint{{Name: "j", Parent: "a", Child: "a"}},
		},
		{
			"two parents",
			[]*Link{{Name: "a"}, {Name: "b"}, {Name: "c"}},
			[]*Joint{{Name: "j1", Parent: "a", Child: "c"}, {Name: "j2", Parent: "b", Child: "c"}},
		},
		{
			"cycle",
			[]*Link{{Name: "root"}, {Name: "a"}, {Name: "b"}},
			[]*Joint{{Name: "j1", Parent: "a", Child: "b"}, {Name: "j2", Parent: "b", Child: "a"}},
		},
		{
			"duplicate joint",
			[]*Link{{Name: "a"}, {Name: "b"}, {Name: "c"}},
			[]*Joint{{Name: "j", Parent: "a", Child: "b"}, {Name: "j", Parent: "a", Child: "c"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel("x", tt.links, tt.joints)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve), "got %v", err)
		})
	}
}

func TestParseJointType(t *testing.T) {
	assert.Equal(t, Revolute, ParseJointType("revolute"))
	assert.Equal(t, Prismatic, ParseJointType("prismatic"))
	assert.Equal(t, Unknown, ParseJointType("ball"))
	assert.Equal(t, "continuous", Continuous.String())
}

func TestColorRGBA8(t *testing.T) {
	assert.Equal(t, [4]uint8{255, 0, 128, 255}, Color{1, 0, 0.5, 1}.RGBA8())
	assert.Equal(t, [4]uint8{0, 255, 0, 0}, Color{-1, 2, 0, 0}.RGBA8())
}
