package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/motion"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFormats(t *testing.T) {
	want := Config{
		URDF:         "robot.urdf",
		EntityPrefix: "/world/",
		Mode:         "sampled",
		Frames:       10,
		Seed:         42,
		Packages:     map[string]string{"arm": "pkgs/arm"},
		DefaultColor: []float64{0.5, 0.5, 0.5, 1},
	}

	tests := []struct {
		name    string
		content string
	}{
		{"config.json", `{"urdf": "robot.urdf", "entity_prefix": "/world/", "mode": "sampled",
			"frames": 10, "seed": 42, "packages": {"arm": "pkgs/arm"}, "default_color": [0.5, 0.5, 0.5, 1]}`},
		{"config.yaml", "urdf: robot.urdf\nentity_prefix: /world/\nmode: sampled\nframes: 10\nseed: 42\n" +
			"packages:\n  arm: pkgs/arm\ndefault_color: [0.5, 0.5, 0.5, 1]\n"},
		{"config.toml", "urdf = \"robot.urdf\"\nentity_prefix = \"/world/\"\nmode = \"sampled\"\nframes = 10\n" +
			"seed = 42\ndefault_color = [0.5, 0.5, 0.5, 1.0]\n\n[packages]\narm = \"pkgs/arm\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.name, tt.content))
			require.NoError(t, err)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeFile(t, "config.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Load(writeFile(t, "config.json", "{"))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolveDefaults(t *testing.T) {
	cfg := Config{
		URDF:         filepath.Join("/robots", "arm", "arm.urdf"),
		Packages:     map[string]string{"arm": "pkg", "abs": "/opt/abs"},
		PackageRoots: []string{"src"},
	}
	cfg.Resolve(Flags{})

	assert.Equal(t, filepath.Join("/robots", "arm"), cfg.BaseDir)
	assert.Equal(t, filepath.Join("/robots", "arm", "scene-out"), cfg.OutputDir)
	assert.Equal(t, filepath.Join("/robots", "arm", "pkg"), cfg.Packages["arm"])
	assert.Equal(t, "/opt/abs", cfg.Packages["abs"])
	assert.Equal(t, []string{filepath.Join("/robots", "arm", "src")}, cfg.PackageRoots)
	assert.Equal(t, "original", cfg.Mode)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 512, cfg.PreviewSize)
	assert.False(t, cfg.Preview)
	assert.NotZero(t, cfg.Seed)
	assert.Nil(t, cfg.Color())
	require.NoError(t, cfg.Validate())
	assert.Equal(t, motion.Original, cfg.MotionMode())
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{URDF: "a.urdf", Mode: "original", Workers: 2, Seed: 1, OutputDir: "out"}
	cfg.Resolve(Flags{
		URDF:     "/r/b.urdf",
		BaseDir:  "/data",
		Mode:     "random",
		Frames:   5,
		Seed:     9,
		Workers:  8,
		Prefix:   "/p/",
		LogLevel: "debug",
		Textures: true,
		Preview:  true,
	})

	assert.Equal(t, "/r/b.urdf", cfg.URDF)
	assert.Equal(t, "/data", cfg.BaseDir)
	assert.Equal(t, filepath.Join("/data", "out"), cfg.OutputDir)
	assert.Equal(t, motion.Random, cfg.MotionMode())
	assert.Equal(t, 5, cfg.Frames)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "/p/", cfg.EntityPrefix)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Textures)
	assert.True(t, cfg.Preview)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no urdf", Config{Mode: "original"}, "no urdf"},
		{"bad mode", Config{URDF: "a", Mode: "dance"}, "unknown mode"},
		{"bad level", Config{URDF: "a", LogLevel: "loud"}, "unknown level"},
		{"bad color", Config{URDF: "a", DefaultColor: []float64{1, 0}}, "4 components"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.cfg.Validate(), tt.want)
		})
	}

	cfg := Config{URDF: "a", DefaultColor: []float64{1, 0, 0, 1}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, &kinematics.Color{1, 0, 0, 1}, cfg.Color())
}
