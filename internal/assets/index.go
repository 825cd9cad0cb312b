// Package assets resolves resource URIs found in robot descriptions
// (package://, file://, absolute and relative paths) to files on disk.
package assets

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Index maps ROS package names to directories and resolves relative paths against a base dir.
type Index struct {
	baseDir  string
	packages map[string]string // package name -> directory
}

// NewIndex returns an Index resolving relative paths against baseDir.
func NewIndex(baseDir string) *Index {
	return &Index{baseDir: baseDir, packages: make(map[string]string)}
}

// BaseDir returns the directory relative paths are resolved against.
func (idx *Index) BaseDir() string { return idx.baseDir }

// AddPackage registers dir as the location of package name.
func (idx *Index) AddPackage(name, dir string) {
	idx.packages[name] = dir
}

// Len returns the number of known packages.
func (idx *Index) Len() int { return len(idx.packages) }

type packageManifest struct {
	Name string `xml:"name"`
}

// DiscoverPackages walks root for package.xml manifests and registers each package.
// The first manifest found for a name wins. Unreadable manifests are skipped.
func (idx *Index) DiscoverPackages(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("assets: scan %s: %w", root, err)
			}
			return nil
		}
		if d.IsDir() || d.Name() != "package.xml" {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var pm packageManifest
		if xml.Unmarshal(raw, &pm) != nil || pm.Name == "" {
			return nil
		}
		if _, exists := idx.packages[pm.Name]; !exists {
			idx.packages[pm.Name] = filepath.Dir(path)
		}
		return nil
	})
}

// Resolve maps a resource URI to a filesystem path.
func (idx *Index) Resolve(uri string) (string, error) {
	uri = strings.ReplaceAll(uri, "\\", "/")
	switch {
	case strings.HasPrefix(uri, "package://"):
		rest := strings.TrimPrefix(uri, "package://")
		name, rel, _ := strings.Cut(rest, "/")
		dir, ok := idx.packages[name]
		if !ok {
			// Common layout: the description lives inside the package itself.
			if filepath.Base(idx.baseDir) == name {
				dir = idx.baseDir
			} else if candidate := filepath.Join(idx.baseDir, rel); exists(candidate) {
				return candidate, nil
			} else {
				return "", fmt.Errorf("assets: unknown package %q in %s", name, uri)
			}
		}
		return filepath.Join(dir, filepath.FromSlash(rel)), nil
	case strings.HasPrefix(uri, "file://"):
		return filepath.FromSlash(strings.TrimPrefix(uri, "file://")), nil
	case filepath.IsAbs(uri):
		return uri, nil
	}
	return filepath.Join(idx.baseDir, filepath.FromSlash(uri)), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
