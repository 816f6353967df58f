// Package catalog finds the tool configuration file and turns it into a tool
// registry.
package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigFile is the configuration file looked up at the project root.
	DefaultConfigFile = "tools-config.txt"
	// DefaultProjectMarker marks a project root directory.
	DefaultProjectMarker = "go.mod"
	// DefaultBuildOutputMarker is the path segment of build output directories.
	DefaultBuildOutputMarker = ".toolforge/output"
)

// Locate walks upward from startDir and returns the first directory that
// contains marker. If startDir lies inside a build output directory, the
// search starts from the directory holding the build output. An empty
// startDir means the working directory, and a relative one is resolved
// against it. The filesystem root itself is not checked.
func Locate(startDir, marker, buildOutputMarker string) (string, bool) {
	dir, err := absDir(startDir)
	if err != nil {
		return "", false
	}
	if buildOutputMarker != "" {
		if i := strings.Index(filepath.ToSlash(dir), filepath.ToSlash(buildOutputMarker)); i >= 0 {
			dir = filepath.Clean(dir[:i])
		}
	}

	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		if exists(filepath.Join(dir, marker)) {
			return dir, true
		}
		dir = parent
	}
}

// ResolveRoot returns the located project root, or the absolute startDir when
// no marker was found.
func ResolveRoot(startDir, marker, buildOutputMarker string) string {
	if root, ok := Locate(startDir, marker, buildOutputMarker); ok {
		return root
	}
	if dir, err := absDir(startDir); err == nil {
		return dir
	}
	return startDir
}

func absDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
