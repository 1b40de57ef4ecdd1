// Package modpath discovers the module path of the Go project containing
// a directory.
//
// Crash reports use the module path to mark which frames belong to the
// host program as opposed to the runtime or libraries. Discovery walks
// up from a starting directory to the nearest go.mod and parses it.
package modpath

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// Find walks up from startDir to the nearest go.mod and returns the
// module path it declares.
//
// Returns an error when no go.mod exists on the way to the filesystem
// root or when the file declares no module path (a file-less workspace
// stub).
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving start directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, "go.mod")
		if data, err := os.ReadFile(candidate); err == nil {
			return parse(candidate, data)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached the filesystem root without finding a module.
			return "", fmt.Errorf("no go.mod above %s", startDir)
		}
		dir = parent
	}
}

// FindFromWorkingDir is Find starting at the process working directory.
func FindFromWorkingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return Find(cwd)
}

func parse(path string, data []byte) (string, error) {
	// Lax parsing: only the module directive matters here, so an
	// otherwise unparseable file with a valid module line still works.
	f, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return "", fmt.Errorf("%s declares no module path", path)
	}
	return f.Module.Mod.Path, nil
}
