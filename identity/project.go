package identity

import (
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// DetectModulePath walks up from root looking for a go.mod and returns
// its module path, the default environment tag when a build's config
// does not set one explicitly: a Go module path is stable across
// branches and worktrees in a way a raw directory name is not.
func DetectModulePath(root string) (string, error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	for {
		modPath := filepath.Join(dir, "go.mod")
		if content, err := os.ReadFile(modPath); err == nil {
			mf, err := modfile.Parse(modPath, content, nil)
			if err != nil || mf.Module == nil {
				return "", err
			}
			return mf.Module.Mod.Path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
