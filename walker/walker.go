// Package walker performs a sequential, single-threaded top-down
// traversal of a project tree, yielding Folder and File records in
// deterministic (sorted) order.
package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/viant/afs"

	"github.com/viant/codegraph/ignore"
)

// Folder is a directory visited during the walk.
type Folder struct {
	Path  string // relative to root, forward-slash normalized
	Name  string
	Level int
}

// File is a file visited during the walk.
type File struct {
	Path  string // relative to root, forward-slash normalized
	Name  string
	Level int
	Size  int64
}

// Visitor receives walk callbacks in traversal order. Returning an error
// from either method aborts the walk.
type Visitor interface {
	VisitFolder(Folder) error
	VisitFile(File) error
}

// Walker performs the traversal. It never parallelizes directory
// visits: spec mandates a single-threaded cooperative orchestrator with
// no concurrent graph writers, so file reads and visitor callbacks
// happen strictly in sequence.
type Walker struct {
	fs     afs.Service
	engine *ignore.Engine
	root   string
}

// New builds a Walker rooted at root.
func New(fs afs.Service, engine *ignore.Engine, root string) *Walker {
	return &Walker{fs: fs, engine: engine, root: root}
}

// Walk traverses the tree rooted at w.root, calling v for every folder
// and file not excluded by the ignore engine.
func (w *Walker) Walk(ctx context.Context, v Visitor) error {
	return w.walkDir(ctx, w.root, 0, v)
}

func (w *Walker) walkDir(ctx context.Context, absDir string, level int, v Visitor) error {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		absPath := filepath.Join(absDir, name)

		if entry.IsDir() {
			if w.engine.ShouldSkipDir(name) {
				continue
			}
			rel, _ := filepath.Rel(w.root, absPath)
			if err := v.VisitFolder(Folder{Path: filepath.ToSlash(rel), Name: name, Level: level}); err != nil {
				return err
			}
			if err := w.walkDir(ctx, absPath, level+1, v); err != nil {
				return err
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if w.engine.ShouldSkip(absPath, info.Size()) {
			continue
		}
		rel, _ := filepath.Rel(w.root, absPath)
		if err := v.VisitFile(File{Path: filepath.ToSlash(rel), Name: name, Level: level, Size: info.Size()}); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile reads a file's content through the afs abstraction, allowing
// the walker and downstream extractor to be pointed at non-local
// storage (archives, remote URLs) without code changes.
func (w *Walker) ReadFile(ctx context.Context, relPath string) ([]byte, error) {
	absPath := filepath.Join(w.root, filepath.FromSlash(relPath))
	return w.fs.DownloadWithURL(ctx, absPath)
}
