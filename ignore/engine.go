// Package ignore implements gitwildmatch-style path exclusion, layering
// nested .gitignore files, an auxiliary ignore file, a directory
// deny-list and a file-size threshold.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// defaultDenyDirs are always skipped regardless of any pattern file,
// matching the hard-coded skip list real codebase tools carry alongside
// gitignore support.
var defaultDenyDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
	"__pycache__":  true,
	".mypy_cache":  true,
}

const defaultMaxFileSizeMiB = 0.8

// Engine evaluates whether a path should be excluded from a walk.
type Engine struct {
	root string

	// gitignores maps an absolute directory path to the compiled
	// pattern set rooted there. Only gitignore files whose directory is
	// an ancestor of a candidate path apply to it.
	gitignores map[string]*gitignore.GitIgnore

	auxiliary *gitignore.GitIgnore
	auxiliaryGlobs []string

	denyDirs     map[string]bool
	maxFileBytes int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithAuxiliaryIgnoreFile loads an additional ignore file (gitwildmatch
// syntax) applied repository-wide, in addition to any .gitignore files.
func WithAuxiliaryIgnoreFile(path string) Option {
	return func(e *Engine) {
		if path == "" {
			return
		}
		if gi, err := gitignore.CompileIgnoreFile(path); err == nil {
			e.auxiliary = gi
		}
	}
}

// WithAuxiliaryGlobs adds doublestar glob patterns (not gitwildmatch)
// evaluated in addition to every other rule, for config-supplied extra
// excludes that are not naturally expressed as gitignore lines.
func WithAuxiliaryGlobs(globs ...string) Option {
	return func(e *Engine) {
		e.auxiliaryGlobs = append(e.auxiliaryGlobs, globs...)
	}
}

// WithMaxFileSizeMiB overrides the default 0.8 MiB size threshold.
func WithMaxFileSizeMiB(mib float64) Option {
	return func(e *Engine) {
		e.maxFileBytes = int64(mib * 1024 * 1024)
	}
}

// WithDenyDirs adds directory basenames to the hard skip list.
func WithDenyDirs(names ...string) Option {
	return func(e *Engine) {
		for _, n := range names {
			e.denyDirs[n] = true
		}
	}
}

// New builds an Engine rooted at root, discovering every .gitignore file
// under root up front.
func New(root string, useGitignore bool, opts ...Option) (*Engine, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		root:         absRoot,
		gitignores:   make(map[string]*gitignore.GitIgnore),
		denyDirs:     make(map[string]bool, len(defaultDenyDirs)),
		maxFileBytes: int64(defaultMaxFileSizeMiB * 1024 * 1024),
	}
	for k := range defaultDenyDirs {
		e.denyDirs[k] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	if useGitignore {
		if err := e.loadGitignoreFiles(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) loadGitignoreFiles() error {
	return filepath.Walk(e.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // best effort, matches the original's broad try/except
		}
		if info.IsDir() {
			if e.denyDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != ".gitignore" {
			return nil
		}
		lines, err := readLines(path)
		if err != nil || len(lines) == 0 {
			return nil
		}
		gi := gitignore.CompileIgnoreLines(lines...)
		e.gitignores[filepath.Dir(path)] = gi
		return nil
	})
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

// ShouldSkipDir reports whether a directory should never be entered.
// Unlike file exclusion, directories are pruned only by the hard
// deny-list: a pattern match alone never prunes a directory, because a
// deeper, more specific pattern could still negate it (the same
// decision the original project walker documents explicitly).
func (e *Engine) ShouldSkipDir(name string) bool {
	return e.denyDirs[name]
}

// ShouldSkip reports whether path (absolute) should be excluded from
// the walk, applying nested .gitignore scoping, the auxiliary ignore
// file, auxiliary globs and the size threshold.
func (e *Engine) ShouldSkip(absPath string, size int64) bool {
	if e.maxFileBytes > 0 && size > e.maxFileBytes {
		return true
	}
	for dir, gi := range e.gitignores {
		if !withinDir(absPath, dir) {
			continue
		}
		rel, err := filepath.Rel(dir, absPath)
		if err != nil {
			continue
		}
		if gi.MatchesPath(rel) {
			return true
		}
	}
	if e.auxiliary != nil {
		rel, err := filepath.Rel(e.root, absPath)
		if err == nil && e.auxiliary.MatchesPath(rel) {
			return true
		}
	}
	for _, glob := range e.auxiliaryGlobs {
		rel, err := filepath.Rel(e.root, absPath)
		if err != nil {
			rel = absPath
		}
		if ok, _ := doublestar.PathMatch(glob, rel); ok {
			return true
		}
	}
	return false
}

func withinDir(path, dir string) bool {
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}
