// Package orchestrator sequences the walker, syntax extractor, and
// reference resolver into one run and exports the resulting graph,
// with an optional hierarchy-only mode that skips reference
// resolution entirely.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"

	"github.com/viant/codegraph/extract"
	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/identity"
	"github.com/viant/codegraph/ignore"
	"github.com/viant/codegraph/lang"
	"github.com/viant/codegraph/resolve"
	"github.com/viant/codegraph/walker"
)

// Config mirrors the configuration table in SPEC_FULL.md §6.
type Config struct {
	RootPath            string
	ExtensionsToSkip    []string
	NamesToSkip         []string
	MaxFileSizeMiB      float64
	UseGitignore        bool
	AuxiliaryIgnorePath string
	HierarchyOnly       bool
	EnvironmentTag      string
	DiffIdentifier      string
}

// Option configures an Orchestrator, following the functional-option
// pattern used throughout this module's constructors.
type Option func(*Orchestrator)

// WithLogger sets the structured logger used for progress and degraded
// mode messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithLSPClient installs the client used to resolve references. Without
// one, Run behaves as if HierarchyOnly were set.
func WithLSPClient(c resolve.LSPClient) Option {
	return func(o *Orchestrator) { o.lsp = c }
}

// WithAfs overrides the default local afs.Service, letting the walker
// read from any afs-backed source.
func WithAfs(fs afs.Service) Option {
	return func(o *Orchestrator) { o.fs = fs }
}

// Orchestrator drives one build of the graph.
type Orchestrator struct {
	cfg      Config
	registry *lang.Registry
	fs       afs.Service
	lsp      resolve.LSPClient
	log      *slog.Logger

	store      *graphstore.Store
	extractor  *extract.Extractor
	env        identity.Environment
	parsed     map[string]*extract.ParsedFile
	langOf     map[string]string // file path -> language name, for LSP calls
	pendingDef []pendingDefinition
}

type pendingDefinition struct {
	def      *graphstore.Definition
	language string
	line     int
	char     int
}

// New builds an Orchestrator for cfg, using registry to resolve
// per-extension extraction rules.
func New(cfg Config, registry *lang.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		registry: registry,
		fs:       afs.New(),
		log:      slog.Default(),
		store:    graphstore.New(),
		parsed:   make(map[string]*extract.ParsedFile),
		langOf:   make(map[string]string),
		env:      identity.Environment{Tag: cfg.EnvironmentTag, DiffIdentifier: cfg.DiffIdentifier},
	}
	o.extractor = extract.New(o.store)
	for _, opt := range opts {
		opt(o)
	}
	if o.env.Tag == "" {
		if modPath, err := identity.DetectModulePath(cfg.RootPath); err == nil {
			o.env.Tag = modPath
		}
	}
	return o
}

// Store exposes the graph being built, primarily for diff-mode callers
// that need to run diffgraph transformations after Run.
func (o *Orchestrator) Store() *graphstore.Store { return o.store }

// Environment returns the identity environment this run's identifiers
// were computed under.
func (o *Orchestrator) Environment() identity.Environment { return o.env }

// ParsedFile implements resolve.FileSource.
func (o *Orchestrator) ParsedFile(path string) (*extract.ParsedFile, bool) {
	pf, ok := o.parsed[path]
	return pf, ok
}

// Run walks cfg.RootPath, builds the hierarchy and (unless
// cfg.HierarchyOnly) resolves references, then returns the resulting
// store. The LSP pool, if any, is shut down before returning.
func (o *Orchestrator) Run(ctx context.Context) (*graphstore.Store, error) {
	engine, err := ignore.New(o.cfg.RootPath, o.cfg.UseGitignore,
		ignore.WithAuxiliaryIgnoreFile(o.cfg.AuxiliaryIgnorePath),
		ignore.WithMaxFileSizeMiB(nonZero(o.cfg.MaxFileSizeMiB, 0.8)),
		ignore.WithDenyDirs(o.cfg.NamesToSkip...),
	)
	if err != nil {
		return nil, errors.Wrap(err, "build ignore engine")
	}

	w := walker.New(o.fs, engine, o.cfg.RootPath)
	v := &hierarchyVisitor{o: o, engine: engine, walker: w}
	v.folderIDs = map[string]string{"": o.rootFolderID()}

	if err := w.Walk(ctx, v); err != nil {
		return nil, errors.Wrap(err, "walk project tree")
	}

	if !o.cfg.HierarchyOnly && o.lsp != nil {
		o.resolveReferences(ctx)
	}

	switch c := o.lsp.(type) {
	case PoolClient:
		if c.Pool != nil {
			c.Pool.Shutdown()
		}
	case *PoolClient:
		if c != nil && c.Pool != nil {
			c.Pool.Shutdown()
		}
	}

	for _, pf := range o.parsed {
		pf.Close()
	}

	return o.store, nil
}

func nonZero(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func (o *Orchestrator) rootFolderID() string {
	b := identity.NewBuilder(o.env)
	b.Folder("")
	id, _ := b.HashedIdentifier()
	return id
}

// hierarchyVisitor implements walker.Visitor, creating Folder/File nodes
// and CONTAINS edges, and extracting each file's definitions.
type hierarchyVisitor struct {
	o         *Orchestrator
	engine    *ignore.Engine
	walker    *walker.Walker
	folderIDs map[string]string // relative folder path -> identifier
}

func (v *hierarchyVisitor) folderID(path string) string {
	if id, ok := v.folderIDs[path]; ok {
		return id
	}
	b := identity.NewBuilder(v.o.env)
	b.Folder(path)
	id, _ := b.HashedIdentifier()
	v.folderIDs[path] = id
	return id
}

func (v *hierarchyVisitor) VisitFolder(f walker.Folder) error {
	o := v.o
	id := v.folderID(f.Path)
	parent := v.folderID(filepath.ToSlash(filepath.Dir(f.Path)))
	if filepath.Dir(f.Path) == "." {
		parent = v.folderID("")
	}

	b := identity.NewBuilder(o.env)
	b.Folder(f.Path)
	hashedRelID, _ := b.HashedRelativeIdentifier()

	o.store.AddFolder(&graphstore.Folder{
		ID:             id,
		Path:           f.Path,
		Name:           f.Name,
		Level:          f.Level,
		ParentID:       parent,
		RelativePath:   b.String(),
		HashedID:       hashedRelID,
		DiffIdentifier: o.env.DiffIdentifier,
	})
	o.store.AddEdge(&graphstore.Edge{SourceID: parent, TargetID: id, Kind: graphstore.EdgeContains})
	return nil
}

func (v *hierarchyVisitor) VisitFile(f walker.File) error {
	o := v.o
	ext := filepath.Ext(f.Name)
	rules := o.registry.For(ext)

	parentDir := filepath.ToSlash(filepath.Dir(f.Path))
	if parentDir == "." {
		parentDir = ""
	}
	parentID := v.folderID(parentDir)

	b := identity.NewBuilder(o.env)
	b.File(f.Path)
	fileID, err := b.HashedIdentifier()
	if err != nil {
		return fmt.Errorf("hash file id for %s: %w", f.Path, err)
	}
	hashedRelID, err := b.HashedRelativeIdentifier()
	if err != nil {
		return fmt.Errorf("hash relative file id for %s: %w", f.Path, err)
	}

	raw := rules == &lang.Fallback
	fileNode := &graphstore.File{
		ID:             fileID,
		Path:           f.Path,
		Name:           f.Name,
		Extension:      ext,
		Level:          f.Level,
		ParentID:       parentID,
		Raw:            raw,
		RelativePath:   b.String(),
		HashedID:       hashedRelID,
		DiffIdentifier: o.env.DiffIdentifier,
	}
	o.store.AddFile(fileNode)
	o.store.AddEdge(&graphstore.Edge{SourceID: parentID, TargetID: fileID, Kind: graphstore.EdgeContains})

	if raw {
		return nil
	}

	content, err := v.walker.ReadFile(context.Background(), f.Path)
	if err != nil {
		o.log.Warn("read file failed", "path", f.Path, "err", err)
		return nil
	}

	pf, err := extract.Parse(context.Background(), f.Path, content, rules)
	if err != nil {
		o.log.Warn("parse failed, treating as raw", "path", f.Path, "err", err)
		fileNode.Raw = true
		return nil
	}
	o.parsed[f.Path] = pf
	o.langOf[f.Path] = rules.LanguageName

	handles := o.extractor.ExtractFile(pf, o.env, parentDir, fileID)
	lines := strings.Split(string(content), "\n")
	for _, h := range handles {
		// References are queried against the identifier's own position,
		// not the declaration keyword's: an LSP server has nothing to
		// say about a "func"/"class" token.
		idNode, err := rules.IdentifierOf(h.Node)
		if err != nil {
			continue
		}
		line := int(idNode.StartPoint().Row)
		char := int(idNode.StartPoint().Column)
		if line < len(lines) {
			// tree-sitter columns are bytes; LSP expects UTF-16 code units.
			char = extract.ByteToUTF16Column(lines[line], char)
		}
		o.pendingDef = append(o.pendingDef, pendingDefinition{def: h.Definition, language: rules.LanguageName, line: line, char: char})
	}
	return nil
}

func (o *Orchestrator) resolveReferences(ctx context.Context) {
	resolver := resolve.New(o.store, o.lsp, o.registry, o, o.log)
	total := len(o.pendingDef)
	logEvery := total / 10
	if logEvery == 0 {
		logEvery = 1
	}
	for i, pd := range o.pendingDef {
		if i%logEvery == 0 {
			o.log.Info("resolving references", "progress", i, "total", total)
		}
		if err := resolver.ResolveDefinition(ctx, pd.def, pd.language, pd.line, pd.char); err != nil {
			o.log.Debug("resolve definition failed", "name", pd.def.Name, "err", err)
		}
	}
}
