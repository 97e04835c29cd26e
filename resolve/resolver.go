// Package resolve turns LSP reference queries into typed CALLS/IMPORTS/
// INHERITS/... edges: find the "landing node" at the reference's point,
// walk its ancestors looking for a grammar node type the target's
// language table recognizes, and default to USES when nothing matches.
package resolve

import (
	"context"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/codegraph/extract"
	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/lang"
)

// LSPClient is the contract the resolver drives; lsppool.Pool
// implements it via thin adapter methods in orchestrator.
type LSPClient interface {
	References(ctx context.Context, language, path string, line, character int) ([]Reference, error)
}

// Reference mirrors lsppool.Reference without importing lsppool
// directly, keeping this package usable against any LSP client
// implementation.
type Reference struct {
	Path      string
	Line      int
	Character int
}

// FileSource supplies the parsed tree and source bytes for a path, so
// the resolver can locate landing nodes in files other than the one
// currently being processed (a reference can land in any file).
type FileSource interface {
	ParsedFile(path string) (*extract.ParsedFile, bool)
}

// Resolver creates edges in store for every LSP reference it resolves.
type Resolver struct {
	store    *graphstore.Store
	lsp      LSPClient
	registry *lang.Registry
	files    FileSource
	log      *slog.Logger
}

// New returns a Resolver.
func New(store *graphstore.Store, lsp LSPClient, registry *lang.Registry, files FileSource, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{store: store, lsp: lsp, registry: registry, files: files, log: log}
}

// ResolveDefinition queries references to def's identifier node and adds
// an edge for every reference site that is not def itself.
func (r *Resolver) ResolveDefinition(ctx context.Context, def *graphstore.Definition, language string, defLine, defChar int) error {
	refs, err := r.lsp.References(ctx, language, def.FilePath, defLine, defChar)
	if err != nil {
		r.log.Debug("references query failed", "path", def.FilePath, "name", def.Name, "err", err)
		return nil // absorbed: a failed query degrades to "no references found", not a fatal error
	}

	for _, ref := range refs {
		r.resolveOne(def, ref)
	}
	return nil
}

func (r *Resolver) resolveOne(def *graphstore.Definition, ref Reference) {
	pf, ok := r.files.ParsedFile(ref.Path)
	if !ok {
		// Reference lands outside the walked tree: drop the edge rather
		// than emit one with a dangling endpoint (open question 2).
		r.log.Debug("dangling reference dropped", "target", def.Name, "path", ref.Path)
		return
	}

	landing := landingNode(pf, ref.Line, ref.Character)
	if landing == nil {
		return
	}

	// The edge source is the smallest enclosing Definition, not the
	// containing file: a reference inside method B.greet should connect
	// B.greet to the target, not B's file as a whole.
	sourceID, ok := r.enclosingDefinitionID(pf, landing)
	if !ok {
		refFileNode := r.store.FileByPath(pf.Path)
		if refFileNode == nil {
			return
		}
		sourceID = refFileNode.ID
	}

	// Self-reference: the reference's enclosing definition is def
	// itself. Skip it.
	if sourceID == def.ID {
		return
	}

	kind, scopeNode := classify(def.Kind, landing, pf.Rules)
	scopeText := ""
	if scopeNode != nil {
		scopeText = scopeNode.Content(pf.Source)
	}

	r.store.AddEdge(&graphstore.Edge{
		SourceID:  sourceID,
		TargetID:  def.ID,
		Kind:      kind,
		ScopeText: scopeText,
	})
}

// enclosingDefinitionID returns the ID of the smallest Definition in
// pf's file whose byte range contains landing, or ok=false if landing
// sits outside every known definition (e.g. a package-level reference).
func (r *Resolver) enclosingDefinitionID(pf *extract.ParsedFile, landing *sitter.Node) (string, bool) {
	var best *graphstore.Definition
	start, end := int(landing.StartByte()), int(landing.EndByte())
	for _, d := range r.store.Definitions() {
		if d.FilePath != pf.Path {
			continue
		}
		if start < d.Location.Start || end > d.Location.End {
			continue
		}
		if best == nil || (d.Location.End-d.Location.Start) < (best.Location.End-best.Location.Start) {
			best = d
		}
	}
	if best == nil {
		return "", false
	}
	return best.ID, true
}

// landingNode finds the smallest named node covering (line, character)
// in pf's tree. character is in UTF-16 code units, as LSP reports it,
// and is converted to the byte column tree-sitter uses.
func landingNode(pf *extract.ParsedFile, line, character int) *sitter.Node {
	root := pf.Tree.RootNode()
	col := character
	if lines := strings.Split(string(pf.Source), "\n"); line >= 0 && line < len(lines) {
		col = extract.UTF16ColumnToByte(lines[line], character)
	}
	point := sitter.Point{Row: uint32(line), Column: uint32(col)}
	return root.NamedDescendantForPointRange(point, point)
}

// classify walks ancestors of landing (innermost first) looking for a
// grammar node type the target kind's relationship table recognizes.
// First match wins; USES is the default when nothing matches.
func classify(targetKind graphstore.DefinitionKind, landing *sitter.Node, rules *lang.Rules) (graphstore.EdgeKind, *sitter.Node) {
	for n := landing; n != nil; n = n.Parent() {
		if kind, ok := rules.ClassifyReference(targetKind, n); ok {
			return kind, n
		}
	}
	return graphstore.EdgeUses, nil
}
