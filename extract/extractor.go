// Package extract walks a parsed syntax tree and produces Definition
// nodes via a preorder, context-stack traversal: push a node onto the
// context stack when it qualifies as a definition, recurse into its
// named children, pop on return.
package extract

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/identity"
	"github.com/viant/codegraph/lang"
)

// ParsedFile owns the tree-sitter tree for one file's contents. The
// tree (and every *sitter.Node handle derived from it) is scoped to
// this struct's lifetime; nothing downstream of Definition retains a
// reference to it, so syntax handles never leak into the serializable
// graph (invariant 6).
type ParsedFile struct {
	Path   string
	Source []byte
	Tree   *sitter.Tree
	Rules  *lang.Rules
}

// Close releases the underlying tree-sitter tree.
func (p *ParsedFile) Close() {
	if p.Tree != nil {
		p.Tree.Close()
	}
}

// DefinitionHandle pairs an emitted Definition with the syntax node it
// came from, scoped to the call that produced it — never stored in the
// Store.
type DefinitionHandle struct {
	Definition *graphstore.Definition
	Node       *sitter.Node
}

// Parse parses src with rules' grammar and returns a ParsedFile. Binary
// or otherwise unparseable content should be routed through
// lang.Fallback by the caller before reaching here.
func Parse(ctx context.Context, path string, src []byte, rules *lang.Rules) (*ParsedFile, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(rules.Language())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &ParsedFile{Path: path, Source: src, Tree: tree, Rules: rules}, nil
}

// Extractor builds Definition nodes (and their CLASS_DEFINITION/
// FUNCTION_DEFINITION edges) from a ParsedFile.
type Extractor struct {
	store *graphstore.Store
}

// New returns an Extractor writing into store.
func New(store *graphstore.Store) *Extractor {
	return &Extractor{store: store}
}

// ExtractFile walks pf's tree and adds Definition nodes to the store,
// parented under fileID. It returns every handle created, in traversal
// order, for the reference resolver to scan afterwards.
func (e *Extractor) ExtractFile(pf *ParsedFile, env identity.Environment, folderPath, fileID string) []DefinitionHandle {
	var handles []DefinitionHandle
	root := pf.Tree.RootNode()
	fileRelPath := identity.NewBuilder(env).File(pf.Path).String()
	e.traverse(pf, root, env, folderPath, fileID, fileRelPath, 0, &handles)
	return handles
}

// traverse carries the ancestor chain down two ways: parentID (the
// store identifier edges attach to) and parentPath (the accumulated
// environment-free identifier path, e.g. "/pkg/file.go#Widget"), so a
// nested definition's own identifier is computed over its full
// ancestor chain rather than just the enclosing file.
func (e *Extractor) traverse(pf *ParsedFile, n *sitter.Node, env identity.Environment, folderPath, parentID, parentPath string, level int, handles *[]DefinitionHandle) {
	currentParent := parentID
	currentPath := parentPath
	currentLevel := level

	if pf.Rules.IsDefinitionNode(n) {
		if def, ok := e.buildDefinition(pf, n, env, parentID, parentPath, level); ok {
			e.store.AddDefinition(def)
			kind := graphstore.EdgeClassDefinition
			if def.Kind == graphstore.KindFunction {
				kind = graphstore.EdgeFunctionDefinition
			}
			e.store.AddEdge(&graphstore.Edge{SourceID: parentID, TargetID: def.ID, Kind: kind})
			*handles = append(*handles, DefinitionHandle{Definition: def, Node: n})
			currentParent = def.ID
			currentPath = def.RelativePath
			currentLevel = level + 1
		}
	}

	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		e.traverse(pf, n.NamedChild(i), env, folderPath, currentParent, currentPath, currentLevel, handles)
	}
}

func (e *Extractor) buildDefinition(pf *ParsedFile, n *sitter.Node, env identity.Environment, parentID, parentPath string, level int) (*graphstore.Definition, bool) {
	idNode, err := pf.Rules.IdentifierOf(n)
	if err != nil {
		// No identifier: the node contributes no definition.
		return nil, false
	}
	name := idNode.Content(pf.Source)
	kind := pf.Rules.KindOf(n)

	b := identity.NewBuilderFromPath(env, parentPath)
	if kind == graphstore.KindClass {
		b.Class(name)
	} else {
		b.Function(name)
	}
	hashedID, err := b.HashedIdentifier()
	if err != nil {
		return nil, false
	}
	relativePath := b.String()
	hashedRelID, err := b.HashedRelativeIdentifier()
	if err != nil {
		return nil, false
	}

	def := &graphstore.Definition{
		ID:             hashedID,
		Name:           name,
		Kind:           kind,
		FilePath:       pf.Path,
		ParentID:       parentID,
		Level:          level,
		RelativePath:   relativePath,
		HashedID:       hashedRelID,
		DiffIdentifier: env.DiffIdentifier,
		Location: graphstore.Location{
			Start:     int(n.StartByte()),
			End:       int(n.EndByte()),
			StartLine: int(n.StartPoint().Row),
			EndLine:   int(n.EndPoint().Row),
			Raw:       n.Content(pf.Source),
		},
		Attributes: map[string]interface{}{},
	}

	if kind == graphstore.KindFunction {
		stats := Complexity(n, pf.Rules)
		def.Attributes["stats_parameter_count"] = stats.ParameterCount
		def.Attributes["stats_branch_count"] = stats.BranchCount
		def.Attributes["stats_max_indentation"] = MaxIndentation(def.Location.Raw)
	}

	return def, true
}
