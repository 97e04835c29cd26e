package resolve_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/codegraph/extract"
	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/lang"
	"github.com/viant/codegraph/lang/golang"
	"github.com/viant/codegraph/resolve"
)

type fakeLSPClient struct {
	refs []resolve.Reference
	err  error
}

func (f *fakeLSPClient) References(ctx context.Context, language, path string, line, character int) ([]resolve.Reference, error) {
	return f.refs, f.err
}

type fakeFileSource struct {
	files map[string]*extract.ParsedFile
}

func (f *fakeFileSource) ParsedFile(path string) (*extract.ParsedFile, bool) {
	pf, ok := f.files[path]
	return pf, ok
}

func mustParse(t *testing.T, path, src string) *extract.ParsedFile {
	t.Helper()
	pf, err := extract.Parse(context.Background(), path, []byte(src), &golang.Rules)
	require.NoError(t, err)
	return pf
}

const widgetSource = `package sample

type Widget struct {
	Name string
}
`

const callerSource = `package sample

func Caller() {
	w := Widget{Name: "x"}
	_ = w
}
`

func TestResolveDefinitionAddsInstantiatesEdge(t *testing.T) {
	store := graphstore.New()
	widgetPF := mustParse(t, "widget.go", widgetSource)
	callerPF := mustParse(t, "caller.go", callerSource)
	defer widgetPF.Close()
	defer callerPF.Close()

	store.AddFile(&graphstore.File{ID: "widget-file", Path: "widget.go"})
	store.AddFile(&graphstore.File{ID: "caller-file", Path: "caller.go"})

	callerFn := callerPF.Tree.RootNode().NamedChild(1) // child 0 is the package_clause
	callerDef := &graphstore.Definition{
		ID:       "caller-def",
		Name:     "Caller",
		Kind:     graphstore.KindFunction,
		FilePath: "caller.go",
		Location: graphstore.Location{Start: int(callerFn.StartByte()), End: int(callerFn.EndByte())},
	}
	store.AddDefinition(callerDef)

	def := &graphstore.Definition{
		ID:       "widget-def",
		Name:     "Widget",
		Kind:     graphstore.KindClass,
		FilePath: "widget.go",
		Location: graphstore.Location{Start: 0, End: 0},
	}

	lsp := &fakeLSPClient{refs: []resolve.Reference{
		{Path: "caller.go", Line: 3, Character: 6}, // inside "Widget{Name: "x"}", within Caller's body
	}}
	files := &fakeFileSource{files: map[string]*extract.ParsedFile{
		"widget.go": widgetPF,
		"caller.go": callerPF,
	}}

	registry := lang.NewRegistry(&golang.Rules)
	r := resolve.New(store, lsp, registry, files, nil)

	err := r.ResolveDefinition(context.Background(), def, "go", 2, 5)
	require.NoError(t, err)

	edges := store.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, "caller-def", edges[0].SourceID)
	assert.Equal(t, "widget-def", edges[0].TargetID)
	assert.Equal(t, graphstore.EdgeInstantiates, edges[0].Kind)
}

func TestResolveDefinitionDropsDanglingReference(t *testing.T) {
	store := graphstore.New()
	def := &graphstore.Definition{ID: "widget-def", Name: "Widget", Kind: graphstore.KindClass, FilePath: "widget.go"}

	lsp := &fakeLSPClient{refs: []resolve.Reference{
		{Path: "unknown.go", Line: 0, Character: 0},
	}}
	files := &fakeFileSource{files: map[string]*extract.ParsedFile{}}
	registry := lang.NewRegistry(&golang.Rules)
	r := resolve.New(store, lsp, registry, files, nil)

	err := r.ResolveDefinition(context.Background(), def, "go", 2, 5)
	require.NoError(t, err)
	assert.Empty(t, store.Edges())
}

func TestResolveDefinitionSkipsSelfReference(t *testing.T) {
	store := graphstore.New()
	widgetPF := mustParse(t, "widget.go", widgetSource)
	defer widgetPF.Close()

	store.AddFile(&graphstore.File{ID: "widget-file", Path: "widget.go"})

	def := &graphstore.Definition{
		ID:       "widget-def",
		Name:     "Widget",
		Kind:     graphstore.KindClass,
		FilePath: "widget.go",
		Location: graphstore.Location{Start: 0, End: len(widgetSource)},
	}
	// def must be registered so enclosingDefinitionID can find it as the
	// smallest enclosing Definition covering the reference below.
	store.AddDefinition(def)

	lsp := &fakeLSPClient{refs: []resolve.Reference{
		{Path: "widget.go", Line: 2, Character: 5}, // lands inside the type_spec itself
	}}
	files := &fakeFileSource{files: map[string]*extract.ParsedFile{"widget.go": widgetPF}}
	registry := lang.NewRegistry(&golang.Rules)
	r := resolve.New(store, lsp, registry, files, nil)

	err := r.ResolveDefinition(context.Background(), def, "go", 2, 5)
	require.NoError(t, err)
	assert.Empty(t, store.Edges())
}

func TestResolveDefinitionQueryErrorIsAbsorbed(t *testing.T) {
	store := graphstore.New()
	def := &graphstore.Definition{ID: "widget-def", FilePath: "widget.go"}
	lsp := &fakeLSPClient{err: assert.AnError}
	files := &fakeFileSource{files: map[string]*extract.ParsedFile{}}
	registry := lang.NewRegistry(&golang.Rules)
	r := resolve.New(store, lsp, registry, files, nil)

	err := r.ResolveDefinition(context.Background(), def, "go", 0, 0)
	assert.NoError(t, err)
	assert.Empty(t, store.Edges())
}
