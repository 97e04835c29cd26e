package golang_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/lang/golang"
)

const sampleSource = `package sample

type Widget struct {
	Name string
}

func (w *Widget) Greet() string {
	return "hello " + w.Name
}

func NewWidget(name string) *Widget {
	return &Widget{Name: name}
}
`

func parseSample(t *testing.T) (*sitter.Tree, []byte) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(golang.Rules.Language())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(sampleSource))
	require.NoError(t, err)
	return tree, []byte(sampleSource)
}

func TestIsDefinitionNode(t *testing.T) {
	tree, _ := parseSample(t)
	root := tree.RootNode()

	var found []string
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if golang.Rules.IsDefinitionNode(n) {
			found = append(found, n.Type())
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	assert.Contains(t, found, "type_spec")
	assert.Contains(t, found, "method_declaration")
	assert.Contains(t, found, "function_declaration")
}

func TestKindOf(t *testing.T) {
	tree, _ := parseSample(t)
	root := tree.RootNode()

	var kinds []graphstore.DefinitionKind
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if golang.Rules.IsDefinitionNode(n) {
			kinds = append(kinds, golang.Rules.KindOf(n))
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	assert.Contains(t, kinds, graphstore.KindClass)
	assert.Contains(t, kinds, graphstore.KindFunction)
}

func TestIdentifierOf(t *testing.T) {
	tree, src := parseSample(t)
	root := tree.RootNode()

	var names []string
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if golang.Rules.IsDefinitionNode(n) {
			id, err := golang.Rules.IdentifierOf(n)
			require.NoError(t, err)
			names = append(names, id.Content(src))
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "Greet")
	assert.Contains(t, names, "NewWidget")
}
