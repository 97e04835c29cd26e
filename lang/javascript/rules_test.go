package javascript_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/lang/javascript"
)

const sampleSource = `class Widget {
	greet() {
		return "hello";
	}
}

function makeWidget(name) {
	return new Widget(name);
}

const arrowGreet = () => {
	return "hi";
};
`

func parseSample(t *testing.T) (*sitter.Tree, []byte) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.Rules.Language())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(sampleSource))
	require.NoError(t, err)
	return tree, []byte(sampleSource)
}

func walkDefinitions(root *sitter.Node, visit func(*sitter.Node)) {
	if javascript.Rules.IsDefinitionNode(root) {
		visit(root)
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		walkDefinitions(root.NamedChild(i), visit)
	}
}

func TestIsDefinitionNode(t *testing.T) {
	tree, _ := parseSample(t)

	var found []string
	walkDefinitions(tree.RootNode(), func(n *sitter.Node) { found = append(found, n.Type()) })

	assert.Contains(t, found, "class_declaration")
	assert.Contains(t, found, "method_definition")
	assert.Contains(t, found, "function_declaration")
	assert.Contains(t, found, "variable_declarator") // arrowGreet
}

func TestKindOf(t *testing.T) {
	tree, _ := parseSample(t)

	var kinds []graphstore.DefinitionKind
	walkDefinitions(tree.RootNode(), func(n *sitter.Node) { kinds = append(kinds, javascript.Rules.KindOf(n)) })

	assert.Contains(t, kinds, graphstore.KindClass)
	assert.Contains(t, kinds, graphstore.KindFunction)
}

func TestIdentifierOf(t *testing.T) {
	tree, src := parseSample(t)

	var names []string
	walkDefinitions(tree.RootNode(), func(n *sitter.Node) {
		id, err := javascript.Rules.IdentifierOf(n)
		require.NoError(t, err)
		names = append(names, id.Content(src))
	})

	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "greet")
	assert.Contains(t, names, "makeWidget")
	assert.Contains(t, names, "arrowGreet")
}
