// Package golang supplies tree-sitter based extraction rules for Go
// source: which grammar node types are definitions, how each classifies
// (class-like vs function-like), and which surrounding node types a
// reference to one should be classified against (import, call,
// instantiation, type use).
package golang

import (
	sitter "github.com/smacker/go-tree-sitter"
	tsgo "github.com/smacker/go-tree-sitter/golang"

	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/lang"
)

var definitionTypes = map[string]bool{
	"type_spec":           true,
	"type_alias":          true,
	"method_declaration":  true,
	"function_declaration": true,
}

// classTypeRelations and funcTypeRelations are lifted directly from
// GoDefinitions._get_relationship_types_by_label.
var classTypeRelations = map[string]graphstore.EdgeKind{
	"import_declaration": graphstore.EdgeImports,
	"field_declaration":  graphstore.EdgeTypes,
	"composite_literal":  graphstore.EdgeInstantiates,
}

var funcTypeRelations = map[string]graphstore.EdgeKind{
	"import_declaration": graphstore.EdgeImports,
	"call_expression":    graphstore.EdgeCalls,
}

var controlFlowTypes = map[string]bool{
	"if_statement":        true,
	"for_statement":       true,
	"switch_statement":    true,
	"type_switch_statement": true,
	"select_statement":    true,
}

var consequenceTypes = map[string]bool{
	"block": true,
}

// Rules is the Go LanguageRules value, registered under the ".go"
// extension.
var Rules = lang.Rules{
	LanguageName: "go",
	Extensions:   []string{".go"},
	Language:     tsgo.GetLanguage,

	IsDefinitionNode: func(n *sitter.Node) bool {
		return definitionTypes[n.Type()]
	},

	KindOf: func(n *sitter.Node) graphstore.DefinitionKind {
		switch n.Type() {
		case "type_spec", "type_alias":
			return graphstore.KindClass
		case "method_declaration", "function_declaration":
			return graphstore.KindFunction
		}
		return ""
	},

	IdentifierOf: func(n *sitter.Node) (*sitter.Node, error) {
		if id := n.ChildByFieldName("name"); id != nil {
			return id, nil
		}
		return nil, lang.ErrIdentifierNotFound
	},

	BodyOf: func(n *sitter.Node) (*sitter.Node, bool) {
		if b := n.ChildByFieldName("body"); b != nil {
			return b, true
		}
		return nil, false
	},

	ClassifyReference: func(targetKind graphstore.DefinitionKind, ancestor *sitter.Node) (graphstore.EdgeKind, bool) {
		table := funcTypeRelations
		if targetKind == graphstore.KindClass {
			table = classTypeRelations
		}
		kind, ok := table[ancestor.Type()]
		return kind, ok
	},

	ControlFlowTypes: controlFlowTypes,
	ConsequenceTypes: consequenceTypes,
}
