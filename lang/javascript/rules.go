// Package javascript supplies tree-sitter based extraction rules for
// JS/JSX source: definition node types, class/function classification,
// and the relationship tables a reference's ancestor chain is matched
// against (import specifiers/clauses, call and new expressions, class
// heritage, variable declarators, type annotations).
package javascript

import (
	sitter "github.com/smacker/go-tree-sitter"
	tsjs "github.com/smacker/go-tree-sitter/javascript"

	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/lang"
)

var plainDefinitionTypes = map[string]bool{
	"class_declaration":     true,
	"function_declaration":  true,
	"method_definition":     true,
	"interface_declaration": true,
}

func isArrowVariableDeclarator(n *sitter.Node) bool {
	if n.Type() != "variable_declarator" {
		return false
	}
	value := n.ChildByFieldName("value")
	return value != nil && value.Type() == "arrow_function"
}

var classRelations = map[string]graphstore.EdgeKind{
	"import_specifier":    graphstore.EdgeImports,
	"import_clause":       graphstore.EdgeImports,
	"new_expression":      graphstore.EdgeInstantiates,
	"class_heritage":      graphstore.EdgeInherits,
	"variable_declarator": graphstore.EdgeAssigns,
	"type_annotation":     graphstore.EdgeTypes,
}

var functionRelations = map[string]graphstore.EdgeKind{
	"import_specifier":    graphstore.EdgeImports,
	"import_clause":       graphstore.EdgeImports,
	"call_expression":     graphstore.EdgeCalls,
	"variable_declarator": graphstore.EdgeAssigns,
}

var controlFlowTypes = map[string]bool{
	"for_statement":   true,
	"if_statement":    true,
	"while_statement": true,
	"else_clause":     true,
}

var consequenceTypes = map[string]bool{
	"statement_block": true,
}

// Rules is the JS/JSX LanguageRules value.
var Rules = lang.Rules{
	LanguageName: "javascript",
	Extensions:   []string{".js", ".jsx"},
	Language:     tsjs.GetLanguage,

	IsDefinitionNode: func(n *sitter.Node) bool {
		if n.Type() == "variable_declarator" {
			return isArrowVariableDeclarator(n)
		}
		return plainDefinitionTypes[n.Type()]
	},

	KindOf: func(n *sitter.Node) graphstore.DefinitionKind {
		if n.Type() == "variable_declarator" {
			return graphstore.KindFunction
		}
		switch n.Type() {
		case "class_declaration", "interface_declaration":
			return graphstore.KindClass
		case "function_declaration", "method_definition":
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
		if isArrowVariableDeclarator(n) {
			value := n.ChildByFieldName("value")
			if value == nil {
				return nil, false
			}
			body := value.ChildByFieldName("body")
			return body, body != nil
		}
		if b := n.ChildByFieldName("body"); b != nil {
			return b, true
		}
		return nil, false
	},

	ClassifyReference: func(targetKind graphstore.DefinitionKind, ancestor *sitter.Node) (graphstore.EdgeKind, bool) {
		table := functionRelations
		if targetKind == graphstore.KindClass {
			table = classRelations
		}
		kind, ok := table[ancestor.Type()]
		return kind, ok
	},

	ControlFlowTypes: controlFlowTypes,
	ConsequenceTypes: consequenceTypes,
}
