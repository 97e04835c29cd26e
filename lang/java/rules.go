// Package java supplies tree-sitter based extraction rules for Java
// source: class/interface/enum/annotation type declarations classify as
// CLASS-kind definitions, method and constructor declarations as
// FUNCTION-kind. Package and import declarations produce no definition.
package java

import (
	sitter "github.com/smacker/go-tree-sitter"
	tsjava "github.com/smacker/go-tree-sitter/java"

	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/lang"
)

var classTypes = map[string]bool{
	"class_declaration":             true,
	"interface_declaration":         true,
	"enum_declaration":              true,
	"annotation_type_declaration":   true,
}

var functionTypes = map[string]bool{
	"method_declaration":      true,
	"constructor_declaration": true,
}

var classRelations = map[string]graphstore.EdgeKind{
	"import_declaration":        graphstore.EdgeImports,
	"superclass":                graphstore.EdgeInherits,
	"super_interfaces":          graphstore.EdgeInherits,
	"field_declaration":         graphstore.EdgeTypes,
	"object_creation_expression": graphstore.EdgeInstantiates,
}

var functionRelations = map[string]graphstore.EdgeKind{
	"import_declaration":        graphstore.EdgeImports,
	"method_invocation":         graphstore.EdgeCalls,
	"object_creation_expression": graphstore.EdgeInstantiates,
}

var controlFlowTypes = map[string]bool{
	"if_statement":      true,
	"for_statement":     true,
	"while_statement":   true,
	"switch_expression": true,
}

var consequenceTypes = map[string]bool{
	"block": true,
}

// Rules is the Java LanguageRules value.
var Rules = lang.Rules{
	LanguageName: "java",
	Extensions:   []string{".java"},
	Language:     tsjava.GetLanguage,

	IsDefinitionNode: func(n *sitter.Node) bool {
		return classTypes[n.Type()] || functionTypes[n.Type()]
	},

	KindOf: func(n *sitter.Node) graphstore.DefinitionKind {
		if classTypes[n.Type()] {
			return graphstore.KindClass
		}
		if functionTypes[n.Type()] {
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
