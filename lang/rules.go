// Package lang defines the per-language extraction contract and a
// registry dispatching file extensions to a concrete Rules value: a
// struct of closures rather than an interface with a virtual base,
// since no language here needs mutable per-instance state.
package lang

import (
	"errors"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/codegraph/graphstore"
)

// ErrIdentifierNotFound is returned by Rules.IdentifierOf when a
// definition node has no identifiable name — an in-band signal, not a
// panic.
var ErrIdentifierNotFound = errors.New("lang: identifier node not found")

// ErrBodyNotFound names the missing-body signal. Rules.BodyOf reports a
// missing body through its false second result and does not return this
// error.
var ErrBodyNotFound = errors.New("lang: body node not found")

// Rules is the full per-language extraction contract, implemented as a
// struct of closures per the accept-interfaces/explicit-values style:
// no shared mutable state, no inheritance, easy to compose partially
// (see Fallback).
type Rules struct {
	LanguageName string
	Extensions   []string

	Language func() *sitter.Language

	// IsDefinitionNode reports whether n should produce a CLASS or
	// FUNCTION node.
	IsDefinitionNode func(n *sitter.Node) bool

	// KindOf classifies a definition node already approved by
	// IsDefinitionNode.
	KindOf func(n *sitter.Node) graphstore.DefinitionKind

	// IdentifierOf returns the name node of a definition node.
	IdentifierOf func(n *sitter.Node) (*sitter.Node, error)

	// BodyOf returns the body node of a definition node, if any.
	BodyOf func(n *sitter.Node) (*sitter.Node, bool)

	// ClassifyReference reports the edge kind implied by one ancestor
	// of a reference's landing node, if that ancestor's type is in the
	// language's relationship table. The ancestor walk itself (innermost
	// first, first match wins, as in
	// LanguageDefinitions._traverse_and_find_relationships) is done by
	// the caller, resolve.classify.
	ClassifyReference func(targetKind graphstore.DefinitionKind, ancestor *sitter.Node) (graphstore.EdgeKind, bool)

	// ControlFlowTypes / ConsequenceTypes back the complexity stats
	// supplement (extract/complexity.go).
	ControlFlowTypes map[string]bool
	ConsequenceTypes map[string]bool
}

// Fallback is used for files whose extension is unrecognized, or whose
// content could not be parsed. It creates no definitions.
var Fallback = Rules{
	LanguageName:     "raw",
	IsDefinitionNode: func(*sitter.Node) bool { return false },
	KindOf:           func(*sitter.Node) graphstore.DefinitionKind { return "" },
	IdentifierOf: func(*sitter.Node) (*sitter.Node, error) {
		return nil, ErrIdentifierNotFound
	},
	BodyOf: func(*sitter.Node) (*sitter.Node, bool) { return nil, false },
	ClassifyReference: func(graphstore.DefinitionKind, *sitter.Node) (graphstore.EdgeKind, bool) {
		return "", false
	},
}

// Registry dispatches a file extension to its Rules.
type Registry struct {
	byExt     map[string]*Rules
	overrides map[string]*Rules
}

// NewRegistry builds a Registry from a set of Rules, indexing each by
// every extension it declares.
func NewRegistry(rules ...*Rules) *Registry {
	r := &Registry{byExt: make(map[string]*Rules), overrides: make(map[string]*Rules)}
	for _, ru := range rules {
		for _, ext := range ru.Extensions {
			r.byExt[ext] = ru
		}
	}
	return r
}

// Override forces extension to resolve to rules regardless of any
// language's own declared extension list, resolving ambiguous
// extensions shared by more than one language (spec open question 4).
func (r *Registry) Override(extension string, rules *Rules) {
	r.overrides[extension] = rules
}

// For returns the Rules registered for extension, or Fallback if none
// matches.
func (r *Registry) For(extension string) *Rules {
	if ru, ok := r.overrides[extension]; ok {
		return ru
	}
	if ru, ok := r.byExt[extension]; ok {
		return ru
	}
	return &Fallback
}
