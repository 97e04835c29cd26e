// Package graphstore holds the typed property graph produced by a run:
// folders, files, definitions and the edges between them, plus the
// indices and export logic used to serialize it.
package graphstore

// DefinitionKind labels what kind of syntax construct a Definition node
// represents.
type DefinitionKind string

const (
	KindClass    DefinitionKind = "CLASS"
	KindFunction DefinitionKind = "FUNCTION"
)

// EdgeKind enumerates the relationship types the graph can carry.
type EdgeKind string

const (
	EdgeContains           EdgeKind = "CONTAINS"
	EdgeFunctionDefinition EdgeKind = "FUNCTION_DEFINITION"
	EdgeClassDefinition    EdgeKind = "CLASS_DEFINITION"
	EdgeImports            EdgeKind = "IMPORTS"
	EdgeCalls              EdgeKind = "CALLS"
	EdgeInherits           EdgeKind = "INHERITS"
	EdgeInstantiates       EdgeKind = "INSTANTIATES"
	EdgeTypes              EdgeKind = "TYPES"
	EdgeAssigns            EdgeKind = "ASSIGNS"
	EdgeUses               EdgeKind = "USES"
	EdgeModified           EdgeKind = "MODIFIED"
	EdgeAdded              EdgeKind = "ADDED"
	EdgeDeleted            EdgeKind = "DELETED"
)

// Location records the byte-offset span, line span and raw text of a
// syntax node.
type Location struct {
	Start     int
	End       int
	StartLine int
	EndLine   int
	Raw       string
}

// NodeLabel is the broad category an exported node falls into.
type NodeLabel string

const (
	LabelFolder     NodeLabel = "FOLDER"
	LabelFile       NodeLabel = "FILE"
	LabelClass      NodeLabel = "CLASS"
	LabelFunction   NodeLabel = "FUNCTION"
	LabelDeleted    NodeLabel = "DELETED"
	LabelRaw        NodeLabel = "RAW"
)

// Folder is a directory-level node in the hierarchy.
type Folder struct {
	ID             string
	Path           string
	Name           string
	Level          int
	ParentID       string
	RelativePath   string // environment-free identifier path (node_path)
	HashedID       string // hash of RelativePath, stable across environments
	DiffIdentifier string
}

// File is a file-level node. Raw (unparseable / unrecognized language)
// files carry no Definitions.
type File struct {
	ID             string
	Path           string
	Name           string
	Extension      string
	Level          int
	ParentID       string
	Raw            bool
	ExtraLabels    []string
	Attributes     map[string]interface{}
	RelativePath   string // environment-free identifier path (node_path)
	HashedID       string // hash of RelativePath, stable across environments
	DiffIdentifier string
}

// Definition is a CLASS or FUNCTION node extracted from a File's syntax
// tree.
type Definition struct {
	ID             string
	Name           string
	Kind           DefinitionKind
	FilePath       string
	ParentID       string
	Level          int
	Location       Location
	Attributes     map[string]interface{}
	ExtraLabels    []string
	RelativePath   string // environment-free identifier path (node_path)
	HashedID       string // hash of RelativePath, stable across environments
	DiffIdentifier string
}

// Edge is a typed, directed relationship between two node identifiers.
type Edge struct {
	SourceID  string
	TargetID  string
	Kind      EdgeKind
	ScopeText string
}
