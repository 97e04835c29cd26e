package graphstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/graphstore"
)

func TestStoreIdempotentInsert(t *testing.T) {
	s := graphstore.New()
	f := &graphstore.File{ID: "f1", Path: "a.go", Name: "a.go"}
	s.AddFile(f)
	s.AddFile(f)

	assert.Len(t, s.Files(), 1)
}

func TestStoreLookup(t *testing.T) {
	s := graphstore.New()
	folder := &graphstore.Folder{ID: "fold1", Path: "pkg", Name: "pkg"}
	file := &graphstore.File{ID: "file1", Path: "pkg/a.go", Name: "a.go", ParentID: folder.ID}
	def := &graphstore.Definition{ID: "def1", Name: "Foo", Kind: graphstore.KindFunction, FilePath: "pkg/a.go", ParentID: file.ID}

	s.AddFolder(folder)
	s.AddFile(file)
	s.AddDefinition(def)

	assert.Equal(t, folder, s.Lookup("fold1"))
	assert.Equal(t, file, s.Lookup("file1"))
	assert.Equal(t, def, s.Lookup("def1"))
	assert.Nil(t, s.Lookup("missing"))
}

func TestStoreExportShape(t *testing.T) {
	s := graphstore.New()
	s.AddFolder(&graphstore.Folder{ID: "fold1", Path: "pkg", Name: "pkg"})
	s.AddFile(&graphstore.File{ID: "file1", Path: "pkg/a.go", Name: "a.go", ParentID: "fold1"})
	s.AddDefinition(&graphstore.Definition{
		ID: "def1", Name: "Foo", Kind: graphstore.KindFunction, FilePath: "pkg/a.go", ParentID: "file1",
		RelativePath: "/pkg/a.go.Foo", HashedID: "99", DiffIdentifier: "",
		Location: graphstore.Location{StartLine: 4, EndLine: 9, Raw: "func Foo() {}"},
	})
	s.AddEdge(&graphstore.Edge{SourceID: "fold1", TargetID: "file1", Kind: graphstore.EdgeContains})
	s.AddEdge(&graphstore.Edge{SourceID: "file1", TargetID: "def1", Kind: graphstore.EdgeFunctionDefinition})

	nodes, edges := s.Export()
	assert.Len(t, nodes, 3)
	assert.Len(t, edges, 2)

	var sawFunction bool
	for _, n := range nodes {
		if n.Attributes["node_id"] == "def1" {
			sawFunction = true
			assert.Equal(t, graphstore.NodeLabel(graphstore.KindFunction), n.Type)
			assert.Equal(t, "/pkg/a.go.Foo", n.Attributes["node_path"])
			assert.Equal(t, "99", n.Attributes["hashed_id"])
			assert.Equal(t, 4, n.Attributes["start_line"])
			assert.Equal(t, 9, n.Attributes["end_line"])
			assert.Equal(t, "func Foo() {}", n.Attributes["text"])
		}
	}
	assert.True(t, sawFunction)

	var sawContainsEdge bool
	for _, e := range edges {
		if e.SourceID == "fold1" && e.TargetID == "file1" {
			sawContainsEdge = true
			assert.Equal(t, graphstore.EdgeContains, e.Type)
		}
	}
	assert.True(t, sawContainsEdge)
}

func TestFilterByPaths(t *testing.T) {
	s := graphstore.New()
	s.AddFolder(&graphstore.Folder{ID: "fold1", Path: "pkg", Name: "pkg"})
	s.AddFile(&graphstore.File{ID: "file1", Path: "pkg/a.go", Name: "a.go", ParentID: "fold1"})
	s.AddFile(&graphstore.File{ID: "file2", Path: "pkg/b.go", Name: "b.go", ParentID: "fold1"})
	s.AddEdge(&graphstore.Edge{SourceID: "fold1", TargetID: "file1", Kind: graphstore.EdgeContains})
	s.AddEdge(&graphstore.Edge{SourceID: "fold1", TargetID: "file2", Kind: graphstore.EdgeContains})

	filtered := s.FilterByPaths(map[string]bool{"pkg": true, "pkg/a.go": true})

	assert.Len(t, filtered.Files(), 1)
	assert.Len(t, filtered.Edges(), 1)
}
