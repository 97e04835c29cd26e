package diffgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/codegraph/diffgraph"
	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/identity"
)

func TestMarkUpdatedAndAddedNodes(t *testing.T) {
	store := graphstore.New()
	store.AddFile(&graphstore.File{ID: "f1", Path: "a.go", Name: "a.go"})

	diffs := []diffgraph.FileDiff{{Path: "a.go", DiffText: "+func Foo(){}", ChangeType: diffgraph.ChangeAdded}}
	env := identity.Environment{Tag: "codegraph"}
	d := diffgraph.New(store, diffs, env, identity.Environment{Tag: "codegraph", DiffIdentifier: "pr"})
	d.MarkUpdatedAndAddedNodes()

	f := store.FileByPath("a.go")
	require.NotNil(t, f)
	assert.Contains(t, f.ExtraLabels, "DIFF")
	assert.Equal(t, "+func Foo(){}", f.Attributes["diff_text"])
}

func TestMarkDeletedNodesWithLabel(t *testing.T) {
	store := graphstore.New()
	diffs := []diffgraph.FileDiff{}
	env := identity.Environment{Tag: "codegraph"}
	prEnv := identity.Environment{Tag: "codegraph", DiffIdentifier: "pr"}
	d := diffgraph.New(store, diffs, env, prEnv)

	prev := []diffgraph.PreviousNodeState{{NodePath: "a.go.Foo", CodeText: "func Foo(){}"}}
	ext := &diffgraph.ExternalRelationshipStore{}

	require.NoError(t, d.CreateRelationshipsFromPreviousNodeStates(prev, ext))

	rels := ext.All()
	require.Len(t, rels, 1)
	assert.Equal(t, graphstore.EdgeDeleted, rels[0].Kind)
}

func TestKeepOnlyFilesToCreate(t *testing.T) {
	store := graphstore.New()
	store.AddFolder(&graphstore.Folder{ID: "fold1", Path: "pkg"})
	store.AddFile(&graphstore.File{ID: "f1", Path: "pkg/a.go", ParentID: "fold1"})
	store.AddFile(&graphstore.File{ID: "f2", Path: "pkg/b.go", ParentID: "fold1"})
	store.AddEdge(&graphstore.Edge{SourceID: "fold1", TargetID: "f1", Kind: graphstore.EdgeContains})
	store.AddEdge(&graphstore.Edge{SourceID: "fold1", TargetID: "f2", Kind: graphstore.EdgeContains})

	diffs := []diffgraph.FileDiff{{Path: "pkg/a.go", ChangeType: diffgraph.ChangeModified}}
	d := diffgraph.New(store, diffs, identity.Environment{}, identity.Environment{})

	filtered := d.KeepOnlyFilesToCreate()
	assert.Len(t, filtered.Files(), 1)
	assert.Len(t, filtered.Folders(), 1)
}
