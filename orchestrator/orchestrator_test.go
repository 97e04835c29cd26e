package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/lang"
	"github.com/viant/codegraph/lang/golang"
	"github.com/viant/codegraph/orchestrator"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOrchestratorHierarchyOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/widget.go", `package pkg

type Widget struct {
	Name string
}

func Greet(w Widget) string {
	return "hi " + w.Name
}
`)
	writeFile(t, root, "README.md", "# hello\n")

	registry := lang.NewRegistry(&golang.Rules)
	cfg := orchestrator.Config{
		RootPath:       root,
		UseGitignore:   false,
		HierarchyOnly:  true,
		EnvironmentTag: "test-env",
	}
	o := orchestrator.New(cfg, registry)

	store, err := o.Run(context.Background())
	require.NoError(t, err)

	folders := store.Folders()
	var pkgFolder *graphstore.Folder
	for _, f := range folders {
		if f.Path == "pkg" {
			pkgFolder = f
		}
	}
	require.NotNil(t, pkgFolder, "expected a folder node for pkg/")

	files := store.Files()
	var widgetFile, readmeFile *graphstore.File
	for _, f := range files {
		switch f.Path {
		case "pkg/widget.go":
			widgetFile = f
		case "README.md":
			readmeFile = f
		}
	}
	require.NotNil(t, widgetFile)
	require.NotNil(t, readmeFile)
	assert.False(t, widgetFile.Raw)
	assert.True(t, readmeFile.Raw, "unrecognized extension should fall back to raw")

	defs := store.Definitions()
	var names []string
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "Greet")

	// Hierarchy-only mode resolves no references, so no CALLS/USES/
	// INSTANTIATES edges should be present, only CONTAINS and definition
	// edges.
	for _, e := range store.Edges() {
		assert.NotEqual(t, graphstore.EdgeCalls, e.Kind)
		assert.NotEqual(t, graphstore.EdgeUses, e.Kind)
		assert.NotEqual(t, graphstore.EdgeInstantiates, e.Kind)
	}
}

func TestOrchestratorEnvironmentTagDefaultsFromGoMod(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/sample\n\ngo 1.21\n")
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	registry := lang.NewRegistry(&golang.Rules)
	cfg := orchestrator.Config{RootPath: root, HierarchyOnly: true}
	o := orchestrator.New(cfg, registry)

	assert.Equal(t, "example.com/sample", o.Environment().Tag)
}
