package orchestrator

import (
	"context"

	"github.com/viant/codegraph/lsppool"
	"github.com/viant/codegraph/resolve"
)

// PoolClient adapts an lsppool.Pool to resolve.LSPClient, translating
// between the two packages' equivalent Reference types so resolve does
// not need to import lsppool directly.
type PoolClient struct {
	Pool *lsppool.Pool
}

// References implements resolve.LSPClient.
func (c PoolClient) References(ctx context.Context, language, path string, line, character int) ([]resolve.Reference, error) {
	refs, err := c.Pool.References(ctx, language, path, line, character)
	if err != nil {
		return nil, err
	}
	out := make([]resolve.Reference, 0, len(refs))
	for _, r := range refs {
		out = append(out, resolve.Reference{Path: r.Path, Line: r.Line, Character: r.Character})
	}
	return out, nil
}
