package lsppool

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

// Reference is a location in source pointing back at a definition,
// matching the shape an LSP "textDocument/references" response item
// carries.
type Reference struct {
	Path      string
	Line      int
	Character int
}

// Location is an LSP "textDocument/definition" response item.
type Location struct {
	Path      string
	Line      int
	Character int
}

// ServerSpec describes how to launch a language server for one
// language.
type ServerSpec struct {
	Language string
	Command  string
	Args     []string
	RootURI  string
}

// server wraps one running language server process and its pending
// in-flight calls. All I/O to the process flows through one reader
// goroutine, matching the single-reader-loop-behind-a-synchronous-facade
// design of the original LspQueryHelper.
type server struct {
	spec ServerSpec
	cmd  *exec.Cmd
	in   io.WriteCloser
	out  *bufio.Reader

	mu      sync.Mutex
	pending map[string]chan rpcResponse

	log *slog.Logger
}

func startServer(spec ServerSpec, log *slog.Logger) (*server, error) {
	cmd := exec.Command(spec.Command, spec.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start lsp server %s: %w", spec.Language, err)
	}
	s := &server{
		spec:    spec,
		cmd:     cmd,
		in:      stdin,
		out:     bufio.NewReader(stdout),
		pending: make(map[string]chan rpcResponse),
		log:     log,
	}
	go s.readLoop()
	if err := s.initialize(); err != nil {
		s.shutdown()
		return nil, err
	}
	return s, nil
}

func (s *server) readLoop() {
	for {
		body, err := readMessage(s.out)
		if err != nil {
			return
		}
		var resp rpcResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			continue
		}
		s.mu.Lock()
		ch, ok := s.pending[resp.ID]
		if ok {
			delete(s.pending, resp.ID)
		}
		s.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

func (s *server) call(ctx context.Context, method string, params interface{}, timeout time.Duration) (json.RawMessage, error) {
	id := newRequestID()
	ch := make(chan rpcResponse, 1)
	s.mu.Lock()
	s.pending[id] = ch
	s.mu.Unlock()

	req := rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if err := writeMessage(s.in, body); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		return nil, ctx.Err()
	case resp := <-ch:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	case <-time.After(timeout):
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		return nil, context.DeadlineExceeded
	}
}

func (s *server) initialize() error {
	params := map[string]interface{}{"rootUri": s.spec.RootURI, "capabilities": map[string]interface{}{}}
	_, err := s.call(context.Background(), "initialize", params, initialTimeout)
	return err
}

func (s *server) shutdown() {
	// Best-effort graceful shutdown followed by a bounded forced kill:
	// try the polite path, fall back to terminating the process.
	done := make(chan struct{})
	go func() {
		_, _ = s.call(context.Background(), "shutdown", nil, 2*time.Second)
		_ = s.in.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
}

const (
	initialTimeout = 10 * time.Second
	maxRetries     = 2
)

// Pool lazily starts one language server per language and exposes the
// References/Definition operations used by the resolver. Retry/backoff
// follows _request_references_with_exponential_backoff: an initial
// 10-second timeout, doubled on each of up to two retries, restarting
// the server between attempts.
type Pool struct {
	mu      sync.Mutex
	specs   map[string]ServerSpec
	servers map[string]*server
	log     *slog.Logger
}

// New builds an empty Pool. Call Register for each language before use.
func New(log *slog.Logger) *Pool {
	if log == nil {
		log = slog.Default()
	}
	return &Pool{specs: make(map[string]ServerSpec), servers: make(map[string]*server), log: log}
}

// Register associates a language with the command used to launch its
// server.
func (p *Pool) Register(spec ServerSpec) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.specs[spec.Language] = spec
}

func (p *Pool) getOrCreate(language string) (*server, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.servers[language]; ok {
		return s, nil
	}
	spec, ok := p.specs[language]
	if !ok {
		return nil, fmt.Errorf("lsppool: no server registered for language %q", language)
	}
	s, err := startServer(spec, p.log)
	if err != nil {
		return nil, err
	}
	p.servers[language] = s
	return s, nil
}

func (p *Pool) restart(language string) {
	p.mu.Lock()
	s, ok := p.servers[language]
	if ok {
		delete(p.servers, language)
	}
	p.mu.Unlock()
	if ok {
		s.shutdown()
	}
}

type referenceParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

// References returns every location referencing the symbol at
// (path, line, character), both zero-based with character in UTF-16
// code units, matching LSP's coordinate convention.
func (p *Pool) References(ctx context.Context, language, path string, line, character int) ([]Reference, error) {
	var params referenceParams
	params.TextDocument.URI = path
	params.Position.Line = line
	params.Position.Character = character

	raw, err := p.callWithBackoff(ctx, language, "textDocument/references", params)
	if err != nil {
		return nil, err
	}
	var items []struct {
		URI   string `json:"uri"`
		Range struct {
			Start struct {
				Line      int `json:"line"`
				Character int `json:"character"`
			} `json:"start"`
		} `json:"range"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode references response: %w", err)
	}
	out := make([]Reference, 0, len(items))
	for _, it := range items {
		out = append(out, Reference{Path: it.URI, Line: it.Range.Start.Line, Character: it.Range.Start.Character})
	}
	return out, nil
}

// Definition returns the declaration location(s) of the symbol at
// (path, line, character).
func (p *Pool) Definition(ctx context.Context, language, path string, line, character int) ([]Location, error) {
	var params referenceParams
	params.TextDocument.URI = path
	params.Position.Line = line
	params.Position.Character = character

	raw, err := p.callWithBackoff(ctx, language, "textDocument/definition", params)
	if err != nil {
		return nil, err
	}
	var items []struct {
		URI   string `json:"uri"`
		Range struct {
			Start struct {
				Line      int `json:"line"`
				Character int `json:"character"`
			} `json:"start"`
		} `json:"range"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode definition response: %w", err)
	}
	out := make([]Location, 0, len(items))
	for _, it := range items {
		out = append(out, Location{Path: it.URI, Line: it.Range.Start.Line, Character: it.Range.Start.Character})
	}
	return out, nil
}

func (p *Pool) callWithBackoff(ctx context.Context, language, method string, params interface{}) (json.RawMessage, error) {
	timeout := initialTimeout
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		s, err := p.getOrCreate(language)
		if err != nil {
			return nil, err
		}
		raw, err := s.call(ctx, method, params, timeout)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		p.log.Warn("lsp call failed, retrying", "language", language, "method", method, "attempt", attempt, "err", err)
		p.restart(language)
		timeout *= 2
	}
	p.log.Error("lsp call exhausted retries", "language", language, "method", method, "err", lastErr)
	return nil, lastErr
}

// Shutdown gracefully stops every running server, used once the
// orchestrator has finished resolving references.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	servers := make([]*server, 0, len(p.servers))
	for lang, s := range p.servers {
		servers = append(servers, s)
		delete(p.servers, lang)
	}
	p.mu.Unlock()
	for _, s := range servers {
		s.shutdown()
	}
}
