package graphstore

import "sync"

// Store is the arena that owns every node produced during a run.
// Parent/child relationships are expressed as identifier strings rather
// than Go pointers back up the tree, so the arena never contains a
// reference cycle. Lookup indices are built lazily, matching a
// functionMap/typeMap style memoized-index pattern.
type Store struct {
	mu sync.Mutex

	folders     []*Folder
	files       []*File
	definitions []*Definition
	edges       []*Edge

	idIndex   map[string]interface{} // identifier -> *Folder|*File|*Definition
	pathIndex map[string][]string    // path -> identifiers located at that path

	idIndexed   bool
	pathIndexed bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// AddFolder inserts a folder node. Re-inserting the same ID is a no-op,
// matching the idempotent-insert invariant.
func (s *Store) AddFolder(f *Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupLocked(f.ID) != nil {
		return
	}
	s.folders = append(s.folders, f)
	s.invalidate()
}

// AddFile inserts a file node.
func (s *Store) AddFile(f *File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupLocked(f.ID) != nil {
		return
	}
	s.files = append(s.files, f)
	s.invalidate()
}

// AddDefinition inserts a definition node.
func (s *Store) AddDefinition(d *Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupLocked(d.ID) != nil {
		return
	}
	s.definitions = append(s.definitions, d)
	s.invalidate()
}

// AddEdge appends an edge. Edges are not deduplicated by the store;
// callers (resolver, diff orchestrator) are responsible for not
// re-emitting the same edge twice within one run.
func (s *Store) AddEdge(e *Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = append(s.edges, e)
}

func (s *Store) invalidate() {
	s.idIndexed = false
	s.pathIndexed = false
}

func (s *Store) buildIDIndexLocked() {
	if s.idIndexed {
		return
	}
	s.idIndex = make(map[string]interface{}, len(s.folders)+len(s.files)+len(s.definitions))
	for _, f := range s.folders {
		s.idIndex[f.ID] = f
	}
	for _, f := range s.files {
		s.idIndex[f.ID] = f
	}
	for _, d := range s.definitions {
		s.idIndex[d.ID] = d
	}
	s.idIndexed = true
}

func (s *Store) buildPathIndexLocked() {
	if s.pathIndexed {
		return
	}
	s.pathIndex = make(map[string][]string)
	for _, f := range s.folders {
		s.pathIndex[f.Path] = append(s.pathIndex[f.Path], f.ID)
	}
	for _, f := range s.files {
		s.pathIndex[f.Path] = append(s.pathIndex[f.Path], f.ID)
	}
	for _, d := range s.definitions {
		s.pathIndex[d.FilePath] = append(s.pathIndex[d.FilePath], d.ID)
	}
	s.pathIndexed = true
}

func (s *Store) lookupLocked(id string) interface{} {
	s.buildIDIndexLocked()
	return s.idIndex[id]
}

// Lookup returns the node (Folder, File or Definition) with the given
// identifier, or nil.
func (s *Store) Lookup(id string) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(id)
}

// NodesAtPath returns identifiers of every node located at path.
func (s *Store) NodesAtPath(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buildPathIndexLocked()
	return s.pathIndex[path]
}

// FileByPath returns the File node at the given path, or nil.
func (s *Store) FileByPath(path string) *File {
	for _, id := range s.NodesAtPath(path) {
		if f, ok := s.Lookup(id).(*File); ok {
			return f
		}
	}
	return nil
}

// Definitions returns every definition node, for callers that need to
// scan the full set (e.g. the reference resolver).
func (s *Store) Definitions() []*Definition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Definition, len(s.definitions))
	copy(out, s.definitions)
	return out
}

// Files returns every file node.
func (s *Store) Files() []*File {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*File, len(s.files))
	copy(out, s.files)
	return out
}

// Folders returns every folder node.
func (s *Store) Folders() []*Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// Edges returns every edge.
func (s *Store) Edges() []*Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// FilterByPaths returns a new Store containing only folders/files/
// definitions whose path is exactly one of keepPaths, and only edges
// whose endpoints both survive the filter. Ancestor folders are not
// added here; callers that want them put their paths in keepPaths. This
// backs diffgraph's keep_only_files_to_create step.
func (s *Store) FilterByPaths(keepPaths map[string]bool) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := New()
	kept := make(map[string]bool)

	for _, f := range s.folders {
		if keepPaths[f.Path] {
			out.folders = append(out.folders, f)
			kept[f.ID] = true
		}
	}
	for _, f := range s.files {
		if keepPaths[f.Path] {
			out.files = append(out.files, f)
			kept[f.ID] = true
		}
	}
	for _, d := range s.definitions {
		if keepPaths[d.FilePath] {
			out.definitions = append(out.definitions, d)
			kept[d.ID] = true
		}
	}
	for _, e := range s.edges {
		if kept[e.SourceID] && kept[e.TargetID] {
			out.edges = append(out.edges, e)
		}
	}
	return out
}
