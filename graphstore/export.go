package graphstore

// NodeJSON is the exported node shape per the documented consumer
// contract: a node kind, its extra labels, and a flat attribute bag
// carrying both the common identity fields and the per-kind ones.
type NodeJSON struct {
	Type        NodeLabel              `json:"type"`
	ExtraLabels []string               `json:"extra_labels,omitempty"`
	Attributes  map[string]interface{} `json:"attributes"`
}

// EdgeJSON is the exported edge shape: endpoints are content hashes of
// the identifiers they name, not store-internal IDs.
type EdgeJSON struct {
	SourceID  string `json:"sourceId"`
	TargetID  string `json:"targetId"`
	Type      EdgeKind `json:"type"`
	ScopeText string `json:"scopeText,omitempty"`
}

// Export flattens the store into the two lists a bulk loader consumes.
func (s *Store) Export() ([]NodeJSON, []EdgeJSON) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes := make([]NodeJSON, 0, len(s.folders)+len(s.files)+len(s.definitions))
	for _, f := range s.folders {
		nodes = append(nodes, NodeJSON{
			Type: LabelFolder,
			Attributes: map[string]interface{}{
				"label":           LabelFolder,
				"path":            f.Path,
				"node_id":         f.ID,
				"node_path":       f.RelativePath,
				"name":            f.Name,
				"level":           f.Level,
				"hashed_id":       f.HashedID,
				"diff_identifier": f.DiffIdentifier,
			},
		})
	}
	for _, f := range s.files {
		label := LabelFile
		if f.Raw {
			label = LabelRaw
		}
		attrs := map[string]interface{}{
			"label":           label,
			"path":            f.Path,
			"node_id":         f.ID,
			"node_path":       f.RelativePath,
			"name":            f.Name,
			"level":           f.Level,
			"hashed_id":       f.HashedID,
			"diff_identifier": f.DiffIdentifier,
			"extension":       f.Extension,
		}
		for k, v := range f.Attributes {
			attrs[k] = v
		}
		nodes = append(nodes, NodeJSON{
			Type:        label,
			ExtraLabels: f.ExtraLabels,
			Attributes:  attrs,
		})
	}
	for _, d := range s.definitions {
		label := NodeLabel(d.Kind)
		if d.Kind == "" {
			label = LabelDeleted
		}
		attrs := map[string]interface{}{
			"label":           label,
			"path":            d.FilePath,
			"node_id":         d.ID,
			"node_path":       d.RelativePath,
			"name":            d.Name,
			"level":           d.Level,
			"hashed_id":       d.HashedID,
			"diff_identifier": d.DiffIdentifier,
			"text":            d.Location.Raw,
			"start_line":      d.Location.StartLine,
			"end_line":        d.Location.EndLine,
		}
		for k, v := range d.Attributes {
			attrs[k] = v
		}
		nodes = append(nodes, NodeJSON{
			Type:        label,
			ExtraLabels: d.ExtraLabels,
			Attributes:  attrs,
		})
	}

	edges := make([]EdgeJSON, 0, len(s.edges))
	for _, e := range s.edges {
		edges = append(edges, EdgeJSON{
			SourceID:  e.SourceID,
			TargetID:  e.TargetID,
			Type:      e.Kind,
			ScopeText: e.ScopeText,
		})
	}

	return nodes, edges
}
