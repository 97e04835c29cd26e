// Package diffgraph builds the diff-mode overlay graph: MODIFIED/ADDED/
// DELETED labeling and synthetic deleted-node relationships layered on
// top of a graph already built by a normal hierarchy+reference run.
package diffgraph

import (
	"strconv"

	"github.com/viant/codegraph/graphstore"
	"github.com/viant/codegraph/identity"
)

// ChangeType classifies how a file changed between the previous state
// and the one being diffed.
type ChangeType string

const (
	ChangeAdded    ChangeType = "ADDED"
	ChangeModified ChangeType = "MODIFIED"
	ChangeDeleted  ChangeType = "DELETED"
)

// FileDiff describes one changed file going into a diff run.
type FileDiff struct {
	Path       string     `json:"path"`
	DiffText   string     `json:"diff_text"`
	ChangeType ChangeType `json:"change_type"`
}

// PreviousNodeState is a definition's identity and text as it existed
// before the change being diffed, supplied by the caller (typically
// read from the previous commit's stored graph).
type PreviousNodeState struct {
	NodePath string `json:"node_path"` // the relative identifier path, e.g. "/pkg/file.go.Foo"
	CodeText string `json:"code_text"`
}

// RelativeID is the identifier path with no environment prefix, the
// value used to match a PreviousNodeState against a live Definition
// regardless of which environment produced either one.
func (p PreviousNodeState) RelativeID() string {
	return p.NodePath
}

// HashedID is the content hash of NodePath, the identifier an external
// relationship references when the node itself is not present in the
// live graph (deleted or pre-change state).
func (p PreviousNodeState) HashedID() (string, error) {
	h, err := identity.HashString(p.NodePath)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(h, 10), nil
}

// ExternalRelationship is an edge whose endpoint is not a node in the
// live Store — a previous-state or deleted-node identifier kept out of
// Store.Edges so the live graph never carries a dangling edge,
// resolving open question 2.
type ExternalRelationship struct {
	SourceID string
	TargetID string
	Kind     graphstore.EdgeKind
}

// ExternalRelationshipStore collects ExternalRelationships for a diff
// run.
type ExternalRelationshipStore struct {
	relationships []ExternalRelationship
}

// Add appends a relationship.
func (s *ExternalRelationshipStore) Add(sourceID, targetID string, kind graphstore.EdgeKind) {
	s.relationships = append(s.relationships, ExternalRelationship{SourceID: sourceID, TargetID: targetID, Kind: kind})
}

// All returns every relationship recorded so far.
func (s *ExternalRelationshipStore) All() []ExternalRelationship {
	return s.relationships
}

// GraphUpdate is the result of a diff build: the filtered live graph
// plus whatever external relationships were produced alongside it.
type GraphUpdate struct {
	Store                     *graphstore.Store
	ExternalRelationshipStore *ExternalRelationshipStore
}

// Differ applies diff-mode transformations to a Store already populated
// by a normal hierarchy+reference build.
type Differ struct {
	store      *graphstore.Store
	fileDiffs  []FileDiff
	prEnv      identity.Environment
	liveEnv    identity.Environment
}

// New returns a Differ over store for the given file diffs.
func New(store *graphstore.Store, fileDiffs []FileDiff, liveEnv, prEnv identity.Environment) *Differ {
	return &Differ{store: store, fileDiffs: fileDiffs, prEnv: prEnv, liveEnv: liveEnv}
}

func (d *Differ) addedAndModifiedPaths() []string {
	var out []string
	for _, fd := range d.fileDiffs {
		if fd.ChangeType == ChangeAdded || fd.ChangeType == ChangeModified {
			out = append(out, fd.Path)
		}
	}
	return out
}

// MarkUpdatedAndAddedNodes tags every node under an added/modified path
// with the DIFF extra label and stamps diff_text from the matching
// FileDiff.
func (d *Differ) MarkUpdatedAndAddedNodes() {
	byPath := make(map[string]FileDiff, len(d.fileDiffs))
	for _, fd := range d.fileDiffs {
		byPath[fd.Path] = fd
	}
	for _, path := range d.addedAndModifiedPaths() {
		f := d.store.FileByPath(path)
		if f == nil {
			continue
		}
		fd := byPath[path]
		f.ExtraLabels = append(f.ExtraLabels, "DIFF")
		if f.Attributes == nil {
			f.Attributes = map[string]interface{}{}
		}
		f.Attributes["diff_text"] = fd.DiffText
		for _, def := range d.store.Definitions() {
			if def.FilePath != path {
				continue
			}
			def.ExtraLabels = append(def.ExtraLabels, "DIFF")
			if def.Attributes == nil {
				def.Attributes = map[string]interface{}{}
			}
			def.Attributes["diff_text"] = fd.DiffText
		}
	}
}

// CreateRelationshipsFromPreviousNodeStates produces MODIFIED/ADDED/
// DELETED labeling and external relationships by comparing the live
// graph against previousStates.
func (d *Differ) CreateRelationshipsFromPreviousNodeStates(previousStates []PreviousNodeState, ext *ExternalRelationshipStore) error {
	if err := d.createModifiedRelationships(previousStates, ext); err != nil {
		return err
	}
	d.markNewNodesWithLabel(previousStates)
	return d.markDeletedNodesWithLabel(previousStates, ext)
}

func (d *Differ) definitionByRelativeID(relID string) *graphstore.Definition {
	for _, def := range d.store.Definitions() {
		if identifierPath(def) == relID {
			return def
		}
	}
	return nil
}

// identifierPath recomputes the relative (environment-free) identifier
// path for a live Definition so it can be compared against a
// PreviousNodeState.RelativeID(). It rebuilds only the file fragment
// plus the definition's own fragment ("/" + FilePath + "." or "#" +
// Name), the form ExtractFile gives a top-level definition; the
// fragments of enclosing classes are not reconstructed.
func identifierPath(def *graphstore.Definition) string {
	sep := "."
	if def.Kind == graphstore.KindClass {
		sep = "#"
	}
	return "/" + def.FilePath + sep + def.Name
}

func (d *Differ) createModifiedRelationships(previousStates []PreviousNodeState, ext *ExternalRelationshipStore) error {
	for _, prev := range previousStates {
		equivalent := d.definitionByRelativeID(prev.RelativeID())
		if equivalent == nil {
			continue
		}
		if equivalent.Location.Raw == prev.CodeText {
			continue
		}
		hashedID, err := prev.HashedID()
		if err != nil {
			return err
		}
		ext.Add(equivalent.ID, hashedID, graphstore.EdgeModified)
		equivalent.ExtraLabels = append(equivalent.ExtraLabels, string(ChangeModified))
	}
	return nil
}

func (d *Differ) markNewNodesWithLabel(previousStates []PreviousNodeState) {
	seen := make(map[string]bool, len(previousStates))
	for _, p := range previousStates {
		seen[p.RelativeID()] = true
	}
	addedAndModified := make(map[string]bool)
	for _, p := range d.addedAndModifiedPaths() {
		addedAndModified[p] = true
	}
	for _, def := range d.store.Definitions() {
		if !addedAndModified[def.FilePath] {
			continue
		}
		if !seen[identifierPath(def)] {
			def.ExtraLabels = append(def.ExtraLabels, string(ChangeAdded))
		}
	}
}

func (d *Differ) markDeletedNodesWithLabel(previousStates []PreviousNodeState, ext *ExternalRelationshipStore) error {
	for _, prev := range previousStates {
		if d.definitionByRelativeID(prev.RelativeID()) != nil {
			continue
		}
		deletedID, err := newDeletedNodeID(d.prEnv, prev.NodePath)
		if err != nil {
			return err
		}
		hashedRelID, err := prev.HashedID()
		if err != nil {
			return err
		}
		d.store.AddDefinition(&graphstore.Definition{
			ID:             deletedID,
			Name:           prev.NodePath,
			Kind:           "",
			ExtraLabels:    []string{string(graphstore.LabelDeleted)},
			RelativePath:   prev.NodePath,
			HashedID:       hashedRelID,
			DiffIdentifier: d.prEnv.DiffIdentifier,
		})
		hashedID, err := prev.HashedID()
		if err != nil {
			return err
		}
		ext.Add(hashedID, deletedID, graphstore.EdgeDeleted)
	}
	return nil
}

func newDeletedNodeID(env identity.Environment, path string) (string, error) {
	b := identity.NewBuilder(env)
	b.File(path)
	return b.HashedIdentifier()
}

// KeepOnlyFilesToCreate filters the store to added/modified paths, their
// ancestor folders, and any deleted-node paths added during this diff.
func (d *Differ) KeepOnlyFilesToCreate(extraPaths ...string) *graphstore.Store {
	keep := make(map[string]bool)
	for _, p := range d.addedAndModifiedPaths() {
		keep[p] = true
		for _, ancestor := range ancestorPaths(p) {
			keep[ancestor] = true
		}
	}
	for _, p := range extraPaths {
		keep[p] = true
	}
	for _, def := range d.store.Definitions() {
		for _, label := range def.ExtraLabels {
			if label == string(graphstore.LabelDeleted) {
				keep[def.FilePath] = true
			}
		}
	}
	return d.store.FilterByPaths(keep)
}

func ancestorPaths(p string) []string {
	var out []string
	for {
		idx := lastSlash(p)
		if idx <= 0 {
			break
		}
		p = p[:idx]
		out = append(out, p)
	}
	return out
}

func lastSlash(p string) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return i
		}
	}
	return -1
}

// AddDeletedFileRelationships synthesizes a DeletedNode and a DELETED
// external relationship for every whole-file deletion in the diff.
func (d *Differ) AddDeletedFileRelationships(ext *ExternalRelationshipStore) error {
	for _, fd := range d.fileDiffs {
		if fd.ChangeType != ChangeDeleted {
			continue
		}
		deletedID, err := newDeletedNodeID(d.prEnv, fd.Path)
		if err != nil {
			return err
		}
		relB := identity.NewBuilder(identity.Environment{})
		relB.File(fd.Path)
		hashedRelID, err := relB.HashedRelativeIdentifier()
		if err != nil {
			return err
		}
		d.store.AddDefinition(&graphstore.Definition{
			ID:             deletedID,
			Name:           fd.Path,
			ExtraLabels:    []string{string(graphstore.LabelDeleted)},
			RelativePath:   relB.String(),
			HashedID:       hashedRelID,
			DiffIdentifier: d.prEnv.DiffIdentifier,
		})
		b := identity.NewBuilder(d.liveEnv)
		b.File(fd.Path)
		originalID, err := b.HashedIdentifier()
		if err != nil {
			return err
		}
		ext.Add(originalID, deletedID, graphstore.EdgeDeleted)
	}
	return nil
}
