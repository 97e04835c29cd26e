package identity

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment tags every identifier computed in a run, distinguishing
// the live graph from a diff-mode overlay graph built against the same
// repository (the "pr environment" in a diff run).
type Environment struct {
	Tag            string
	DiffIdentifier string
}

// Prefix returns the string prepended to every path-based identifier
// computed under this environment. An empty Environment contributes no
// prefix.
func (e Environment) Prefix() string {
	if e.Tag == "" && e.DiffIdentifier == "" {
		return ""
	}
	return e.Tag + ":" + e.DiffIdentifier + ":"
}

// Builder accumulates ancestor fragments ("/folder", "/file", "#class",
// ".function") into a deterministic identifier string.
type Builder struct {
	env   Environment
	parts []string
}

// NewBuilder starts an identifier chain rooted at env.
func NewBuilder(env Environment) *Builder {
	return &Builder{env: env}
}

// NewBuilderFromPath starts a Builder whose accumulated relative path is
// already known — e.g. an ancestor definition's path, passed down so a
// nested definition's identifier keeps accumulating every ancestor's
// fragment rather than restarting from just the file (invariant 3.2.1:
// an identifier is the concatenation of each ancestor's canonical
// representation). path is stored as a single fragment since String()
// only concatenates, never re-separates, its parts.
func NewBuilderFromPath(env Environment, path string) *Builder {
	return &Builder{env: env, parts: []string{path}}
}

// Folder appends a folder fragment.
func (b *Builder) Folder(name string) *Builder {
	b.parts = append(b.parts, "/"+name)
	return b
}

// File appends a file fragment.
func (b *Builder) File(name string) *Builder {
	b.parts = append(b.parts, "/"+name)
	return b
}

// Class appends a class/type definition fragment.
func (b *Builder) Class(name string) *Builder {
	b.parts = append(b.parts, "#"+name)
	return b
}

// Function appends a function/method definition fragment.
func (b *Builder) Function(name string) *Builder {
	b.parts = append(b.parts, "."+name)
	return b
}

// String returns the accumulated relative identifier, without the
// environment prefix.
func (b *Builder) String() string {
	return strings.Join(b.parts, "")
}

// Identifier returns the environment-prefixed identifier.
func (b *Builder) Identifier() string {
	return b.env.Prefix() + b.String()
}

// HashedIdentifier returns the decimal string form of Hash(Identifier()),
// the form used as a graph-store primary key.
func (b *Builder) HashedIdentifier() (string, error) {
	h, err := HashString(b.Identifier())
	if err != nil {
		return "", fmt.Errorf("hash identifier %q: %w", b.Identifier(), err)
	}
	return strconv.FormatUint(h, 10), nil
}

// HashedRelativeIdentifier returns the decimal string form of
// Hash(String()) — the environment-independent identifier hash used to
// match a node against diff-mode state computed under a different
// environment tag.
func (b *Builder) HashedRelativeIdentifier() (string, error) {
	h, err := HashString(b.String())
	if err != nil {
		return "", fmt.Errorf("hash relative identifier %q: %w", b.String(), err)
	}
	return strconv.FormatUint(h, 10), nil
}
