package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/codegraph/lang"
)

// Stats holds the complexity attributes attached to FUNCTION nodes:
// nesting depth derived from indentation, combined with a parameter and
// branch count derived from the language's own ControlFlowTypes table.
type Stats struct {
	ParameterCount int
	BranchCount    int
	MaxIndentation int
}

// Complexity computes Stats for a definition node n.
func Complexity(n *sitter.Node, rules *lang.Rules) Stats {
	return Stats{
		ParameterCount: countParameters(n),
		BranchCount:    countBranches(n, rules),
		MaxIndentation: 0, // computed separately by MaxIndentation from the definition's source text
	}
}

func countParameters(n *sitter.Node) int {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return 0
	}
	return int(params.NamedChildCount())
}

func countBranches(n *sitter.Node, rules *lang.Rules) int {
	count := 0
	var walk func(*sitter.Node)
	walk = func(cur *sitter.Node) {
		if rules.ControlFlowTypes[cur.Type()] {
			count++
		}
		total := int(cur.NamedChildCount())
		for i := 0; i < total; i++ {
			walk(cur.NamedChild(i))
		}
	}
	walk(n)
	return count
}

// MaxIndentation computes the deepest indentation level in a
// definition's raw text, detecting the indent unit from the first
// indented line rather than assuming a fixed tab width.
func MaxIndentation(text string) int {
	text = strings.ReplaceAll(text, "\t", "    ")
	lines := strings.Split(text, "\n")

	unit := 4
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := len(line) - len(trimmed)
		if indent > 0 {
			unit = indent
			break
		}
	}

	max := 0
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := len(line) - len(trimmed)
		level := (indent + unit - 1) / unit
		if level > max {
			max = level
		}
	}
	return max
}
