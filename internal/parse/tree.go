// Package parse drives the LR(1) shift-reduce automaton over a token
// stream, building a parse tree and a structured step trace while invoking
// the semantic translator on every reduction. Grounded on
// github.com/dekarrin/tunaq's internal/ictiobus/parse package (Algorithm
// 4.44 of the dragon book).
package parse

import (
	"fmt"
	"strings"

	"github.com/stonebound/rillc/internal/lex"
)

// Tree is a node of the parse forest: `{label, children}` per spec.md §4
// with an extra Source field for terminal leaves, mirroring
// ictiobus/types.ParseTree.
type Tree struct {
	Terminal bool
	Label    string
	Source   lex.Token
	Children []*Tree
}

// String renders the tree with indentation for debugging and golden-file
// tests, in the same left-prefixed style as ictiobus/types.ParseTree.String.
func (t *Tree) String() string {
	var sb strings.Builder
	t.write(&sb, "", "")
	return sb.String()
}

func (t *Tree) write(sb *strings.Builder, prefix, contPrefix string) {
	sb.WriteString(prefix)
	if t.Terminal {
		fmt.Fprintf(sb, "(TERM %q)", t.Label)
	} else {
		fmt.Fprintf(sb, "( %s )", t.Label)
	}
	for i, c := range t.Children {
		sb.WriteByte('\n')
		var childPrefix, childCont string
		if i+1 < len(t.Children) {
			childPrefix = contPrefix + "  |-: "
			childCont = contPrefix + "  |   "
		} else {
			childPrefix = contPrefix + `  \-: `
			childCont = contPrefix + "      "
		}
		c.write(sb, childPrefix, childCont)
	}
}
