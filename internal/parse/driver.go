package parse

import (
	"fmt"

	"github.com/stonebound/rillc/internal/grammar"
	"github.com/stonebound/rillc/internal/lex"
	"github.com/stonebound/rillc/internal/lrtable"
)

// Frame is one entry of the parser's stack: a state id, the parse-tree node
// built so far under it, and an opaque semantic attribute produced by the
// Translator for that node. Attr is deliberately `any` — per spec.md §9's
// "dynamic typing in attributes" note, the driver does not know or care
// what shape an attribute takes; only the Translator implementation does.
type Frame struct {
	State int
	Node  *Tree
	Attr  any
}

// Translator is invoked by the driver on every shift (to produce the leaf
// attribute for a terminal) and between the pop and push of every reduction
// (to produce the attribute for the new parent node), per spec.md §4.6/§4.7.
type Translator interface {
	Shift(tok lex.Token) any
	Reduce(prod grammar.Production, children []Frame, loc lex.Loc) any
}

// SyntaxError is returned when no ACTION entry exists for the current state
// and lookahead.
type SyntaxError struct {
	Loc     lex.Loc
	Lookahead string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: unexpected %q", e.Loc, e.Lookahead)
}

// Result is the outcome of a successful parse: the accepted tree and the
// full step trace.
type Result struct {
	Tree  *Tree
	Trace []TraceRecord
}

// Run drives the shift-reduce automaton defined by table over toks,
// invoking tr on every shift and reduction, per spec.md §4.6. On a missing
// ACTION entry it returns a *SyntaxError alongside whatever trace was
// accumulated so far.
func Run(table *lrtable.Table, toks lex.TokenStream, tr Translator) (*Result, error) {
	g := table.Grammar
	endMarker, _ := g.Reg.LookupID(grammar.EndMarker)

	stack := []Frame{{State: 0, Node: &Tree{Terminal: true, Label: grammar.EndMarker}}}
	var trace []TraceRecord
	trace = append(trace, newInitialRecord(stack))

	step := 0
	for {
		step++
		top := stack[len(stack)-1]
		tok := toks.Peek()
		a, err := g.Reg.LookupID(tok.TerminalID())
		if err != nil {
			a = endMarker
		}

		act, ok := table.Resolve(top.State, a)
		if !ok {
			return &Result{Trace: trace}, &SyntaxError{Loc: tok.Loc(), Lookahead: tok.TerminalID()}
		}

		switch act.Kind {
		case lrtable.Shift:
			consumed := toks.Next()
			attr := tr.Shift(consumed)
			leaf := &Tree{Terminal: true, Label: tok.TerminalID(), Source: consumed}
			stack = append(stack, Frame{State: int(act.Target), Node: leaf, Attr: attr})
			trace = append(trace, newShiftRecord(step, stack, toks, int(act.Target), tok))

		case lrtable.Reduce:
			p := g.Productions[act.Target]
			n := len(p.RHS)
			if n == 1 && p.IsEpsilon(g.Reg.EpsilonID()) {
				n = 0
			}

			children := append([]Frame(nil), stack[len(stack)-n:]...)
			stack = stack[:len(stack)-n]

			childNodes := make([]*Tree, 0, n)
			for _, c := range children {
				childNodes = append(childNodes, c.Node)
			}
			if n == 0 {
				epsName, _ := g.Reg.NameOf(g.Reg.EpsilonID())
				childNodes = append(childNodes, &Tree{Terminal: true, Label: epsName})
			}

			lhsName, _ := g.Reg.NameOf(p.LHS)
			node := &Tree{Label: lhsName, Children: childNodes}

			attr := tr.Reduce(p, children, tok.Loc())

			s := stack[len(stack)-1].State
			target, ok := table.Goto[s][p.LHS]
			if !ok {
				return &Result{Trace: trace}, &SyntaxError{Loc: tok.Loc(), Lookahead: lhsName}
			}
			stack = append(stack, Frame{State: target, Node: node, Attr: attr})
			trace = append(trace, newReduceRecord(step, stack, toks, p, g.Reg))

		case lrtable.Accept:
			trace = append(trace, newAcceptRecord(step, stack, toks))
			return &Result{Tree: stack[len(stack)-1].Node, Trace: trace}, nil
		}
	}
}
