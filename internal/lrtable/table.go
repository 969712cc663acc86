// Package lrtable derives the ACTION and GOTO tables from a canonical LR(1)
// collection, per spec.md §4.5, grounded on the shift/reduce/goto
// bookkeeping in github.com/dekarrin/tunaq's ictiobus/parse package (which
// consumes an equivalent table shape) and on the table-construction rules
// of dragon-book Algorithm 4.56.
package lrtable

import (
	"fmt"

	"github.com/stonebound/rillc/internal/automaton"
	"github.com/stonebound/rillc/internal/grammar"
)

// Kind tags the variant of an Action.
type Kind int

const (
	Shift Kind = iota
	Reduce
	Accept
)

func (k Kind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "?"
	}
}

// Action is one entry of an ACTION table cell: a shift to a state, a
// reduction by a production, or accept. Exactly one of Target (for Shift,
// the target state id; for Reduce, the production id) is meaningful; Accept
// ignores it.
type Action struct {
	Kind   Kind
	Target uint32
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("s%d", a.Target)
	case Reduce:
		return fmt.Sprintf("r%d", a.Target)
	case Accept:
		return "acc"
	default:
		return ""
	}
}

// Conflict records that ACTION[State, Terminal] received more than one
// competing action during construction. It is a non-fatal diagnostic: the
// parse driver resolves the conflict by always using Actions[0].
type Conflict struct {
	State    int
	Terminal int
	Actions  []Action
}

// Table is the derived ACTION/GOTO pair for one grammar's canonical
// collection, plus any conflicts discovered while building it.
type Table struct {
	Grammar   *grammar.Grammar // the augmented grammar the table indexes into
	Action    []map[int][]Action
	Goto      []map[int]int
	Conflicts []Conflict

	conflictIdx map[[2]int]int
}

// Build derives ACTION and GOTO from col following spec.md §4.5: for every
// item in every state, a shift or goto entry is recorded for the symbol
// after the dot, and a reduce (or accept, for the augmenting production)
// entry is recorded for items at the end of their production. A cell that
// would receive two different actions keeps both and is reported as a
// Conflict; the first action recorded remains in position 0.
func Build(col *automaton.Collection) *Table {
	g := col.Grammar
	endMarker, _ := g.Reg.LookupID("#")

	t := &Table{
		Grammar:     g,
		Action:      make([]map[int][]Action, len(col.States)),
		Goto:        make([]map[int]int, len(col.States)),
		conflictIdx: map[[2]int]int{},
	}
	for i := range col.States {
		t.Action[i] = map[int][]Action{}
		t.Goto[i] = map[int]int{}
	}

	for i, state := range col.States {
		for item := range state {
			if !item.AtEnd(g) {
				sym, _ := item.NextSymbol(g)
				target, ok := col.Transitions[i][sym]
				if !ok {
					continue
				}
				if g.Reg.IsNonTerminal(sym) {
					t.Goto[i][sym] = target
					continue
				}
				t.addAction(i, sym, Action{Kind: Shift, Target: uint32(target)})
				continue
			}

			p := g.Productions[item.Prod]
			if item.Prod == col.StartProd && item.Lookahead == endMarker {
				t.addAction(i, endMarker, Action{Kind: Accept})
				continue
			}
			t.addAction(i, item.Lookahead, Action{Kind: Reduce, Target: p.ID})
		}
	}

	return t
}

// addAction appends act to cell [state, term], recording a Conflict the
// first time the cell would hold more than one distinct action.
func (t *Table) addAction(state, term int, act Action) {
	existing := t.Action[state][term]
	for _, a := range existing {
		if a == act {
			return
		}
	}
	existing = append(existing, act)
	t.Action[state][term] = existing

	key := [2]int{state, term}
	if idx, ok := t.conflictIdx[key]; ok {
		t.Conflicts[idx].Actions = existing
		return
	}
	if len(existing) >= 2 {
		t.conflictIdx[key] = len(t.Conflicts)
		t.Conflicts = append(t.Conflicts, Conflict{State: state, Terminal: term, Actions: existing})
	}
}

// Resolve returns the action the parse driver should use for
// [state, terminal]: the first recorded action, or false if the cell is
// empty (a syntax error per spec.md §4.6).
func (t *Table) Resolve(state, terminal int) (Action, bool) {
	acts := t.Action[state][terminal]
	if len(acts) == 0 {
		return Action{}, false
	}
	return acts[0], true
}
