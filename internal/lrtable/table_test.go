package lrtable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stonebound/rillc/internal/automaton"
	"github.com/stonebound/rillc/internal/grammar"
)

func mustGrammar(t *testing.T, src string) *grammar.Grammar {
	t.Helper()
	g, err := grammar.ParseString(src)
	if err != nil {
		t.Fatalf("parsing test grammar: %s", err)
	}
	return g
}

const exprGrammar = `
Program -> E
E -> E + identifier | identifier
`

func Test_Build_acceptOnlyOnAugmentingItem(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, exprGrammar)
	col := automaton.Build(g)
	tbl := Build(col)

	endMarker, _ := tbl.Grammar.Reg.LookupID("#")

	found := false
	for state, cell := range tbl.Action {
		for term, acts := range cell {
			for _, a := range acts {
				if a.Kind == Accept {
					assert.Equal(endMarker, term)
					found = true
					_ = state
				}
			}
		}
	}
	assert.True(found, "expected exactly one accepting action")
}

func Test_Build_noOrphanGotoTransitions(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, exprGrammar)
	col := automaton.Build(g)
	tbl := Build(col)

	for i, trans := range col.Transitions {
		for sym, target := range trans {
			if tbl.Grammar.Reg.IsNonTerminal(sym) {
				got, ok := tbl.Goto[i][sym]
				assert.True(ok, "state %d symbol %d missing from GOTO", i, sym)
				assert.Equal(target, got)
			}
		}
	}
}

func Test_Resolve_emptyCellIsSyntaxError(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, exprGrammar)
	col := automaton.Build(g)
	tbl := Build(col)

	_, ok := tbl.Resolve(0, tbl.Grammar.Reg.IDOf("nonexistent-nonterminal"))
	assert.False(ok)
}

func Test_addAction_recordsConflictOnDistinctActions(t *testing.T) {
	assert := assert.New(t)

	tbl := &Table{
		Action:      []map[int][]Action{{}},
		Goto:        []map[int]int{{}},
		conflictIdx: map[[2]int]int{},
	}

	tbl.addAction(0, 5, Action{Kind: Shift, Target: 1})
	tbl.addAction(0, 5, Action{Kind: Reduce, Target: 2})
	tbl.addAction(0, 5, Action{Kind: Reduce, Target: 3})

	assert.Len(tbl.Conflicts, 1)
	assert.Equal(0, tbl.Conflicts[0].State)
	assert.Equal(5, tbl.Conflicts[0].Terminal)
	assert.Len(tbl.Conflicts[0].Actions, 3)
	// the first-recorded action remains in position 0, per the resolution policy
	assert.Equal(Action{Kind: Shift, Target: 1}, tbl.Conflicts[0].Actions[0])
}

func Test_addAction_distinctCellsDontCrossContaminateConflicts(t *testing.T) {
	assert := assert.New(t)

	tbl := &Table{
		Action:      []map[int][]Action{{}},
		Goto:        []map[int]int{{}},
		conflictIdx: map[[2]int]int{},
	}

	// cell A gets a conflict first
	tbl.addAction(0, 1, Action{Kind: Shift, Target: 1})
	tbl.addAction(0, 1, Action{Kind: Reduce, Target: 2})
	// cell B gets a conflict second
	tbl.addAction(0, 2, Action{Kind: Shift, Target: 3})
	tbl.addAction(0, 2, Action{Kind: Reduce, Target: 4})
	// cell A receives a third action; this must update cell A's conflict
	// entry, not cell B's
	tbl.addAction(0, 1, Action{Kind: Reduce, Target: 5})

	assert.Len(tbl.Conflicts, 2)
	assert.Equal(1, tbl.Conflicts[0].Terminal)
	assert.Len(tbl.Conflicts[0].Actions, 3)
	assert.Equal(2, tbl.Conflicts[1].Terminal)
	assert.Len(tbl.Conflicts[1].Actions, 2)
}

// a grammar whose start symbol nullably derives a leading marker, the same
// shape as testdata/rill.cfg's "Program -> S DeclList" / "S -> None".
const epsilonGrammar = `
Program -> S E
S -> None
E -> E + identifier | identifier
`

func Test_Build_epsilonProductionReducesInStartStateNotAGhostState(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, epsilonGrammar)
	col := automaton.Build(g)
	tbl := Build(col)

	sProds := g.ProductionsFor(g.Reg.IDOf("S"))
	if !assert.Len(sProds, 1) {
		return
	}
	identID := tbl.Grammar.Reg.IDOf("identifier")

	act, ok := tbl.Resolve(col.Start, identID)
	if !assert.True(ok, "expected a reduce action for S's epsilon production in the start state") {
		return
	}
	assert.Equal(Reduce, act.Kind)
	assert.Equal(sProds[0].ID, act.Target)
}

func Test_Action_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("s3", Action{Kind: Shift, Target: 3}.String())
	assert.Equal("r7", Action{Kind: Reduce, Target: 7}.String())
	assert.Equal("acc", Action{Kind: Accept}.String())
}
