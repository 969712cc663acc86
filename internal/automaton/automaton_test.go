package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stonebound/rillc/internal/grammar"
)

// a tiny expression grammar, small enough to reason about its canonical
// collection by hand: Program -> E ; E -> E + identifier | identifier.
const exprGrammar = `
Program -> E
E -> E + identifier | identifier
`

func mustGrammar(t *testing.T, src string) *grammar.Grammar {
	t.Helper()
	g, err := grammar.ParseString(src)
	if err != nil {
		t.Fatalf("parsing test grammar: %s", err)
	}
	return g
}

func Test_Build_hasStatesAndStartsAtStateZero(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, exprGrammar)
	col := Build(g)

	assert.NotEmpty(col.States)
	assert.Equal(0, col.Start)
}

func Test_Build_everyTransitionTargetIsAValidState(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, exprGrammar)
	col := Build(g)

	for i, trans := range col.Transitions {
		for sym, target := range trans {
			assert.GreaterOrEqual(target, 0, "state %d symbol %d", i, sym)
			assert.Less(target, len(col.States), "state %d symbol %d", i, sym)
		}
	}
}

func Test_Build_isDeterministic(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, exprGrammar)
	col1 := Build(g)
	col2 := Build(mustGrammar(t, exprGrammar))

	assert.Equal(len(col1.States), len(col2.States))
}

func Test_Closure_addsProductionsOfNonTerminalAfterDot(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, exprGrammar)
	aug := Augment(g)
	startProd := aug.Productions[len(aug.Productions)-1]
	endMarker, _ := aug.Reg.LookupID("#")

	kernel := ItemSet{{Prod: startProd.ID, Dot: 0, Lookahead: endMarker}: {}}
	closed := Closure(aug, kernel)

	eProds := aug.ProductionsFor(g.Reg.IDOf("E"))
	for _, p := range eProds {
		found := false
		for it := range closed {
			if it.Prod == p.ID && it.Dot == 0 {
				found = true
			}
		}
		assert.True(found, "closure missing initial item for production %s", p.String(aug.Reg))
	}
}

func Test_Goto_emptyWhenSymbolNotExpected(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, exprGrammar)
	aug := Augment(g)
	startProd := aug.Productions[len(aug.Productions)-1]
	endMarker, _ := aug.Reg.LookupID("#")

	kernel := ItemSet{{Prod: startProd.ID, Dot: 0, Lookahead: endMarker}: {}}
	closed := Closure(aug, kernel)

	identID, _ := aug.Reg.LookupID("identifier")
	plusID, _ := aug.Reg.LookupID("+")

	assert.NotEmpty(Goto(aug, closed, identID))
	assert.Empty(Goto(aug, closed, plusID))
}

func Test_Augment_appendsSyntheticStartProduction(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, exprGrammar)
	aug := Augment(g)

	assert.Len(aug.Productions, len(g.Productions)+1)
	last := aug.Productions[len(aug.Productions)-1]
	assert.Equal(aug.Start, last.LHS)
	assert.Equal([]int{g.Start}, last.RHS)
}

// a grammar whose start symbol nullably derives a leading marker, the same
// shape as testdata/rill.cfg's "Program -> S DeclList" / "S -> None", so the
// collection builder must handle an ε-production item sitting at Dot 0.
const epsilonGrammar = `
Program -> S E
S -> None
E -> E + identifier | identifier
`

func Test_Item_AtEnd_epsilonItemIsAtEndRegardlessOfDot(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, epsilonGrammar)
	sProds := g.ProductionsFor(g.Reg.IDOf("S"))
	if !assert.Len(sProds, 1) {
		return
	}
	it := Item{Prod: sProds[0].ID, Dot: 0, Lookahead: g.Reg.IDOf("+")}
	assert.True(it.AtEnd(g))

	_, ok := it.NextSymbol(g)
	assert.False(ok, "an epsilon item must never report a real next symbol")
}

func Test_Build_epsilonProductionNeverProducesAGotoTransition(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, epsilonGrammar)
	col := Build(g)

	epsID := g.Reg.EpsilonID()
	for i, trans := range col.Transitions {
		_, ok := trans[epsID]
		assert.False(ok, "state %d must not have a GOTO/shift transition on epsilon", i)
	}
}

func Test_Build_epsilonReduceActionLandsInOriginatingState(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, epsilonGrammar)
	col := Build(g)

	sProds := g.ProductionsFor(g.Reg.IDOf("S"))
	if !assert.Len(sProds, 1) {
		return
	}
	sProdID := sProds[0].ID

	found := false
	for i, state := range col.States {
		for it := range state {
			if it.Prod == sProdID {
				assert.True(it.AtEnd(g), "state %d: epsilon item must be reduce-ready", i)
				found = true
			}
		}
	}
	assert.True(found, "the epsilon production's item must survive into the collection")
}
