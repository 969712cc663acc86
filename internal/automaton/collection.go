package automaton

import (
	"fmt"
	"sort"

	"github.com/stonebound/rillc/internal/grammar"
)

// sortedItemKey produces a deterministic string key for a slice of items,
// independent of the iteration order map ranging gave us.
func sortedItemKey(items []Item) string {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Prod != b.Prod {
			return a.Prod < b.Prod
		}
		if a.Dot != b.Dot {
			return a.Dot < b.Dot
		}
		return a.Lookahead < b.Lookahead
	})
	key := ""
	for _, it := range items {
		key += fmt.Sprintf("%d.%d.%d|", it.Prod, it.Dot, it.Lookahead)
	}
	return key
}

// StartSymbolSuffix is appended to the start symbol's name to name the
// fresh left-hand side S' of the augmenting production S' -> Start that
// Augment appends, per spec.md §4.4.
const StartSymbolSuffix = "'"

// Augment returns a copy of g with one synthetic production appended,
// S' -> Start, where S' is a freshly registered non-terminal and Start is
// g's existing start symbol. The returned grammar's Start field points at
// S'. This mirrors tunaq's Grammar.Augmented, used by
// NewLR1ViablePrefixDFA to seed the canonical collection with a single
// unambiguous accepting production.
func Augment(g *grammar.Grammar) *grammar.Grammar {
	aug := &grammar.Grammar{Reg: g.Reg, Productions: append([]grammar.Production(nil), g.Productions...)}

	oldStartName, _ := g.Reg.NameOf(g.Start)
	newStart := g.Reg.AddNonTerminal(oldStartName + StartSymbolSuffix)
	aug.Start = newStart
	aug.AddProduction(newStart, []int{g.Start})

	aug.ComputeFirst()
	return aug
}

// Collection is the canonical LR(1) collection of item sets (the "viable
// prefix DFA" of the dragon book): the states, the shift/goto transitions
// between them by symbol, and the id of the start state.
type Collection struct {
	Grammar     *grammar.Grammar // the augmented grammar the items refer to
	States      []ItemSet
	Transitions []map[int]int // Transitions[state][symbol] = target state
	Start       int
	StartProd   uint32 // id of the S' -> Start production
}

// Closure computes the ε-closure of a kernel item set under grammar g:
// repeatedly, for every item [A -> α·Bβ, a] with B a non-terminal, add
// [B -> ·γ, b] for every production B -> γ and every b in FIRST(βa). This is
// Algorithm 4.54 -ish in the dragon book and the direct int-id analogue of
// ictiobus's Grammar.LR1_CLOSURE.
func Closure(g *grammar.Grammar, kernel ItemSet) ItemSet {
	out := newItemSet()
	for it := range kernel {
		out.add(it)
	}

	changed := true
	for changed {
		changed = false
		for it := range out {
			sym, ok := it.NextSymbol(g)
			if !ok || !g.Reg.IsNonTerminal(sym) {
				continue
			}

			p := g.Productions[it.Prod]
			beta := append([]int(nil), p.RHS[it.Dot+1:]...)

			for _, la := range g.FirstOfSequence(append(beta, it.Lookahead)).Elements() {
				for _, prod := range g.ProductionsFor(sym) {
					newItem := Item{Prod: prod.ID, Dot: 0, Lookahead: la}
					if out.add(newItem) {
						changed = true
					}
				}
			}
		}
	}
	return out
}

// Goto computes the state reached from itemSet on symbol sym: the closure
// of every item with the dot advanced past sym, for items where sym
// immediately follows the dot.
func Goto(g *grammar.Grammar, itemSet ItemSet, sym int) ItemSet {
	kernel := newItemSet()
	for it := range itemSet {
		next, ok := it.NextSymbol(g)
		if ok && next == sym {
			kernel.add(it.Advance())
		}
	}
	if len(kernel) == 0 {
		return nil
	}
	return Closure(g, kernel)
}

// Build constructs the canonical LR(1) collection for g, per spec.md §4.4:
// augment the grammar, seed the collection with the closure of
// [S' -> ·Start, #], then repeatedly apply Goto on every symbol that
// appears after a dot in every state until a fixed point is reached.
func Build(g *grammar.Grammar) *Collection {
	aug := Augment(g)
	startProd := aug.Productions[len(aug.Productions)-1]

	endMarker, _ := aug.Reg.LookupID(grammarEndMarker)
	start := Closure(aug, ItemSet{{Prod: startProd.ID, Dot: 0, Lookahead: endMarker}: {}})

	keyToIndex := map[string]int{start.coreKey(): 0}
	col := &Collection{
		Grammar:     aug,
		States:      []ItemSet{start},
		Transitions: []map[int]int{{}},
		Start:       0,
		StartProd:   startProd.ID,
	}

	changed := true
	for changed {
		changed = false
		for i := 0; i < len(col.States); i++ {
			symbols := outgoingSymbols(aug, col.States[i])
			for _, sym := range symbols {
				if _, already := col.Transitions[i][sym]; already {
					continue
				}
				target := Goto(aug, col.States[i], sym)
				if len(target) == 0 {
					continue
				}

				key := target.coreKey()
				idx, ok := keyToIndex[key]
				if !ok {
					idx = len(col.States)
					keyToIndex[key] = idx
					col.States = append(col.States, target)
					col.Transitions = append(col.Transitions, map[int]int{})
					changed = true
				}
				col.Transitions[i][sym] = idx
			}
		}
	}

	return col
}

// outgoingSymbols returns, in ascending id order, every symbol that
// immediately follows a dot in some item of set.
func outgoingSymbols(g *grammar.Grammar, set ItemSet) []int {
	seen := map[int]bool{}
	var out []int
	for it := range set {
		sym, ok := it.NextSymbol(g)
		if !ok || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	sort.Ints(out)
	return out
}

const grammarEndMarker = "#"
