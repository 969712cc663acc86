// Package automaton builds the canonical LR(1) collection of item sets for
// a grammar: Algorithm 4.56 in the dragon book, the same algorithm
// github.com/dekarrin/tunaq's ictiobus/automaton.NewLR1ViablePrefixDFA
// implements, generalized here from string-keyed items/states to the
// integer symbol ids symtab.Registry hands out.
package automaton

import (
	"fmt"

	"github.com/stonebound/rillc/internal/grammar"
)

// Item is a single LR(1) item [A -> α·β, a]: a production, a dot position
// into its right-hand side (0..len(RHS)), and a single lookahead terminal.
// It matches the {production_id, dot_position, lookahead} shape spec.md §3
// specifies for LR(1) items.
type Item struct {
	Prod      uint32
	Dot       int
	Lookahead int
}

// AtEnd returns whether the dot has reached the end of the production's
// right-hand side, i.e. this item calls for a reduction. An ε-production's
// item is always at end, regardless of Dot: per spec.md §3, ε appears only
// as a singleton RHS, and the "symbol" standing after the dot is never a
// real grammar symbol to shift or GOTO on.
func (it Item) AtEnd(g *grammar.Grammar) bool {
	p := g.Productions[it.Prod]
	if p.IsEpsilon(g.Reg.EpsilonID()) {
		return true
	}
	return it.Dot >= len(p.RHS)
}

// NextSymbol returns the symbol immediately after the dot and true, or
// (0, false) if the dot is at the end or the production is the ε-production
// (see AtEnd).
func (it Item) NextSymbol(g *grammar.Grammar) (int, bool) {
	p := g.Productions[it.Prod]
	if p.IsEpsilon(g.Reg.EpsilonID()) || it.Dot >= len(p.RHS) {
		return 0, false
	}
	return p.RHS[it.Dot], true
}

// Advance returns the item with the dot moved one position to the right.
func (it Item) Advance() Item {
	return Item{Prod: it.Prod, Dot: it.Dot + 1, Lookahead: it.Lookahead}
}

// key returns a comparable, hashable representation suitable for use as a Go
// map key (Item already is one, being composed only of value types, but the
// helper documents intent at call sites that build sets of items).
func (it Item) key() Item { return it }

func (it Item) String(g *grammar.Grammar) string {
	p := g.Productions[it.Prod]
	lhs, _ := g.Reg.NameOf(p.LHS)
	s := fmt.Sprintf("[%s ->", lhs)
	for i, sym := range p.RHS {
		if i == it.Dot {
			s += " ."
		}
		name, _ := g.Reg.NameOf(sym)
		s += " " + name
	}
	if it.Dot == len(p.RHS) {
		s += " ."
	}
	la, _ := g.Reg.NameOf(it.Lookahead)
	return s + fmt.Sprintf(", %s]", la)
}

// ItemSet is an unordered set of LR(1) items, as produced by Closure and
// consumed by Goto and the canonical-collection builder.
type ItemSet map[Item]struct{}

func newItemSet() ItemSet { return make(ItemSet) }

func (s ItemSet) add(it Item) bool {
	if _, ok := s[it]; ok {
		return false
	}
	s[it] = struct{}{}
	return true
}

// coreKey returns a string uniquely identifying this item set's membership,
// used to deduplicate states in the canonical collection. Two item sets
// with the same members (lookaheads included, per full LR(1) — this builder
// does not merge LALR(1)-style) produce the same key.
func (s ItemSet) coreKey() string {
	// Collect then sort for a stable key; sets are small (bounded by grammar
	// size) so an O(n log n) sort per comparison is not a concern here.
	items := make([]Item, 0, len(s))
	for it := range s {
		items = append(items, it)
	}
	return sortedItemKey(items)
}
