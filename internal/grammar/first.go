package grammar

import "github.com/stonebound/rillc/internal/util"

// ComputeFirst fills in the FIRST set of every non-terminal by repeated
// passes over the production list until a pass produces no change, the
// textbook fixed-point construction also used by original_source's
// find_firsts/_update_first_sets. The result is cached; callers that mutate
// g.Productions after calling ComputeFirst must call it again.
func (g *Grammar) ComputeFirst() {
	eps := g.Reg.EpsilonID()
	first := make(map[int]map[int]bool)
	for _, nt := range g.Reg.NonTerminals() {
		first[nt] = make(map[int]bool)
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			set := first[p.LHS]
			before := len(set)
			if p.IsEpsilon(eps) {
				set[eps] = true
			} else {
				g.addFirstOfSequence(p.RHS, set, first, eps)
			}
			if len(set) != before {
				changed = true
			}
		}
	}

	g.first = first
}

// addFirstOfSequence adds to dst every terminal (and, if the whole sequence
// can derive ε, the epsilon id) that begins some derivation of seq, using
// the first sets accumulated so far in first.
func (g *Grammar) addFirstOfSequence(seq []int, dst map[int]bool, first map[int]map[int]bool, eps int) {
	allNullable := true
	for _, sym := range seq {
		if g.Reg.IsTerminal(sym) {
			dst[sym] = true
			allNullable = false
			break
		}

		symFirst := first[sym]
		for t := range symFirst {
			if t != eps {
				dst[t] = true
			}
		}
		if !symFirst[eps] {
			allNullable = false
			break
		}
	}
	if allNullable {
		dst[eps] = true
	}
}

// FirstOfSymbol returns the FIRST set of a single grammar symbol: the
// singleton {id} if it is a terminal or epsilon, or the cached non-terminal
// FIRST set otherwise. ComputeFirst must have been called first.
func (g *Grammar) FirstOfSymbol(id int) util.IntSet {
	out := util.NewIntSet()
	if g.Reg.IsTerminal(id) || g.Reg.IsEpsilon(id) {
		out.Add(id)
		return out
	}
	for t := range g.first[id] {
		out.Add(t)
	}
	return out
}

// FirstOfSequence returns FIRST(α) for a symbol sequence α, per spec.md
// §4.3: the set of terminals that can begin some string derived from α,
// plus ε itself if α can derive the empty string (including when α is
// empty). This is the function the LR(1) item-set builder (§4.4) calls to
// compute lookaheads for CLOSURE.
func (g *Grammar) FirstOfSequence(seq []int) util.IntSet {
	eps := g.Reg.EpsilonID()
	dst := make(map[int]bool)
	if len(seq) == 0 {
		dst[eps] = true
	} else {
		g.addFirstOfSequence(seq, dst, g.first, eps)
	}
	out := util.NewIntSet()
	for t := range dst {
		out.Add(t)
	}
	return out
}
