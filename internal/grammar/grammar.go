package grammar

import (
	"fmt"

	"github.com/stonebound/rillc/internal/symtab"
)

// Production is a single grammar rule, numbered in file order. Productions
// are immutable after loading; the item-set builder appends one synthetic
// augmenting production with the largest id once the grammar is otherwise
// complete (see automaton.Augment).
type Production struct {
	ID  uint32
	LHS int   // a non-terminal id
	RHS []int // ordered symbol ids; a singleton {epsilon id} denotes an ε-production
}

// IsEpsilon returns whether this production's right-hand side is the
// singleton epsilon production, per spec.md §3: "ε appears only as a
// singleton RHS."
func (p Production) IsEpsilon(epsilonID int) bool {
	return len(p.RHS) == 1 && p.RHS[0] == epsilonID
}

// String renders the production in "LHS -> s1 s2 s3" form given a symbol
// name resolver, for diagnostics and table rendering.
func (p Production) String(reg *symtab.Registry) string {
	lhs, _ := reg.NameOf(p.LHS)
	s := lhs + " ->"
	for _, sym := range p.RHS {
		name, _ := reg.NameOf(sym)
		s += " " + name
	}
	return s
}

// Grammar is the ordered set of productions over a Registry, plus the
// derived FIRST sets. It is the output of the Grammar Loader (§4.2) and the
// input to the FIRST-Set Engine (§4.3) and LR(1) Item-Set Builder (§4.4).
type Grammar struct {
	Reg         *symtab.Registry
	Productions []Production

	// Start is the id of the grammar's start non-terminal: the LHS of the
	// first production read from the grammar file, by convention "Program".
	Start int

	// Diagnostics collects non-fatal problems the Loader found and skipped
	// past while reading a grammar file: a malformed line (missing "->") or
	// an empty alternative is reported here rather than aborting the whole
	// load, per spec.md §4.2/§7.
	Diagnostics []error

	first map[int]map[int]bool
}

// New returns an empty Grammar over a fresh Registry seeded with the fixed
// terminal set (spec.md §6).
func New() *Grammar {
	return &Grammar{Reg: symtab.NewRegistry(FixedTerminals)}
}

// AddProduction appends a new production with a freshly allocated,
// monotonically increasing id and returns it.
func (g *Grammar) AddProduction(lhs int, rhs []int) Production {
	if len(g.Productions) == 0 {
		g.Start = lhs
	}
	p := Production{ID: uint32(len(g.Productions)), LHS: lhs, RHS: rhs}
	g.Productions = append(g.Productions, p)
	return p
}

// ProductionsFor returns every production whose LHS is nonTerminal, in file
// order.
func (g *Grammar) ProductionsFor(nonTerminal int) []Production {
	var out []Production
	for _, p := range g.Productions {
		if p.LHS == nonTerminal {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the invariants from spec.md §3: every referenced symbol
// id exists in the registry, every production's LHS is a non-terminal, and
// epsilon appears only as a singleton RHS.
func (g *Grammar) Validate() error {
	if len(g.Productions) == 0 {
		return fmt.Errorf("grammar: no productions defined")
	}

	errs := ""
	eps := g.Reg.EpsilonID()
	for _, p := range g.Productions {
		if !g.Reg.IsNonTerminal(p.LHS) {
			errs += fmt.Sprintf("\nproduction %d: left-hand side %d is not a non-terminal", p.ID, p.LHS)
		}
		for i, sym := range p.RHS {
			if sym == eps && !(len(p.RHS) == 1) {
				errs += fmt.Sprintf("\nproduction %d: epsilon must be the sole symbol of its right-hand side", p.ID)
			}
			if !g.Reg.IsTerminal(sym) && !g.Reg.IsNonTerminal(sym) && sym != eps {
				errs += fmt.Sprintf("\nproduction %d: symbol %d at position %d is not registered", p.ID, sym, i)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(errs[1:])
	}
	return nil
}
