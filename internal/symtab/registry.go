// Package symtab holds the canonical mapping between grammar symbol names
// and the small integer IDs used everywhere else in the compiler: terminals
// occupy 0..T-1, epsilon is T, and non-terminals occupy T+1..T+N.
//
// This mirrors how github.com/dekarrin/tunaq's internal/ictiobus/grammar
// package is the single source of truth other ictiobus packages (automaton,
// parse, translation) key their maps against, except tunaq keys by symbol
// name directly; rillc generalizes that to the integer ID space spec.md §3
// requires.
package symtab

import "fmt"

// Epsilon is the reserved non-terminal-table name for the empty symbol. A
// freshly constructed Registry always has this at non-terminal index 0, so
// its ID equals the terminal count.
const Epsilon = "None"

// Registry is the symbol table backing a single grammar: a fixed sequence of
// terminals (including the end marker) and a growable sequence of
// non-terminals, starting with the epsilon placeholder.
type Registry struct {
	terminals    []string
	nonTerminals []string
	termIndex    map[string]int
	ntIndex      map[string]int
}

// NewRegistry returns a Registry whose terminal sequence is terminals, in the
// given order (id 0..len(terminals)-1), with the epsilon placeholder
// occupying non-terminal slot 0 (id len(terminals)).
func NewRegistry(terminals []string) *Registry {
	r := &Registry{
		terminals:    append([]string(nil), terminals...),
		nonTerminals: []string{Epsilon},
		termIndex:    make(map[string]int, len(terminals)),
		ntIndex:      map[string]int{Epsilon: 0},
	}
	for i, t := range r.terminals {
		r.termIndex[t] = i
	}
	return r
}

// EpsilonID returns the id of the epsilon symbol, which is always
// len(terminals).
func (r *Registry) EpsilonID() int {
	return len(r.terminals)
}

// NumTerminals returns the number of terminals registered, the end-of-input
// marker included.
func (r *Registry) NumTerminals() int {
	return len(r.terminals)
}

// IsTerminal returns whether id refers to a terminal (including the
// end-marker, but not epsilon).
func (r *Registry) IsTerminal(id int) bool {
	return id >= 0 && id < len(r.terminals)
}

// IsEpsilon returns whether id is the epsilon symbol.
func (r *Registry) IsEpsilon(id int) bool {
	return id == r.EpsilonID()
}

// IsNonTerminal returns whether id refers to a registered non-terminal,
// epsilon excluded.
func (r *Registry) IsNonTerminal(id int) bool {
	if id <= r.EpsilonID() {
		return false
	}
	return id-r.EpsilonID() < len(r.nonTerminals)
}

// IDOf returns the id for name, registering name as a fresh non-terminal if
// it is not already a known terminal or non-terminal. This matches
// spec.md §4.2: "Unknown symbols on the RHS are implicitly registered as
// non-terminals (order matters: a symbol is a terminal iff it already
// exists in the terminal table at registration time)."
func (r *Registry) IDOf(name string) int {
	if id, ok := r.termIndex[name]; ok {
		return id
	}
	if id, ok := r.ntIndex[name]; ok {
		return r.EpsilonID() + id
	}
	idx := len(r.nonTerminals)
	r.nonTerminals = append(r.nonTerminals, name)
	r.ntIndex[name] = idx
	return r.EpsilonID() + idx
}

// LookupID returns the id for name without registering it, failing if name
// is unknown.
func (r *Registry) LookupID(name string) (int, error) {
	if id, ok := r.termIndex[name]; ok {
		return id, nil
	}
	if id, ok := r.ntIndex[name]; ok {
		return r.EpsilonID() + id, nil
	}
	return 0, fmt.Errorf("symtab: unknown symbol %q", name)
}

// NameOf returns the registered name for id, failing if id is out of range.
func (r *Registry) NameOf(id int) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("symtab: negative symbol id %d", id)
	}
	if id < len(r.terminals) {
		return r.terminals[id], nil
	}
	ntIdx := id - len(r.terminals)
	if ntIdx < len(r.nonTerminals) {
		return r.nonTerminals[ntIdx], nil
	}
	return "", fmt.Errorf("symtab: symbol id %d out of range", id)
}

// AddNonTerminal registers name as a non-terminal if it is not already
// known (as either a terminal or a non-terminal) and returns its id.
func (r *Registry) AddNonTerminal(name string) int {
	return r.IDOf(name)
}

// NonTerminals returns the ids of every registered non-terminal, epsilon
// excluded, in registration order.
func (r *Registry) NonTerminals() []int {
	ids := make([]int, 0, len(r.nonTerminals)-1)
	for i := 1; i < len(r.nonTerminals); i++ {
		ids = append(ids, r.EpsilonID()+i)
	}
	return ids
}

// Terminals returns the ids of every terminal, in fixed registration order.
func (r *Registry) Terminals() []int {
	ids := make([]int, len(r.terminals))
	for i := range ids {
		ids[i] = i
	}
	return ids
}
