// Package compiler wires the registry, grammar, automaton, tables, parse
// driver, and semantic translator into the single front-end entry point
// described by spec.md's data-flow diagram: grammar text -> Loader ->
// Registry+Productions -> FIRST engine -> Item-Set Builder -> Table
// Builder -> ACTION/GOTO; token stream + ACTION/GOTO -> Parse Driver ->
// reduction events -> Semantic Translator -> quadruple stream + diagnostic
// list.
//
// Grounded on github.com/dekarrin/tunaq's internal/ictiobus.Frontend[E]:
// one struct owning every constructed stage, with an Analyze/AnalyzeString
// pair of entry points, per spec.md §9's "global-ish compiler state... best
// modeled as fields of a single compiler context passed by reference."
package compiler

import (
	"fmt"

	"github.com/stonebound/rillc/internal/automaton"
	"github.com/stonebound/rillc/internal/grammar"
	"github.com/stonebound/rillc/internal/lex"
	"github.com/stonebound/rillc/internal/lrtable"
	"github.com/stonebound/rillc/internal/parse"
	"github.com/stonebound/rillc/internal/translate"
)

// Compiler owns the constructed grammar, canonical collection, and
// ACTION/GOTO tables for one grammar file. It is read-only after
// construction; each call to Compile builds a fresh Translator so repeated
// compiles against the same grammar don't share symbol-table state.
type Compiler struct {
	Grammar      *grammar.Grammar
	Collection   *automaton.Collection
	Table        *lrtable.Table
	StartAddress int
}

// New loads and analyzes a grammar from source text, building the
// canonical collection and ACTION/GOTO tables. Table conflicts are
// returned in the Compiler, not as an error — per spec.md §4.5 they are
// non-fatal diagnostics — but a malformed grammar fails outright.
func New(grammarSrc string, startAddress int) (*Compiler, error) {
	g, err := grammar.ParseString(grammarSrc)
	if err != nil {
		return nil, fmt.Errorf("compiler: loading grammar: %w", err)
	}
	col := automaton.Build(g)
	tbl := lrtable.Build(col)

	return &Compiler{Grammar: g, Collection: col, Table: tbl, StartAddress: startAddress}, nil
}

// NewFromFile is New, reading the grammar from a file path.
func NewFromFile(path string, startAddress int) (*Compiler, error) {
	g, err := grammar.Load(path)
	if err != nil {
		return nil, err
	}
	col := automaton.Build(g)
	tbl := lrtable.Build(col)
	return &Compiler{Grammar: g, Collection: col, Table: tbl, StartAddress: startAddress}, nil
}

// Output is the result of compiling one source string: the token stream
// that was lexed, the accepted parse tree (nil on syntax error), the full
// parse trace, the emitted quadruples, and any semantic diagnostics.
type Output struct {
	Tokens      []lex.Token
	Tree        *parse.Tree
	Trace       []parse.TraceRecord
	Quads       []translate.Quad
	Diagnostics []error
	SyntaxError error
}

// Compile lexes src with the bundled reference lexer, drives the parse,
// and runs the semantic translator, per spec.md §7's policy: a syntax
// error halts the pipeline immediately (returned via Output.SyntaxError
// and as the function's error), while semantic diagnostics are collected
// and returned without stopping the parse.
func (c *Compiler) Compile(src string) (*Output, error) {
	toks, err := lex.Scan(src)
	if err != nil {
		return nil, fmt.Errorf("compiler: lexing: %w", err)
	}
	stream, err := lex.ScanAll(src)
	if err != nil {
		return nil, fmt.Errorf("compiler: lexing: %w", err)
	}

	tr := translate.New(c.Grammar, c.StartAddress)
	result, perr := parse.Run(c.Table, stream, tr)

	out := &Output{
		Tokens:      toks,
		Trace:       result.Trace,
		Quads:       tr.Quads,
		Diagnostics: tr.Diagnostics,
	}
	if perr != nil {
		out.SyntaxError = perr
		return out, perr
	}
	out.Tree = result.Tree
	return out, nil
}
