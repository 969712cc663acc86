// Package translate is the syntax-directed semantic translator: invoked on
// every parser reduction, it maintains the Word/Process symbol tables and
// the emitted quadruple stream, backpatching forward jump targets for
// control flow and function entry. Grounded structurally on
// original_source/mySemantic.py's Semantic.analyse dispatch (a big
// per-production-name switch mutating shared tables), reimplemented here as
// a Go switch on the reduced production's left-hand-side name, refined by
// its right-hand-side shape, with a single Attribute type, per spec.md §9's
// note that attributes should be "a product type with
// optional fields".
package translate

import "fmt"

// Attribute is the synthesized value attached to a parse-tree node by a
// reduction. Only the fields relevant to a given production are populated;
// spec.md §9 explicitly allows this "dynamic typing in attributes" via a
// product type with optional fields rather than per-production variants.
type Attribute struct {
	Place      string // the operand name/literal this (sub)expression evaluates to
	Op         string // operator lexeme, for CmpOp/AddOp/MulOp
	Quad       int    // captured instruction index, for M markers
	TrueList   []int  // indices of quads whose tar should jump on true
	FalseList  []int  // indices of quads whose tar should jump on false
	NextList   []int  // indices of quads whose tar should fall through to the next stmt
	HasReturn  bool   // whether this subtree guarantees a return on every path
	Identifier string // raw identifier text, for VarDeclInner and similar
	Type       string // declared type, default "i32"
	Word       *Word  // resolved symbol table entry, once declared
	Params     []*Word
	Args       []string // ordered argument places, for ArgList/ArgListTail
}

// Word is a declared variable: a name and a type. Whether it is global or
// local follows from the table holding it (Translator.Globals or a
// Process's Words), not from a field of its own.
type Word struct {
	Name string
	Type string
}

// Process is a declared function: its name, its single flat Word table
// (parameters followed by locals, matching mySemantic.py's words_table,
// which create_word appends both kinds of declaration to), its return
// type, and the instruction address its body starts at.
type Process struct {
	Name         string
	ReturnType   string
	Words        []*Word
	ParamCount   int
	StartAddress int
}

// lookupLocal returns the 1-based index of name in p's Words table, or 0 if
// not declared — the "positive local index" half of mySemantic.py's
// checkup_word signed-index convention.
func (p *Process) lookupLocal(name string) int {
	for i, w := range p.Words {
		if w.Name == name {
			return i + 1
		}
	}
	return 0
}

func (p *Process) declareLocal(name, typ string) (*Word, error) {
	if p.lookupLocal(name) != 0 {
		return nil, fmt.Errorf("duplicate variable %q in function %q", name, p.Name)
	}
	w := &Word{Name: name, Type: typ}
	p.Words = append(p.Words, w)
	return w, nil
}

// declareParam is declareLocal plus bumping the parameter count, used only
// while a FunctionHeader's ParamList is being processed (parameters must
// precede any local declared in the body).
func (p *Process) declareParam(name, typ string) (*Word, error) {
	w, err := p.declareLocal(name, typ)
	if err != nil {
		return nil, err
	}
	p.ParamCount++
	return w, nil
}
