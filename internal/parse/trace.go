package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stonebound/rillc/internal/grammar"
	"github.com/stonebound/rillc/internal/lex"
	"github.com/stonebound/rillc/internal/symtab"
)

// TraceRecord is one row of the parse trace, per spec.md §6:
// `[step_no, state_stack, symbol_stack, remaining_input, description]`.
// The description templates are kept verbatim from
// original_source/myParser.py's parse_process_display rows, which spec.md
// §6 itself quotes as the external interface.
type TraceRecord struct {
	Step            int
	StateStack      []int
	SymbolStack     []string
	RemainingInput  []string
	Description     string
}

func (r TraceRecord) String() string {
	states := make([]string, len(r.StateStack))
	for i, s := range r.StateStack {
		states[i] = strconv.Itoa(s)
	}
	return fmt.Sprintf("%d\t[%s]\t[%s]\t[%s]\t%s",
		r.Step,
		strings.Join(states, " "),
		strings.Join(r.SymbolStack, " "),
		strings.Join(r.RemainingInput, " "),
		r.Description,
	)
}

func stateStackOf(stack []Frame) []int {
	out := make([]int, len(stack))
	for i, f := range stack {
		out[i] = f.State
	}
	return out
}

func symbolStackOf(stack []Frame) []string {
	out := make([]string, len(stack))
	for i, f := range stack {
		out[i] = f.Node.Label
	}
	return out
}

func remainingOf(toks lex.TokenStream) []string {
	type remainer interface{ Remaining() []lex.Token }
	if rs, ok := toks.(remainer); ok {
		rem := rs.Remaining()
		out := make([]string, len(rem))
		for i, t := range rem {
			out[i] = t.Content()
		}
		return out
	}
	return []string{toks.Peek().Content()}
}

func newInitialRecord(stack []Frame) TraceRecord {
	return TraceRecord{
		Step:        0,
		StateStack:  stateStackOf(stack),
		SymbolStack: symbolStackOf(stack),
		Description: "初始状态",
	}
}

func newShiftRecord(step int, stack []Frame, toks lex.TokenStream, target int, tok lex.Token) TraceRecord {
	return TraceRecord{
		Step:           step,
		StateStack:     stateStackOf(stack),
		SymbolStack:    symbolStackOf(stack),
		RemainingInput: remainingOf(toks),
		Description:    fmt.Sprintf("移进 %s, 状态 %d 压栈", tok.Content(), target),
	}
}

func newReduceRecord(step int, stack []Frame, toks lex.TokenStream, p grammar.Production, reg *symtab.Registry) TraceRecord {
	return TraceRecord{
		Step:           step,
		StateStack:     stateStackOf(stack),
		SymbolStack:    symbolStackOf(stack),
		RemainingInput: remainingOf(toks),
		Description:    fmt.Sprintf("使用产生式(%s)进行规约", p.String(reg)),
	}
}

func newAcceptRecord(step int, stack []Frame, toks lex.TokenStream) TraceRecord {
	return TraceRecord{
		Step:           step,
		StateStack:     stateStackOf(stack),
		SymbolStack:    symbolStackOf(stack),
		RemainingInput: remainingOf(toks),
		Description:    "接受",
	}
}
