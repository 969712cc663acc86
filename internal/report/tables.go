// Package report renders ACTION/GOTO tables and quadruple listings as
// plain text, grounded on github.com/dekarrin/tunaq's
// internal/ictiobus/parse.canonicalLR1Table.String, which builds a 2D
// string grid and hands it to rosed's InsertTableOpts.
package report

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stonebound/rillc/internal/lrtable"
	"github.com/stonebound/rillc/internal/translate"
)

// ActionGotoTables renders the ACTION and GOTO tables in the two-2D-table
// shape spec.md §6 specifies: first row a header (state label plus one
// column per terminal or non-terminal), cells formatted as "s<j>", "r<k>",
// "acc", or empty.
func ActionGotoTables(t *lrtable.Table) string {
	g := t.Grammar
	terms := g.Reg.Terminals()
	nts := g.Reg.NonTerminals()

	header := []string{"State"}
	for _, term := range terms {
		name, _ := g.Reg.NameOf(term)
		header = append(header, "A:"+name)
	}
	header = append(header, "|")
	for _, nt := range nts {
		name, _ := g.Reg.NameOf(nt)
		header = append(header, "G:"+name)
	}

	data := [][]string{header}
	for state := range t.Action {
		row := []string{fmt.Sprintf("%d", state)}
		for _, term := range terms {
			row = append(row, cellFor(t, state, term))
		}
		row = append(row, "|")
		for _, nt := range nts {
			cell := ""
			if target, ok := t.Goto[state][nt]; ok {
				cell = fmt.Sprintf("%d", target)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func cellFor(t *lrtable.Table, state, term int) string {
	act, ok := t.Resolve(state, term)
	if !ok {
		return ""
	}
	return act.String()
}

// RenderQuadruples renders the emitted quadruple stream as a two-column
// "Address, Quadruple" table, the English-labeled equivalent of
// original_source's getQuaternationTable ("地址, 四元式") per
// SPEC_FULL.md's supplemented-feature note.
func RenderQuadruples(quads []translate.Quad, startAddress int) string {
	data := [][]string{{"Address", "Quadruple"}}
	for i, q := range quads {
		addr := fmt.Sprintf("%d", startAddress+i)
		quad := fmt.Sprintf("(%s, %s, %s, %s)", q.Op, q.Src1, q.Src2, q.Tar)
		data = append(data, []string{addr, quad})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

var titleCaser = cases.Title(language.English)

// HumanTerminal title-cases a terminal's raw grammar name for display
// ("integer_constant" -> "Integer Constant"). The parse driver's syntax
// errors do not use it; they name the raw terminal.
func HumanTerminal(name string) string {
	spaced := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '_' {
			spaced = append(spaced, ' ')
			continue
		}
		spaced = append(spaced, r)
	}
	return titleCaser.String(string(spaced))
}
