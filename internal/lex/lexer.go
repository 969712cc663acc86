package lex

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/stonebound/rillc/internal/grammar"
)

// keywords maps the reserved words of the fixed terminal set to themselves;
// anything else that looks like an identifier lexes as "identifier".
var keywords = map[string]bool{
	"i32": true, "let": true, "if": true, "else": true, "while": true,
	"return": true, "mut": true, "fn": true, "for": true, "in": true,
	"loop": true, "break": true, "continue": true,
}

// multiCharOps is checked longest-first so "==" isn't lexed as two "="s,
// "->" as "-" then ">", and so on.
var multiCharOps = []string{
	">>=", "<<=",
	"+=", "-=", "*=", "/=", "%=", "==", ">=", "<=", "!=", ">>", "<<", "->", "..",
}

var singleCharOps = "=+-*/%><()[]{},:;."

// Scan tokenizes src into a flat list of tokens terminated implicitly by
// the grammar's EndMarker terminal — the caller is expected to append it
// (via ScanAll, which does this) since the marker carries no source text of
// its own.
//
// This is a hand-written recursive-descent-free scanner, not the
// "external collaborator" lexer spec.md §1 assumes; it exists so the
// compiler pipeline can be driven end-to-end from source text in tests and
// the CLI/REPL without hand-building token lists for everything.
func Scan(src string) ([]Token, error) {
	var toks []Token
	row, col := 1, 1
	runes := []rune(src)
	i := 0

	advance := func(n int) {
		for k := 0; k < n; k++ {
			if runes[i+k] == '\n' {
				row++
				col = 1
			} else {
				col++
			}
		}
		i += n
	}

	for i < len(runes) {
		c := runes[i]

		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			advance(1)
			continue
		}

		if c == '/' && i+1 < len(runes) && runes[i+1] == '/' {
			for i < len(runes) && runes[i] != '\n' {
				advance(1)
			}
			continue
		}

		startLoc := Loc{Row: row, Col: col}

		if unicode.IsLetter(c) || c == '_' {
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			text := string(runes[i:j])
			if strings.HasPrefix(text, "__") {
				// the "__" prefix is reserved for the translator's temporaries
				return nil, fmt.Errorf("lex: identifier %q at %s may not begin with \"__\"", text, startLoc)
			}
			advance(j - i)
			if keywords[text] {
				toks = append(toks, NewToken(MakeClass(text), text, startLoc))
			} else {
				toks = append(toks, NewToken(MakeClass("identifier"), text, startLoc))
			}
			continue
		}

		if unicode.IsDigit(c) {
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			isFloat := false
			if j < len(runes) && runes[j] == '.' && j+1 < len(runes) && unicode.IsDigit(runes[j+1]) {
				isFloat = true
				j++
				for j < len(runes) && unicode.IsDigit(runes[j]) {
					j++
				}
			}
			text := string(runes[i:j])
			advance(j - i)
			class := "integer_constant"
			if isFloat {
				class = "floating_point_constant"
			}
			toks = append(toks, NewToken(MakeClass(class), text, startLoc))
			continue
		}

		matched := false
		for _, op := range multiCharOps {
			n := len(op)
			if i+n <= len(runes) && string(runes[i:i+n]) == op {
				advance(n)
				toks = append(toks, NewToken(MakeClass(op), op, startLoc))
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if strings.ContainsRune(singleCharOps, c) {
			advance(1)
			toks = append(toks, NewToken(MakeClass(string(c)), string(c), startLoc))
			continue
		}

		return nil, fmt.Errorf("lex: unexpected character %q at %s", c, startLoc)
	}

	return toks, nil
}

// ScanAll tokenizes src and appends the end-of-input marker required by
// spec.md §6, returning a ready-to-drive SliceStream.
func ScanAll(src string) (*SliceStream, error) {
	toks, err := Scan(src)
	if err != nil {
		return nil, err
	}
	row, col := 1, 1
	if len(toks) > 0 {
		last := toks[len(toks)-1]
		row, col = last.loc.Row, last.loc.Col+len(last.content)
	}
	end := NewToken(MakeClass(grammar.EndMarker), grammar.EndMarker, Loc{Row: row, Col: col})
	return NewSliceStream(toks, end), nil
}
