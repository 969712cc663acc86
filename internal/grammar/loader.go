package grammar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stonebound/rillc/internal/compileerr"
)

// ParseString is Parse over an in-memory grammar source string.
func ParseString(src string) (*Grammar, error) {
	return Parse(strings.NewReader(src))
}

// Load reads a grammar source file in the "LHS -> alt1 | alt2" text format
// described by spec.md §4.2 and §6, grounded on original_source/myParser.py's
// read_productions: "#" starts a line comment, blank lines are skipped, each
// non-blank line must match LHS -> RHS, and RHS alternatives are separated
// by "|" with symbols separated by whitespace. The literal symbol "None"
// names ε and always resolves to the registry's reserved epsilon id rather
// than being registered as an ordinary non-terminal.
func Load(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("grammar: opening %s: %w", path, err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("grammar: %s: %w", path, err)
	}
	return g, nil
}

// Parse reads a grammar in the same text format as Load, from an arbitrary
// reader. It is split out from Load so tests can build grammars from
// in-memory strings instead of testdata files.
//
// A malformed line (no "->") or an empty alternative is reported into
// Grammar.Diagnostics and skipped rather than aborting the whole read, per
// spec.md §4.2 ("malformed lines are reported but do not abort") and §7,
// matching original_source/myParser.py's read_productions, which prints and
// continues on both conditions. Parse fails outright when the reader itself
// errors or when Validate rejects the result: no usable productions at all,
// a left-hand side that names a terminal, or "None" alongside other symbols.
func Parse(r io.Reader) (*Grammar, error) {
	g := New()
	eps := g.Reg.EpsilonID()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		arrow := strings.Index(line, "->")
		if arrow < 0 {
			g.Diagnostics = append(g.Diagnostics, compileerr.New(
				compileerr.StageGrammar, compileerr.SeverityWarning, compileerr.Loc{Row: lineNo},
				"missing '->'", "line %d: missing '->', line skipped: %q", lineNo, line))
			continue
		}
		left := strings.TrimSpace(line[:arrow])
		right := strings.TrimSpace(line[arrow+2:])
		if left == "" {
			g.Diagnostics = append(g.Diagnostics, compileerr.New(
				compileerr.StageGrammar, compileerr.SeverityWarning, compileerr.Loc{Row: lineNo},
				"empty left-hand side", "line %d: empty left-hand side, line skipped", lineNo))
			continue
		}

		lhs := g.Reg.AddNonTerminal(left)

		for _, alt := range strings.Split(right, "|") {
			alt = strings.TrimSpace(alt)
			if alt == "" {
				g.Diagnostics = append(g.Diagnostics, compileerr.New(
					compileerr.StageGrammar, compileerr.SeverityWarning, compileerr.Loc{Row: lineNo},
					"empty alternative", "line %d: empty alternative in %q, alternative skipped", lineNo, line))
				continue
			}

			fields := strings.Fields(alt)
			rhs := make([]int, 0, len(fields))
			for _, sym := range fields {
				if sym == symbolEpsilon {
					rhs = append(rhs, eps)
					continue
				}
				rhs = append(rhs, g.Reg.IDOf(sym))
			}
			g.AddProduction(lhs, rhs)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	g.ComputeFirst()
	return g, nil
}

// symbolEpsilon is the textual name grammar source files use to spell ε on
// a right-hand side.
const symbolEpsilon = "None"
