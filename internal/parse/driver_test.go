package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stonebound/rillc/internal/automaton"
	"github.com/stonebound/rillc/internal/grammar"
	"github.com/stonebound/rillc/internal/lex"
	"github.com/stonebound/rillc/internal/lrtable"
)

func buildTestTable(t *testing.T, src string) *lrtable.Table {
	t.Helper()
	g, err := grammar.ParseString(src)
	if err != nil {
		t.Fatalf("parsing test grammar: %s", err)
	}
	col := automaton.Build(g)
	return lrtable.Build(col)
}

const sumGrammar = `
Program -> E
E -> E + identifier | identifier
`

func Test_Run_acceptsValidInput(t *testing.T) {
	assert := assert.New(t)

	tbl := buildTestTable(t, sumGrammar)
	toks := []lex.Token{
		lex.NewToken(lex.MakeClass("identifier"), "a", lex.Loc{Row: 1, Col: 1}),
		lex.NewToken(lex.MakeClass("+"), "+", lex.Loc{Row: 1, Col: 3}),
		lex.NewToken(lex.MakeClass("identifier"), "b", lex.Loc{Row: 1, Col: 5}),
	}
	end := lex.NewToken(lex.MakeClass("#"), "#", lex.Loc{Row: 1, Col: 6})
	stream := lex.NewSliceStream(toks, end)

	result, err := Run(tbl, stream, &stubTranslator{})
	assert.NoError(err)
	assert.NotNil(result.Tree)
	assert.Equal("Program", result.Tree.Label)
}

func Test_Run_syntaxErrorOnEmptyActionCell(t *testing.T) {
	assert := assert.New(t)

	tbl := buildTestTable(t, sumGrammar)
	toks := []lex.Token{
		lex.NewToken(lex.MakeClass("+"), "+", lex.Loc{Row: 1, Col: 1}),
	}
	end := lex.NewToken(lex.MakeClass("#"), "#", lex.Loc{Row: 1, Col: 2})
	stream := lex.NewSliceStream(toks, end)

	_, err := Run(tbl, stream, &stubTranslator{})
	assert.Error(err)
	var synErr *SyntaxError
	assert.ErrorAs(err, &synErr)
}

func Test_Run_traceStartsWithInitialRecord(t *testing.T) {
	assert := assert.New(t)

	tbl := buildTestTable(t, sumGrammar)
	toks := []lex.Token{
		lex.NewToken(lex.MakeClass("identifier"), "a", lex.Loc{Row: 1, Col: 1}),
	}
	end := lex.NewToken(lex.MakeClass("#"), "#", lex.Loc{Row: 1, Col: 2})
	stream := lex.NewSliceStream(toks, end)

	result, err := Run(tbl, stream, &stubTranslator{})
	assert.NoError(err)
	assert.NotEmpty(result.Trace)
	assert.Equal(0, result.Trace[0].Step)
}

// stubTranslator satisfies Translator without recording anything; used by
// tests that only care about the parse shape, not semantic attributes.
type stubTranslator struct{}

func (stubTranslator) Shift(tok lex.Token) any { return nil }
func (stubTranslator) Reduce(p grammar.Production, children []Frame, loc lex.Loc) any {
	return nil
}
