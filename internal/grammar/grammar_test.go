package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const arithGrammar = `
Expr -> Expr + Term | Term
Term -> Term * identifier | identifier
`

func Test_ParseString_buildsProductionsInFileOrder(t *testing.T) {
	assert := assert.New(t)

	g, err := ParseString(arithGrammar)
	assert.NoError(err)
	assert.Len(g.Productions, 4)

	exprID := g.Reg.IDOf("Expr")
	assert.Equal(exprID, g.Start)
}

func Test_ParseString_epsilonProduction(t *testing.T) {
	assert := assert.New(t)

	g, err := ParseString("Program -> None\n")
	assert.NoError(err)
	assert.Len(g.Productions, 1)
	assert.True(g.Productions[0].IsEpsilon(g.Reg.EpsilonID()))
}

func Test_ParseString_commentsAndBlankLinesSkipped(t *testing.T) {
	assert := assert.New(t)

	src := "# a comment\n\nProgram -> identifier # trailing comment\n"
	g, err := ParseString(src)
	assert.NoError(err)
	assert.Len(g.Productions, 1)
}

func Test_ParseString_missingArrow_isErrorWhenNoProductionsSurvive(t *testing.T) {
	assert := assert.New(t)

	// the malformed line is skipped, not fatal by itself, but a grammar left
	// with zero productions afterward still fails Validate.
	_, err := ParseString("Program identifier\n")
	assert.Error(err)
}

func Test_Grammar_Validate_rejectsNonNonTerminalLHS(t *testing.T) {
	assert := assert.New(t)

	g := New()
	id := g.Reg.IDOf("identifier")
	g.AddProduction(id, []int{g.Reg.EpsilonID()})
	assert.Error(g.Validate())
}

func Test_Grammar_ProductionsFor(t *testing.T) {
	assert := assert.New(t)

	g, err := ParseString(arithGrammar)
	assert.NoError(err)

	termID := g.Reg.IDOf("Term")
	prods := g.ProductionsFor(termID)
	assert.Len(prods, 2)
	for _, p := range prods {
		assert.Equal(termID, p.LHS)
	}
}
