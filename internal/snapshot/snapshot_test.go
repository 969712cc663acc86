package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stonebound/rillc/internal/automaton"
	"github.com/stonebound/rillc/internal/grammar"
	"github.com/stonebound/rillc/internal/lrtable"
)

func Test_HashGrammar_deterministicForSameSource(t *testing.T) {
	assert := assert.New(t)

	a := HashGrammar("Program -> E\nE -> identifier\n")
	b := HashGrammar("Program -> E\nE -> identifier\n")
	assert.Equal(a, b)
}

func Test_HashGrammar_differsForDifferentSource(t *testing.T) {
	assert := assert.New(t)

	a := HashGrammar("Program -> E\nE -> identifier\n")
	b := HashGrammar("Program -> E\nE -> identifier identifier\n")
	assert.NotEqual(a, b)
}

func Test_FromTable_copiesStateCountAndRunID(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.ParseString("Program -> E\nE -> E + identifier | identifier\n")
	if !assert.NoError(err) {
		return
	}
	col := automaton.Build(g)
	tbl := lrtable.Build(col)

	snap := FromTable(tbl, "deadbeef")
	assert.Equal("deadbeef", snap.GrammarHash)
	assert.NotEmpty(snap.RunID)
	assert.Equal(len(tbl.Action), snap.NumStates)
	assert.Len(snap.Action, len(tbl.Action))
	assert.Len(snap.Goto, len(tbl.Goto))
}

func Test_SaveLoad_roundTripsGrammarHash(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.ParseString("Program -> E\nE -> identifier\n")
	if !assert.NoError(err) {
		return
	}
	col := automaton.Build(g)
	tbl := lrtable.Build(col)
	snap := FromTable(tbl, "abc123")

	path := filepath.Join(t.TempDir(), "table.bin")
	if !assert.NoError(Save(path, snap)) {
		return
	}

	loaded, err := Load(path)
	assert.NoError(err)
	assert.Equal(snap.GrammarHash, loaded.GrammarHash)
	assert.Equal(snap.NumStates, loaded.NumStates)
}

func Test_Load_missingFile_isError(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(err)
}
