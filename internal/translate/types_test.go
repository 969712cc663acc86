package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Process_declareLocal_rejectsDuplicateNames(t *testing.T) {
	assert := assert.New(t)

	p := &Process{Name: "main"}
	_, err := p.declareLocal("x", "i32")
	assert.NoError(err)

	_, err = p.declareLocal("x", "i32")
	assert.Error(err)
}

func Test_Process_declareParam_incrementsParamCountAndAppendsWord(t *testing.T) {
	assert := assert.New(t)

	p := &Process{Name: "add"}
	_, err := p.declareParam("a", "i32")
	assert.NoError(err)
	_, err = p.declareParam("b", "i32")
	assert.NoError(err)

	assert.Equal(2, p.ParamCount)
	assert.Len(p.Words, 2)
}

func Test_Process_lookupLocal_oneBasedIndexOrZero(t *testing.T) {
	assert := assert.New(t)

	p := &Process{Name: "main"}
	p.declareLocal("x", "i32")
	p.declareLocal("y", "i32")

	assert.Equal(1, p.lookupLocal("x"))
	assert.Equal(2, p.lookupLocal("y"))
	assert.Equal(0, p.lookupLocal("z"))
}

func Test_Translator_lookupWord_signedIndexConvention(t *testing.T) {
	assert := assert.New(t)

	tr := &Translator{StartAddress: 100, tempCounters: map[string]int{}}
	tr.Globals = append(tr.Globals, &Word{Name: "g", Type: "i32"})
	proc := &Process{Name: "main"}
	proc.declareLocal("x", "i32")
	tr.Processes = append(tr.Processes, proc)

	local := tr.lookupWord("x")
	assert.Equal(1, local.Index)
	assert.NotNil(local.Word)

	global := tr.lookupWord("g")
	assert.Equal(-1, global.Index)
	assert.NotNil(global.Word)

	missing := tr.lookupWord("nope")
	assert.Equal(0, missing.Index)
	assert.Nil(missing.Word)
}

func Test_Translator_lookupWord_localShadowsGlobal(t *testing.T) {
	assert := assert.New(t)

	tr := &Translator{StartAddress: 100, tempCounters: map[string]int{}}
	tr.Globals = append(tr.Globals, &Word{Name: "x", Type: "i32"})
	proc := &Process{Name: "main"}
	proc.declareLocal("x", "i32")
	tr.Processes = append(tr.Processes, proc)

	ref := tr.lookupWord("x")
	assert.Greater(ref.Index, 0, "local declaration of the same name must win")
}
