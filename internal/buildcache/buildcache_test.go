package buildcache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustOpen(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("opening store: %s", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func Test_Open_createsSchemaOnFreshFile(t *testing.T) {
	assert := assert.New(t)

	st := mustOpen(t)
	recs, err := st.Recent(context.Background(), 10)
	assert.NoError(err)
	assert.Empty(recs)
}

func Test_Insert_thenRecent_roundTripsFields(t *testing.T) {
	assert := assert.New(t)

	st := mustOpen(t)
	ctx := context.Background()

	err := st.Insert(ctx, "srchash1", "gramhash1", 5, 0)
	assert.NoError(err)

	recs, err := st.Recent(ctx, 10)
	assert.NoError(err)
	if !assert.Len(recs, 1) {
		return
	}
	assert.Equal("srchash1", recs[0].SourceHash)
	assert.Equal("gramhash1", recs[0].GrammarHash)
	assert.Equal(5, recs[0].QuadCount)
	assert.Equal(0, recs[0].DiagnosticCount)
	assert.False(recs[0].CompiledAt.IsZero())
}

func Test_Recent_ordersNewestFirstAndRespectsLimit(t *testing.T) {
	assert := assert.New(t)

	st := mustOpen(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := st.Insert(ctx, "src", "gram", i, 0)
		assert.NoError(err)
	}

	recs, err := st.Recent(ctx, 2)
	assert.NoError(err)
	if !assert.Len(recs, 2) {
		return
	}
	assert.Equal(2, recs[0].QuadCount, "newest insert must come first")
	assert.Equal(1, recs[1].QuadCount)
}

func Test_Open_reopeningExistingFileKeepsData(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	st1, err := Open(path)
	if !assert.NoError(err) {
		return
	}
	assert.NoError(st1.Insert(context.Background(), "s", "g", 1, 0))
	assert.NoError(st1.Close())

	st2, err := Open(path)
	if !assert.NoError(err) {
		return
	}
	defer st2.Close()

	recs, err := st2.Recent(context.Background(), 10)
	assert.NoError(err)
	assert.Len(recs, 1)
}
