package conceptlinks

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupIsCaseInsensitiveAndTrimmed(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)
	tbl := NewTable(seed.URLs())

	a, okA := tbl.Lookup(" Pydantic ")
	b, okB := tbl.Lookup("pydantic")
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, b, a)
	assert.Equal(t, "https://docs.pydantic.dev/", a)

	u, ok := tbl.Lookup("\tBaseModel\n")
	assert.True(t, ok)
	assert.Equal(t, "https://docs.pydantic.dev/latest/concepts/models/", u)
}

func TestLookupAbsent(t *testing.T) {
	tbl := NewTable(nil)
	u, ok := tbl.Lookup("rust borrow checker")
	assert.False(t, ok)
	assert.Equal(t, "", u)

	var zero Table
	_, ok = zero.Lookup("x")
	assert.False(t, ok)
	assert.Nil(t, zero.Concepts())
}

func TestUpsertOverwrites(t *testing.T) {
	tbl := NewTable(map[string]string{"CSS": "https://old.example"})
	tbl.Upsert("  css ", "https://developer.mozilla.org/en-US/docs/Web/CSS")
	u, _ := tbl.Lookup("Css")
	assert.Equal(t, "https://developer.mozilla.org/en-US/docs/Web/CSS", u)
	assert.Equal(t, 1, tbl.Len())

	tbl.Upsert("   ", "https://ignored.example")
	assert.Equal(t, 1, tbl.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	tbl := NewTable(map[string]string{"go": "https://go.dev/doc/"})
	snap := tbl.Snapshot()
	snap["go"] = "mutated"
	u, _ := tbl.Lookup("go")
	assert.Equal(t, "https://go.dev/doc/", u)
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	tbl := NewTable(map[string]string{"python": "https://docs.python.org/3/"})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tbl.Upsert(fmt.Sprintf("c%d-%d", i, j), "https://example.com")
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = tbl.Lookup("python")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1+8*100, tbl.Len(), "no lost updates")
}

func TestDefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)
	assert.Len(t, seed.Entries, 24)
	assert.Equal(t, []string{"https://docs.pydantic.dev/", "https://pydantic-docs.helpmanual.io/"}, seed.Candidates("Pydantic"))
	assert.Equal(t, []string{"https://docs.python.org/3/"}, seed.Candidates("python"))
	assert.Nil(t, seed.Candidates("cobol"))
}

func TestParseSeedRejectsDuplicates(t *testing.T) {
	_, err := ParseSeed([]byte(`
groups:
  - name: a
    concepts:
      - {concept: Go, url: "https://go.dev"}
      - {concept: " go ", url: "https://go.dev/doc"}
`))
	assert.Error(t, err)

	_, err = ParseSeed([]byte(`groups: [{name: a, concepts: [{concept: go}]}]`))
	assert.Error(t, err)
}

func TestLoadSeedOverride(t *testing.T) {
	path := t.TempDir() + "/seed.yaml"
	require.NoError(t, writeFile(path, "groups:\n  - name: go\n    concepts:\n      - concept: goroutine\n        url: https://go.dev/tour/concurrency/1\n"))
	t.Setenv(SeedPathEnv, path)
	seed, err := LoadSeed(nil)
	require.NoError(t, err)
	require.Len(t, seed.Entries, 1)
	assert.Equal(t, "go", seed.Entries[0].Group)
}
