package termdict_test

import (
	"testing"

	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/termdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDict(t *testing.T, terms ...string) *termdict.Dict {
	t.Helper()

	b := termdict.NewBuilder()
	for i, term := range terms {
		require.NoError(t, b.Add(term, termdict.TermInfo{DocFreq: uint64(i + 1)}))
	}

	return b.Build()
}

func TestDictLookup(t *testing.T) {
	dict := buildDict(t, "apple", "banana", "cherry")

	info, ok := dict.Get("banana")
	require.True(t, ok)
	assert.Equal(t, uint64(2), info.DocFreq)

	_, ok = dict.Get("missing")
	assert.False(t, ok)
}

func TestDictIterationOrder(t *testing.T) {
	dict := buildDict(t, "apple", "banana", "cherry")

	var terms []string
	it := dict.Iter()
	for it.Advance() {
		terms = append(terms, it.Term())
	}

	assert.Equal(t, []string{"apple", "banana", "cherry"}, terms)
}

func TestBuilderRejectsOutOfOrder(t *testing.T) {
	b := termdict.NewBuilder()
	require.NoError(t, b.Add("banana", termdict.TermInfo{}))

	err := b.Add("apple", termdict.TermInfo{})
	require.ErrorIs(t, err, errs.ErrTermNotSorted)
}

func TestBuilderRejectsDuplicate(t *testing.T) {
	b := termdict.NewBuilder()
	require.NoError(t, b.Add("apple", termdict.TermInfo{}))

	err := b.Add("apple", termdict.TermInfo{})
	require.ErrorIs(t, err, errs.ErrTermNotSorted)
}

func TestEmptyDictHasNoTerms(t *testing.T) {
	dict := termdict.Empty()

	assert.Equal(t, 0, dict.NumTerms())
	_, ok := dict.Get("anything")
	assert.False(t, ok)
	assert.False(t, dict.Iter().Advance())
}

func TestRangeCursor(t *testing.T) {
	dict := buildDict(t, "apple", "banana", "cherry", "date")

	var terms []string
	it := dict.RangeCursor("banana")
	for it.Advance() {
		terms = append(terms, it.Term())
	}

	assert.Equal(t, []string{"banana", "cherry", "date"}, terms)
}
