package invertedindex_test

import (
	"testing"

	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/invertedindex"
	"github.com/nextfts/segreader/postings"
	"github.com/nextfts/segreader/termdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderResolvesTermToPostings(t *testing.T) {
	docIDs := []uint32{0, 3, 7}
	freqs := []uint32{1, 2, 1}
	postingsData := postings.EncodePostings(docIDs, freqs, format.IndexRecordFreq)

	b := termdict.NewBuilder()
	require.NoError(t, b.Add("rust", termdict.TermInfo{
		DocFreq:        3,
		PostingsOffset: 0,
		PostingsLen:    uint64(len(postingsData)),
	}))
	dict := b.Build()

	r := invertedindex.New(dict, postingsData, nil, format.IndexRecordFreq, nil)

	cur, ok := r.ReadPostings("rust", format.IndexRecordFreq)
	require.True(t, ok)

	var got []uint32
	for cur.Advance() {
		got = append(got, cur.Doc())
	}
	assert.Equal(t, docIDs, got)
}

func TestReaderMissingTermReturnsFalse(t *testing.T) {
	r := invertedindex.Empty(format.IndexRecordBasic)

	_, ok := r.ReadPostings("anything", format.IndexRecordBasic)
	assert.False(t, ok)
}

func TestReaderClampsRequestedOption(t *testing.T) {
	docIDs := []uint32{0, 1}
	postingsData := postings.EncodePostings(docIDs, nil, format.IndexRecordBasic)

	b := termdict.NewBuilder()
	require.NoError(t, b.Add("go", termdict.TermInfo{PostingsLen: uint64(len(postingsData))}))
	dict := b.Build()

	r := invertedindex.New(dict, postingsData, nil, format.IndexRecordBasic, nil)

	cur, ok := r.ReadPostings("go", format.IndexRecordFreqAndPositions)
	require.True(t, ok)
	assert.True(t, cur.Advance())
	assert.Nil(t, cur.Positions())
}

func TestListEncodedFieldsSorted(t *testing.T) {
	r := invertedindex.New(termdict.Empty(), nil, nil, format.IndexRecordBasic, []invertedindex.EncodedField{
		{Path: "attrs.zeta", Type: format.ValueText},
		{Path: "attrs.alpha", Type: format.ValueText},
	})

	fields := r.ListEncodedFields()
	assert.Equal(t, "attrs.alpha", fields[0].Path)
	assert.Equal(t, "attrs.zeta", fields[1].Path)
}
