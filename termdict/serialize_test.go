package termdict_test

import (
	"testing"

	"github.com/nextfts/segreader/termdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := termdict.NewBuilder()
	require.NoError(t, b.Add("alpha", termdict.TermInfo{DocFreq: 1, PostingsOffset: 0, PostingsLen: 10}))
	require.NoError(t, b.Add("beta", termdict.TermInfo{DocFreq: 2, PostingsOffset: 10, PostingsLen: 5}))
	dict := b.Build()

	data := termdict.Encode(dict)
	decoded, err := termdict.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, dict.NumTerms(), decoded.NumTerms())

	info, ok := decoded.Get("beta")
	require.True(t, ok)
	assert.Equal(t, uint64(2), info.DocFreq)
	assert.Equal(t, uint64(10), info.PostingsOffset)
}

func TestEncodeDecodeEmpty(t *testing.T) {
	data := termdict.Encode(termdict.Empty())
	decoded, err := termdict.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 0, decoded.NumTerms())
}
