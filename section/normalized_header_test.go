package section

import (
	"testing"

	"github.com/nextfts/segreader/format"
	"github.com/stretchr/testify/require"
)

func TestNormalizedHeaderRoundTrip(t *testing.T) {
	h := NormalizedHeader{
		Codec:    format.CodecBitpacked,
		NumVals:  80,
		MaxValue: 79000,
	}

	data := h.Bytes()
	require.Len(t, data, NormalizedHeaderSize)

	got, err := ParseNormalizedHeader(data)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestParseNormalizedHeaderTooShort(t *testing.T) {
	_, err := ParseNormalizedHeader(make([]byte, NormalizedHeaderSize-1))
	require.Error(t, err)
}

func TestWideHeaderRoundTrip(t *testing.T) {
	h := WideHeader{NumVals: 11, Codec: format.CodecCompactSpace}
	data := h.Bytes()
	require.Equal(t, h.Len(), len(data))

	got, n, err := ParseWideHeader(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, h, got)
}
