package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrailerRoundTrip(t *testing.T) {
	entries := []TrailerEntry{
		{Key: 1, Offset: 0, Length: 100},
		{Key: 2, Offset: 100, Length: 50},
		{Key: 3, Offset: 150, Length: 10},
	}

	payload := make([]byte, 160)
	data := append(payload, EncodeTrailer(entries)...)

	got, err := ParseTrailer(data)
	require.NoError(t, err)
	require.Equal(t, entries, got)

	dataEnd := TrailerDataEnd(uint64(len(data)), len(entries))
	require.Equal(t, uint64(len(payload)), dataEnd)
}

func TestParseTrailerEmpty(t *testing.T) {
	data := EncodeTrailer(nil)
	got, err := ParseTrailer(data)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestParseTrailerCorrupt(t *testing.T) {
	_, err := ParseTrailer([]byte{1, 2, 3})
	require.Error(t, err)

	// A count that claims more entries than the data can hold.
	bad := EncodeTrailer([]TrailerEntry{{Key: 1, Offset: 0, Length: 1}})
	bad = bad[len(bad)-4:] // drop the single entry but keep the count=1 suffix
	_, err = ParseTrailer(bad)
	require.Error(t, err)
}
