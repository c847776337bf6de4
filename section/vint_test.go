package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVIntRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40, ^uint64(0)}

	for _, v := range values {
		buf := PutVInt(nil, v)
		require.Len(t, buf, VIntLen(v))

		got, n, err := ReadVInt(buf)
		require.NoError(t, err)
		require.Equal(t, len(buf), n)
		require.Equal(t, v, got)
	}
}

func TestReadVIntTruncated(t *testing.T) {
	// A single byte with the continuation bit set, but nothing after it.
	_, _, err := ReadVInt([]byte{0x80})
	require.Error(t, err)
}

func TestVIntLenMatchesEncodedLength(t *testing.T) {
	require.Equal(t, 1, VIntLen(0))
	require.Equal(t, 1, VIntLen(127))
	require.Equal(t, 2, VIntLen(128))
	require.Equal(t, 2, VIntLen(16383))
	require.Equal(t, 3, VIntLen(16384))
}
