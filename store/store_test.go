package store_test

import (
	"testing"

	"github.com/nextfts/segreader/fileslice"
	"github.com/nextfts/segreader/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	docs := [][]byte{
		[]byte("hello"),
		[]byte(""),
		[]byte("a longer document body"),
	}

	data := store.EncodeDocs(docs)
	reader, err := store.Open(fileslice.New(data), len(docs))
	require.NoError(t, err)

	assert.Equal(t, len(docs), reader.NumDocs())

	for i, want := range docs {
		got, err := reader.Get(uint32(i)) //nolint:gosec
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestStoreOutOfRange(t *testing.T) {
	data := store.EncodeDocs([][]byte{[]byte("x")})
	reader, err := store.Open(fileslice.New(data), 1)
	require.NoError(t, err)

	_, err = reader.Get(5)
	require.Error(t, err)
}
