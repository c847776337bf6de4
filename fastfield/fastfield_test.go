package fastfield_test

import (
	"net"
	"testing"

	"github.com/nextfts/segreader/columnar"
	"github.com/nextfts/segreader/compositefile"
	"github.com/nextfts/segreader/fastfield"
	"github.com/nextfts/segreader/fileslice"
	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/schema"
	"github.com/nextfts/segreader/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildComposite assembles a minimal trailer-encoded composite file
// backing a single numeric fast field.
func buildComposite(t *testing.T, entries map[compositefile.Key][]byte) compositefile.File {
	t.Helper()

	var data []byte
	var trailer []section.TrailerEntry
	for key, payload := range entries {
		trailer = append(trailer, section.TrailerEntry{Key: packKey(key), Offset: uint64(len(data)), Length: uint64(len(payload))})
		data = append(data, payload...)
	}
	data = append(data, section.EncodeTrailer(trailer)...)

	f, err := compositefile.Open(fileslice.New(data))
	require.NoError(t, err)

	return f
}

func packKey(k compositefile.Key) uint64 {
	return uint64(k.Field)<<32 | uint64(k.Discriminator)
}

func TestOpenU64Column(t *testing.T) {
	values := []uint64{10, 20, 30}
	payload := columnar.Serialize(values)

	composite := buildComposite(t, map[compositefile.Key][]byte{
		{Field: 0, Discriminator: 1}: payload,
	})

	sch := schema.New([]schema.FieldEntry{
		{Name: "score", Type: format.ValueU64, Flags: schema.FlagFast},
	})

	reader := fastfield.Open(composite, sch)
	col, err := reader.OpenU64("score")
	require.NoError(t, err)

	assert.Equal(t, values[0], col.Get(0))
	assert.Equal(t, values[2], col.Get(2))
}

func TestOpenI64Column(t *testing.T) {
	values := []int64{-5, 0, 7}
	payload := columnar.Serialize(fastfield.EncodeI64Values(values))

	composite := buildComposite(t, map[compositefile.Key][]byte{
		{Field: 0, Discriminator: 1}: payload,
	})

	sch := schema.New([]schema.FieldEntry{
		{Name: "delta", Type: format.ValueI64, Flags: schema.FlagFast},
	})

	reader := fastfield.Open(composite, sch)
	col, err := reader.OpenI64("delta")
	require.NoError(t, err)

	for i, want := range values {
		assert.Equal(t, want, col.Get(i))
	}
}

func TestOpenF64Column(t *testing.T) {
	values := []float64{1.5, -2.25, 3.0}
	payload := columnar.Serialize(fastfield.EncodeF64Values(values))

	composite := buildComposite(t, map[compositefile.Key][]byte{
		{Field: 0, Discriminator: 1}: payload,
	})

	sch := schema.New([]schema.FieldEntry{
		{Name: "weight", Type: format.ValueF64, Flags: schema.FlagFast},
	})

	reader := fastfield.Open(composite, sch)
	col, err := reader.OpenF64("weight")
	require.NoError(t, err)

	for i, want := range values {
		assert.InDelta(t, want, col.Get(i), 0)
	}
}

func TestFacetReaderResolvesOrdinals(t *testing.T) {
	dict := []string{"/electronics", "/electronics/phones", "/garden"}
	ordinals := []uint64{1, 0, 2}

	dictBytes, ordBytes := fastfield.EncodeStrDictColumn(dict, ordinals)

	composite := buildComposite(t, map[compositefile.Key][]byte{
		{Field: 0, Discriminator: 2}: dictBytes,
		{Field: 0, Discriminator: 3}: ordBytes,
	})

	sch := schema.New([]schema.FieldEntry{
		{Name: "category", Type: format.ValueFacet, Flags: schema.FlagFast},
	})

	reader := fastfield.Open(composite, sch)
	facets, err := reader.FacetReader("category")
	require.NoError(t, err)

	assert.Equal(t, "/electronics/phones", facets.Get(0))
	assert.Equal(t, "/electronics", facets.Get(1))
	assert.Equal(t, "/garden", facets.Get(2))
}

func TestFacetReaderRejectsWrongType(t *testing.T) {
	composite := compositefile.Empty()

	sch := schema.New([]schema.FieldEntry{
		{Name: "score", Type: format.ValueU64, Flags: schema.FlagFast},
	})

	reader := fastfield.Open(composite, sch)
	_, err := reader.FacetReader("score")
	require.Error(t, err)
}

func TestOpenIPColumn(t *testing.T) {
	ips := []net.IP{net.ParseIP("10.0.0.1"), net.ParseIP("2001:db8::1"), net.ParseIP("192.168.1.1")}
	payload := fastfield.EncodeIPValues(ips)

	composite := buildComposite(t, map[compositefile.Key][]byte{
		{Field: 0, Discriminator: 6}: payload,
	})

	sch := schema.New([]schema.FieldEntry{
		{Name: "client_ip", Type: format.ValueIP, Flags: schema.FlagFast},
	})

	reader := fastfield.Open(composite, sch)
	col, err := reader.OpenIP("client_ip")
	require.NoError(t, err)

	require.Equal(t, len(ips), col.Len())
	for i, want := range ips {
		assert.True(t, want.Equal(col.Get(i)), "index %d: want %s, got %s", i, want, col.Get(i))
	}
}

func TestOpenBytesColumn(t *testing.T) {
	dict := [][]byte{{0x01, 0x02}, {0xff}, {}}
	ordinals := []uint64{1, 0, 2, 1}

	dictBytes, ordBytes := fastfield.EncodeBytesDictColumn(dict, ordinals)

	composite := buildComposite(t, map[compositefile.Key][]byte{
		{Field: 0, Discriminator: 4}: dictBytes,
		{Field: 0, Discriminator: 5}: ordBytes,
	})

	sch := schema.New([]schema.FieldEntry{
		{Name: "checksum", Type: format.ValueBytes, Flags: schema.FlagFast},
	})

	reader := fastfield.Open(composite, sch)
	col, err := reader.OpenBytes("checksum")
	require.NoError(t, err)

	require.Equal(t, len(ordinals), col.Len())
	assert.Equal(t, []byte{0xff}, col.Get(0))
	assert.Equal(t, []byte{0x01, 0x02}, col.Get(1))
	assert.Equal(t, []byte{}, col.Get(2))
	assert.Equal(t, []byte{0xff}, col.Get(3))
}

func TestColumnsEnumeratesDeclaredFastFields(t *testing.T) {
	composite := compositefile.Empty()

	sch := schema.New([]schema.FieldEntry{
		{Name: "b_field", Type: format.ValueU64, Flags: schema.FlagFast},
		{Name: "a_field", Type: format.ValueU64, Flags: schema.FlagFast},
		{Name: "not_fast", Type: format.ValueU64},
	})

	reader := fastfield.Open(composite, sch)
	cols := reader.Columns()

	require.Len(t, cols, 2)
	assert.Equal(t, "a_field", cols[0].Name)
	assert.Equal(t, "b_field", cols[1].Name)
}
