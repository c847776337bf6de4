package segment_test

import (
	"testing"

	"github.com/nextfts/segreader/bitset"
	"github.com/nextfts/segreader/compositefile"
	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/fastfield"
	"github.com/nextfts/segreader/fileslice"
	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/postings"
	"github.com/nextfts/segreader/schema"
	"github.com/nextfts/segreader/section"
	"github.com/nextfts/segreader/segment"
	"github.com/nextfts/segreader/store"
	"github.com/nextfts/segreader/termdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	components map[format.SegmentComponent][]byte
}

func (d *fakeDirectory) OpenRead(_ string, component format.SegmentComponent) (fileslice.Slice, error) {
	data, ok := d.components[component]
	if !ok {
		return fileslice.Slice{}, errs.ErrComponentNotFound
	}

	return fileslice.New(data), nil
}

func packComposite(entries map[compositefile.Key][]byte) []byte {
	var data []byte
	var trailer []section.TrailerEntry
	for key, payload := range entries {
		trailer = append(trailer, section.TrailerEntry{
			Key:    uint64(key.Field)<<32 | uint64(key.Discriminator),
			Offset: uint64(len(data)),
			Length: uint64(len(payload)),
		})
		data = append(data, payload...)
	}

	return append(data, section.EncodeTrailer(trailer)...)
}

func buildTestSchema() *schema.Schema {
	return schema.New([]schema.FieldEntry{
		{Name: "body", Type: format.ValueText, Flags: schema.FlagIndexed, RecordOption: format.IndexRecordBasic},
	})
}

func buildTestDirectory(t *testing.T, withPositions, withDeletes bool) *fakeDirectory {
	t.Helper()

	b := termdict.NewBuilder()
	require.NoError(t, b.Add("alpha", termdict.TermInfo{DocFreq: 2, PostingsOffset: 0, PostingsLen: 3}))
	dict := b.Build()
	termsComposite := packComposite(map[compositefile.Key][]byte{
		{Field: 0}: termdict.Encode(dict),
	})

	postingsPayload := postings.EncodePostings([]uint32{0, 2}, nil, format.IndexRecordBasic)
	postingsComposite := packComposite(map[compositefile.Key][]byte{
		{Field: 0}: postingsPayload,
	})

	storeData := store.EncodeDocs([][]byte{[]byte("doc0"), []byte("doc1"), []byte("doc2"), []byte("doc3")})

	components := map[format.SegmentComponent][]byte{
		format.ComponentTerms:      termsComposite,
		format.ComponentPostings:   postingsComposite,
		format.ComponentStore:      storeData,
		format.ComponentFastFields: packComposite(nil),
		format.ComponentFieldNorms: packComposite(nil),
	}

	if withPositions {
		positionsPayload := postings.EncodePositions([][]uint32{{1}, {3}})
		components[format.ComponentPositions] = packComposite(map[compositefile.Key][]byte{
			{Field: 0}: positionsPayload,
		})
	}

	if withDeletes {
		words := make([]byte, 8)
		// alive bitmap: docs 0 and 2 alive, 1 and 3 deleted.
		words[0] = 0b00000101
		components[format.ComponentDelete] = words
	}

	return &fakeDirectory{components: components}
}

func TestOpenAndReadPostings(t *testing.T) {
	dir := buildTestDirectory(t, true, false)
	sch := buildTestSchema()

	r, err := segment.Open(dir, segment.SegmentMeta{SegmentID: "seg0", MaxDoc: 4}, sch)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), r.NumDocs())
	assert.False(t, r.HasDeletes())

	field, err := sch.GetField("body")
	require.NoError(t, err)

	idx, err := r.InvertedIndex(field)
	require.NoError(t, err)

	cursor, ok := idx.ReadPostings("alpha", format.IndexRecordBasic)
	require.True(t, ok)

	var docs []uint32
	for cursor.Advance() {
		docs = append(docs, cursor.Doc())
	}
	assert.Equal(t, []uint32{0, 2}, docs)
}

func TestMissingPositionsFileIsTolerated(t *testing.T) {
	dir := buildTestDirectory(t, false, false)
	sch := buildTestSchema()

	r, err := segment.Open(dir, segment.SegmentMeta{SegmentID: "seg0", MaxDoc: 4}, sch)
	require.NoError(t, err)

	field, err := sch.GetField("body")
	require.NoError(t, err)

	idx, err := r.InvertedIndex(field)
	require.NoError(t, err)

	cursor, ok := idx.ReadPostings("alpha", format.IndexRecordBasic)
	require.True(t, ok)
	require.True(t, cursor.Advance())
	assert.Empty(t, cursor.Positions())
}

func TestInvertedIndexIsCachedAcrossCalls(t *testing.T) {
	dir := buildTestDirectory(t, true, false)
	sch := buildTestSchema()

	r, err := segment.Open(dir, segment.SegmentMeta{SegmentID: "seg0", MaxDoc: 4}, sch)
	require.NoError(t, err)

	field, err := sch.GetField("body")
	require.NoError(t, err)

	first, err := r.InvertedIndex(field)
	require.NoError(t, err)
	second, err := r.InvertedIndex(field)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestDeleteThenCommitScenario(t *testing.T) {
	dir := buildTestDirectory(t, true, true)
	sch := buildTestSchema()

	r, err := segment.Open(dir, segment.SegmentMeta{SegmentID: "seg0", MaxDoc: 4, HasDeletes: true, DeleteOpstamp: 7}, sch)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), r.NumDocs())
	assert.True(t, r.HasDeletes())
	assert.Equal(t, uint32(2), r.NumDeletedDocs())
	assert.True(t, r.IsDeleted(1))
	assert.True(t, r.IsDeleted(3))
	assert.False(t, r.IsDeleted(0))

	var alive []uint32
	cursor := r.DocIdsAlive()
	for cursor.Advance() {
		alive = append(alive, cursor.Current())
	}
	assert.Equal(t, []uint32{0, 2}, alive)
}

func TestCustomAliveBitsetIntersectsWithFileDeletes(t *testing.T) {
	dir := buildTestDirectory(t, true, false)
	sch := buildTestSchema()

	custom := bitset.New(4, func(id uint32) bool { return id != 2 })

	r, err := segment.Open(dir, segment.SegmentMeta{SegmentID: "seg0", MaxDoc: 4}, sch, segment.WithCustomAlive(custom))
	require.NoError(t, err)

	assert.Equal(t, uint32(3), r.NumDocs())
	assert.True(t, r.IsDeleted(2))
	assert.False(t, r.IsDeleted(0))
}

func TestDocIdsAliveWithoutDeletesCoversFullDomain(t *testing.T) {
	dir := buildTestDirectory(t, true, false)
	sch := buildTestSchema()

	r, err := segment.Open(dir, segment.SegmentMeta{SegmentID: "seg0", MaxDoc: 4}, sch)
	require.NoError(t, err)

	var docs []uint32
	cursor := r.DocIdsAlive()
	for cursor.Advance() {
		docs = append(docs, cursor.Current())
	}
	assert.Equal(t, []uint32{0, 1, 2, 3}, docs)
}

func TestFieldsMetadataIsDeterministic(t *testing.T) {
	dir := buildTestDirectory(t, true, false)
	sch := buildTestSchema()

	r, err := segment.Open(dir, segment.SegmentMeta{SegmentID: "seg0", MaxDoc: 4}, sch)
	require.NoError(t, err)

	meta, err := r.FieldsMetadata()
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, "body", meta[0].Name)
	assert.True(t, meta[0].Indexed)
}

func TestFieldsMetadataMergesInSortedOrder(t *testing.T) {
	sch := schema.New([]schema.FieldEntry{
		{Name: "apple", Type: format.ValueU64, Flags: schema.FlagFast},
		{Name: "zebra", Type: format.ValueText, Flags: schema.FlagIndexed, RecordOption: format.IndexRecordBasic},
	})

	components := map[format.SegmentComponent][]byte{
		format.ComponentTerms:      packComposite(nil),
		format.ComponentPostings:   packComposite(nil),
		format.ComponentStore:      store.EncodeDocs(nil),
		format.ComponentFastFields: packComposite(nil),
		format.ComponentFieldNorms: packComposite(nil),
	}
	dir := &fakeDirectory{components: components}

	r, err := segment.Open(dir, segment.SegmentMeta{SegmentID: "seg0"}, sch)
	require.NoError(t, err)

	meta, err := r.FieldsMetadata()
	require.NoError(t, err)
	require.Len(t, meta, 2)

	assert.Equal(t, "apple", meta[0].Name)
	assert.True(t, meta[0].Fast)
	assert.False(t, meta[0].Indexed)

	assert.Equal(t, "zebra", meta[1].Name)
	assert.True(t, meta[1].Indexed)
	assert.False(t, meta[1].Fast)
}

func TestJSONFieldSubPathsAreEncoded(t *testing.T) {
	sch := schema.New([]schema.FieldEntry{
		{Name: "attrs", Type: format.ValueJSON, Flags: schema.FlagIndexed, RecordOption: format.IndexRecordBasic},
	})

	b := termdict.NewBuilder()
	require.NoError(t, b.Add("red", termdict.TermInfo{DocFreq: 1, PostingsOffset: 0, PostingsLen: 3}))
	dict := b.Build()

	termsComposite := packComposite(map[compositefile.Key][]byte{
		{Field: 0}: termdict.Encode(dict),
		{Field: 0, Discriminator: fastfield.PathDirDiscriminator}: fastfield.EncodePathDirectory([]string{"color", "size"}),
	})

	postingsComposite := packComposite(map[compositefile.Key][]byte{
		{Field: 0}: postings.EncodePostings([]uint32{0}, nil, format.IndexRecordBasic),
	})

	components := map[format.SegmentComponent][]byte{
		format.ComponentTerms:      termsComposite,
		format.ComponentPostings:   postingsComposite,
		format.ComponentStore:      store.EncodeDocs([][]byte{[]byte("doc0")}),
		format.ComponentFastFields: packComposite(nil),
		format.ComponentFieldNorms: packComposite(nil),
	}
	dir := &fakeDirectory{components: components}

	r, err := segment.Open(dir, segment.SegmentMeta{SegmentID: "seg0", MaxDoc: 1}, sch)
	require.NoError(t, err)

	field, err := sch.GetField("attrs")
	require.NoError(t, err)

	idx, err := r.InvertedIndex(field)
	require.NoError(t, err)

	encoded := idx.ListEncodedFields()
	require.Len(t, encoded, 2)
	assert.Equal(t, "attrs.color", encoded[0].Path)
	assert.Equal(t, "attrs.size", encoded[1].Path)
}

func TestSpaceUsageAggregatesComponents(t *testing.T) {
	dir := buildTestDirectory(t, true, false)
	sch := buildTestSchema()

	r, err := segment.Open(dir, segment.SegmentMeta{SegmentID: "seg0", MaxDoc: 4}, sch)
	require.NoError(t, err)

	usage, err := r.SpaceUsage()
	require.NoError(t, err)
	assert.NotZero(t, usage.Store)
	assert.NotEmpty(t, usage.Terms)
	assert.NotEmpty(t, usage.Postings)
}
