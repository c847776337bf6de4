// Package segment implements the Segment Reader (spec §4.5): the L4
// component that composes every per-segment sub-reader into one
// coherent read view, lazily materializing per-field inverted indexes
// behind a concurrent cache and reconciling deletion state from the
// on-disk delete file and an optional caller-supplied alive bitset.
package segment

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nextfts/segreader/bitset"
	"github.com/nextfts/segreader/compositefile"
	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/fastfield"
	"github.com/nextfts/segreader/fieldnorm"
	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/internal/options"
	"github.com/nextfts/segreader/invertedindex"
	"github.com/nextfts/segreader/schema"
	"github.com/nextfts/segreader/store"
	"github.com/nextfts/segreader/termdict"
)

// Config collects Open's optional settings (spec §4.5 "Open protocol"
// callers may reconcile a caller-supplied alive bitset and supply their
// own logger).
type Config struct {
	CustomAlive *bitset.AliveBitSet
	Logger      *slog.Logger
}

// WithCustomAlive reconciles the file-backed delete bitset with an
// additional alive predicate the caller supplies (e.g. a point-in-time
// snapshot's own tombstone set). The two domains must match; a mismatch
// panics (see bitset.Intersect).
func WithCustomAlive(alive *bitset.AliveBitSet) options.Option[*Config] {
	return options.NoError(func(c *Config) { c.CustomAlive = alive })
}

// WithLogger overrides the logger used for once-per-field diagnostic
// warnings. Defaults to slog.Default() when not supplied.
func WithLogger(logger *slog.Logger) options.Option[*Config] {
	return options.NoError(func(c *Config) { c.Logger = logger })
}

// Reader is the immutable-after-open composition of a segment's
// sub-readers, except for its per-field inverted-index cache, which is
// the one piece of shared-mutable state (spec §5 "Shared state").
type Reader struct {
	meta   SegmentMeta
	schema *schema.Schema
	canon  *schema.PathCanonicalizer

	terms     compositefile.File
	postings  compositefile.File
	positions compositefile.File

	fastFields  *fastfield.Reader
	fieldNorms  map[schema.Field]fieldnorm.Reader
	store       store.Reader
	alive       *bitset.AliveBitSet
	numDocs     uint32

	mu    sync.RWMutex
	cache map[schema.Field]*invertedindex.Reader

	warnMu  sync.Mutex
	warned  map[schema.Field]bool
	logger  *slog.Logger
}

// Open runs the nine-step open protocol against dir, reconciling
// customAlive (which may be nil) with any on-disk delete file (spec
// §4.5 "Open protocol"). Failure at any mandatory step surfaces a typed
// error; missing optional components are substituted transparently.
func Open(dir Directory, meta SegmentMeta, sch *schema.Schema, opts ...options.Option[*Config]) (*Reader, error) {
	cfg := &Config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	termsSlice, err := dir.OpenRead(meta.SegmentID, format.ComponentTerms)
	if err != nil {
		return nil, fmt.Errorf("open terms component: %w", err)
	}
	terms, err := compositefile.Open(termsSlice)
	if err != nil {
		return nil, fmt.Errorf("parse terms component: %w", err)
	}

	storeSlice, err := dir.OpenRead(meta.SegmentID, format.ComponentStore)
	if err != nil {
		return nil, fmt.Errorf("open store component: %w", err)
	}
	storeReader, err := store.Open(storeSlice, int(meta.MaxDoc))
	if err != nil {
		return nil, fmt.Errorf("parse store component: %w", err)
	}

	postingsSlice, err := dir.OpenRead(meta.SegmentID, format.ComponentPostings)
	if err != nil {
		return nil, fmt.Errorf("open postings component: %w", err)
	}
	postings, err := compositefile.Open(postingsSlice)
	if err != nil {
		return nil, fmt.Errorf("parse postings component: %w", err)
	}

	positions, err := openOptionalComposite(dir, meta.SegmentID, format.ComponentPositions)
	if err != nil {
		return nil, fmt.Errorf("open positions component: %w", err)
	}

	fastFieldsSlice, err := dir.OpenRead(meta.SegmentID, format.ComponentFastFields)
	if err != nil {
		return nil, fmt.Errorf("open fast-fields component: %w", err)
	}
	fastFieldsComposite, err := compositefile.Open(fastFieldsSlice)
	if err != nil {
		return nil, fmt.Errorf("parse fast-fields component: %w", err)
	}
	fastFields := fastfield.Open(fastFieldsComposite, sch)

	fieldNormsSlice, err := dir.OpenRead(meta.SegmentID, format.ComponentFieldNorms)
	if err != nil {
		return nil, fmt.Errorf("open field-norms component: %w", err)
	}
	fieldNormsComposite, err := compositefile.Open(fieldNormsSlice)
	if err != nil {
		return nil, fmt.Errorf("parse field-norms component: %w", err)
	}

	fieldNorms := make(map[schema.Field]fieldnorm.Reader)
	for _, field := range sch.Fields() {
		entry := sch.GetFieldEntry(field)
		if !entry.RecordsNorm() {
			continue
		}

		slice, ok := fieldNormsComposite.OpenReadField(uint32(field)) //nolint:gosec
		if !ok {
			continue
		}

		reader, err := fieldnorm.Open(slice)
		if err != nil {
			return nil, fmt.Errorf("parse field-norms for %q: %w", entry.Name, err)
		}
		fieldNorms[field] = reader
	}

	var fileAlive *bitset.AliveBitSet
	if meta.HasDeletes {
		deleteSlice, err := dir.OpenRead(meta.SegmentID, format.ComponentDelete)
		if err != nil {
			return nil, fmt.Errorf("open delete component: %w", err)
		}

		raw, err := deleteSlice.ReadBytes()
		if err != nil {
			return nil, err
		}

		words, err := decodeBitsetWords(raw)
		if err != nil {
			return nil, err
		}
		fileAlive = bitset.FromWords(meta.MaxDoc, words)
	}

	alive := bitset.Intersect(fileAlive, cfg.CustomAlive)

	numDocs := meta.MaxDoc
	if alive != nil {
		numDocs = alive.NumAlive()
	}

	return &Reader{
		meta:       meta,
		schema:     sch,
		canon:      schema.NewPathCanonicalizer(),
		terms:      terms,
		postings:   postings,
		positions:  positions,
		fastFields: fastFields,
		fieldNorms: fieldNorms,
		store:      storeReader,
		alive:      alive,
		numDocs:    numDocs,
		cache:      make(map[schema.Field]*invertedindex.Reader),
		warned:     make(map[schema.Field]bool),
		logger:     logger,
	}, nil
}

func openOptionalComposite(dir Directory, segmentID string, component format.SegmentComponent) (compositefile.File, error) {
	slice, err := dir.OpenRead(segmentID, component)
	if errors.Is(err, errs.ErrComponentNotFound) {
		return compositefile.Empty(), nil
	}
	if err != nil {
		return compositefile.File{}, err
	}

	return compositefile.Open(slice)
}

func decodeBitsetWords(raw []byte) ([]uint64, error) {
	if len(raw)%8 != 0 {
		return nil, errs.ErrDataCorruption
	}

	words := make([]uint64, len(raw)/8)
	for i := range words {
		for b := range 8 {
			words[i] |= uint64(raw[i*8+b]) << (8 * b)
		}
	}

	return words, nil
}

// MaxDoc returns the segment's total doc-id domain.
func (r *Reader) MaxDoc() uint32 { return r.meta.MaxDoc }

// NumDocs returns popcount(alive_bitset), or MaxDoc when there is no
// alive bitset (spec §8 invariant 1).
func (r *Reader) NumDocs() uint32 { return r.numDocs }

// SegmentID returns the segment's opaque stable identifier.
func (r *Reader) SegmentID() string { return r.meta.SegmentID }

// DeleteOpstamp returns the opstamp of the most recent delete folded
// into this segment's alive bitset.
func (r *Reader) DeleteOpstamp() uint64 { return r.meta.DeleteOpstamp }

// HasDeletes reports whether this segment has any deleted documents.
func (r *Reader) HasDeletes() bool { return r.NumDeletedDocs() > 0 }

// NumDeletedDocs returns MaxDoc - NumDocs.
func (r *Reader) NumDeletedDocs() uint32 { return r.meta.MaxDoc - r.numDocs }

// IsDeleted reports whether doc is deleted; absence of an alive bitset
// means nothing is deleted (spec §4.5 "Other operations").
func (r *Reader) IsDeleted(doc uint32) bool {
	return r.alive.IsDeleted(doc)
}

// FastFields returns the segment's fast-field reader.
func (r *Reader) FastFields() *fastfield.Reader { return r.fastFields }

// FacetReader opens field as a hierarchical facet column, errors if the
// field isn't declared ValueFacet.
func (r *Reader) FacetReader(fieldName string) (fastfield.FacetReader, error) {
	return r.fastFields.FacetReader(fieldName)
}

// Store returns the segment's document store reader.
func (r *Reader) Store() store.Reader { return r.store }

// GetFieldNormsReader returns field's norm reader. The second return
// value is false when field doesn't record norms.
func (r *Reader) GetFieldNormsReader(field schema.Field) (fieldnorm.Reader, bool) {
	reader, ok := r.fieldNorms[field]

	return reader, ok
}

// DocCursor is the lazy sequence of live DocIds (spec §4.5
// "doc_ids_alive(): lazy sequence of live DocIds").
type DocCursor struct {
	maxDoc  uint32
	alive   *bitset.Cursor
	next    uint32
	current uint32
}

// Advance moves to the next live doc id, returning false once
// exhausted.
func (c *DocCursor) Advance() bool {
	if c.alive != nil {
		return c.alive.Advance()
	}

	if c.next >= c.maxDoc {
		return false
	}
	c.current = c.next
	c.next++

	return true
}

// Current returns the doc id Advance most recently produced.
func (c *DocCursor) Current() uint32 {
	if c.alive != nil {
		return c.alive.Current()
	}

	return c.current
}

// DocIdsAlive returns a finite, non-restartable cursor over every live
// doc id, in ascending order.
func (r *Reader) DocIdsAlive() *DocCursor {
	if r.alive != nil {
		return &DocCursor{alive: r.alive.Iter()}
	}

	return &DocCursor{maxDoc: r.meta.MaxDoc}
}

// InvertedIndex resolves field's per-field inverted-index reader,
// constructing and caching it on first use (spec §4.5 "Per-field
// inverted index (lazy, cached)"). Two concurrent first calls on the
// same field may each construct a reader; the loser's construction is
// simply discarded, never observed by a caller.
func (r *Reader) InvertedIndex(field schema.Field) (*invertedindex.Reader, error) {
	r.mu.RLock()
	cached, ok := r.cache[field]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	reader, err := r.buildInvertedIndex(field)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if existing, ok := r.cache[field]; ok {
		r.mu.Unlock()
		return existing, nil
	}
	r.cache[field] = reader
	r.mu.Unlock()

	return reader, nil
}

func (r *Reader) buildInvertedIndex(field schema.Field) (*invertedindex.Reader, error) {
	entry := r.schema.GetFieldEntry(field)

	recordOption := entry.RecordOption
	if !entry.Indexed() {
		r.warnUnindexedOnce(field, entry.Name)
		recordOption = format.IndexRecordBasic
	}

	postingsSlice, ok := r.postings.OpenReadField(uint32(field)) //nolint:gosec
	if !ok {
		return invertedindex.Empty(recordOption), nil
	}

	postingsRaw, err := postingsSlice.ReadBytes()
	if err != nil {
		return nil, err
	}

	termsSlice, ok := r.terms.OpenReadField(uint32(field)) //nolint:gosec
	if !ok {
		return nil, fmt.Errorf("%w: postings present without term dictionary for field %q", errs.ErrDataCorruption, entry.Name)
	}

	termsRaw, err := termsSlice.ReadBytes()
	if err != nil {
		return nil, err
	}

	dict, err := termdict.Decode(termsRaw)
	if err != nil {
		return nil, err
	}

	var positionsRaw []byte
	if positionsSlice, ok := r.positions.OpenReadField(uint32(field)); ok { //nolint:gosec
		positionsRaw, err = positionsSlice.ReadBytes()
		if err != nil {
			return nil, err
		}
	}

	var encodedSubPaths []invertedindex.EncodedField
	if entry.Type == format.ValueJSON {
		encodedSubPaths = r.jsonEncodedSubPaths(field, entry.Name, entry.ExpandDots())
	}

	return invertedindex.New(dict, postingsRaw, positionsRaw, recordOption, encodedSubPaths), nil
}

// jsonEncodedSubPaths reads field's JSON sub-path directory from the
// terms composite (the same VInt-length-prefixed format the fast-field
// side uses for its own sub-path directory, spec §4.5 step 1) and
// canonicalizes each path into the indexed-fields metadata view.
func (r *Reader) jsonEncodedSubPaths(field schema.Field, name string, expandDots bool) []invertedindex.EncodedField {
	dirSlice, ok := r.terms.OpenRead(compositefile.Key{Field: uint32(field), Discriminator: fastfield.PathDirDiscriminator}) //nolint:gosec
	if !ok {
		return nil
	}

	raw, err := dirSlice.ReadBytes()
	if err != nil {
		return nil
	}

	paths := fastfield.DecodePathDirectory(raw)
	out := make([]invertedindex.EncodedField, len(paths))
	for i, p := range paths {
		out[i] = invertedindex.EncodedField{Path: r.canon.Canonicalize(name, p, expandDots), Type: format.ValueJSON}
	}

	return out
}

func (r *Reader) warnUnindexedOnce(field schema.Field, name string) {
	r.warnMu.Lock()
	defer r.warnMu.Unlock()

	if r.warned[field] {
		return
	}
	r.warned[field] = true

	r.logger.Warn("requested inverted index on a field not marked indexed", "field", name)
}

// FieldMetadata is one entry of the segment's fields-metadata view
// (spec §3 "Field metadata view").
type FieldMetadata struct {
	Name    string
	Type    format.ValueType
	Indexed bool
	Fast    bool
	Stored  bool
}

// FieldsMetadata produces the deterministically-ordered merge of the
// schema's indexed fields and the fast-field columnar iterator (spec
// §4.5 "Fields metadata"). The two enumerations run concurrently: they
// share no state and neither depends on the other's result.
func (r *Reader) FieldsMetadata() ([]FieldMetadata, error) {
	var indexed []schema.FieldMetadataKey
	var fast []fastfield.ColumnHandle

	g := new(errgroup.Group)
	g.Go(func() error {
		indexed = r.schema.IndexedFields()
		return nil
	})
	g.Go(func() error {
		fast = r.fastFields.Columns()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// indexed and fast are each independently sorted by (Name, Type); a
	// sorted two-pointer merge reproduces spec §4.5 steps 3-4 ("sort
	// both lists... merge by equality") in one pass, the Go analogue of
	// the original's merge_join_by.
	less := func(name string, typ format.ValueType, otherName string, otherTyp format.ValueType) bool {
		if name != otherName {
			return name < otherName
		}

		return typ < otherTyp
	}

	out := make([]FieldMetadata, 0, len(indexed)+len(fast))

	i, j := 0, 0
	for i < len(indexed) || j < len(fast) {
		var m FieldMetadata

		switch {
		case j >= len(fast) || (i < len(indexed) && less(indexed[i].Name, indexed[i].Type, fast[j].Name, fast[j].Type)):
			m = FieldMetadata{Name: indexed[i].Name, Type: indexed[i].Type, Indexed: true}
			i++
		case i >= len(indexed) || less(fast[j].Name, fast[j].Type, indexed[i].Name, indexed[i].Type):
			m = FieldMetadata{Name: fast[j].Name, Type: fast[j].Type, Fast: true}
			j++
		default:
			m = FieldMetadata{Name: indexed[i].Name, Type: indexed[i].Type, Indexed: true, Fast: true}
			i++
			j++
		}

		m.Stored = r.schema.IsStored(m.Name)
		out = append(out, m)
	}

	return out, nil
}

// SpaceUsageReport aggregates per-component byte counts (spec §4.5
// "space_usage(): aggregates per-subcomponent byte counts into a single
// report").
type SpaceUsageReport struct {
	Terms      map[uint32]uint64
	Postings   map[uint32]uint64
	Positions  map[uint32]uint64
	FastFields map[string]uint64
	Store      uint64
}

// SpaceUsage computes a SpaceUsageReport, fanning the independent
// per-component aggregations out concurrently.
func (r *Reader) SpaceUsage() (SpaceUsageReport, error) {
	var report SpaceUsageReport

	g := new(errgroup.Group)
	g.Go(func() error { report.Terms = r.terms.SpaceUsage(); return nil })
	g.Go(func() error { report.Postings = r.postings.SpaceUsage(); return nil })
	g.Go(func() error { report.Positions = r.positions.SpaceUsage(); return nil })
	g.Go(func() error { report.FastFields = r.fastFields.SpaceUsage(); return nil })
	g.Go(func() error { report.Store = r.store.SpaceUsage(); return nil })

	if err := g.Wait(); err != nil {
		return SpaceUsageReport{}, err
	}

	return report, nil
}
