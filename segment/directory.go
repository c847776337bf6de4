package segment

import (
	"github.com/nextfts/segreader/fileslice"
	"github.com/nextfts/segreader/format"
)

// Directory is the external collaborator this package consumes for
// byte access (spec §6 "Directory collaborator interface consumed").
// It is deliberately narrow: everything about mmap vs. heap, eviction,
// and file-on-disk layout lives on the caller's side of this interface.
type Directory interface {
	OpenRead(segmentID string, component format.SegmentComponent) (fileslice.Slice, error)
}

// SegmentMeta carries the identity and deletion bookkeeping a Directory
// implementation supplies alongside the raw components (spec §3
// "Segment identity").
type SegmentMeta struct {
	SegmentID     string
	MaxDoc        uint32
	DeleteOpstamp uint64
	HasDeletes    bool
}
