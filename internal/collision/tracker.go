// Package collision tracks hash collisions while a sorted-key index is
// being built, so the owning package can fall back to exact-bytes
// comparison only for the colliding keys instead of on every lookup.
package collision

import "github.com/nextfts/segreader/errs"

// Tracker maps a fast hash to the keys observed under it, flagging
// when two distinct keys share a hash.
type Tracker struct {
	byHash       map[uint64][]string
	ordered      []string
	hasCollision bool
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{byHash: make(map[uint64][]string)}
}

// Track records key under hash. It returns ErrInvalidTerm for an empty
// key and ErrDuplicateTerm if key was already tracked under the same
// hash. A hash shared by two distinct keys sets the collision flag but
// is not itself an error: the owning index falls back to exact
// comparison among the colliding keys.
func (t *Tracker) Track(key string, hash uint64) error {
	if key == "" {
		return errs.ErrInvalidTerm
	}

	for _, existing := range t.byHash[hash] {
		if existing == key {
			return errs.ErrDuplicateTerm
		}
	}

	if len(t.byHash[hash]) > 0 {
		t.hasCollision = true
	}

	t.byHash[hash] = append(t.byHash[hash], key)
	t.ordered = append(t.ordered, key)

	return nil
}

// HasCollision reports whether any two distinct tracked keys shared a
// hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// CandidatesForHash returns every key tracked under hash, in insertion
// order. Most callers will see a single-element (or empty) result.
func (t *Tracker) CandidatesForHash(hash uint64) []string {
	return t.byHash[hash]
}

// Count returns the number of distinct keys tracked.
func (t *Tracker) Count() int {
	return len(t.ordered)
}
