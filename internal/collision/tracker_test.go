package collision_test

import (
	"testing"

	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/internal/collision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerDetectsCollision(t *testing.T) {
	tr := collision.NewTracker()

	require.NoError(t, tr.Track("apple", 1))
	require.NoError(t, tr.Track("banana", 1)) // same hash, different key

	assert.True(t, tr.HasCollision())
	assert.ElementsMatch(t, []string{"apple", "banana"}, tr.CandidatesForHash(1))
}

func TestTrackerNoCollisionForDistinctHashes(t *testing.T) {
	tr := collision.NewTracker()

	require.NoError(t, tr.Track("apple", 1))
	require.NoError(t, tr.Track("banana", 2))

	assert.False(t, tr.HasCollision())
	assert.Equal(t, 2, tr.Count())
}

func TestTrackerRejectsDuplicateKey(t *testing.T) {
	tr := collision.NewTracker()

	require.NoError(t, tr.Track("apple", 1))
	err := tr.Track("apple", 1)
	require.ErrorIs(t, err, errs.ErrDuplicateTerm)
}

func TestTrackerRejectsEmptyKey(t *testing.T) {
	tr := collision.NewTracker()

	err := tr.Track("", 1)
	require.ErrorIs(t, err, errs.ErrInvalidTerm)
}
