package bitset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAliveBitSetBasic(t *testing.T) {
	// docs 1 and 3 deleted out of 4
	b := New(4, func(id uint32) bool { return id != 1 && id != 3 })

	require.Equal(t, uint32(2), b.NumAlive())
	require.True(t, b.IsAlive(0))
	require.False(t, b.IsAlive(1))
	require.True(t, b.IsAlive(2))
	require.False(t, b.IsAlive(3))
	require.True(t, b.IsDeleted(1))
}

func TestAliveBitSetIterMatchesSpecExample(t *testing.T) {
	// "Delete then commit": 4 docs, delete 2 by term -> doc_ids_alive() = [0, 2]
	b := New(4, func(id uint32) bool { return id == 0 || id == 2 })

	var got []uint32
	it := b.Iter()
	for it.Advance() {
		got = append(got, it.Current())
	}

	require.Equal(t, []uint32{0, 2}, got)
}

func TestNilBitSetMeansAllAlive(t *testing.T) {
	var b *AliveBitSet
	require.True(t, b.IsAlive(0))
	require.True(t, b.IsAlive(1000))
	require.Equal(t, uint32(0), b.NumAlive())
	require.Nil(t, b.Iter())
}

func TestIntersectIdentity(t *testing.T) {
	b := New(4, func(id uint32) bool { return id%2 == 0 })

	require.Equal(t, b, Intersect(nil, b))
	require.Equal(t, b, Intersect(b, nil))
	require.Nil(t, Intersect(nil, nil))
}

func TestIntersectConjunction(t *testing.T) {
	a := New(8, func(id uint32) bool { return id < 5 })    // 0,1,2,3,4
	b := New(8, func(id uint32) bool { return id%2 == 0 }) // 0,2,4,6

	got := Intersect(a, b)
	require.Equal(t, uint32(3), got.NumAlive()) // 0,2,4
	require.True(t, got.IsAlive(0))
	require.True(t, got.IsAlive(2))
	require.True(t, got.IsAlive(4))
	require.False(t, got.IsAlive(6))
	require.False(t, got.IsAlive(1))

	require.LessOrEqual(t, got.NumAlive(), a.NumAlive())
	require.LessOrEqual(t, got.NumAlive(), b.NumAlive())
}

func TestIntersectCommutative(t *testing.T) {
	a := New(16, func(id uint32) bool { return id%3 == 0 })
	b := New(16, func(id uint32) bool { return id%5 == 0 })

	ab := Intersect(a, b)
	ba := Intersect(b, a)
	require.Equal(t, ab.NumAlive(), ba.NumAlive())
	for id := uint32(0); id < 16; id++ {
		require.Equal(t, ab.IsAlive(id), ba.IsAlive(id))
	}
}

func TestIntersectDomainMismatchPanics(t *testing.T) {
	a := New(4, func(uint32) bool { return true })
	b := New(8, func(uint32) bool { return true })

	require.Panics(t, func() { Intersect(a, b) })
}
