package bm25stats_test

import (
	"testing"

	"github.com/nextfts/segreader/bm25stats"
	"github.com/stretchr/testify/assert"
)

func TestMultiPartsStatisticsAggregation(t *testing.T) {
	var b bm25stats.Builder
	b.AddTermDocFreq("rust", 3).AddTermDocFreq("rust", 4)
	b.AddFieldTokens("body", 100).AddFieldTokens("body", 50)
	b.AddDocs(10).AddDocs(5)

	stats := b.Build()

	assert.Equal(t, uint64(7), stats.DocFreq("rust"))
	assert.Equal(t, uint64(150), stats.TotalNumTokens("body"))
	assert.Equal(t, uint64(15), stats.TotalNumDocs())
}

func TestMultiPartsStatisticsDefaultsToZero(t *testing.T) {
	var b bm25stats.Builder
	stats := b.Build()

	assert.Zero(t, stats.DocFreq("absent"))
	assert.Zero(t, stats.TotalNumTokens("absent"))
	assert.Zero(t, stats.TotalNumDocs())
}
