package topics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizeDropsRareTerms(t *testing.T) {
	docs := []string{
		"graphics cards shortage continues",
		"graphics cards pricing climbs",
		"unrelated singleton document",
	}
	v, rows := Vectorize(docs)

	require.Len(t, rows, len(docs))
	assert.Contains(t, v.Terms, "graphics")
	assert.Contains(t, v.Terms, "cards")
	assert.Contains(t, v.Terms, "graphics cards")
	// Appears in only one document, below the document-frequency floor.
	assert.NotContains(t, v.Terms, "singleton")
	assert.NotContains(t, v.Terms, "shortage")
}

func TestVectorizeRowsAreUnitLength(t *testing.T) {
	docs := []string{
		"kafka consumer lag rising",
		"kafka consumer lag stable",
	}
	_, rows := Vectorize(docs)

	for _, row := range rows {
		var sum float64
		for _, x := range row {
			sum += x * x
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-9)
	}
}

func TestVectorizeEmptyVocabulary(t *testing.T) {
	v, rows := Vectorize([]string{"the and of", "with from into"})
	assert.Empty(t, v.Terms)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0])
}

func TestVectorizeDeterministic(t *testing.T) {
	docs := []string{
		"gpu shortage drives pricing up",
		"gpu pricing hits record highs",
		"gpu shortage expected through winter",
	}
	v1, rows1 := Vectorize(docs)
	v2, rows2 := Vectorize(docs)

	assert.Equal(t, v1.Terms, v2.Terms)
	assert.Equal(t, rows1, rows2)
}

func TestClusterDeterministic(t *testing.T) {
	rows := [][]float64{
		{1, 0, 0}, {0.9, 0.1, 0},
		{0, 1, 0}, {0.1, 0.9, 0},
	}
	a1, c1 := Cluster(rows, 2)
	a2, c2 := Cluster(rows, 2)

	assert.Equal(t, a1, a2)
	assert.Equal(t, c1, c2)
}

func TestClusterSeparatesObviousGroups(t *testing.T) {
	rows := [][]float64{
		{1, 0}, {0.95, 0.05}, {0.9, 0.1},
		{0, 1}, {0.05, 0.95}, {0.1, 0.9},
	}
	assign, _ := Cluster(rows, 2)

	require.Len(t, assign, 6)
	assert.Equal(t, assign[0], assign[1])
	assert.Equal(t, assign[0], assign[2])
	assert.Equal(t, assign[3], assign[4])
	assert.Equal(t, assign[3], assign[5])
	assert.NotEqual(t, assign[0], assign[3])
}
