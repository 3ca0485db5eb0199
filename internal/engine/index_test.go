package engine

import (
	"testing"

	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatIndex_Euclidean(t *testing.T) {
	ix := newFlatIndex(2)
	require.NoError(t, ix.add([]float32{0, 0}))
	require.NoError(t, ix.add([]float32{3, 4}))
	require.NoError(t, ix.add([]float32{1, 0}))

	hits, err := ix.knn([]float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 0, hits[0].position)
	assert.InDelta(t, 0.0, hits[0].distance, 1e-6)
	assert.Equal(t, 2, hits[1].position)
	assert.InDelta(t, 1.0, hits[1].distance, 1e-6)
	assert.Equal(t, 1, hits[2].position)
	assert.InDelta(t, 5.0, hits[2].distance, 1e-6)
}

func TestFlatIndex_EqualDistanceTieBreak(t *testing.T) {
	ix := newFlatIndex(2)
	require.NoError(t, ix.add([]float32{1, 0}))
	require.NoError(t, ix.add([]float32{0, 1}))
	require.NoError(t, ix.add([]float32{1, 0})) // дубликат первого

	hits, err := ix.knn([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// Одинаковые расстояния: ничья рвётся по возрастанию позиции.
	assert.Equal(t, 0, hits[0].position)
	assert.Equal(t, 2, hits[1].position)
	assert.InDelta(t, hits[0].distance, hits[1].distance, 1e-6)
	assert.Equal(t, 1, hits[2].position)
	assert.Greater(t, hits[2].distance, hits[1].distance)
}

func TestFlatIndex_KnnClampsK(t *testing.T) {
	ix := newFlatIndex(1)
	require.NoError(t, ix.add([]float32{1}))
	require.NoError(t, ix.add([]float32{2}))

	hits, err := ix.knn([]float32{0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = ix.knn([]float32{0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFlatIndex_DimensionChecks(t *testing.T) {
	ix := newFlatIndex(3)

	assert.ErrorIs(t, ix.add([]float32{1, 2}), e.ErrDimensionMismatch)

	require.NoError(t, ix.add([]float32{1, 2, 3}))
	_, err := ix.knn([]float32{1, 2}, 1)
	assert.ErrorIs(t, err, e.ErrDimensionMismatch)
}
