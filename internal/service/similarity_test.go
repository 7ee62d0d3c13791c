package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "identical", a: []float32{0.3, -1.2, 4}, b: []float32{0.3, -1.2, 4}, want: 1},
		{name: "opposite", a: []float32{1, 2}, b: []float32{-1, -2}, want: -1},
		{name: "scaled", a: []float32{1, 1}, b: []float32{5, 5}, want: 1},
		{name: "45 degrees", a: []float32{1, 0}, b: []float32{1, 1}, want: 0.7071067811865475},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
			assert.LessOrEqual(t, got, 1.0)
			assert.GreaterOrEqual(t, got, -1.0)
		})
	}
}

func TestCosineSimilarityIsSymmetric(t *testing.T) {
	pairs := [][2][]float32{
		{{0.1, 0.9, -0.4}, {0.7, -0.2, 0.5}},
		{{3, 4}, {4, 3}},
		{{-1, 0, 2, 8}, {0.5, 0.5, 0.5, 0.5}},
	}

	for _, p := range pairs {
		ab, err := CosineSimilarity(p[0], p[1])
		require.NoError(t, err)
		ba, err := CosineSimilarity(p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	}
}

func TestCosineSimilarityErrors(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = CosineSimilarity([]float32{0, 0}, []float32{1, 2})
	assert.ErrorIs(t, err, ErrZeroVector)

	_, err = CosineSimilarity(nil, nil)
	assert.ErrorIs(t, err, ErrZeroVector)
}
