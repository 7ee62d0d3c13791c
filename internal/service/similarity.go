package service

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrZeroVector        = errors.New("zero magnitude vector")
)

// CosineSimilarity returns dot(a,b) / (|a|*|b|) in [-1, 1].
// Vectors of different length are an error, not a truncated comparison.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dotProduct, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotProduct += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}

	score := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	// rounding can push |score| a hair past 1
	return math.Max(-1, math.Min(1, score)), nil
}
