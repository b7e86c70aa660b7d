package game

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/vytor/pixelplay/internal/models"
)

const patternDescription = "Create the target pattern using color transformations"

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource draws from the process-wide generator.
func DefaultSource() RandomSource { return globalSource{} }

// SeededSource returns a deterministic source for reproducible patterns.
func SeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate draws a target pattern for d. Each cell is independent.
func Generate(d models.Difficulty, src RandomSource) models.Pattern {
	if src == nil {
		src = DefaultSource()
	}
	size := d.GridSize()
	target := make([][]models.TileColor, size)
	for r := range target {
		target[r] = make([]models.TileColor, size)
		for c := range target[r] {
			target[r][c] = colorFor(src.Float64())
		}
	}
	return models.Pattern{
		ID:          uuid.NewString(),
		Target:      target,
		Difficulty:  d,
		MaxMoves:    MaxMoves(size),
		Description: patternDescription,
	}
}

// MaxMoves is floor(size² × 1.5).
func MaxMoves(size int) int {
	return size * size * 3 / 2
}

func colorFor(v float64) models.TileColor {
	switch {
	case v < 0.4:
		return models.ColorPrimary
	case v < 0.7:
		return models.ColorSecondary
	case v < 0.85:
		return models.ColorAccent
	default:
		return models.ColorNeutral
	}
}
