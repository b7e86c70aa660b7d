package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/pixelplay/internal/models"
)

// sequenceSource replays values, wrapping around.
type sequenceSource struct {
	values []float64
	i      int
}

func (s *sequenceSource) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func constSource(v float64) RandomSource { return &sequenceSource{values: []float64{v}} }

func TestGenerateShapeForEveryDifficulty(t *testing.T) {
	for _, d := range models.Difficulties {
		t.Run(d.String(), func(t *testing.T) {
			p := Generate(d, SeededSource(42))
			size := d.GridSize()

			require.Len(t, p.Target, size)
			for _, row := range p.Target {
				assert.Len(t, row, size)
			}
			assert.Equal(t, size*size*3/2, p.MaxMoves)
			assert.Equal(t, d, p.Difficulty)
			assert.NotEmpty(t, p.ID)
		})
	}
}

func TestMaxMovesFloors(t *testing.T) {
	assert.Equal(t, 24, MaxMoves(4))
	assert.Equal(t, 37, MaxMoves(5))
	assert.Equal(t, 54, MaxMoves(6))
	assert.Equal(t, 73, MaxMoves(7))
}

func TestGenerateColorThresholds(t *testing.T) {
	src := &sequenceSource{values: []float64{0, 0.39, 0.4, 0.69, 0.7, 0.84, 0.85, 0.99}}
	p := Generate(models.DifficultyEasy, src)

	want := []models.TileColor{
		models.ColorPrimary, models.ColorPrimary,
		models.ColorSecondary, models.ColorSecondary,
		models.ColorAccent, models.ColorAccent,
		models.ColorNeutral, models.ColorNeutral,
	}
	var got []models.TileColor
	for _, row := range p.Target[:2] {
		got = append(got, row...)
	}
	assert.Equal(t, want, got)
}

func TestGenerateNeverUsesBackground(t *testing.T) {
	src := SeededSource(7)
	for i := 0; i < 50; i++ {
		p := Generate(models.DifficultyExpert, src)
		for _, row := range p.Target {
			assert.NotContains(t, row, models.ColorBackground)
		}
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a := Generate(models.DifficultyHard, SeededSource(99))
	b := Generate(models.DifficultyHard, SeededSource(99))
	assert.Equal(t, a.Target, b.Target)
}
