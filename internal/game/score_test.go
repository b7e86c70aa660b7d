package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		in   ScoreInput
		want int
	}{
		{
			name: "reference game",
			in:   ScoreInput{GridSize: 4, TimeRemaining: 53, MaxMoves: 24, MovesUsed: 10, HintsUsed: 1, Streak: 2},
			want: 426,
		},
		{
			name: "move bonus never negative",
			in:   ScoreInput{GridSize: 4, TimeRemaining: 0, MaxMoves: 24, MovesUsed: 40},
			want: 160,
		},
		{
			name: "hints can push below base",
			in:   ScoreInput{GridSize: 5, TimeRemaining: 0, MaxMoves: 37, MovesUsed: 37, HintsUsed: 30},
			want: -50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.in))
		})
	}
}
