package game

// ScoreInput carries the session figures that feed the final score. Streak is
// the value before the win is counted.
type ScoreInput struct {
	GridSize      int
	TimeRemaining int
	MaxMoves      int
	MovesUsed     int
	HintsUsed     int
	Streak        int
}

func Score(in ScoreInput) int {
	base := in.GridSize * in.GridSize * 10
	timeBonus := in.TimeRemaining * 2
	moveBonus := max(0, (in.MaxMoves-in.MovesUsed)*5)
	hintPenalty := in.HintsUsed * 10
	streakBonus := in.Streak * 50
	return base + timeBonus + moveBonus - hintPenalty + streakBonus
}
