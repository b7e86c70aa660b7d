package game

import "github.com/vytor/pixelplay/internal/models"

// TimeBoostSeconds is added to the countdown by a time boost.
const TimeBoostSeconds = 15

// Effects is the session surface a power-up acts on.
type Effects interface {
	AddTime(seconds int)
	RevealHint()
	HighlightMatches()
	ClearIncorrect()
}

// PowerUpBank holds the remaining uses per power-up type. Counts only go down.
type PowerUpBank struct {
	remaining models.PowerUpCounts
}

func NewPowerUpBank(d models.Difficulty) PowerUpBank {
	return PowerUpBank{remaining: d.PowerUpAllowance()}
}

func (b *PowerUpBank) Remaining(t models.PowerUpType) int {
	if !t.Valid() {
		return 0
	}
	return b.remaining[t]
}

func (b *PowerUpBank) Counts() models.PowerUpCounts { return b.remaining }

// Use spends one t and applies its effect. It reports false, touching
// nothing, when none are left.
func (b *PowerUpBank) Use(t models.PowerUpType, fx Effects) bool {
	if b.Remaining(t) == 0 {
		return false
	}
	b.remaining[t]--

	switch t {
	case models.PowerUpTimeBoost:
		fx.AddTime(TimeBoostSeconds)
	case models.PowerUpHintReveal:
		fx.RevealHint()
	case models.PowerUpColorMatch:
		fx.HighlightMatches()
	case models.PowerUpGridClear:
		fx.ClearIncorrect()
	}
	return true
}
