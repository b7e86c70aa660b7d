package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
	DifficultyExpert
)

// Difficulties lists every difficulty in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

type difficultySpec struct {
	name      string
	gridSize  int
	timeLimit int
	powerUps  PowerUpCounts
}

var difficultySpecs = [...]difficultySpec{
	DifficultyEasy:   {"easy", 4, 120, PowerUpCounts{3, 5, 2, 1}},
	DifficultyMedium: {"medium", 5, 90, PowerUpCounts{2, 3, 2, 1}},
	DifficultyHard:   {"hard", 6, 60, PowerUpCounts{1, 2, 1, 0}},
	DifficultyExpert: {"expert", 7, 45, PowerUpCounts{1, 1, 0, 0}},
}

func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyExpert
}

func (d Difficulty) spec() difficultySpec {
	if !d.Valid() {
		return difficultySpecs[DifficultyEasy]
	}
	return difficultySpecs[d]
}

func (d Difficulty) String() string { return d.spec().name }

// GridSize is the side length of the square grid.
func (d Difficulty) GridSize() int { return d.spec().gridSize }

// TimeLimit is the countdown length in whole seconds.
func (d Difficulty) TimeLimit() int { return d.spec().timeLimit }

// PowerUpAllowance is the number of uses granted per type at session start.
func (d Difficulty) PowerUpAllowance() PowerUpCounts { return d.spec().powerUps }

// ParseDifficulty accepts the lower-case difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	for i, spec := range difficultySpecs {
		if strings.EqualFold(s, spec.name) {
			return Difficulty(i), nil
		}
	}
	return DifficultyEasy, fmt.Errorf("unknown difficulty %q", s)
}

// DifficultyOrDefault parses s and falls back to easy for stored values that
// no longer parse.
func DifficultyOrDefault(s string) Difficulty {
	d, _ := ParseDifficulty(s)
	return d
}

func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

type TileColor int

const (
	ColorPrimary TileColor = iota
	ColorSecondary
	ColorAccent
	ColorBackground
	ColorNeutral
)

var tileColorNames = [...]struct{ key, display, hex string }{
	ColorPrimary:    {"primary", "Green", "#28a809"},
	ColorSecondary:  {"secondary", "Red", "#e6053a"},
	ColorAccent:     {"accent", "Orange", "#d17305"},
	ColorBackground: {"background", "Dark", "#0e0e0e"},
	ColorNeutral:    {"neutral", "Gray", "#666666"},
}

// PaintColors are the colors a player may apply to a tile.
var PaintColors = []TileColor{ColorPrimary, ColorSecondary, ColorAccent, ColorNeutral}

func (c TileColor) Valid() bool { return c >= ColorPrimary && c <= ColorNeutral }

func (c TileColor) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return tileColorNames[c].key
}

// DisplayName is the human name shown to players.
func (c TileColor) DisplayName() string {
	if !c.Valid() {
		return ""
	}
	return tileColorNames[c].display
}

func (c TileColor) Hex() string {
	if !c.Valid() {
		return ""
	}
	return tileColorNames[c].hex
}

// ParseTileColor accepts the key ("primary") or display name ("Green").
func ParseTileColor(s string) (TileColor, error) {
	for i, n := range tileColorNames {
		if strings.EqualFold(s, n.key) || strings.EqualFold(s, n.display) {
			return TileColor(i), nil
		}
	}
	return ColorBackground, fmt.Errorf("unknown tile color %q", s)
}

func (c TileColor) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *TileColor) UnmarshalText(b []byte) error {
	v, err := ParseTileColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

type GridPosition struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// InBounds reports whether p addresses a cell of a size×size grid.
func (p GridPosition) InBounds(size int) bool {
	return p.Row >= 0 && p.Row < size && p.Column >= 0 && p.Column < size
}

type Tile struct {
	ID       string       `json:"id"`
	Position GridPosition `json:"position"`
	Color    TileColor    `json:"color"`
	Selected bool         `json:"selected"`
	Hinted   bool         `json:"hinted"`
}

type Pattern struct {
	ID          string        `json:"id"`
	Target      [][]TileColor `json:"target"`
	Difficulty  Difficulty    `json:"difficulty"`
	MaxMoves    int           `json:"max_moves"`
	Description string        `json:"description"`
}

// At returns the target color at p.
func (p Pattern) At(pos GridPosition) TileColor {
	return p.Target[pos.Row][pos.Column]
}

// Clone deep-copies the target matrix.
func (p Pattern) Clone() Pattern {
	target := make([][]TileColor, len(p.Target))
	for i, row := range p.Target {
		target[i] = append([]TileColor(nil), row...)
	}
	p.Target = target
	return p
}

type PowerUpType int

const (
	PowerUpTimeBoost PowerUpType = iota
	PowerUpHintReveal
	PowerUpColorMatch
	PowerUpGridClear

	powerUpTypeCount
)

// PowerUpTypes lists every power-up type in index order.
var PowerUpTypes = []PowerUpType{PowerUpTimeBoost, PowerUpHintReveal, PowerUpColorMatch, PowerUpGridClear}

var powerUpNames = [powerUpTypeCount]struct{ key, title, description string }{
	PowerUpTimeBoost:  {"timeBoost", "Time Boost", "Adds 15 seconds to timer"},
	PowerUpHintReveal: {"hintReveal", "Hint Reveal", "Reveals next correct move"},
	PowerUpColorMatch: {"colorMatch", "Color Match", "Highlights matching colors"},
	PowerUpGridClear:  {"gridClear", "Grid Clear", "Clears incorrect tiles"},
}

func (t PowerUpType) Valid() bool { return t >= 0 && t < powerUpTypeCount }

func (t PowerUpType) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return powerUpNames[t].key
}

func (t PowerUpType) Title() string {
	if !t.Valid() {
		return ""
	}
	return powerUpNames[t].title
}

func (t PowerUpType) Description() string {
	if !t.Valid() {
		return ""
	}
	return powerUpNames[t].description
}

func ParsePowerUpType(s string) (PowerUpType, error) {
	for i, n := range powerUpNames {
		if strings.EqualFold(s, n.key) || strings.EqualFold(s, n.title) {
			return PowerUpType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown power-up %q", s)
}

func (t PowerUpType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *PowerUpType) UnmarshalText(b []byte) error {
	v, err := ParsePowerUpType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// PowerUpCounts holds one counter per PowerUpType.
type PowerUpCounts [powerUpTypeCount]int

// Total sums all counters.
func (c PowerUpCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Sub returns c - o element-wise, floored at zero.
func (c PowerUpCounts) Sub(o PowerUpCounts) PowerUpCounts {
	var out PowerUpCounts
	for i := range c {
		if d := c[i] - o[i]; d > 0 {
			out[i] = d
		}
	}
	return out
}

func (c PowerUpCounts) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, len(c))
	for i, v := range c {
		m[PowerUpType(i).String()] = v
	}
	return json.Marshal(m)
}

func (c *PowerUpCounts) UnmarshalJSON(b []byte) error {
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out PowerUpCounts
	for k, v := range m {
		t, err := ParsePowerUpType(k)
		if err != nil {
			return err
		}
		out[t] = v
	}
	*c = out
	return nil
}

type GameState int

const (
	GameNotStarted GameState = iota
	GamePlaying
	GamePaused
	GameCompleted
	GameFailed
)

var gameStateNames = [...]string{
	GameNotStarted: "not_started",
	GamePlaying:    "playing",
	GamePaused:     "paused",
	GameCompleted:  "completed",
	GameFailed:     "failed",
}

func (s GameState) String() string {
	if s < GameNotStarted || s > GameFailed {
		return "unknown"
	}
	return gameStateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s GameState) Terminal() bool {
	return s == GameCompleted || s == GameFailed
}

// GameStateOrFailed parses a stored state; anything but "completed" reads as failed.
func GameStateOrFailed(s string) GameState {
	if s == gameStateNames[GameCompleted] {
		return GameCompleted
	}
	return GameFailed
}

func (s GameState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *GameState) UnmarshalText(b []byte) error {
	for i, n := range gameStateNames {
		if n == string(b) {
			*s = GameState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown game state %q", b)
}

// GameRecord is the persisted summary of a finished game.
type GameRecord struct {
	ID                string        `json:"id"`
	Difficulty        Difficulty    `json:"difficulty"`
	State             GameState     `json:"state"`
	Score             int           `json:"score"`
	TimeRemaining     int           `json:"time_remaining"`
	MovesUsed         int           `json:"moves_used"`
	HintsUsed         int           `json:"hints_used"`
	PowerUpsRemaining PowerUpCounts `json:"power_ups_remaining"`
	CurrentStreak     int           `json:"current_streak"`
	PlayedAt          time.Time     `json:"played_at"`
}

func (r GameRecord) Won() bool { return r.State == GameCompleted }

// TimeUsed is the number of countdown seconds consumed, never negative
// even when time boosts pushed the clock above the limit.
func (r GameRecord) TimeUsed() int {
	if used := r.Difficulty.TimeLimit() - r.TimeRemaining; used > 0 {
		return used
	}
	return 0
}

// PowerUpsUsedByType derives per-type usage from the difficulty allowance.
func (r GameRecord) PowerUpsUsedByType() PowerUpCounts {
	return r.Difficulty.PowerUpAllowance().Sub(r.PowerUpsRemaining)
}

func (r GameRecord) PowerUpsUsed() int {
	return r.PowerUpsUsedByType().Total()
}
