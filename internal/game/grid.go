package game

import (
	"github.com/google/uuid"

	"github.com/vytor/pixelplay/internal/models"
)

// Grid is the mutable play field. Every tile starts as background.
type Grid struct {
	size  int
	tiles [][]models.Tile
}

func NewGrid(size int) *Grid {
	tiles := make([][]models.Tile, size)
	for r := range tiles {
		tiles[r] = make([]models.Tile, size)
		for c := range tiles[r] {
			tiles[r][c] = models.Tile{
				ID:       uuid.NewString(),
				Position: models.GridPosition{Row: r, Column: c},
				Color:    models.ColorBackground,
			}
		}
	}
	return &Grid{size: size, tiles: tiles}
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) At(pos models.GridPosition) (models.Tile, bool) {
	if !pos.InBounds(g.size) {
		return models.Tile{}, false
	}
	return g.tiles[pos.Row][pos.Column], true
}

// Set paints the tile at pos. It reports false for out-of-range positions.
func (g *Grid) Set(pos models.GridPosition, color models.TileColor) bool {
	if !pos.InBounds(g.size) {
		return false
	}
	g.tiles[pos.Row][pos.Column].Color = color
	return true
}

// Select marks pos as the only selected tile.
func (g *Grid) Select(pos models.GridPosition) bool {
	if !pos.InBounds(g.size) {
		return false
	}
	g.each(func(t *models.Tile) { t.Selected = t.Position == pos })
	return true
}

func (g *Grid) Matches(p models.Pattern) bool {
	return g.CorrectCount(p) == g.size*g.size
}

func (g *Grid) CorrectCount(p models.Pattern) int {
	n := 0
	g.each(func(t *models.Tile) {
		if t.Color == p.At(t.Position) {
			n++
		}
	})
	return n
}

// RevealHint marks the first mismatched, not yet hinted tile in row-major
// order.
func (g *Grid) RevealHint(p models.Pattern) (models.GridPosition, bool) {
	for r := range g.tiles {
		for c := range g.tiles[r] {
			t := &g.tiles[r][c]
			if t.Hinted || t.Color == p.At(t.Position) {
				continue
			}
			t.Hinted = true
			return t.Position, true
		}
	}
	return models.GridPosition{}, false
}

// ClearIncorrect resets every wrongly painted tile to background. Background
// tiles are left alone even when they are wrong.
func (g *Grid) ClearIncorrect(p models.Pattern) int {
	cleared := 0
	g.each(func(t *models.Tile) {
		if t.Color != p.At(t.Position) && t.Color != models.ColorBackground {
			t.Color = models.ColorBackground
			cleared++
		}
	})
	return cleared
}

// Tiles returns a deep copy of the grid.
func (g *Grid) Tiles() [][]models.Tile {
	out := make([][]models.Tile, len(g.tiles))
	for r, row := range g.tiles {
		out[r] = append([]models.Tile(nil), row...)
	}
	return out
}

func (g *Grid) each(fn func(*models.Tile)) {
	for r := range g.tiles {
		for c := range g.tiles[r] {
			fn(&g.tiles[r][c])
		}
	}
}
