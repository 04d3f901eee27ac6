package state

import (
	"fmt"

	"github.com/nathoo/skirmish/types"
)

// Tile is a single map cell.
type Tile int

const (
	Floor Tile = iota
	Wall
)

// Map is a rectangular tile grid indexed row-major.
type Map struct {
	width  int
	height int
	tiles  []Tile
}

// NewMap returns an all-floor map.
func NewMap(width, height int) *Map {
	return &Map{width: width, height: height, tiles: make([]Tile, width*height)}
}

// ParseMap builds a map from rows of '#' (wall) and '.' (floor).
// Every row must have the same width.
func ParseMap(rows []string) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("map has no rows")
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("map row 1 is empty")
	}
	m := NewMap(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("map row %d has width %d, want %d", y+1, len(row), width)
		}
		for x, c := range row {
			switch c {
			case '.':
				m.tiles[m.idx(x, y)] = Floor
			case '#':
				m.tiles[m.idx(x, y)] = Wall
			default:
				return nil, fmt.Errorf("map row %d: unknown tile %q at column %d", y+1, c, x+1)
			}
		}
	}
	return m, nil
}

func (m *Map) idx(x, y int) int {
	return y*m.width + x
}

// Width returns the number of columns.
func (m *Map) Width() int { return m.width }

// Height returns the number of rows.
func (m *Map) Height() int { return m.height }

// InBounds reports whether p is on the map.
func (m *Map) InBounds(p types.Position) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// CanEnterTile reports whether a solid mover may stand on p.
func (m *Map) CanEnterTile(p types.Position) bool {
	return m.InBounds(p) && m.tiles[m.idx(p.X, p.Y)] == Floor
}

// TileAt returns the tile at p. Out-of-bounds positions read as Wall.
func (m *Map) TileAt(p types.Position) Tile {
	if !m.InBounds(p) {
		return Wall
	}
	return m.tiles[m.idx(p.X, p.Y)]
}

// SetTile changes the tile at p. Out-of-bounds writes are ignored.
func (m *Map) SetTile(p types.Position, t Tile) {
	if m.InBounds(p) {
		m.tiles[m.idx(p.X, p.Y)] = t
	}
}
