package castle

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"
)

//go:embed maps/level0.txt
var level0 string

// ErrBadMap is wrapped by map parse failures.
var ErrBadMap = errors.New("castle: bad map")

// Tile is one cell of the level map.
type Tile byte

const (
	TileEmpty  Tile = ' '
	TileSolid  Tile = '#'
	TileStairs Tile = 'H'
	TileTrap   Tile = '^'
)

// Map legend characters that mark positions rather than tiles.
const (
	markHero     = '@'
	markZombie   = 'Z'
	markPlatform = '-'
)

// platformSpan is a run of platform marks found in the map.
type platformSpan struct {
	X, Y, W int
}

// TileMap is the static part of a level.
type TileMap struct {
	width, height int
	tiles         [][]Tile

	heroSpawn    [2]int
	zombieSpawns [][2]int
	platforms    []platformSpan
}

// ParseMap builds a TileMap from its ASCII form. Short rows are padded
// with empty tiles. The map must contain exactly one hero mark.
func ParseMap(src string) (*TileMap, error) {
	lines := strings.Split(strings.Trim(src, "\n"), "\n")
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return nil, fmt.Errorf("%w: empty", ErrBadMap)
	}

	m := &TileMap{height: len(lines)}
	for _, l := range lines {
		m.width = max(m.width, len(l))
	}

	heroes := 0
	m.tiles = make([][]Tile, m.height)
	for y, l := range lines {
		row := make([]Tile, m.width)
		for x := range row {
			row[x] = TileEmpty
		}
		for x := 0; x < len(l); x++ {
			switch c := l[x]; c {
			case ' ', '.':
			case byte(TileSolid), byte(TileStairs), byte(TileTrap):
				row[x] = Tile(c)
			case markHero:
				m.heroSpawn = [2]int{x, y}
				heroes++
			case markZombie:
				m.zombieSpawns = append(m.zombieSpawns, [2]int{x, y})
			case markPlatform:
				if n := len(m.platforms); n > 0 {
					if p := &m.platforms[n-1]; p.Y == y && p.X+p.W == x {
						p.W++
						continue
					}
				}
				m.platforms = append(m.platforms, platformSpan{X: x, Y: y, W: 1})
			default:
				return nil, fmt.Errorf("%w: unknown tile %q at %d,%d", ErrBadMap, c, x, y)
			}
		}
		m.tiles[y] = row
	}

	if heroes != 1 {
		return nil, fmt.Errorf("%w: need one hero spawn, found %d", ErrBadMap, heroes)
	}
	return m, nil
}

// DefaultMap returns the built-in level.
func DefaultMap() *TileMap {
	m, err := ParseMap(level0)
	if err != nil {
		panic(err)
	}
	return m
}

// Width returns the map width in tiles.
func (m *TileMap) Width() int { return m.width }

// Height returns the map height in tiles.
func (m *TileMap) Height() int { return m.height }

// At returns the tile at x, y. Cells left or right of the map are solid
// walls; cells above or below it are empty.
func (m *TileMap) At(x, y int) Tile {
	if x < 0 || x >= m.width {
		return TileSolid
	}
	if y < 0 || y >= m.height {
		return TileEmpty
	}
	return m.tiles[y][x]
}

// Solid reports whether the tile blocks movement from every side.
func (m *TileMap) Solid(x, y int) bool {
	return m.At(x, y) == TileSolid
}

// StairsTop reports whether x, y is the top rung of a ladder. The top
// rung can be stood on when not climbing.
func (m *TileMap) StairsTop(x, y int) bool {
	return m.At(x, y) == TileStairs && m.At(x, y-1) != TileStairs
}

// Overlaps reports whether any tile of kind t lies under box b.
func (m *TileMap) Overlaps(b boxSpan, t Tile) bool {
	for y := b.y0; y <= b.y1; y++ {
		for x := b.x0; x <= b.x1; x++ {
			if m.At(x, y) == t {
				return true
			}
		}
	}
	return false
}

// boxSpan is the inclusive range of tiles a box covers.
type boxSpan struct {
	x0, y0, x1, y1 int
}

// spanEps absorbs rounding so a box resting on a tile border does not
// reach into the neighbouring tile.
const spanEps = 1e-9

// span returns the tiles covered by a box at x, y of size w, h.
func span(x, y, w, h float64) boxSpan {
	return boxSpan{
		x0: int(math.Floor(x + spanEps)),
		y0: int(math.Floor(y + spanEps)),
		x1: int(math.Ceil(x+w-spanEps)) - 1,
		y1: int(math.Ceil(y+h-spanEps)) - 1,
	}
}
