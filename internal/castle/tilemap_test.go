package castle

import (
	"errors"
	"testing"
)

func TestParseMap(t *testing.T) {
	src := "" +
		"#######\n" +
		"#Z  -- \n" +
		"#@ H^ #\n" +
		"#######\n"

	m, err := ParseMap(src)
	if err != nil {
		t.Fatalf("ParseMap() error: %v", err)
	}

	if m.Width() != 7 || m.Height() != 4 {
		t.Errorf("size = %dx%d, expected 7x4", m.Width(), m.Height())
	}
	if m.heroSpawn != [2]int{1, 2} {
		t.Errorf("hero spawn = %v, expected [1 2]", m.heroSpawn)
	}
	if len(m.zombieSpawns) != 1 || m.zombieSpawns[0] != [2]int{1, 1} {
		t.Errorf("zombie spawns = %v, expected [[1 1]]", m.zombieSpawns)
	}
	if len(m.platforms) != 1 || m.platforms[0] != (platformSpan{X: 4, Y: 1, W: 2}) {
		t.Errorf("platforms = %v, expected one span of width 2 at 4,1", m.platforms)
	}

	tests := []struct {
		name string
		x, y int
		want Tile
	}{
		{"wall", 0, 0, TileSolid},
		{"marker becomes empty", 1, 2, TileEmpty},
		{"stairs", 3, 2, TileStairs},
		{"trap", 4, 2, TileTrap},
		{"left of map is wall", -1, 2, TileSolid},
		{"right of map is wall", 7, 2, TileSolid},
		{"below map is open", 3, 10, TileEmpty},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.At(tc.x, tc.y); got != tc.want {
				t.Errorf("At(%d, %d) = %q, expected %q", tc.x, tc.y, got, tc.want)
			}
		})
	}

	if !m.StairsTop(3, 2) {
		t.Error("single stairs tile should be a ladder top")
	}
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"no hero", "###\n# #\n###"},
		{"two heroes", "@@\n##"},
		{"unknown tile", "@?\n##"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseMap(tc.src); !errors.Is(err, ErrBadMap) {
				t.Errorf("ParseMap() error = %v, expected ErrBadMap", err)
			}
		})
	}
}

func TestDefaultMap(t *testing.T) {
	m := DefaultMap()
	if m.Width() != 120 {
		t.Errorf("default map width = %d, expected 120", m.Width())
	}
	if len(m.zombieSpawns) == 0 || len(m.platforms) == 0 {
		t.Error("default map should have zombie spawns and moving platforms")
	}
	x, y := m.heroSpawn[0], m.heroSpawn[1]
	if !m.Solid(x, y+1) {
		t.Errorf("hero spawn at %d,%d should stand on solid ground", x, y)
	}
}

func TestSpan(t *testing.T) {
	s := span(1.1, 2.05, 0.8, 0.95)
	if s != (boxSpan{x0: 1, y0: 2, x1: 1, y1: 2}) {
		t.Errorf("span inside one tile = %+v", s)
	}
	s = span(1.5, 2.5, 0.8, 0.95)
	if s != (boxSpan{x0: 1, y0: 2, x1: 2, y1: 3}) {
		t.Errorf("span across tiles = %+v", s)
	}
}
