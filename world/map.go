package world

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pthm-cable/demnuts/components"
)

// Map tile characters.
const (
	TileTree   = '#'
	TileGround = '.'
)

var (
	// ErrEmptyMap is returned when a map has no rows.
	ErrEmptyMap = errors.New("map has no rows")
	// ErrRaggedMap is returned when map rows differ in width.
	ErrRaggedMap = errors.New("map rows differ in width")
)

//go:embed maps/meadow.txt
var meadowMap string

// Map is the immutable static grid. Rows are indexed by Y, columns by X.
type Map struct {
	rows []string
}

// NewMap builds a Map from fixed-width rows.
func NewMap(rows []string) (Map, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Map{}, ErrEmptyMap
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width {
			return Map{}, fmt.Errorf("%w: row %d has width %d, want %d", ErrRaggedMap, i, len(r), width)
		}
	}
	cp := make([]string, len(rows))
	copy(cp, rows)
	return Map{rows: cp}, nil
}

// MustMap is NewMap for literals known to be well formed.
func MustMap(rows ...string) Map {
	m, err := NewMap(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMap reads one row per line. Trailing blank lines are ignored.
func ParseMap(r io.Reader) (Map, error) {
	var rows []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		rows = append(rows, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return Map{}, fmt.Errorf("reading map: %w", err)
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return NewMap(rows)
}

// LoadMap reads a map file. An empty path selects the embedded meadow map.
func LoadMap(path string) (Map, error) {
	if path == "" {
		return DefaultMap(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Map{}, fmt.Errorf("opening map: %w", err)
	}
	defer f.Close()
	return ParseMap(f)
}

// DefaultMap returns the embedded meadow map.
func DefaultMap() Map {
	m, err := ParseMap(strings.NewReader(meadowMap))
	if err != nil {
		panic(fmt.Sprintf("world: embedded map: %v", err))
	}
	return m
}

// Width returns the number of columns.
func (m Map) Width() int {
	if len(m.rows) == 0 {
		return 0
	}
	return len(m.rows[0])
}

// Height returns the number of rows.
func (m Map) Height() int { return len(m.rows) }

// InBounds reports whether p lies on the map.
func (m Map) InBounds(p components.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width() && p.Y < m.Height()
}

// At returns the tile character at p. The caller must bounds-check.
func (m Map) At(p components.Point) byte {
	return m.rows[p.Y][p.X]
}

