// Package world holds the accumulated map state merged from imported
// turn reports, keyed by hex coordinate. Regions persist once discovered
// (last-known-state semantics); the grid itself is unbounded.
package world

import "fmt"

// Coord identifies one hex. Reports use doubled columns: x and y must
// share parity, so (0,0), (1,1) and (2,0) are hexes but (1,0) is not.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Valid reports whether the coordinate lies on the doubled grid.
func (c Coord) Valid() bool {
	return (c.X+c.Y)%2 == 0
}

// hexNeighborOffsets are the six adjacent offsets on the doubled grid.
var hexNeighborOffsets = [6]Coord{
	{X: 0, Y: -2}, // north
	{X: 1, Y: -1}, // northeast
	{X: 1, Y: 1},  // southeast
	{X: 0, Y: 2},  // south
	{X: -1, Y: 1}, // southwest
	{X: -1, Y: -1}, // northwest
}

// Neighbors returns the six adjacent hex coordinates.
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for i, d := range hexNeighborOffsets {
		out[i] = Coord{X: c.X + d.X, Y: c.Y + d.Y}
	}
	return out
}

// Less orders coordinates lexicographically by (x, y). Used as the
// tie-break when two hex centers are equidistant from a point.
func (c Coord) Less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

// Distance returns the hex walking distance between two coordinates.
func Distance(a, b Coord) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dy <= dx {
		return dx
	}
	return dx + (dy-dx)/2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
