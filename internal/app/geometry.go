package app

import (
	"math"

	"github.com/OldJobobo/lantir/internal/world"
)

// Projection maps hex coordinates to world-space pixels. Hexes are
// flat-topped; Radius is the center-to-corner distance. Horizontal
// neighbours sit 1.5*Radius apart, the doubled y axis steps by half the
// hex height, so same-column neighbours (y±2) are one full height apart.
type Projection struct {
	Radius float64
}

// HexToPixel returns the world-space center of hex c.
func (p Projection) HexToPixel(c world.Coord) (float64, float64) {
	px := 1.5 * p.Radius * float64(c.X)
	py := math.Sqrt(3) / 2 * p.Radius * float64(c.Y)
	return px, py
}

// PixelToHex returns the valid hex whose center is nearest to the
// world-space point under Euclidean distance. Exact ties resolve to the
// lexicographically lowest (x, y).
func (p Projection) PixelToHex(px, py float64) world.Coord {
	xf := px / (1.5 * p.Radius)
	yf := 2 * py / (math.Sqrt(3) * p.Radius)

	// Candidate centers around the fractional coordinate; the nearest
	// valid center is always within this window.
	x0 := int(math.Floor(xf))
	y0 := int(math.Floor(yf))

	const tie = 1e-9
	best := world.Coord{}
	bestD := math.Inf(1)
	for x := x0 - 1; x <= x0+2; x++ {
		for y := y0 - 2; y <= y0+3; y++ {
			c := world.Coord{X: x, Y: y}
			if !c.Valid() {
				continue
			}
			cx, cy := p.HexToPixel(c)
			d := (px-cx)*(px-cx) + (py-cy)*(py-cy)
			switch {
			case d < bestD-tie:
				best, bestD = c, d
			case d <= bestD+tie && c.Less(best):
				best = c
			}
		}
	}
	return best
}

// visibleRange returns the inclusive coordinate bounds of hexes whose
// centers could intersect a world-space rectangle, padded by one hex so
// partially visible edges still draw.
func (p Projection) visibleRange(left, top, right, bottom float64) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(left/(1.5*p.Radius))) - 1
	x1 = int(math.Ceil(right/(1.5*p.Radius))) + 1
	y0 = int(math.Floor(2*top/(math.Sqrt(3)*p.Radius))) - 2
	y1 = int(math.Ceil(2*bottom/(math.Sqrt(3)*p.Radius))) + 2
	return
}
