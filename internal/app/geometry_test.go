package app

import (
	"math"
	"testing"

	"github.com/OldJobobo/lantir/internal/world"
)

func TestHexToPixel_Spacing(t *testing.T) {
	p := Projection{Radius: 40}

	x, y := p.HexToPixel(world.Coord{X: 0, Y: 0})
	if x != 0 || y != 0 {
		t.Fatalf("origin = (%f, %f)", x, y)
	}

	// Horizontal neighbours sit 1.5 radii apart, same-column
	// neighbours one hex height apart.
	x, y = p.HexToPixel(world.Coord{X: 1, Y: 1})
	if math.Abs(x-60) > 1e-9 || math.Abs(y-math.Sqrt(3)/2*40) > 1e-9 {
		t.Fatalf("(1,1) = (%f, %f)", x, y)
	}
	_, y2 := p.HexToPixel(world.Coord{X: 0, Y: 2})
	if math.Abs(y2-math.Sqrt(3)*40) > 1e-9 {
		t.Fatalf("(0,2) y = %f, want one hex height", y2)
	}
}

func TestPixelToHex_RoundTripCenters(t *testing.T) {
	p := Projection{Radius: 40}
	for x := -5; x <= 5; x++ {
		for y := -6; y <= 6; y++ {
			c := world.Coord{X: x, Y: y}
			if !c.Valid() {
				continue
			}
			px, py := p.HexToPixel(c)
			if got := p.PixelToHex(px, py); got != c {
				t.Fatalf("PixelToHex(HexToPixel(%s)) = %s", c, got)
			}
		}
	}
}

func TestPixelToHex_NearestWithinOneRadius(t *testing.T) {
	// For any point, the resolved hex center must lie within one
	// radius: hexes are covered by their circumscribed circle.
	p := Projection{Radius: 40}
	for i := 0; i < 60; i++ {
		for j := 0; j < 60; j++ {
			px := -300 + float64(i)*10.7
			py := -300 + float64(j)*10.3
			c := p.PixelToHex(px, py)
			cx, cy := p.HexToPixel(c)
			d := math.Hypot(px-cx, py-cy)
			if d > p.Radius+1e-9 {
				t.Fatalf("point (%f, %f) -> %s at distance %f > radius", px, py, c, d)
			}
		}
	}
}

func TestPixelToHex_NoNearerCenter(t *testing.T) {
	// The returned hex must actually be the nearest valid center.
	p := Projection{Radius: 40}
	probes := []struct{ px, py float64 }{
		{13, -27}, {59.9, 0.1}, {-41, 88}, {0.1, 34.6}, {-120.5, -66.6},
	}
	for _, pt := range probes {
		c := p.PixelToHex(pt.px, pt.py)
		cx, cy := p.HexToPixel(c)
		best := math.Hypot(pt.px-cx, pt.py-cy)
		for x := c.X - 2; x <= c.X+2; x++ {
			for y := c.Y - 3; y <= c.Y+3; y++ {
				o := world.Coord{X: x, Y: y}
				if !o.Valid() {
					continue
				}
				ox, oy := p.HexToPixel(o)
				if d := math.Hypot(pt.px-ox, pt.py-oy); d < best-1e-9 {
					t.Fatalf("point (%f, %f): %s at %f beats chosen %s at %f",
						pt.px, pt.py, o, d, c, best)
				}
			}
		}
	}
}

func TestPixelToHex_TieBreaksLexicographic(t *testing.T) {
	p := Projection{Radius: 40}
	// The midpoint between the centers of (0,0) and (1,1) is an exact
	// tie; the lexicographically lower coordinate wins.
	ax, ay := p.HexToPixel(world.Coord{X: 0, Y: 0})
	bx, by := p.HexToPixel(world.Coord{X: 1, Y: 1})
	mx, my := (ax+bx)/2, (ay+by)/2
	if got := p.PixelToHex(mx, my); got != (world.Coord{X: 0, Y: 0}) {
		t.Fatalf("tie resolved to %s, want (0,0)", got)
	}

	// Same for a vertical tie between (0,0) and (0,2).
	cx, cy := p.HexToPixel(world.Coord{X: 0, Y: 2})
	if got := p.PixelToHex((ax+cx)/2, (ay+cy)/2); got != (world.Coord{X: 0, Y: 0}) {
		t.Fatalf("tie resolved to %s, want (0,0)", got)
	}
}

func TestVisibleRange_CoversViewport(t *testing.T) {
	p := Projection{Radius: 40}
	x0, y0, x1, y1 := p.visibleRange(-100, -100, 100, 100)
	// Every hex whose center is inside the rect must fall in range.
	for x := -10; x <= 10; x++ {
		for y := -10; y <= 10; y++ {
			c := world.Coord{X: x, Y: y}
			if !c.Valid() {
				continue
			}
			px, py := p.HexToPixel(c)
			if px < -100 || px > 100 || py < -100 || py > 100 {
				continue
			}
			if x < x0 || x > x1 || y < y0 || y > y1 {
				t.Fatalf("visible hex %s outside range [%d..%d]x[%d..%d]", c, x0, x1, y0, y1)
			}
		}
	}
}

func TestCamera_RoundTrip(t *testing.T) {
	cam := Camera{X: 123.4, Y: -56.7, Zoom: 1.7}
	sx, sy := cam.WorldToScreen(10, 20, 800, 600)
	wx, wy := cam.ScreenToWorld(sx, sy, 800, 600)
	if math.Abs(wx-10) > 1e-9 || math.Abs(wy-20) > 1e-9 {
		t.Fatalf("round trip = (%f, %f), want (10, 20)", wx, wy)
	}
}

func TestCamera_ZoomClamped(t *testing.T) {
	cam := Camera{Zoom: 1}
	for i := 0; i < 50; i++ {
		cam.ZoomBy(2)
	}
	if cam.Zoom != zoomMax {
		t.Fatalf("zoom = %f, want clamped to %f", cam.Zoom, zoomMax)
	}
	for i := 0; i < 50; i++ {
		cam.ZoomBy(0.5)
	}
	if cam.Zoom != zoomMin {
		t.Fatalf("zoom = %f, want clamped to %f", cam.Zoom, zoomMin)
	}
}
