package app

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Overlay markers drawn on top of hexes: a triangle with a cap dot for
// own-faction units, a ring with a center dot for settlements, and a
// hollow box for structures.

func hexPath(cx, cy, r float32) *vector.Path {
	var p vector.Path
	for i := 0; i < 6; i++ {
		a := math.Pi / 3 * float64(i)
		x := cx + r*float32(math.Cos(a))
		y := cy + r*float32(math.Sin(a))
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
	return &p
}

func fillHex(dst *ebiten.Image, cx, cy, r float32, col color.Color) {
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(col)
	vector.FillPath(dst, hexPath(cx, cy, r), &vector.FillOptions{}, op)
}

func strokeHex(dst *ebiten.Image, cx, cy, r, width float32, col color.Color) {
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(col)
	vector.StrokePath(dst, hexPath(cx, cy, r), &vector.StrokeOptions{Width: width}, op)
}

// drawUnitMarker draws the own-faction unit triangle below the hex
// center: an upward triangle with a small dot at its apex.
func drawUnitMarker(dst *ebiten.Image, cx, cy, size float32, col color.Color) {
	var p vector.Path
	p.MoveTo(cx, cy-size/2)
	p.LineTo(cx+size/2, cy+size/2)
	p.LineTo(cx-size/2, cy+size/2)
	p.Close()
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(col)
	vector.FillPath(dst, &p, &vector.FillOptions{}, op)
	vector.FillCircle(dst, cx, cy-size/2, size/5, col, true)
}

// drawSettlementMarker draws the settlement ring with a center dot
// above the hex center.
func drawSettlementMarker(dst *ebiten.Image, cx, cy, size float32, col color.Color) {
	vector.StrokeCircle(dst, cx, cy, size/2, size/6, col, true)
	vector.FillCircle(dst, cx, cy, size/6, col, true)
}

// drawStructureMarker draws the hollow box with a center dot to the
// right of the hex center.
func drawStructureMarker(dst *ebiten.Image, cx, cy, size float32, col color.Color) {
	vector.StrokeRect(dst, cx-size/2, cy-size/2, size, size, size/6, col, true)
	vector.FillCircle(dst, cx, cy, size/6, col, true)
}
