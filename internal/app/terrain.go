package app

import "image/color"

// terrainColors maps report terrain names to fill colours. Unknown
// terrain falls back to the placeholder, never an error.
var terrainColors = map[string]color.RGBA{
	"plain":    {R: 34, G: 139, B: 34, A: 255},
	"plains":   {R: 34, G: 139, B: 34, A: 255},
	"forest":   {R: 0, G: 100, B: 0, A: 255},
	"mountain": {R: 110, G: 110, B: 110, A: 255},
	"swamp":    {R: 85, G: 107, B: 47, A: 255},
	"jungle":   {R: 107, G: 142, B: 35, A: 255},
	"desert":   {R: 222, G: 184, B: 135, A: 255},
	"tundra":   {R: 173, G: 216, B: 230, A: 255},
	"nexus":    {R: 128, G: 0, B: 128, A: 255},
	"ocean":    {R: 36, G: 66, B: 140, A: 255},
}

// terrainPlaceholder is used for terrain names the palette doesn't know.
var terrainPlaceholder = color.RGBA{R: 200, G: 200, B: 200, A: 255}

func terrainColor(terrain string) color.RGBA {
	if c, ok := terrainColors[terrain]; ok {
		return c
	}
	return terrainPlaceholder
}

// dimmed halves a colour's brightness; used for peeked regions known
// only from a neighbour's exit list.
func dimmed(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}
