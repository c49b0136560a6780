package app

// Camera is the pan/zoom transform between world space and the map
// viewport. (X, Y) is the world-space point shown at the viewport
// center; Zoom > 1 magnifies.
type Camera struct {
	X    float64
	Y    float64
	Zoom float64
}

const (
	zoomMin = 0.25
	zoomMax = 4.0
)

// WorldToScreen projects a world-space point into viewport pixels.
func (c Camera) WorldToScreen(wx, wy float64, vpW, vpH int) (float64, float64) {
	sx := (wx-c.X)*c.Zoom + float64(vpW)/2
	sy := (wy-c.Y)*c.Zoom + float64(vpH)/2
	return sx, sy
}

// ScreenToWorld inverts WorldToScreen for hit-testing pointer events.
func (c Camera) ScreenToWorld(sx, sy float64, vpW, vpH int) (float64, float64) {
	wx := (sx-float64(vpW)/2)/c.Zoom + c.X
	wy := (sy-float64(vpH)/2)/c.Zoom + c.Y
	return wx, wy
}

// ZoomBy scales the zoom factor, clamped to the usable range.
func (c *Camera) ZoomBy(factor float64) {
	c.Zoom *= factor
	if c.Zoom < zoomMin {
		c.Zoom = zoomMin
	}
	if c.Zoom > zoomMax {
		c.Zoom = zoomMax
	}
}
