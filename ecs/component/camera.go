package component

// Camera maps world metres to screen pixels in the side view: world X to
// the right, Y up, Z ignored.
type Camera struct {
	X, Y       float64
	Scale      float64
	Smoothness float64
	// LookOffset keeps the followed character this far left of centre.
	LookOffset float64
	Width      float64
	Height     float64
}

// ToScreen projects a world point onto the screen.
func (c Camera) ToScreen(x, y float64) (float32, float32) {
	scale := c.Scale
	if scale <= 0 {
		scale = 1
	}
	sx := c.Width/2 + (x-c.X)*scale
	sy := c.Height/2 - (y-c.Y)*scale
	return float32(sx), float32(sy)
}

var CameraComponent = NewComponent[Camera]()
