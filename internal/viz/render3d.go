package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera manages 3D projection to a 2D plane. Points are expected in view
// units, roughly [-1, 1] for the interesting region.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Near: 0.1, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(50, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.02, c.Zoom/1.2) }

func (c *Camera) Reset() {
	c.RotX, c.RotY, c.RotZ = 0, 0, 0
	c.Zoom = 1
}

// RotatePoint rotates a point around the camera's axes, X then Y then Z.
func (c *Camera) RotatePoint(p mgl64.Vec3) mgl64.Vec3 {
	rot := mgl64.Rotate3DZ(c.RotZ).Mul3(mgl64.Rotate3DY(c.RotY)).Mul3(mgl64.Rotate3DX(c.RotX))
	return rot.Mul3x1(p)
}

// Project converts view coordinates to sub-pixel screen coordinates on a
// sw x sh surface. Returns x, y, depth, and visibility.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Mul(c.Zoom)
	dist := c.Distance
	if rot.Z() >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z())
	// braille dots are twice as tall as wide in cell terms
	pScale := math.Min(float64(sw), float64(sh)) / 2.2
	sx := int(rot.X()*scale*pScale) + sw/2
	sy := int(-rot.Y()*scale*pScale) + sh/2
	return sx, sy, rot.Z(), sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// DrawAxes draws the three world axes of length l from the origin.
func DrawAxes(cv *Canvas, cam *Camera, l float64, ink int) {
	sw, sh := cv.Width*2, cv.Height*4
	ox, oy, _, _ := cam.Project(mgl64.Vec3{}, sw, sh)
	for _, axis := range []mgl64.Vec3{{l, 0, 0}, {0, l, 0}, {0, 0, l}} {
		x, y, _, ok := cam.Project(axis, sw, sh)
		if !ok {
			continue
		}
		dashLine(cv, ox, oy, x, y, ink)
	}
}

// dashLine is Canvas.DrawLine with every other dot skipped.
func dashLine(c *Canvas, x0, y0, x1, y1, ink int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for n := 0; ; n++ {
		if n%2 == 0 {
			c.Plot(x0, y0, ink)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}
