package scene

import (
	"math"

	"github.com/san-kum/propsim/internal/vec"
)

// Camera is a fixed perspective viewpoint converting normalized pointer
// coordinates (y down) into world-space rays and back.
type Camera struct {
	Eye    vec.V3
	LookAt vec.V3
	FOV    float64 // vertical, radians
	Aspect float64
}

func DefaultCamera() *Camera {
	return &Camera{
		Eye:    vec.V3{Y: 1.4, Z: 2.2},
		LookAt: vec.V3{Y: 0.8},
		FOV:    math.Pi / 3,
		Aspect: 16.0 / 9,
	}
}

func (c *Camera) basis() (fwd, right, up vec.V3) {
	fwd = c.LookAt.Sub(c.Eye).Normalize()
	right = fwd.Cross(vec.V3{Y: 1}).Normalize()
	up = right.Cross(fwd)
	return
}

func (c *Camera) Forward() vec.V3 {
	fwd, _, _ := c.basis()
	return fwd
}

// Ray builds the world ray through pointer (px, py) in [0,1]².
func (c *Camera) Ray(px, py float64) (vec.V3, vec.V3) {
	fwd, right, up := c.basis()
	tan := math.Tan(c.FOV / 2)
	x := (px - 0.5) * 2 * tan * c.Aspect
	y := (0.5 - py) * 2 * tan
	dir := fwd.Add(right.Scale(x)).Add(up.Scale(y)).Normalize()
	return c.Eye, dir
}

// Project maps a world point to pointer coordinates. ok is false behind
// the camera.
func (c *Camera) Project(p vec.V3) (px, py float64, ok bool) {
	fwd, right, up := c.basis()
	d := p.Sub(c.Eye)
	z := d.Dot(fwd)
	if z <= 1e-9 {
		return 0, 0, false
	}
	tan := math.Tan(c.FOV / 2)
	px = 0.5 + d.Dot(right)/(z*2*tan*c.Aspect)
	py = 0.5 - d.Dot(up)/(z*2*tan)
	return px, py, true
}
