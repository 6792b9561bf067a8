package vec

import "math"

// V3 is a 3D vector. Zero value is the origin.
type V3 struct {
	X, Y, Z float64
}

func (v V3) Add(o V3) V3 { return V3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v V3) Sub(o V3) V3 { return V3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v V3) Scale(s float64) V3 { return V3{v.X * s, v.Y * s, v.Z * s} }

func (v V3) Dot(o V3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v V3) Cross(o V3) V3 {
	return V3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v V3) LengthSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

func (v V3) Length() float64 { return math.Sqrt(v.LengthSq()) }

// Normalize returns a unit vector, or the zero vector when length is zero.
func (v V3) Normalize() V3 {
	mag := v.Length()
	if mag == 0 {
		return V3{}
	}
	inv := 1.0 / mag
	return V3{v.X * inv, v.Y * inv, v.Z * inv}
}

// ClampLength limits vector magnitude to maxLen.
func (v V3) ClampLength(maxLen float64) V3 {
	if v.LengthSq() <= maxLen*maxLen {
		return v
	}
	return v.Normalize().Scale(maxLen)
}

func (v V3) Lerp(o V3, t float64) V3 {
	return V3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

func (v V3) Dist(o V3) float64 { return v.Sub(o).Length() }

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
