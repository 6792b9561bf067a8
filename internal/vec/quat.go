package vec

import "math"

// Quat is a rotation quaternion (x, y, z, w).
type Quat struct {
	X, Y, Z, W float64
}

func IdentityQuat() Quat { return Quat{0, 0, 0, 1} }

// AxisAngle builds a quaternion rotating angle radians around axis.
// Axis need not be normalized.
func AxisAngle(axis V3, angle float64) Quat {
	a := axis.Normalize()
	half := angle * 0.5
	s := math.Sin(half)
	return Quat{a.X * s, a.Y * s, a.Z * s, math.Cos(half)}
}

func (q Quat) Mul(o Quat) Quat {
	return Quat{
		q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

func (q Quat) Conj() Quat { return Quat{-q.X, -q.Y, -q.Z, q.W} }

func (q Quat) Normalize() Quat {
	mag := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if mag == 0 {
		return IdentityQuat()
	}
	inv := 1.0 / mag
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v V3) V3 {
	// v' = v + 2w(u x v) + 2(u x (u x v)), u = vector part
	u := V3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Slerp interpolates between q and o, t in [0,1].
func (q Quat) Slerp(o Quat, t float64) Quat {
	cosom := q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
	if cosom < 0 {
		o = Quat{-o.X, -o.Y, -o.Z, -o.W}
		cosom = -cosom
	}
	var ka, kb float64
	if cosom > 0.9995 {
		// Nearly parallel, fall back to lerp
		ka, kb = 1-t, t
	} else {
		omega := math.Acos(Clamp(cosom, -1, 1))
		sinom := math.Sin(omega)
		ka = math.Sin((1-t)*omega) / sinom
		kb = math.Sin(t*omega) / sinom
	}
	return Quat{
		ka*q.X + kb*o.X,
		ka*q.Y + kb*o.Y,
		ka*q.Z + kb*o.Z,
		ka*q.W + kb*o.W,
	}.Normalize()
}

// Integrate advances orientation by angular velocity w over dt.
func (q Quat) Integrate(w V3, dt float64) Quat {
	wq := Quat{w.X, w.Y, w.Z, 0}
	dq := wq.Mul(q)
	return Quat{
		q.X + 0.5*dq.X*dt,
		q.Y + 0.5*dq.Y*dt,
		q.Z + 0.5*dq.Z*dt,
		q.W + 0.5*dq.W*dt,
	}.Normalize()
}
