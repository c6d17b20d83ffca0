package common

import (
	"math"
	"time"
)

const (
	TickRate  = 60
	TickDelta = 1.0 / TickRate

	BaseWidth  = 1280
	BaseHeight = 720
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// TicksFor converts a duration to whole simulation ticks, rounding up. Any
// positive duration is at least one tick.
func TicksFor(d time.Duration) uint64 {
	if d <= 0 {
		return 1
	}
	ticks := uint64(math.Ceil(d.Seconds()*TickRate - 1e-9))
	if ticks == 0 {
		ticks = 1
	}
	return ticks
}

// Vec3 is a world-space position. Y is up; the floor plane is X/Z.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Quat is a unit rotation quaternion.
type Quat struct {
	W, X, Y, Z float64
}

var IdentityQuat = Quat{W: 1}

// QuatFromYaw returns a rotation of deg degrees about the vertical axis.
func QuatFromYaw(deg float64) Quat {
	half := deg * math.Pi / 360
	return Quat{W: math.Cos(half), Y: math.Sin(half)}
}

// Yaw returns the rotation about the vertical axis in degrees.
func (q Quat) Yaw() float64 {
	siny := 2 * (q.W*q.Y + q.X*q.Z)
	cosy := 1 - 2*(q.Y*q.Y+q.X*q.X)
	return math.Atan2(siny, cosy) * 180 / math.Pi
}

func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

func (q Quat) Conjugate() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

func (q Quat) Dot(o Quat) float64 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

func (q Quat) Normalize() Quat {
	n := math.Sqrt(q.Dot(q))
	if n == 0 {
		return IdentityQuat
	}
	return Quat{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	p := q.Mul(Quat{X: v.X, Y: v.Y, Z: v.Z}).Mul(q.Conjugate())
	return Vec3{p.X, p.Y, p.Z}
}

// Angle returns the angle between two rotations in degrees.
func (q Quat) Angle(o Quat) float64 {
	d := math.Min(math.Abs(q.Dot(o)), 1)
	return 2 * math.Acos(d) * 180 / math.Pi
}

// Slerp interpolates along the shortest arc from a to b. t is clamped to
// [0, 1]; equal inputs return b unchanged.
func Slerp(a, b Quat, t float64) Quat {
	t = Clamp01(t)
	if a == b || t == 1 {
		return b
	}
	if t == 0 {
		return a
	}

	cos := a.Dot(b)
	if cos < 0 {
		b = Quat{-b.W, -b.X, -b.Y, -b.Z}
		cos = -cos
	}

	if cos > 0.9995 {
		return Quat{
			W: Lerp(a.W, b.W, t),
			X: Lerp(a.X, b.X, t),
			Y: Lerp(a.Y, b.Y, t),
			Z: Lerp(a.Z, b.Z, t),
		}.Normalize()
	}

	theta := math.Acos(cos)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return Quat{
		W: wa*a.W + wb*b.W,
		X: wa*a.X + wb*b.X,
		Y: wa*a.Y + wb*b.Y,
		Z: wa*a.Z + wb*b.Z,
	}
}
