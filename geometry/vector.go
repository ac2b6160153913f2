package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector3 is a point or direction in 3D space
type Vector3 r3.Vec

// NewVector3 creates a new vector
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 { return Vector3(r3.Add(r3.Vec(v), r3.Vec(o))) }

func (v Vector3) Sub(o Vector3) Vector3 { return Vector3(r3.Sub(r3.Vec(v), r3.Vec(o))) }

func (v Vector3) Scale(f float64) Vector3 { return Vector3(r3.Scale(f, r3.Vec(v))) }

func (v Vector3) Dot(o Vector3) float64 { return r3.Dot(r3.Vec(v), r3.Vec(o)) }

func (v Vector3) Cross(o Vector3) Vector3 { return Vector3(r3.Cross(r3.Vec(v), r3.Vec(o))) }

// Norm returns the Euclidean length
func (v Vector3) Norm() float64 { return r3.Norm(r3.Vec(v)) }

// Normalize returns the unit vector along v, the zero vector is returned unchanged
func (v Vector3) Normalize() Vector3 {
	if v.Norm() == 0 {
		return Vector3{}
	}
	return Vector3(r3.Unit(r3.Vec(v)))
}

// Midpoint returns the point halfway between v and o
func (v Vector3) Midpoint(o Vector3) Vector3 {
	return v.Add(o).Scale(0.5)
}

// ApproxEqual reports whether v and o are closer than tol
func (v Vector3) ApproxEqual(o Vector3, tol float64) bool {
	return v.Sub(o).Norm() < tol
}

// Less orders vectors lexicographically on X, then Y, then Z. It is a key
// ordering for deduplication, not a numeric comparison.
func (v Vector3) Less(o Vector3) bool {
	if v.X != o.X {
		return v.X < o.X
	}
	if v.Y != o.Y {
		return v.Y < o.Y
	}
	return v.Z < o.Z
}

// Snap rounds each component to the nearest multiple of pitch
func (v Vector3) Snap(pitch float64) Vector3 {
	if pitch <= 0 {
		return v
	}
	return Vector3{
		X: math.Round(v.X/pitch) * pitch,
		Y: math.Round(v.Y/pitch) * pitch,
		Z: math.Round(v.Z/pitch) * pitch,
	}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
