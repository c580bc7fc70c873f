package types

import (
	"math"

	"golang.org/x/image/math/f32"
)

type Vec3 f32.Vec3

// Define a 3 component vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Index of the largest component.
func (v Vec3) MaxAxis() int {
	axis := 0
	if v[1] > v[axis] {
		axis = 1
	}
	if v[2] > v[axis] {
		axis = 2
	}
	return axis
}

// Calc min component from two vectors
func MinVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] < out[0] {
		out[0] = v2[0]
	}
	if v2[1] < out[1] {
		out[1] = v2[1]
	}
	if v2[2] < out[2] {
		out[2] = v2[2]
	}
	return out
}

// Calc max component from two vectors
func MaxVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] > out[0] {
		out[0] = v2[0]
	}
	if v2[1] > out[1] {
		out[1] = v2[1]
	}
	if v2[2] > out[2] {
		out[2] = v2[2]
	}
	return out
}

// Return a vector with all components set to +Inf.
func PosInfVec3() Vec3 {
	inf := float32(math.Inf(1))
	return Vec3{inf, inf, inf}
}

// Return a vector with all components set to -Inf.
func NegInfVec3() Vec3 {
	inf := float32(math.Inf(-1))
	return Vec3{inf, inf, inf}
}
