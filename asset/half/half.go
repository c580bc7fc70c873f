// Package half converts between float32 values and the 16-bit half-precision
// patterns used to pack BVH node bounds.
//
// Encoding truncates the mantissa and flushes values below the smallest
// normal half to a signed zero; it never produces subnormals or NaN patterns.
// Decoding handles the full binary16 range, including subnormals, and keeps
// NaN payloads intact.
package half

import (
	"math"

	"github.com/achilleasa/bvh4/types"
)

const (
	signMask     = 0x8000
	exponentMask = 0x7C00
	mantissaMask = 0x03FF

	// Difference between the float32 (127) and half (15) exponent biases.
	biasDelta = 112

	maxExponent = 31

	// Bit pattern of the smallest positive normal half.
	smallestNormal = 0x0400
)

// Encode a float32 into a half-precision bit pattern.
func Encode(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & signMask)
	exp := int32((bits>>23)&0xFF) - biasDelta
	mantissa := uint16((bits >> 13) & mantissaMask)

	switch {
	case exp <= 0:
		return sign
	case exp >= maxExponent:
		return sign | exponentMask
	}

	return sign | uint16(exp)<<10 | mantissa
}

// Encode a float32 into the smallest half that is not less than f.
func EncodeCeil(f float32) uint16 {
	return encodeOutward(f, f > 0)
}

// Encode a float32 into the largest half that is not greater than f.
func EncodeFloor(f float32) uint16 {
	return encodeOutward(f, f < 0)
}

// Encode truncates towards zero. When awayFromZero is set and the truncated
// value is inexact, step to the next half with a larger magnitude.
func encodeOutward(f float32, awayFromZero bool) uint16 {
	h := Encode(f)
	if !awayFromZero || h&^signMask == exponentMask || Decode(h) == f {
		return h
	}
	if h&^signMask == 0 {
		return h&signMask | smallestNormal
	}
	return h + 1
}

// Decode a half-precision bit pattern into a float32.
func Decode(h uint16) float32 {
	sign := uint32(h&signMask) << 16
	exp := int32(h&exponentMask) >> 10
	mantissa := uint32(h & mantissaMask)

	switch exp {
	case 0:
		if mantissa == 0 {
			return math.Float32frombits(sign)
		}

		// Subnormal; shift until the implicit bit shows up.
		exp = 1
		for mantissa&0x0400 == 0 {
			mantissa <<= 1
			exp--
		}
		mantissa &= mantissaMask
		return math.Float32frombits(sign | uint32(exp+biasDelta)<<23 | mantissa<<13)
	case maxExponent:
		return math.Float32frombits(sign | 0x7F800000 | mantissa<<13)
	}

	return math.Float32frombits(sign | uint32(exp+biasDelta)<<23 | mantissa<<13)
}

// Pack two floats into a single word. The first value occupies the low 16 bits.
func Pack2x16(a, b float32) uint32 {
	return uint32(Encode(a)) | uint32(Encode(b))<<16
}

// Unpack the half stored at index (0 = low, 1 = high) of a packed word.
func Unpack2x16(word uint32, index int) float32 {
	return Decode(uint16(word >> (16 * uint(index&1))))
}

// Pack a bounding box into the 3-word layout used by BVH nodes:
// (min.x, min.y) (min.z, max.x) (max.y, max.z).
func PackAABB(box types.AABB) [3]uint32 {
	return [3]uint32{
		Pack2x16(box.Min[0], box.Min[1]),
		Pack2x16(box.Min[2], box.Max[0]),
		Pack2x16(box.Max[1], box.Max[2]),
	}
}

// Pack a bounding box like PackAABB but round min down and max up so that the
// packed box always encloses the input box.
func PackEnclosingAABB(box types.AABB) [3]uint32 {
	return [3]uint32{
		uint32(EncodeFloor(box.Min[0])) | uint32(EncodeFloor(box.Min[1]))<<16,
		uint32(EncodeFloor(box.Min[2])) | uint32(EncodeCeil(box.Max[0]))<<16,
		uint32(EncodeCeil(box.Max[1])) | uint32(EncodeCeil(box.Max[2]))<<16,
	}
}

// Unpack a bounding box packed with PackAABB or PackEnclosingAABB.
func UnpackAABB(words [3]uint32) types.AABB {
	return types.AABB{
		Min: types.Vec3{Unpack2x16(words[0], 0), Unpack2x16(words[0], 1), Unpack2x16(words[1], 0)},
		Max: types.Vec3{Unpack2x16(words[1], 1), Unpack2x16(words[2], 0), Unpack2x16(words[2], 1)},
	}
}
