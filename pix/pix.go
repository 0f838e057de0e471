// Package pix enumerates the pixel storage primitives supported by the image
// containers and defines the conversions between them.  All conversions are
// total and monotonic; out of range values saturate rather than wrap.
package pix

import "math"

// Type identifies the storage primitive of one pixel sample.  The numeric
// values follow the FITS BITPIX convention: positive for integers, negative
// for floating point, magnitude equal to the bit width.
type Type int8

const (
	// U8 is an 8-bit unsigned integer sample.
	U8 Type = 8

	// U16 is a 16-bit unsigned integer sample.
	U16 Type = 16

	// F32 is a 32-bit floating point sample with nominal range [0, 1].
	F32 Type = -32
)

// Valid reports whether t is one of the supported storage primitives.
func (t Type) Valid() bool {
	switch t {
	case U8, U16, F32:
		return true
	}
	return false
}

// Size returns the storage size of one sample in bytes.
func (t Type) Size() int {
	switch t {
	case U8:
		return 1
	case U16:
		return 2
	case F32:
		return 4
	}
	return 0
}

func (t Type) String() string {
	switch t {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case F32:
		return "f32"
	}
	return "invalid"
}

// Pixel constrains the storage primitives a sample buffer may hold.  The
// three members are the single axis of type erasure in this module; code
// that must treat them uniformly switches over the corresponding Type tag.
type Pixel interface {
	uint8 | uint16 | float32
}

// TypeOf returns the Type tag for the primitive T.
func TypeOf[T Pixel]() Type {
	var z T
	switch any(z).(type) {
	case uint8:
		return U8
	case uint16:
		return U16
	default:
		return F32
	}
}

// MaxOf returns the nominal maximum sample value for T within the context
// of color: integer types inherit their usual maxima, floats use 1.
func MaxOf[T Pixel]() float64 {
	var z T
	switch any(z).(type) {
	case uint8:
		return 255
	case uint16:
		return 65535
	default:
		return 1
	}
}

// ToF64 widens a sample to float64 without scaling.
func ToF64[T Pixel](v T) float64 {
	switch x := any(v).(type) {
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case float32:
		return float64(x)
	}
	return 0
}

// FromF64 narrows a float64 to T, clamping to T's nominal range.  Fractional
// values truncate toward zero for the integer types.
func FromF64[T Pixel](v float64) T {
	var out T
	switch p := any(&out).(type) {
	case *uint8:
		*p = uint8(clamp(v, 0, 255))
	case *uint16:
		*p = uint16(clamp(v, 0, 65535))
	case *float32:
		*p = float32(clamp(v, 0, 1))
	}
	return out
}

// CastU8 maps the full nominal range of T linearly onto [0, 255], rounding
// to nearest and saturating at both ends.
func CastU8[T Pixel](v T) uint8 {
	val := ToF64(v) / MaxOf[T]() * 255
	return uint8(clamp(math.Round(val), 0, 255))
}

// Norm scales a sample onto [0, 1]: exact for F32, the natural numeric range
// for the integer types.
func Norm[T Pixel](v T) float32 {
	return float32(clamp(ToF64(v)/MaxOf[T](), 0, 1))
}

// Denorm is the inverse of Norm, saturating out of range inputs.
func Denorm[T Pixel](v float32) T {
	return FromF64[T](float64(v) * MaxOf[T]())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
