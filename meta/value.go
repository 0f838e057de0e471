// Package meta implements the typed, insertion-ordered metadata store
// attached to captured frames.  Keys follow FITS header discipline: 1 to 80
// characters drawn from [A-Za-z0-9_], compared case-insensitively and stored
// uppercase.
package meta

import (
	"time"

	"github.com/pkg/errors"
)

// Kind tags the dynamic type held in a Value.
type Kind uint8

const (
	// Int is a signed 64-bit integer.
	Int Kind = iota
	// Uint is an unsigned 64-bit integer.
	Uint
	// Float32 is a single precision float.
	Float32
	// Float64 is a double precision float.
	Float64
	// String is a text value of at most MaxStringLen characters.
	String
	// Time is an absolute instant.
	Time
	// Duration is an elapsed span.
	Duration
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Time:
		return "time"
	case Duration:
		return "duration"
	}
	return "invalid"
}

// Value is a tagged union over the types a metadata entry may hold.  The
// zero Value is an Int holding zero.
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	s    string
	t    time.Time
	d    time.Duration
}

// IntValue returns a Value holding a signed integer.
func IntValue(v int64) Value { return Value{kind: Int, i: v} }

// UintValue returns a Value holding an unsigned integer.
func UintValue(v uint64) Value { return Value{kind: Uint, u: v} }

// Float32Value returns a Value holding a single precision float.
func Float32Value(v float32) Value { return Value{kind: Float32, f: float64(v)} }

// Float64Value returns a Value holding a double precision float.
func Float64Value(v float64) Value { return Value{kind: Float64, f: v} }

// StringValue returns a Value holding text.
func StringValue(v string) Value { return Value{kind: String, s: v} }

// TimeValue returns a Value holding an absolute instant.
func TimeValue(v time.Time) Value { return Value{kind: Time, t: v} }

// DurationValue returns a Value holding an elapsed span.
func DurationValue(v time.Duration) Value { return Value{kind: Duration, d: v} }

// Kind returns the dynamic type tag.
func (v Value) Kind() Kind { return v.kind }

// Int returns the signed integer payload and whether the value holds one.
func (v Value) Int() (int64, bool) { return v.i, v.kind == Int }

// Uint returns the unsigned integer payload and whether the value holds one.
func (v Value) Uint() (uint64, bool) { return v.u, v.kind == Uint }

// Float32 returns the single precision payload and whether the value holds
// one.
func (v Value) Float32() (float32, bool) { return float32(v.f), v.kind == Float32 }

// Float64 returns the double precision payload and whether the value holds
// one.
func (v Value) Float64() (float64, bool) { return v.f, v.kind == Float64 }

// Text returns the string payload and whether the value holds one.
func (v Value) Text() (string, bool) { return v.s, v.kind == String }

// Time returns the instant payload and whether the value holds one.
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == Time }

// Duration returns the span payload and whether the value holds one.
func (v Value) Duration() (time.Duration, bool) { return v.d, v.kind == Duration }

// Equal reports whether two values have the same kind and payload.  Instants
// compare with time.Time.Equal, so equal instants in different locations are
// equal values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Int:
		return v.i == o.i
	case Uint:
		return v.u == o.u
	case Float32, Float64:
		return v.f == o.f
	case String:
		return v.s == o.s
	case Time:
		return v.t.Equal(o.t)
	case Duration:
		return v.d == o.d
	}
	return false
}

// AsFloat64 converts any numeric value to float64.  It returns an error for
// String, Time and Duration kinds.
func (v Value) AsFloat64() (float64, error) {
	switch v.kind {
	case Int:
		return float64(v.i), nil
	case Uint:
		return float64(v.u), nil
	case Float32, Float64:
		return v.f, nil
	}
	return 0, errors.Wrapf(ErrTypeMismatch, "%s is not numeric", v.kind)
}
