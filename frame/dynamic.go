package frame

import (
	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// DynamicRef erases the sample type of a borrowed frame.  Exactly one of
// the typed pointers is set, identified by the tag; every operation that
// must recover the concrete type is a single switch on Type.
type DynamicRef struct {
	typ pix.Type
	u8  *Ref[uint8]
	u16 *Ref[uint16]
	f32 *Ref[float32]
}

// WrapRef erases the element type of r.
func WrapRef[T pix.Pixel](r *Ref[T]) DynamicRef {
	switch r := any(r).(type) {
	case *Ref[uint8]:
		return DynamicRef{typ: pix.U8, u8: r}
	case *Ref[uint16]:
		return DynamicRef{typ: pix.U16, u16: r}
	default:
		return DynamicRef{typ: pix.F32, f32: any(r).(*Ref[float32])}
	}
}

// Type returns the storage primitive tag.
func (d DynamicRef) Type() pix.Type { return d.typ }

// U8 returns the typed frame and whether the tag is U8.
func (d DynamicRef) U8() (*Ref[uint8], bool) { return d.u8, d.typ == pix.U8 }

// U16 returns the typed frame and whether the tag is U16.
func (d DynamicRef) U16() (*Ref[uint16], bool) { return d.u16, d.typ == pix.U16 }

// F32 returns the typed frame and whether the tag is F32.
func (d DynamicRef) F32() (*Ref[float32], bool) { return d.f32, d.typ == pix.F32 }

func (d DynamicRef) props() Props {
	switch d.typ {
	case pix.U8:
		return d.u8
	case pix.U16:
		return d.u16
	default:
		return d.f32
	}
}

// Width returns the frame width in pixels.
func (d DynamicRef) Width() int { return d.props().Width() }

// Height returns the frame height in pixels.
func (d DynamicRef) Height() int { return d.props().Height() }

// Channels returns the interleaved channel count.
func (d DynamicRef) Channels() int { return d.props().Channels() }

// ColorSpace returns the channel interpretation.
func (d DynamicRef) ColorSpace() ColorSpace { return d.props().ColorSpace() }

// PixType returns the storage primitive of the samples.
func (d DynamicRef) PixType() pix.Type { return d.typ }

// Len returns the total sample count.
func (d DynamicRef) Len() int { return d.props().Len() }

// ToOwned copies the referenced samples into an owning container.
func (d DynamicRef) ToOwned() DynamicOwned {
	switch d.typ {
	case pix.U8:
		return WrapOwned(d.u8.ToOwned())
	case pix.U16:
		return WrapOwned(d.u16.ToOwned())
	default:
		return WrapOwned(d.f32.ToOwned())
	}
}

// DynamicOwned erases the sample type of an owned frame.  The zero value is
// invalid; construct with WrapOwned or a codec/transform function.
type DynamicOwned struct {
	typ pix.Type
	u8  *Owned[uint8]
	u16 *Owned[uint16]
	f32 *Owned[float32]
}

// WrapOwned erases the element type of o.
func WrapOwned[T pix.Pixel](o *Owned[T]) DynamicOwned {
	switch o := any(o).(type) {
	case *Owned[uint8]:
		return DynamicOwned{typ: pix.U8, u8: o}
	case *Owned[uint16]:
		return DynamicOwned{typ: pix.U16, u16: o}
	default:
		return DynamicOwned{typ: pix.F32, f32: any(o).(*Owned[float32])}
	}
}

// Type returns the storage primitive tag.
func (d DynamicOwned) Type() pix.Type { return d.typ }

// U8 returns the typed frame and whether the tag is U8.
func (d DynamicOwned) U8() (*Owned[uint8], bool) { return d.u8, d.typ == pix.U8 }

// U16 returns the typed frame and whether the tag is U16.
func (d DynamicOwned) U16() (*Owned[uint16], bool) { return d.u16, d.typ == pix.U16 }

// F32 returns the typed frame and whether the tag is F32.
func (d DynamicOwned) F32() (*Owned[float32], bool) { return d.f32, d.typ == pix.F32 }

func (d DynamicOwned) props() Props {
	switch d.typ {
	case pix.U8:
		return d.u8
	case pix.U16:
		return d.u16
	default:
		return d.f32
	}
}

// Width returns the frame width in pixels.
func (d DynamicOwned) Width() int { return d.props().Width() }

// Height returns the frame height in pixels.
func (d DynamicOwned) Height() int { return d.props().Height() }

// Channels returns the interleaved channel count.
func (d DynamicOwned) Channels() int { return d.props().Channels() }

// ColorSpace returns the channel interpretation.
func (d DynamicOwned) ColorSpace() ColorSpace { return d.props().ColorSpace() }

// PixType returns the storage primitive of the samples.
func (d DynamicOwned) PixType() pix.Type { return d.typ }

// Len returns the total sample count.
func (d DynamicOwned) Len() int { return d.props().Len() }

// Ref returns a borrowed, type-erased view of the frame.
func (d DynamicOwned) Ref() DynamicRef {
	switch d.typ {
	case pix.U8:
		return WrapRef(d.u8.Ref())
	case pix.U16:
		return WrapRef(d.u16.Ref())
	default:
		return WrapRef(d.f32.Ref())
	}
}

// Clone returns an independent copy of the frame.
func (d DynamicOwned) Clone() DynamicOwned {
	switch d.typ {
	case pix.U8:
		return WrapOwned(d.u8.Clone())
	case pix.U16:
		return WrapOwned(d.u16.Clone())
	default:
		return WrapOwned(d.f32.Clone())
	}
}

// Equal reports whether two frames have identical geometry, type, and
// sample values.
func (d DynamicOwned) Equal(o DynamicOwned) bool {
	if d.typ != o.typ || d.Width() != o.Width() || d.Height() != o.Height() ||
		d.ColorSpace() != o.ColorSpace() {
		return false
	}
	switch d.typ {
	case pix.U8:
		return sliceEq(d.u8.Data(), o.u8.Data())
	case pix.U16:
		return sliceEq(d.u16.Data(), o.u16.Data())
	default:
		return sliceEq(d.f32.Data(), o.f32.Data())
	}
}

func sliceEq[T pix.Pixel](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Normalized returns the samples scaled onto [0, 1] as a fresh slice.
func (d DynamicOwned) Normalized() []float32 {
	switch d.typ {
	case pix.U8:
		return normalized(d.u8.Data())
	case pix.U16:
		return normalized(d.u16.Data())
	default:
		return normalized(d.f32.Data())
	}
}

func normalized[T pix.Pixel](src []T) []float32 {
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = pix.Norm(v)
	}
	return out
}
