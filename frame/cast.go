package frame

import "github.jpl.nasa.gov/bdube/rawframe/pix"

// CastU8 returns a U8 copy of the frame, mapping the full nominal range of
// the source type linearly onto [0, 255].  Geometry and color space are
// preserved.  workers bounds the goroutine count.
func (d DynamicOwned) CastU8(workers int) DynamicOwned {
	switch d.typ {
	case pix.U8:
		return WrapOwned(d.u8.Clone())
	case pix.U16:
		return WrapOwned(castU8(&d.u16.base, workers))
	default:
		return WrapOwned(castU8(&d.f32.base, workers))
	}
}

func castU8[T pix.Pixel](b *base[T], workers int) *Owned[uint8] {
	out := make([]uint8, len(b.data))
	stride := b.width * b.channels
	eachRow(b.height, workers, func(lo, hi int) {
		for i := lo * stride; i < hi*stride; i++ {
			out[i] = pix.CastU8(b.data[i])
		}
	})
	return &Owned[uint8]{base: base[uint8]{
		data: out, width: b.width, height: b.height,
		channels: b.channels, cspace: b.cspace,
	}}
}
