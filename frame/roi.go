package frame

import (
	"github.com/pkg/errors"

	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// SelectROI copies the width x height region at origin (x, y) into a new
// frame.  Area extending past the source edges is zero filled.  Mosaic
// color spaces shift with the parity of the origin so the pattern stays
// truthful to the underlying sensor sites.  The origin must lie inside the
// source and the extent must be positive.
func (d DynamicOwned) SelectROI(x, y, width, height int) (DynamicOwned, error) {
	switch d.typ {
	case pix.U8:
		return selectROI(&d.u8.base, x, y, width, height)
	case pix.U16:
		return selectROI(&d.u16.base, x, y, width, height)
	default:
		return selectROI(&d.f32.base, x, y, width, height)
	}
}

func selectROI[T pix.Pixel](b *base[T], x, y, width, height int) (DynamicOwned, error) {
	if width < 1 || height < 1 {
		return DynamicOwned{}, errors.Wrapf(ErrInvalidDimensions, "%dx%d", width, height)
	}
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return DynamicOwned{}, errors.Wrapf(ErrROIOutOfBounds, "origin (%d, %d) in %dx%d",
			x, y, b.width, b.height)
	}
	ch := b.channels
	data := make([]T, width*height*ch)
	copyW := min(width, b.width-x)
	copyH := min(height, b.height-y)
	for r := 0; r < copyH; r++ {
		src := ((y+r)*b.width + x) * ch
		dst := r * width * ch
		copy(data[dst:dst+copyW*ch], b.data[src:src+copyW*ch])
	}
	out, err := NewOwned(data, width, height, b.cspace.Shift(x, y))
	if err != nil {
		return DynamicOwned{}, err
	}
	return WrapOwned(out), nil
}

// CopyROI copies the region of the source at origin (x, y) into dst,
// clipped to dst's extent.  dst samples outside the overlap are left
// untouched.  Source and destination must share a sample type.
func (d DynamicOwned) CopyROI(dst DynamicOwned, x, y int) error {
	if d.typ != dst.typ {
		return errors.Wrapf(ErrInvalidPixelType, "copy %s into %s", d.typ, dst.typ)
	}
	switch d.typ {
	case pix.U8:
		return copyROI(&d.u8.base, &dst.u8.base, x, y)
	case pix.U16:
		return copyROI(&d.u16.base, &dst.u16.base, x, y)
	default:
		return copyROI(&d.f32.base, &dst.f32.base, x, y)
	}
}

func copyROI[T pix.Pixel](src, dst *base[T], x, y int) error {
	if src.channels != dst.channels {
		return errors.Wrapf(ErrInvalidColorSpace, "copy %d channels into %d",
			src.channels, dst.channels)
	}
	if x < 0 || y < 0 || x >= src.width || y >= src.height {
		return errors.Wrapf(ErrROIOutOfBounds, "origin (%d, %d) in %dx%d",
			x, y, src.width, src.height)
	}
	ch := src.channels
	copyW := min(dst.width, src.width-x)
	copyH := min(dst.height, src.height-y)
	for r := 0; r < copyH; r++ {
		so := ((y+r)*src.width + x) * ch
		do := r * dst.width * ch
		copy(dst.data[do:do+copyW*ch], src.data[so:so+copyW*ch])
	}
	return nil
}
