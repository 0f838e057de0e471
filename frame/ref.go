// Package frame implements the typed raster containers for camera data:
// borrowed and owned buffers over the pix storage primitives, the
// type-erased dynamic wrappers, the Image capture container with metadata,
// the pixel transforms (debayer, luminance, preview cast, region select),
// and the versioned wire codec.
package frame

import (
	"github.com/pkg/errors"

	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// maxDim is the largest width or height a frame may have.
const maxDim = 65536

// Props is the read-only geometric surface shared by every container in
// this package.
type Props interface {
	// Width returns the frame width in pixels.
	Width() int
	// Height returns the frame height in pixels.
	Height() int
	// Channels returns the number of interleaved channels per pixel.
	Channels() int
	// ColorSpace returns the channel interpretation.
	ColorSpace() ColorSpace
	// PixType returns the storage primitive of the samples.
	PixType() pix.Type
	// Len returns the total sample count, width*height*channels.
	Len() int
}

// base carries the geometry every typed container shares.  Samples are
// stored row-major, channels interleaved within a pixel.
type base[T pix.Pixel] struct {
	data     []T
	width    int
	height   int
	channels int
	cspace   ColorSpace
}

func makeBase[T pix.Pixel](data []T, width, height int, cspace ColorSpace) (base[T], error) {
	if width < 1 || width > maxDim || height < 1 || height > maxDim {
		return base[T]{}, errors.Wrapf(ErrInvalidDimensions, "%dx%d", width, height)
	}
	if !cspace.Valid() {
		return base[T]{}, errors.Wrapf(ErrInvalidColorSpace, "%d", uint8(cspace))
	}
	channels := cspace.Channels()
	if len(data) != width*height*channels {
		return base[T]{}, errors.Wrapf(ErrBufferSizeMismatch,
			"%d samples for %dx%dx%d", len(data), width, height, channels)
	}
	return base[T]{data: data, width: width, height: height, channels: channels, cspace: cspace}, nil
}

func (b *base[T]) Width() int             { return b.width }
func (b *base[T]) Height() int            { return b.height }
func (b *base[T]) Channels() int          { return b.channels }
func (b *base[T]) ColorSpace() ColorSpace { return b.cspace }
func (b *base[T]) PixType() pix.Type      { return pix.TypeOf[T]() }
func (b *base[T]) Len() int               { return len(b.data) }

// Data returns the sample buffer itself, not a copy.
func (b *base[T]) Data() []T { return b.data }

// At returns the sample at pixel (x, y), channel c.  Coordinates are not
// range checked beyond the slice bounds.
func (b *base[T]) At(x, y, c int) T {
	return b.data[(y*b.width+x)*b.channels+c]
}

// Ref is a borrowed frame: it aliases the caller's sample slice without
// copying.  The caller must not resize or free the slice while the Ref is
// in use; mutations through either alias are visible to both.  Use ToOwned
// to sever the aliasing.
type Ref[T pix.Pixel] struct {
	base[T]
}

// NewRef wraps data as a borrowed width x height frame in cspace.  The
// slice length must equal width*height times the channel count of cspace.
func NewRef[T pix.Pixel](data []T, width, height int, cspace ColorSpace) (*Ref[T], error) {
	b, err := makeBase(data, width, height, cspace)
	if err != nil {
		return nil, err
	}
	return &Ref[T]{base: b}, nil
}

// ToOwned copies the referenced samples into a new Owned frame.
func (r *Ref[T]) ToOwned() *Owned[T] {
	data := make([]T, len(r.data))
	copy(data, r.data)
	return &Owned[T]{base: base[T]{
		data: data, width: r.width, height: r.height,
		channels: r.channels, cspace: r.cspace,
	}}
}
