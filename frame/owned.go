package frame

import "github.jpl.nasa.gov/bdube/rawframe/pix"

// Owned is a frame that owns its sample buffer.  NewOwned takes ownership
// of the slice it is given; the caller must not retain a reference to it.
type Owned[T pix.Pixel] struct {
	base[T]
}

// NewOwned wraps data as an owned width x height frame in cspace, taking
// ownership of the slice.  The slice length must equal width*height times
// the channel count of cspace.
func NewOwned[T pix.Pixel](data []T, width, height int, cspace ColorSpace) (*Owned[T], error) {
	b, err := makeBase(data, width, height, cspace)
	if err != nil {
		return nil, err
	}
	return &Owned[T]{base: b}, nil
}

// Clone returns an independent copy of the frame.
func (o *Owned[T]) Clone() *Owned[T] {
	data := make([]T, len(o.data))
	copy(data, o.data)
	return &Owned[T]{base: base[T]{
		data: data, width: o.width, height: o.height,
		channels: o.channels, cspace: o.cspace,
	}}
}

// Ref returns a borrowed view of the frame's buffer.
func (o *Owned[T]) Ref() *Ref[T] {
	return &Ref[T]{base: o.base}
}
