package frame

import (
	"github.com/pkg/errors"

	"github.jpl.nasa.gov/bdube/rawframe/demosaic"
	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// Debayer demosaics a mosaic frame into a new RGB frame of the same
// dimensions and sample type.  workers bounds the goroutine count; values
// below one select one worker per CPU.  Returns ErrNotBayer for non-mosaic
// color spaces.
func (d DynamicOwned) Debayer(m demosaic.Method, workers int) (DynamicOwned, error) {
	switch d.typ {
	case pix.U8:
		return debayer(d.u8, m, workers)
	case pix.U16:
		return debayer(d.u16, m, workers)
	default:
		return debayer(d.f32, m, workers)
	}
}

// Debayer demosaics a borrowed mosaic frame into a new owned RGB frame.
func (d DynamicRef) Debayer(m demosaic.Method, workers int) (DynamicOwned, error) {
	switch d.typ {
	case pix.U8:
		return debayerRef(d.u8, m, workers)
	case pix.U16:
		return debayerRef(d.u16, m, workers)
	default:
		return debayerRef(d.f32, m, workers)
	}
}

func debayer[T pix.Pixel](o *Owned[T], m demosaic.Method, workers int) (DynamicOwned, error) {
	return debayerBase(&o.base, m, workers)
}

func debayerRef[T pix.Pixel](r *Ref[T], m demosaic.Method, workers int) (DynamicOwned, error) {
	return debayerBase(&r.base, m, workers)
}

func debayerBase[T pix.Pixel](b *base[T], m demosaic.Method, workers int) (DynamicOwned, error) {
	cfa, ok := b.cspace.CFA()
	if !ok {
		return DynamicOwned{}, errors.Wrap(ErrNotBayer, b.cspace.String())
	}
	rgb, err := demosaic.Run(b.data, b.width, b.height, cfa, m, workers)
	if err != nil {
		return DynamicOwned{}, err
	}
	out, err := NewOwned(rgb, b.width, b.height, RGB)
	if err != nil {
		return DynamicOwned{}, err
	}
	return WrapOwned(out), nil
}
