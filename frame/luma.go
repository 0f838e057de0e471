package frame

import (
	"github.com/pkg/errors"

	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// Perceptual luminance weights (ITU-R BT.601) used when ToLuma is called
// without explicit weights.
var defaultLumaWeights = []float64{0.299, 0.587, 0.114}

// ToLuma collapses a multi-channel frame to single-channel luminance in
// place, shrinking the buffer.  With no weights the BT.601 perceptual
// weights apply; otherwise one weight per channel is required.  Mosaic data
// must be debayered first.  workers bounds the goroutine count for the
// per-pixel phase; the result does not depend on it.
func (d DynamicOwned) ToLuma(workers int, weights ...float64) error {
	switch d.typ {
	case pix.U8:
		return toLuma(&d.u8.base, workers, weights)
	case pix.U16:
		return toLuma(&d.u16.base, workers, weights)
	default:
		return toLuma(&d.f32.base, workers, weights)
	}
}

func toLuma[T pix.Pixel](b *base[T], workers int, weights []float64) error {
	if b.cspace.IsBayer() {
		return errors.Wrap(ErrNotDebayered, b.cspace.String())
	}
	if b.channels == 1 {
		return errors.Wrap(ErrAlreadyGray, b.cspace.String())
	}
	if len(weights) == 0 {
		weights = defaultLumaWeights
	}
	if len(weights) != b.channels {
		return errors.Wrapf(ErrWeightCountMismatch, "%d weights for %d channels",
			len(weights), b.channels)
	}
	ch := b.channels
	// phase 1: write each pixel's luminance into its own first sample, so
	// concurrent rows touch disjoint memory
	eachRow(b.height, workers, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			row := b.data[y*b.width*ch : (y+1)*b.width*ch]
			for x := 0; x < b.width; x++ {
				px := row[x*ch : x*ch+ch]
				var sum float64
				for c, w := range weights {
					sum += w * pix.ToF64(px[c])
				}
				px[0] = pix.FromF64[T](sum)
			}
		}
	})
	// phase 2: compact the first samples to the front and shrink
	n := b.width * b.height
	for i := 1; i < n; i++ {
		b.data[i] = b.data[i*ch]
	}
	b.data = b.data[:n]
	b.channels = 1
	b.cspace = Gray
	return nil
}
