package frame

import (
	"time"

	"github.com/pkg/errors"

	"github.jpl.nasa.gov/bdube/rawframe/demosaic"
	"github.jpl.nasa.gov/bdube/rawframe/meta"
)

// Image is the full capture container: an owned, type-erased frame plus the
// capture timestamp and a typed metadata store.  The timestamp, when known,
// is mirrored into the reserved TIMESTAMP metadata entry.
type Image struct {
	tstamp time.Time
	meta   *meta.Store
	data   DynamicOwned
}

// New wraps an owned frame and its capture instant into an Image.  A zero
// tstamp marks the capture instant as unknown and seeds no TIMESTAMP entry.
func New(data DynamicOwned, tstamp time.Time) (*Image, error) {
	if !data.Type().Valid() {
		return nil, errors.Wrapf(ErrInvalidPixelType, "%d", int8(data.Type()))
	}
	img := &Image{tstamp: tstamp, meta: meta.NewStore(), data: data}
	if !tstamp.IsZero() {
		if err := img.meta.Set(meta.TimestampKey, meta.TimeValue(tstamp)); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// Timestamp returns the capture instant; zero if unknown.
func (img *Image) Timestamp() time.Time { return img.tstamp }

// Meta returns the metadata store.  Mutations are visible to the image.
func (img *Image) Meta() *meta.Store { return img.meta }

// Data returns the underlying type-erased frame.
func (img *Image) Data() DynamicOwned { return img.data }

// Width returns the frame width in pixels.
func (img *Image) Width() int { return img.data.Width() }

// Height returns the frame height in pixels.
func (img *Image) Height() int { return img.data.Height() }

// Channels returns the interleaved channel count.
func (img *Image) Channels() int { return img.data.Channels() }

// ColorSpace returns the channel interpretation.
func (img *Image) ColorSpace() ColorSpace { return img.data.ColorSpace() }

// derive wraps a transformed frame with this image's timestamp and a copy
// of its metadata.
func (img *Image) derive(data DynamicOwned) *Image {
	return &Image{tstamp: img.tstamp, meta: img.meta.Clone(), data: data}
}

// Debayer demosaics a mosaic image into a new RGB image carrying the same
// timestamp and a copy of the metadata.
func (img *Image) Debayer(m demosaic.Method, workers int) (*Image, error) {
	out, err := img.data.Debayer(m, workers)
	if err != nil {
		return nil, err
	}
	return img.derive(out), nil
}

// ToLuma collapses the image to single-channel luminance in place.  See
// DynamicOwned.ToLuma.
func (img *Image) ToLuma(workers int, weights ...float64) error {
	return img.data.ToLuma(workers, weights...)
}

// CastU8 returns a U8 preview copy of the image.
func (img *Image) CastU8(workers int) *Image {
	return img.derive(img.data.CastU8(workers))
}

// SelectROI returns a new image holding the region at (x, y), metadata
// copied, mosaic pattern shifted by the origin parity.
func (img *Image) SelectROI(x, y, width, height int) (*Image, error) {
	out, err := img.data.SelectROI(x, y, width, height)
	if err != nil {
		return nil, err
	}
	return img.derive(out), nil
}

// Exposure returns the exposure recorded in the reserved EXPOSURE metadata
// entry.
func (img *Image) Exposure() (time.Duration, error) {
	return img.meta.Exposure()
}

// SetExposure records the exposure in the reserved EXPOSURE metadata entry.
func (img *Image) SetExposure(d time.Duration) error {
	return img.meta.Set(meta.ExposureKey, meta.DurationValue(d))
}

// Equal reports whether two images have the same frame contents, capture
// instant, and metadata.
func (img *Image) Equal(o *Image) bool {
	return img.tstamp.Equal(o.tstamp) && img.meta.Equal(o.meta) && img.data.Equal(o.data)
}
