package frame

import "github.com/pkg/errors"

// Sentinel errors for container construction, transforms, and the wire
// codec.  All errors returned by this package match one of these with
// errors.Is.
var (
	// ErrInvalidDimensions indicates a width or height outside [1, 65536].
	ErrInvalidDimensions = errors.New("frame: invalid dimensions")

	// ErrInvalidColorSpace indicates an undefined ColorSpace value, or one
	// inconsistent with the channel count.
	ErrInvalidColorSpace = errors.New("frame: invalid color space")

	// ErrInvalidPixelType indicates an undefined pix.Type tag, as carried by
	// a zero-valued dynamic frame.
	ErrInvalidPixelType = errors.New("frame: invalid pixel type")

	// ErrBufferSizeMismatch indicates a sample buffer whose length does not
	// equal width*height*channels.
	ErrBufferSizeMismatch = errors.New("frame: buffer size mismatch")

	// ErrNotBayer indicates a debayer request on non-mosaic data.
	ErrNotBayer = errors.New("frame: color space is not bayer")

	// ErrAlreadyGray indicates a luminance request on single-channel data.
	ErrAlreadyGray = errors.New("frame: image already grayscale")

	// ErrNotDebayered indicates a luminance request on mosaic data that has
	// not been demosaiced.
	ErrNotDebayered = errors.New("frame: image not debayered")

	// ErrWeightCountMismatch indicates luminance weights whose count does
	// not equal the channel count.
	ErrWeightCountMismatch = errors.New("frame: weight count mismatch")

	// ErrROIOutOfBounds indicates a region of interest with no overlap with
	// the image, or non-positive extent.
	ErrROIOutOfBounds = errors.New("frame: roi out of bounds")

	// ErrCorruptData indicates a serialized stream that fails structural or
	// checksum validation.
	ErrCorruptData = errors.New("frame: corrupt serialized data")

	// ErrUnsupportedVersion indicates a serialized stream written by an
	// incompatible codec version.
	ErrUnsupportedVersion = errors.New("frame: unsupported codec version")
)
