// Package interop bridges the frame containers and Go's standard image
// types, with file loading and saving through disintegration/imaging.
// Conversions preserve sample depth where the source type allows it and
// otherwise document their loss: alpha channels are dropped, and exotic
// formats pass through an 8-bit NRGBA clone.
package interop

import (
	"image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.jpl.nasa.gov/bdube/rawframe/frame"
	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// ErrEmptyImage indicates a source image with no pixels.
var ErrEmptyImage = errors.New("interop: empty image")

// FromImage converts a standard library image into a capture container.
// Gray and Gray16 map to single-channel U8/U16; RGBA variants map to RGB,
// dropping alpha (premultiplied sources are not unpremultiplied); 16-bit
// RGBA variants keep their depth.  Anything else is cloned through 8-bit
// NRGBA first.
func FromImage(src image.Image, tstamp time.Time) (*frame.Image, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, ErrEmptyImage
	}

	var (
		d   frame.DynamicOwned
		err error
	)
	// Pix is sliced from the bounds origin so subimages convert correctly
	switch s := src.(type) {
	case *image.Gray:
		d, err = grayFrame(s.Pix[s.PixOffset(b.Min.X, b.Min.Y):], s.Stride, w, h)
	case *image.Gray16:
		d, err = gray16Frame(s.Pix[s.PixOffset(b.Min.X, b.Min.Y):], s.Stride, w, h)
	case *image.RGBA:
		d, err = rgb8Frame(s.Pix[s.PixOffset(b.Min.X, b.Min.Y):], s.Stride, w, h)
	case *image.NRGBA:
		d, err = rgb8Frame(s.Pix[s.PixOffset(b.Min.X, b.Min.Y):], s.Stride, w, h)
	case *image.RGBA64:
		d, err = rgb16Frame(s.Pix[s.PixOffset(b.Min.X, b.Min.Y):], s.Stride, w, h)
	case *image.NRGBA64:
		d, err = rgb16Frame(s.Pix[s.PixOffset(b.Min.X, b.Min.Y):], s.Stride, w, h)
	default:
		c := imaging.Clone(src)
		d, err = rgb8Frame(c.Pix, c.Stride, w, h)
	}
	if err != nil {
		return nil, err
	}
	return frame.New(d, tstamp)
}

func grayFrame(pixels []byte, stride, w, h int) (frame.DynamicOwned, error) {
	data := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		copy(data[y*w:(y+1)*w], pixels[y*stride:])
	}
	o, err := frame.NewOwned(data, w, h, frame.Gray)
	if err != nil {
		return frame.DynamicOwned{}, err
	}
	return frame.WrapOwned(o), nil
}

func gray16Frame(pixels []byte, stride, w, h int) (frame.DynamicOwned, error) {
	// Gray16 stores big-endian sample pairs
	data := make([]uint16, w*h)
	for y := 0; y < h; y++ {
		row := pixels[y*stride:]
		for x := 0; x < w; x++ {
			data[y*w+x] = uint16(row[2*x])<<8 | uint16(row[2*x+1])
		}
	}
	o, err := frame.NewOwned(data, w, h, frame.Gray)
	if err != nil {
		return frame.DynamicOwned{}, err
	}
	return frame.WrapOwned(o), nil
}

func rgb8Frame(pixels []byte, stride, w, h int) (frame.DynamicOwned, error) {
	data := make([]uint8, w*h*3)
	for y := 0; y < h; y++ {
		row := pixels[y*stride:]
		for x := 0; x < w; x++ {
			copy(data[(y*w+x)*3:], row[4*x:4*x+3])
		}
	}
	o, err := frame.NewOwned(data, w, h, frame.RGB)
	if err != nil {
		return frame.DynamicOwned{}, err
	}
	return frame.WrapOwned(o), nil
}

func rgb16Frame(pixels []byte, stride, w, h int) (frame.DynamicOwned, error) {
	// 16-bit RGBA variants store big-endian sample pairs, RGBA order
	data := make([]uint16, w*h*3)
	for y := 0; y < h; y++ {
		row := pixels[y*stride:]
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				o := 8*x + 2*c
				data[(y*w+x)*3+c] = uint16(row[o])<<8 | uint16(row[o+1])
			}
		}
	}
	o, err := frame.NewOwned(data, w, h, frame.RGB)
	if err != nil {
		return frame.DynamicOwned{}, err
	}
	return frame.WrapOwned(o), nil
}

// Open loads the image file at path and converts it with FromImage.  The
// capture instant is unknown and left zero.
func Open(path string) (*frame.Image, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening image file")
	}
	return FromImage(src, time.Time{})
}

// ToImage converts a capture container to a standard library image.  Gray
// and RGB keep their depth; mosaic data is rendered as raw single-channel
// intensity without demosaicing; F32 data is reduced through an 8-bit
// preview cast.
func ToImage(img *frame.Image) image.Image {
	d := img.Data()
	if d.Type() == pix.F32 {
		d = d.CastU8(0)
	}
	w, h := d.Width(), d.Height()
	r := image.Rect(0, 0, w, h)

	if d.Channels() == 1 {
		if u16, ok := d.U16(); ok {
			out := image.NewGray16(r)
			for i, v := range u16.Data() {
				out.Pix[2*i] = uint8(v >> 8)
				out.Pix[2*i+1] = uint8(v)
			}
			return out
		}
		u8, _ := d.U8()
		out := image.NewGray(r)
		copy(out.Pix, u8.Data())
		return out
	}

	if u16, ok := d.U16(); ok {
		out := image.NewNRGBA64(r)
		src := u16.Data()
		for i := 0; i < w*h; i++ {
			out.SetNRGBA64(i%w, i/w, color.NRGBA64{
				R: src[3*i], G: src[3*i+1], B: src[3*i+2], A: 0xFFFF,
			})
		}
		return out
	}
	u8, _ := d.U8()
	out := image.NewNRGBA(r)
	src := u8.Data()
	for i := 0; i < w*h; i++ {
		out.Pix[4*i] = src[3*i]
		out.Pix[4*i+1] = src[3*i+1]
		out.Pix[4*i+2] = src[3*i+2]
		out.Pix[4*i+3] = 0xFF
	}
	return out
}

// Save writes img to path; the format follows the file extension, as
// imaging.Save documents.
func Save(img *frame.Image, path string) error {
	return errors.Wrap(imaging.Save(ToImage(img), path), "saving image file")
}
