// Package fits writes captured images as single-HDU FITS files.  Sample
// types map onto BITPIX the conventional way: integer data is written as
// 16-bit integers with the BZERO offset trick for the unsigned range, and
// float data as BITPIX -32.  Metadata entries become header cards.
package fits

import (
	"io"
	"os"
	"time"

	"github.com/astrogo/fitsio"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.jpl.nasa.gov/bdube/rawframe/frame"
	"github.jpl.nasa.gov/bdube/rawframe/meta"
	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// Compression selects how the FITS output is compressed.
type Compression int

const (
	// None writes a plain FITS file.
	None Compression = iota
	// Rice is tile compression with the Rice algorithm.
	Rice
	// Gzip1 compresses the whole stream with gzip.
	Gzip1
	// Gzip2 is Gzip1 with byte shuffling; written identically to Gzip1
	// here.
	Gzip2
	// HCompress is tile compression with the H-compress algorithm.
	HCompress
	// Plio is tile compression with the IRAF PLIO algorithm.
	Plio
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Rice:
		return "rice"
	case Gzip1:
		return "gzip"
	case Gzip2:
		return "gzip2"
	case HCompress:
		return "hcompress"
	case Plio:
		return "plio"
	}
	return "invalid"
}

// Extension returns the customary file extension for output in c.
func (c Compression) Extension() string {
	if c == Gzip1 || c == Gzip2 {
		return ".fits.gz"
	}
	return ".fits"
}

// ErrUnsupportedCompression indicates a tile compression mode the writer
// cannot produce.  Only None and the gzip modes are supported.
var ErrUnsupportedCompression = errors.New("fits: unsupported compression")

// dateObsFormat matches the FITS DATE-OBS convention with microseconds.
const dateObsFormat = "2006-01-02T15:04:05.000000"

// maxCardName is the FITS keyword length limit; longer metadata keys are
// truncated to fit.
const maxCardName = 8

// Write streams img to w as a FITS file.  Rice, HCompress and Plio report
// ErrUnsupportedCompression.
func Write(w io.Writer, img *frame.Image, comp Compression) error {
	switch comp {
	case None:
		return write(w, img)
	case Gzip1, Gzip2:
		zw := gzip.NewWriter(w)
		if err := write(zw, img); err != nil {
			zw.Close()
			return err
		}
		return errors.Wrap(zw.Close(), "flushing gzip stream")
	default:
		return errors.Wrap(ErrUnsupportedCompression, comp.String())
	}
}

// WriteFile writes img to path.  Without overwrite, an existing file is an
// error.  The path is used exactly as given; Compression.Extension supplies
// the customary suffix if the caller wants one.
func WriteFile(path string, img *frame.Image, comp Compression, overwrite bool) error {
	mode := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		mode = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, mode, 0o644)
	if err != nil {
		return errors.Wrap(err, "creating fits file")
	}
	if err := Write(f, img, comp); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing fits file")
}

func write(w io.Writer, img *frame.Image) error {
	f, err := fitsio.Create(w)
	if err != nil {
		return errors.Wrap(err, "creating fits stream")
	}
	defer f.Close()

	d := img.Data()
	dims := []int{d.Width(), d.Height()}
	if d.Channels() > 1 {
		dims = append(dims, d.Channels())
	}

	bitpix := 16
	if d.Type() == pix.F32 {
		bitpix = -32
	}
	im := fitsio.NewImage(bitpix, dims)
	defer im.Close()

	if err := im.Header().Append(buildCards(img)...); err != nil {
		return errors.Wrap(err, "appending header cards")
	}

	switch d.Type() {
	case pix.U8:
		u8, _ := d.U8()
		err = im.Write(planes(u8.Data(), d, func(v uint8) int16 { return int16(v) }))
	case pix.U16:
		u16, _ := d.U16()
		err = im.Write(planes(u16.Data(), d, func(v uint16) int16 { return int16(int32(v) - 32768) }))
	default:
		f32, _ := d.F32()
		err = im.Write(planes(f32.Data(), d, func(v float32) float32 { return v }))
	}
	if err != nil {
		return errors.Wrap(err, "writing image data")
	}
	return errors.Wrap(f.Write(im), "writing hdu")
}

// planes converts channel-interleaved samples to the channel-planar order
// FITS expects for a third axis, applying conv to each sample.
func planes[T pix.Pixel, O int16 | float32](src []T, p frame.Props, conv func(T) O) []O {
	ch := p.Channels()
	out := make([]O, len(src))
	if ch == 1 {
		for i, v := range src {
			out[i] = conv(v)
		}
		return out
	}
	n := p.Width() * p.Height()
	for i := 0; i < n; i++ {
		for c := 0; c < ch; c++ {
			out[c*n+i] = conv(src[i*ch+c])
		}
	}
	return out
}

func buildCards(img *frame.Image) []fitsio.Card {
	d := img.Data()
	cards := []fitsio.Card{}
	if d.Type() == pix.U16 {
		cards = append(cards,
			fitsio.Card{Name: "BZERO", Value: 32768},
			fitsio.Card{Name: "BSCALE", Value: 1.0},
		)
	}
	tstamp := img.Timestamp()
	if tstamp.IsZero() {
		tstamp = time.Now()
	}
	cards = append(cards,
		fitsio.Card{
			Name:    "DATE-OBS",
			Value:   tstamp.UTC().Format(dateObsFormat),
			Comment: "Date and time of FITS file data",
		},
		fitsio.Card{
			Name:    "COLORSPC",
			Value:   d.ColorSpace().String(),
			Comment: "Color space of the image",
		},
	)
	for _, e := range img.Meta().Entries() {
		if e.Key == meta.TimestampKey {
			// already carried as DATE-OBS
			continue
		}
		name := e.Key
		if len(name) > maxCardName {
			name = name[:maxCardName]
		}
		cards = append(cards, fitsio.Card{Name: name, Value: cardValue(e.Value), Comment: e.Comment})
	}
	return cards
}

func cardValue(v meta.Value) interface{} {
	switch v.Kind() {
	case meta.Int:
		i, _ := v.Int()
		return int(i)
	case meta.Uint:
		u, _ := v.Uint()
		return int(u)
	case meta.Float32:
		f, _ := v.Float32()
		return float64(f)
	case meta.Float64:
		f, _ := v.Float64()
		return f
	case meta.String:
		s, _ := v.Text()
		return s
	case meta.Time:
		t, _ := v.Time()
		return t.UTC().Format(dateObsFormat)
	case meta.Duration:
		d, _ := v.Duration()
		return d.Seconds()
	}
	return nil
}
