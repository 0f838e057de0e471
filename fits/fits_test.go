package fits

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.jpl.nasa.gov/bdube/rawframe/frame"
	"github.jpl.nasa.gov/bdube/rawframe/meta"
)

func testImage(t *testing.T) *frame.Image {
	t.Helper()
	o, err := frame.NewOwned([]uint16{100, 200, 300, 400, 500, 600}, 3, 2, frame.Gray)
	require.NoError(t, err)
	img, err := frame.New(frame.WrapOwned(o), time.Unix(1700000000, 0))
	require.NoError(t, err)
	require.NoError(t, img.SetExposure(50*time.Millisecond))
	require.NoError(t, img.Meta().SetComment("GAIN", meta.IntValue(4), "analog gain"))
	return img
}

func TestWritePlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testImage(t), None))

	b := buf.Bytes()
	assert.True(t, bytes.HasPrefix(b, []byte("SIMPLE  =")), "missing SIMPLE card")
	// FITS blocks are 2880 bytes
	assert.Equal(t, 0, buf.Len()%2880)
	assert.Contains(t, string(b[:2880]), "DATE-OBS")
	assert.Contains(t, string(b[:2880]), "COLORSPC")
	assert.Contains(t, string(b[:2880]), "GAIN")
	assert.Contains(t, string(b[:2880]), "BZERO")
}

func TestWriteGzip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testImage(t), Gzip1))

	zr, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	defer zr.Close()
	head := make([]byte, 9)
	_, err = zr.Read(head)
	require.NoError(t, err)
	assert.Equal(t, "SIMPLE  =", string(head))
}

func TestWriteFloat(t *testing.T) {
	o, err := frame.NewOwned([]float32{0, 0.5, 0.25, 1}, 2, 2, frame.Gray)
	require.NoError(t, err)
	img, err := frame.New(frame.WrapOwned(o), time.Now())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, img, None))
	hdr := string(buf.Bytes()[:2880])
	assert.Contains(t, hdr, "BITPIX")
	assert.Contains(t, hdr, "-32")
}

func TestWriteRGBThirdAxis(t *testing.T) {
	o, err := frame.NewOwned(make([]uint8, 2*2*3), 2, 2, frame.RGB)
	require.NoError(t, err)
	img, err := frame.New(frame.WrapOwned(o), time.Now())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, img, None))
	hdr := string(buf.Bytes()[:2880])
	assert.Contains(t, hdr, "NAXIS3")
}

func TestTileCompressionUnsupported(t *testing.T) {
	var buf bytes.Buffer
	for _, c := range []Compression{Rice, HCompress, Plio} {
		err := Write(&buf, testImage(t), c)
		assert.True(t, errors.Is(err, ErrUnsupportedCompression), c.String())
	}
}

func TestWriteFileOverwriteGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame"+None.Extension())
	require.NoError(t, WriteFile(path, testImage(t), None, false))

	err := WriteFile(path, testImage(t), None, false)
	assert.True(t, os.IsExist(errors.Cause(err)))

	require.NoError(t, WriteFile(path, testImage(t), None, true))
}

func TestPlanesDeinterleave(t *testing.T) {
	o, err := frame.NewOwned([]uint8{
		11, 12, 13, 21, 22, 23,
		31, 32, 33, 41, 42, 43,
	}, 2, 2, frame.RGB)
	require.NoError(t, err)
	got := planes(o.Data(), o, func(v uint8) int16 { return int16(v) })
	want := []int16{
		11, 21, 31, 41,
		12, 22, 32, 42,
		13, 23, 33, 43,
	}
	assert.Equal(t, want, got)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".fits", None.Extension())
	assert.Equal(t, ".fits.gz", Gzip1.Extension())
	assert.Equal(t, ".fits.gz", Gzip2.Extension())
	assert.Equal(t, ".fits", Rice.Extension())
}
