package interop

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.jpl.nasa.gov/bdube/rawframe/frame"
	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

func TestFromGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 10)
	}
	now := time.Now()
	img, err := FromImage(src, now)
	require.NoError(t, err)
	assert.Equal(t, frame.Gray, img.ColorSpace())
	assert.Equal(t, pix.U8, img.Data().Type())
	assert.True(t, img.Timestamp().Equal(now))

	u8, ok := img.Data().U8()
	require.True(t, ok)
	assert.Equal(t, []uint8{0, 10, 20, 30, 40, 50}, u8.Data())
}

func TestFromGray16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 2, 2))
	vals := []uint16{0, 1000, 40000, 65535}
	for i, v := range vals {
		src.SetGray16(i%2, i/2, color.Gray16{Y: v})
	}
	img, err := FromImage(src, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, pix.U16, img.Data().Type())

	u16, ok := img.Data().U16()
	require.True(t, ok)
	assert.Equal(t, vals, u16.Data())
}

func TestFromNRGBADropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	src.SetNRGBA(1, 0, color.NRGBA{R: 50, G: 60, B: 70, A: 80})
	img, err := FromImage(src, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, frame.RGB, img.ColorSpace())

	u8, ok := img.Data().U8()
	require.True(t, ok)
	assert.Equal(t, []uint8{10, 20, 30, 50, 60, 70}, u8.Data())
}

func TestFromNRGBA64(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	src.SetNRGBA64(0, 0, color.NRGBA64{R: 256, G: 512, B: 1024, A: 65535})
	img, err := FromImage(src, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, pix.U16, img.Data().Type())
	u16, _ := img.Data().U16()
	assert.Equal(t, []uint16{256, 512, 1024}, u16.Data())
}

func TestFromSubImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}
	sub := src.SubImage(image.Rect(1, 1, 3, 3)).(*image.Gray)
	img, err := FromImage(sub, time.Time{})
	require.NoError(t, err)
	u8, _ := img.Data().U8()
	assert.Equal(t, []uint8{5, 6, 9, 10}, u8.Data())
}

func TestFromPaletted(t *testing.T) {
	// exotic formats clone through 8-bit NRGBA
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{
		color.NRGBA{R: 1, G: 2, B: 3, A: 255},
		color.NRGBA{R: 4, G: 5, B: 6, A: 255},
	})
	src.SetColorIndex(1, 0, 1)
	img, err := FromImage(src, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, frame.RGB, img.ColorSpace())
	u8, _ := img.Data().U8()
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6}, u8.Data())
}

func TestFromEmpty(t *testing.T) {
	_, err := FromImage(image.NewGray(image.Rect(0, 0, 0, 0)), time.Time{})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestToImageGray16(t *testing.T) {
	o, err := frame.NewOwned([]uint16{0, 1000, 40000, 65535}, 2, 2, frame.Gray)
	require.NoError(t, err)
	img, err := frame.New(frame.WrapOwned(o), time.Now())
	require.NoError(t, err)

	out, ok := ToImage(img).(*image.Gray16)
	require.True(t, ok)
	assert.Equal(t, color.Gray16{Y: 40000}, out.Gray16At(0, 1))
}

func TestToImageRGB(t *testing.T) {
	o, err := frame.NewOwned([]uint8{10, 20, 30, 40, 50, 60}, 2, 1, frame.RGB)
	require.NoError(t, err)
	img, err := frame.New(frame.WrapOwned(o), time.Now())
	require.NoError(t, err)

	out, ok := ToImage(img).(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 40, G: 50, B: 60, A: 255}, out.NRGBAAt(1, 0))
}

func TestToImageF32Preview(t *testing.T) {
	o, err := frame.NewOwned([]float32{0, 0.5, 0.4, 1}, 2, 2, frame.Gray)
	require.NoError(t, err)
	img, err := frame.New(frame.WrapOwned(o), time.Now())
	require.NoError(t, err)

	out, ok := ToImage(img).(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, []uint8{0, 128, 102, 255}, out.Pix)
}

func TestToImageBayerRaw(t *testing.T) {
	o, err := frame.NewOwned([]uint8{1, 2, 3, 4}, 2, 2, frame.BayerRGGB)
	require.NoError(t, err)
	img, err := frame.New(frame.WrapOwned(o), time.Now())
	require.NoError(t, err)

	out, ok := ToImage(img).(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, []uint8{1, 2, 3, 4}, out.Pix)
}

func TestSaveOpenRoundTrip(t *testing.T) {
	o, err := frame.NewOwned([]uint8{0, 64, 128, 255}, 2, 2, frame.Gray)
	require.NoError(t, err)
	img, err := frame.New(frame.WrapOwned(o), time.Now())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, Save(img, path))

	got, err := Open(path)
	require.NoError(t, err)
	assert.True(t, got.Timestamp().IsZero())
	assert.True(t, got.Data().Equal(img.Data()))
}
