package frame

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.jpl.nasa.gov/bdube/rawframe/meta"
	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

func sampleImage(t *testing.T) *Image {
	t.Helper()
	o, err := NewOwned([]uint16{100, 200, 300, 400, 500, 600}, 3, 2, BayerGRBG)
	require.NoError(t, err)
	img, err := New(WrapOwned(o), time.Unix(1700000000, 123456789))
	require.NoError(t, err)
	require.NoError(t, img.SetExposure(15*time.Millisecond))
	require.NoError(t, img.Meta().SetComment("CAMERA", meta.StringValue("acme cam"), "serial 0042"))
	require.NoError(t, img.Meta().Set("GAIN", meta.Float64Value(2.25)))
	return img
}

func TestRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		img := sampleImage(t)
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, img, compress))

		got, err := Decode(&buf)
		require.NoError(t, err)
		assert.True(t, img.Equal(got), "compress=%v", compress)
		assert.Equal(t, pix.U16, got.Data().Type())
		assert.Equal(t, BayerGRBG, got.ColorSpace())

		d, err := got.Exposure()
		require.NoError(t, err)
		assert.Equal(t, 15*time.Millisecond, d)

		e, err := got.Meta().GetEntry("camera")
		require.NoError(t, err)
		assert.Equal(t, "serial 0042", e.Comment)
	}
}

func TestRoundTripAllTypes(t *testing.T) {
	frames := []DynamicOwned{}
	u8, err := NewOwned([]uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 2, 2, RGB)
	require.NoError(t, err)
	frames = append(frames, WrapOwned(u8))
	f32, err := NewOwned([]float32{0, 0.25, 0.5, 1}, 2, 2, Gray)
	require.NoError(t, err)
	frames = append(frames, WrapOwned(f32))

	for _, d := range frames {
		img, err := New(d, time.Now())
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, img, true))
		got, err := Decode(&buf)
		require.NoError(t, err)
		assert.True(t, img.Equal(got), d.Type().String())
	}
}

func TestRoundTripRef(t *testing.T) {
	buf16 := []uint16{9, 8, 7, 6}
	r, err := NewRef(buf16, 2, 2, Gray)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeRef(&buf, WrapRef(r), false))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.True(t, got.Timestamp().IsZero())
	assert.Equal(t, 0, got.Meta().Len())
	u16, ok := got.Data().U16()
	require.True(t, ok)
	assert.Equal(t, buf16, u16.Data())
}

func TestDecodeRejectsCorruptPayload(t *testing.T) {
	o, err := NewOwned([]uint16{10, 20, 30, 40}, 2, 2, Gray)
	require.NoError(t, err)
	img, err := New(WrapOwned(o), time.Now())
	require.NoError(t, err)
	require.NoError(t, img.Meta().Set("GAIN", meta.IntValue(1)))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, false))
	b := buf.Bytes()
	b[len(b)-1] ^= 0xFF

	_, err = Decode(bytes.NewReader(b))
	assert.True(t, errors.Is(err, ErrCorruptData))
}

func TestDecodeRejectsTruncation(t *testing.T) {
	img := sampleImage(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, false))
	b := buf.Bytes()

	for _, n := range []int{0, 3, len(b) / 2, len(b) - 1} {
		_, err := Decode(bytes.NewReader(b[:n]))
		assert.True(t, errors.Is(err, ErrCorruptData), "truncated to %d", n)
	}
}

func TestDecodeRejectsForeignVersion(t *testing.T) {
	img := sampleImage(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, false))
	b := buf.Bytes()
	b[0] = codecVersion + 1

	_, err := Decode(bytes.NewReader(b))
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
}

func TestDecodeRejectsBadHeaderFields(t *testing.T) {
	img := sampleImage(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, false))
	pristine := buf.Bytes()

	mutate := func(idx int, v byte) []byte {
		b := make([]byte, len(pristine))
		copy(b, pristine)
		b[idx] = v
		return b
	}

	// pixel type
	_, err := Decode(bytes.NewReader(mutate(2, 0)))
	assert.True(t, errors.Is(err, ErrCorruptData))
	// color space
	_, err = Decode(bytes.NewReader(mutate(3, 9)))
	assert.True(t, errors.Is(err, ErrCorruptData))
	// bayer pattern
	_, err = Decode(bytes.NewReader(mutate(4, 200)))
	assert.True(t, errors.Is(err, ErrCorruptData))
	// unknown flag bits
	_, err = Decode(bytes.NewReader(mutate(1, 0x80)))
	assert.True(t, errors.Is(err, ErrCorruptData))
}

func TestCompressionShrinksFlatFrames(t *testing.T) {
	data := make([]uint16, 64*64)
	o, err := NewOwned(data, 64, 64, Gray)
	require.NoError(t, err)
	img, err := New(WrapOwned(o), time.Time{})
	require.NoError(t, err)

	var raw, comp bytes.Buffer
	require.NoError(t, Encode(&raw, img, false))
	require.NoError(t, Encode(&comp, img, true))
	assert.Less(t, comp.Len(), raw.Len())
}

func TestChecksumStable(t *testing.T) {
	// CRC-32/ADCCP of "123456789"
	assert.Equal(t, uint32(0xCBF43926), checksum([]byte("123456789")))
}
