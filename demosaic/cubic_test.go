package demosaic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 8x8 mosaic; R: set.seed(0); floor(runif(64, min=0, max=256))
var mosaic8 = []uint8{
	229, 67, 95, 146, 232, 51, 229, 241,
	169, 161, 15, 52, 45, 175, 98, 197,
	127, 183, 253, 97, 199, 239, 54, 166,
	32, 68, 98, 3, 97, 222, 87, 123,
	153, 126, 47, 211, 171, 203, 27, 185,
	105, 210, 165, 200, 141, 135, 202, 5,
	122, 187, 177, 122, 220, 112, 62, 18,
	25, 80, 132, 169, 104, 233, 75, 117,
}

// 7x7 prefix of the same draw
var mosaic7 = mosaic8[:49]

func TestCubicEven(t *testing.T) {
	expected := []uint8{
		229, 122, 186, 161, 67, 172, 95, 42, 108, 154, 146, 58, 232, 60, 103, 238, 51, 169,
		229, 117, 196, 228, 241, 206, 182, 169, 174, 177, 110, 161, 177, 15, 98, 201, 69, 52,
		218, 45, 104, 188, 104, 175, 153, 98, 195, 145, 158, 197, 127, 158, 116, 185, 183, 105,
		253, 95, 48, 243, 97, 14, 199, 120, 106, 122, 239, 203, 54, 153, 194, 35, 166, 167,
		135, 32, 76, 141, 102, 68, 151, 98, 21, 175, 120, 3, 179, 97, 114, 104, 158, 222, 26,
		87, 179, 7, 115, 123, 153, 80, 146, 98, 126, 141, 47, 157, 115, 111, 211, 99, 171, 168,
		143, 106, 203, 174, 27, 179, 110, 9, 185, 52, 138, 105, 211, 114, 153, 210, 99, 165,
		209, 152, 166, 200, 193, 141, 174, 124, 178, 135, 42, 202, 57, 23, 159, 5, 122, 118,
		139, 142, 187, 145, 177, 157, 170, 211, 122, 194, 220, 109, 200, 143, 112, 184, 62, 93,
		113, 42, 18, 60, 118, 25, 68, 148, 128, 80, 193, 132, 120, 223, 111, 169, 226, 104,
		213, 148, 95, 233, 66, 75, 171, 46, 16, 117,
	}
	got, err := Run(mosaic8, 8, 8, RGGB, Cubic, 1)
	require.NoError(t, err)
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("rgb mismatch (-want +got):\n%s", diff)
	}
}

func TestCubicOdd(t *testing.T) {
	expected := []uint8{
		229, 147, 204, 161, 67, 183, 95, 122, 96, 154, 146, 12, 232, 52, 14, 238, 51, 38, 229,
		123, 41, 171, 241, 188, 136, 163, 169, 111, 161, 90, 176, 143, 15, 246, 52, 20, 243,
		92, 45, 225, 175, 48, 98, 235, 113, 102, 197, 103, 127, 184, 60, 195, 183, 23, 253, 95,
		41, 230, 97, 70, 199, 99, 76, 84, 239, 56, 87, 208, 54, 105, 166, 38, 160, 129, 32,
		201, 68, 63, 159, 53, 98, 116, 3, 106, 97, 231, 114, 88, 222, 104, 87, 178, 63, 126,
		123, 30, 153, 125, 62, 97, 126, 104, 47, 124, 113, 135, 211, 189, 121, 215, 171, 114,
		203, 94, 148, 165, 27, 173, 185, 57, 124, 138, 105, 79, 210, 114, 165, 202, 205, 150,
		200, 185, 141, 184, 101, 174, 135, 26, 202, 115, 56, 160, 5, 105, 122, 92, 115,
	}
	got, err := Run(mosaic7, 7, 7, RGGB, Cubic, 1)
	require.NoError(t, err)
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("rgb mismatch (-want +got):\n%s", diff)
	}
}

// A dark cross on a saturated field drives the sharpening kernels out of
// range in both directions; out of range results come back as full scale.
func TestCubicOverflow(t *testing.T) {
	src := []uint8{
		255, 255, 255, 255, 255, 255, 255,
		255, 255, 255, 255, 255, 255, 255,
		255, 255, 255, 0, 255, 255, 255,
		255, 255, 0, 0, 0, 255, 255,
		255, 255, 255, 0, 255, 255, 255,
		255, 255, 255, 255, 255, 255, 255,
		255, 255, 255, 255, 255, 255, 255,
	}
	expected := []uint8{
		255, 255, 251, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255,
		255, 255, 255, 251, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 190, 255, 255,
		255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 111, 174,
		255, 0, 111, 255, 111, 174, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 190, 255,
		255, 0, 111, 255, 255, 0, 255, 0, 111, 255, 190, 255, 255, 255, 255, 255, 255, 255,
		255, 255, 255, 255, 111, 174, 255, 0, 111, 255, 111, 174, 255, 255, 255, 255, 255, 255,
		255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 190, 255, 255, 255, 255, 255, 255,
		255, 255, 255, 255, 255, 255, 251, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255,
		255, 255, 255, 255, 255, 255, 255, 251,
	}
	got, err := Run(src, 7, 7, RGGB, Cubic, 1)
	require.NoError(t, err)
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("rgb mismatch (-want +got):\n%s", diff)
	}
}

func TestCubicMinimumDimensions(t *testing.T) {
	_, err := Run(mosaic7[:9], 3, 3, RGGB, Cubic, 1)
	assert.True(t, errors.Is(err, ErrDimensionTooSmall))

	// 4x4 is the smallest mosaic the 7x7 kernels can mirror into
	_, err = Run(mosaic7[:16], 4, 4, RGGB, Cubic, 1)
	assert.NoError(t, err)
}

func TestNarrowSendsOutOfRangeToFullScale(t *testing.T) {
	assert.Equal(t, uint8(122), narrow[uint8](122.89))
	assert.Equal(t, uint8(255), narrow[uint8](-67.7))
	assert.Equal(t, uint8(255), narrow[uint8](300))
	assert.Equal(t, uint8(0), narrow[uint8](-0.5))
	assert.Equal(t, uint16(65535), narrow[uint16](-1))
	assert.Equal(t, float32(-0.25), narrow[float32](-0.25))
}
