package pix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeProperties(t *testing.T) {
	assert.Equal(t, 1, U8.Size())
	assert.Equal(t, 2, U16.Size())
	assert.Equal(t, 4, F32.Size())
	assert.True(t, U8.Valid())
	assert.True(t, U16.Valid())
	assert.True(t, F32.Valid())
	assert.False(t, Type(0).Valid())
	assert.Equal(t, 0, Type(0).Size())
	assert.Equal(t, "u16", U16.String())
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, U8, TypeOf[uint8]())
	assert.Equal(t, U16, TypeOf[uint16]())
	assert.Equal(t, F32, TypeOf[float32]())
}

func TestCastU8(t *testing.T) {
	assert.Equal(t, uint8(0), CastU8(uint8(0)))
	assert.Equal(t, uint8(255), CastU8(uint8(255)))
	assert.Equal(t, uint8(0), CastU8(uint16(0)))
	assert.Equal(t, uint8(255), CastU8(uint16(65535)))
	assert.Equal(t, uint8(128), CastU8(float32(0.5)))
	assert.Equal(t, uint8(102), CastU8(float32(0.4)))
	// saturation
	assert.Equal(t, uint8(255), CastU8(float32(2)))
	assert.Equal(t, uint8(0), CastU8(float32(-1)))
}

func TestCastU8Monotonic(t *testing.T) {
	prev := CastU8(uint16(0))
	for v := 1; v <= 65535; v++ {
		cur := CastU8(uint16(v))
		if cur < prev {
			t.Fatalf("cast not monotonic at %d: %d < %d", v, cur, prev)
		}
		prev = cur
	}
}

func TestNormDenorm(t *testing.T) {
	assert.Equal(t, float32(1), Norm(uint8(255)))
	assert.Equal(t, float32(0), Norm(uint16(0)))
	assert.Equal(t, float32(0.25), Norm(float32(0.25)))
	assert.Equal(t, uint16(65535), Denorm[uint16](1))
	assert.Equal(t, uint8(0), Denorm[uint8](-3))
	assert.Equal(t, float32(1), Denorm[float32](4))
}

func TestFromF64Clamps(t *testing.T) {
	assert.Equal(t, uint8(255), FromF64[uint8](300))
	assert.Equal(t, uint16(0), FromF64[uint16](-5))
	assert.Equal(t, float32(1), FromF64[float32](1.5))
	// truncation toward zero for integers
	assert.Equal(t, uint8(106), FromF64[uint8](106.5))
}
