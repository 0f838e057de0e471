package frame

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// Bytes returns the samples as little-endian bytes in a fresh slice.
func (d DynamicRef) Bytes() []byte {
	switch d.typ {
	case pix.U8:
		return sampleBytes(d.u8.data)
	case pix.U16:
		return sampleBytes(d.u16.data)
	default:
		return sampleBytes(d.f32.data)
	}
}

// Bytes returns the samples as little-endian bytes in a fresh slice.
func (d DynamicOwned) Bytes() []byte {
	return d.Ref().Bytes()
}

func sampleBytes[T pix.Pixel](src []T) []byte {
	switch src := any(src).(type) {
	case []uint8:
		out := make([]byte, len(src))
		copy(out, src)
		return out
	case []uint16:
		out := make([]byte, 2*len(src))
		for i, v := range src {
			binary.LittleEndian.PutUint16(out[2*i:], v)
		}
		return out
	case []float32:
		out := make([]byte, 4*len(src))
		for i, v := range src {
			binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
		}
		return out
	}
	return nil
}

// frameFromBytes rebuilds a type-erased owned frame from little-endian
// sample bytes.
func frameFromBytes(raw []byte, width, height int, cspace ColorSpace, t pix.Type) (DynamicOwned, error) {
	n := width * height * cspace.Channels()
	if len(raw) != n*t.Size() {
		return DynamicOwned{}, errors.Wrapf(ErrBufferSizeMismatch,
			"%d bytes for %d %s samples", len(raw), n, t)
	}
	switch t {
	case pix.U8:
		data := make([]uint8, n)
		copy(data, raw)
		o, err := NewOwned(data, width, height, cspace)
		if err != nil {
			return DynamicOwned{}, err
		}
		return WrapOwned(o), nil
	case pix.U16:
		data := make([]uint16, n)
		for i := range data {
			data[i] = binary.LittleEndian.Uint16(raw[2*i:])
		}
		o, err := NewOwned(data, width, height, cspace)
		if err != nil {
			return DynamicOwned{}, err
		}
		return WrapOwned(o), nil
	default:
		data := make([]float32, n)
		for i := range data {
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
		o, err := NewOwned(data, width, height, cspace)
		if err != nil {
			return DynamicOwned{}, err
		}
		return WrapOwned(o), nil
	}
}
