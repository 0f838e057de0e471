// Package demosaic reconstructs full three-channel RGB data from
// single-channel Bayer mosaic captures.
//
// Every method is a pure function of the color filter array pattern and the
// neighboring samples, with deterministic border handling: an out of bounds
// coordinate reflects across the edge, without repeating the edge sample,
// to a same-color site inside, so border pixels never read outside the
// buffer and never mix colors.  Output is bit-identical regardless of how
// many workers compute it.
package demosaic

import (
	"github.com/pkg/errors"

	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// CFA is the 2x2 color filter array pattern of a mosaic sensor.  The name
// gives the colors of the top-left, top-right, bottom-left and bottom-right
// sites of the repeating tile, in that order.
type CFA uint8

const (
	// RGGB has red at the tile origin.
	RGGB CFA = iota
	// BGGR has blue at the tile origin.
	BGGR
	// GRBG has green at the tile origin with red to its right.
	GRBG
	// GBRG has green at the tile origin with blue to its right.
	GBRG
)

func (c CFA) String() string {
	switch c {
	case RGGB:
		return "RGGB"
	case BGGR:
		return "BGGR"
	case GRBG:
		return "GRBG"
	case GBRG:
		return "GBRG"
	}
	return "invalid"
}

// NextX returns the pattern seen when the readout origin moves right by one
// column.
func (c CFA) NextX() CFA {
	switch c {
	case BGGR:
		return GBRG
	case GBRG:
		return BGGR
	case GRBG:
		return RGGB
	default:
		return GRBG
	}
}

// NextY returns the pattern seen when the readout origin moves down by one
// row.
func (c CFA) NextY() CFA {
	switch c {
	case BGGR:
		return GRBG
	case GBRG:
		return RGGB
	case GRBG:
		return BGGR
	default:
		return GBRG
	}
}

// Shift returns the pattern as seen from a region of interest whose origin
// is offset by (x, y) from the sensor origin.  Patterns repeat with period
// two on both axes, so only the parity of the offsets matters.
func (c CFA) Shift(x, y int) CFA {
	if x%2 != 0 {
		c = c.NextX()
	}
	if y%2 != 0 {
		c = c.NextY()
	}
	return c
}

// Method selects the demosaicing algorithm.
type Method int

const (
	// None performs no interpolation; the two missing channels of every
	// pixel are left at zero.
	None Method = iota
	// Nearest fills each missing channel from the physically nearest
	// same-color sample in the tile.
	Nearest
	// Linear interpolates each missing channel from the surrounding
	// same-color samples with 3x3 kernels.
	Linear
	// Cubic interpolates each missing channel with 7x7 cubic kernels;
	// needs at least a 4x4 mosaic.
	Cubic
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Nearest:
		return "nearest"
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	}
	return "invalid"
}

// minDim returns the smallest mosaic extent the method can interpolate.
func (m Method) minDim() int {
	if m == Cubic {
		return 4
	}
	return 2
}

var (
	// ErrDimensionTooSmall indicates a mosaic smaller than the method's
	// minimum extent: 2x2, or 4x4 for Cubic.
	ErrDimensionTooSmall = errors.New("demosaic: image too small for method")

	// ErrBufferTooSmall indicates a sample buffer shorter than
	// width*height.
	ErrBufferTooSmall = errors.New("demosaic: buffer too small")

	// ErrUnknownMethod indicates an unrecognized Method value.
	ErrUnknownMethod = errors.New("demosaic: unknown method")
)

// Run demosaics the width x height mosaic in src, returning a freshly
// allocated channel-interleaved RGB buffer of the same dimensions.  workers
// bounds the number of goroutines used; values below one select one worker
// per CPU.  Rows are computed independently into disjoint regions of the
// output, so the result does not depend on the worker count.
func Run[T pix.Pixel](src []T, width, height int, cfa CFA, m Method, workers int) ([]T, error) {
	var kern func(dst, src []T, width, height, y int, cfa CFA)
	switch m {
	case None:
		kern = rowNone[T]
	case Nearest:
		kern = rowNearest[T]
	case Linear:
		kern = rowLinear[T]
	case Cubic:
		kern = rowCubic[T]
	default:
		return nil, errors.Wrapf(ErrUnknownMethod, "%d", m)
	}
	if min := m.minDim(); width < min || height < min {
		return nil, errors.Wrapf(ErrDimensionTooSmall, "%dx%d for %s", width, height, m)
	}
	if len(src) < width*height {
		return nil, errors.Wrapf(ErrBufferTooSmall, "%d samples, need %d", len(src), width*height)
	}
	dst := make([]T, width*height*3)
	eachRow(height, workers, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			rowCFA := cfa
			if y%2 != 0 {
				rowCFA = cfa.NextY()
			}
			kern(dst[y*width*3:(y+1)*width*3], src, width, height, y, rowCFA)
		}
	})
	return dst, nil
}

// mirror reflects an out of range coordinate back across the edge without
// repeating the edge sample, landing on a same-color site; in-range
// coordinates pass through.  Valid for coordinates up to three past either
// edge when n is at least four.
func mirror(i, n int) int {
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - 2 - i
	}
	return i
}

// mean averages in a widened type and narrows with truncation, matching
// integer division for the integer sample types.
func mean[T pix.Pixel](vs ...T) T {
	var sum float64
	for _, v := range vs {
		sum += pix.ToF64(v)
	}
	return pix.FromF64[T](sum / float64(len(vs)))
}

// rowRoles reports how the columns of a row with pattern cfa alternate:
// whether column zero is a green site, and the patterns governing the
// non-green (red/blue) and green columns respectively.
func rowRoles(cfa CFA) (greenFirst bool, cc, cg CFA) {
	if cfa == GRBG || cfa == GBRG {
		return true, cfa.NextX(), cfa
	}
	return false, cfa, cfa.NextX()
}

func rowNone[T pix.Pixel](dst, src []T, width, _, y int, cfa CFA) {
	row := src[y*width : (y+1)*width]
	for i := range dst {
		dst[i] = 0
	}
	greenFirst, cc, _ := rowRoles(cfa)
	ci, gi := 0, 1
	if greenFirst {
		ci, gi = 1, 0
	}
	off := 0
	if cc == BGGR {
		off = 2
	}
	for i := gi; i < width; i += 2 {
		dst[3*i+1] = row[i]
	}
	for i := ci; i < width; i += 2 {
		dst[3*i+off] = row[i]
	}
}

func rowNearest[T pix.Pixel](dst, src []T, width, height, y int, cfa CFA) {
	curr := src[y*width : y*width+width]
	py := mirror(y-1, height)
	prev := src[py*width : py*width+width]

	chroma := func(cfa CFA, i int) {
		c, d := 0, 2
		if cfa == BGGR {
			c, d = 2, 0
		}
		left := mirror(i-1, width)
		dst[3*i+c] = curr[i]
		dst[3*i+1] = curr[left]
		dst[3*i+d] = prev[left]
	}
	green := func(cfa CFA, i int) {
		h, v := 0, 2
		if cfa == GBRG {
			h, v = 2, 0
		}
		left := mirror(i-1, width)
		dst[3*i+h] = curr[left]
		dst[3*i+1] = curr[i]
		dst[3*i+v] = prev[i]
	}

	greenFirst, cc, cg := rowRoles(cfa)
	i := 0
	if greenFirst {
		green(cg, 0)
		i = 1
	}
	for ; i+1 < width; i += 2 {
		chroma(cc, i)
		green(cg, i+1)
	}
	if i < width {
		chroma(cc, i)
	}
}

func rowLinear[T pix.Pixel](dst, src []T, width, height, y int, cfa CFA) {
	curr := src[y*width : y*width+width]
	py := mirror(y-1, height)
	ny := mirror(y+1, height)
	prev := src[py*width : py*width+width]
	next := src[ny*width : ny*width+width]

	chroma := func(cfa CFA, i int) {
		c, d := 0, 2
		if cfa == BGGR {
			c, d = 2, 0
		}
		left, right := mirror(i-1, width), mirror(i+1, width)
		dst[3*i+c] = curr[i]
		dst[3*i+1] = mean(prev[i], curr[left], curr[right], next[i])
		dst[3*i+d] = mean(prev[left], prev[right], next[left], next[right])
	}
	green := func(cfa CFA, i int) {
		h, v := 0, 2
		if cfa == GBRG {
			h, v = 2, 0
		}
		left, right := mirror(i-1, width), mirror(i+1, width)
		dst[3*i+h] = mean(curr[left], curr[right])
		dst[3*i+1] = curr[i]
		dst[3*i+v] = mean(prev[i], next[i])
	}

	greenFirst, cc, cg := rowRoles(cfa)
	i := 0
	if greenFirst {
		green(cg, 0)
		i = 1
	}
	for ; i+1 < width; i += 2 {
		chroma(cc, i)
		green(cg, i+1)
	}
	if i < width {
		chroma(cc, i)
	}
}
