package demosaic

import (
	"math"

	"github.jpl.nasa.gov/bdube/rawframe/pix"
)

// prod widens a sample and scales it by an integer kernel coefficient.
// Widening keeps the products exact: the largest integer sample times the
// largest coefficient stays well inside float64's integer range.
func prod[T pix.Pixel](v T, k int) float64 {
	return pix.ToF64(v) * float64(k)
}

// narrow truncates a kernel result back to the sample type.  Integer
// results outside the representable range, in either direction, come back
// as full scale; float samples pass through unchanged.
func narrow[T pix.Pixel](x float64) T {
	var out T
	switch p := any(&out).(type) {
	case *uint8:
		n := math.Trunc(x)
		if n < 0 || n > math.MaxUint8 {
			*p = math.MaxUint8
		} else {
			*p = uint8(n)
		}
	case *uint16:
		n := math.Trunc(x)
		if n < 0 || n > math.MaxUint16 {
			*p = math.MaxUint16
		} else {
			*p = uint16(n)
		}
	case *float32:
		*p = float32(x)
	}
	return out
}

// rowCubic interpolates one output row with 7x7 cubic convolution kernels.
// Red/blue sites take green from a plus-shaped kernel and the diagonal
// color from an x-shaped one; green sites take the row color from a
// horizontal kernel and the column color from a vertical one.  All kernel
// coefficients sum to the divisor, so flat fields pass through unchanged.
func rowCubic[T pix.Pixel](dst, src []T, width, height, y int, cfa CFA) {
	row := func(dy int) []T {
		r := mirror(y+dy, height)
		return src[r*width : r*width+width]
	}
	prv3, prv2, prv1 := row(-3), row(-2), row(-1)
	curr := row(0)
	nxt1, nxt2, nxt3 := row(1), row(2), row(3)
	at := func(r []T, i int) T { return r[mirror(i, width)] }

	chroma := func(cfa CFA, i int) {
		c, d := 0, 2
		if cfa == BGGR {
			c, d = 2, 0
		}
		gPos := prod(mean(at(prv1, i), at(curr, i-1), at(curr, i+1), at(nxt1, i)), 324) +
			prod(mean(at(prv3, i), at(curr, i-3), at(curr, i+3), at(nxt3, i)), 4)
		gNeg := prod(mean(
			at(prv2, i-1), at(prv2, i+1), at(prv1, i-2), at(prv1, i+2),
			at(nxt1, i-2), at(nxt1, i+2), at(nxt2, i-1), at(nxt2, i+1)), 72)
		dPos := prod(mean(at(prv1, i-1), at(prv1, i+1), at(nxt1, i-1), at(nxt1, i+1)), 324) +
			prod(mean(at(prv3, i-3), at(prv3, i+3), at(nxt3, i-3), at(nxt3, i+3)), 4)
		dNeg := prod(mean(
			at(prv3, i-1), at(prv3, i+1), at(prv1, i-3), at(prv1, i+3),
			at(nxt1, i-3), at(nxt1, i+3), at(nxt3, i-1), at(nxt3, i+1)), 72)
		dst[3*i+c] = curr[i]
		dst[3*i+1] = narrow[T]((gPos - gNeg) / 256)
		dst[3*i+d] = narrow[T]((dPos - dNeg) / 256)
	}
	green := func(cfa CFA, i int) {
		h, v := 0, 2
		if cfa == GBRG {
			h, v = 2, 0
		}
		hx := prod(mean(at(curr, i-1), at(curr, i+1)), 18) -
			prod(mean(at(curr, i-3), at(curr, i+3)), 2)
		vx := prod(mean(at(prv1, i), at(nxt1, i)), 18) -
			prod(mean(at(prv3, i), at(nxt3, i)), 2)
		dst[3*i+h] = narrow[T](hx / 16)
		dst[3*i+1] = curr[i]
		dst[3*i+v] = narrow[T](vx / 16)
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
