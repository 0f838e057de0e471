package frame

import "github.jpl.nasa.gov/bdube/rawframe/demosaic"

// ColorSpace identifies how the samples of a frame map to color channels.
type ColorSpace uint8

const (
	// Gray is single-channel intensity data.
	Gray ColorSpace = iota
	// BayerRGGB is a single-channel mosaic with red at the origin.
	BayerRGGB
	// BayerBGGR is a single-channel mosaic with blue at the origin.
	BayerBGGR
	// BayerGRBG is a single-channel mosaic with green at the origin, red to
	// its right.
	BayerGRBG
	// BayerGBRG is a single-channel mosaic with green at the origin, blue to
	// its right.
	BayerGBRG
	// RGB is channel-interleaved three-channel color data.
	RGB
)

// Valid reports whether c is one of the defined color spaces.
func (c ColorSpace) Valid() bool { return c <= RGB }

// IsBayer reports whether c is one of the mosaic variants.
func (c ColorSpace) IsBayer() bool { return c >= BayerRGGB && c <= BayerGBRG }

// Channels returns the number of interleaved channels a frame in c carries
// per pixel.  Mosaic data is stored single-channel.
func (c ColorSpace) Channels() int {
	if c == RGB {
		return 3
	}
	return 1
}

// CFA returns the color filter array pattern of a mosaic color space.  The
// second result is false for non-mosaic spaces.
func (c ColorSpace) CFA() (demosaic.CFA, bool) {
	switch c {
	case BayerRGGB:
		return demosaic.RGGB, true
	case BayerBGGR:
		return demosaic.BGGR, true
	case BayerGRBG:
		return demosaic.GRBG, true
	case BayerGBRG:
		return demosaic.GBRG, true
	}
	return 0, false
}

func cspaceOf(cfa demosaic.CFA) ColorSpace {
	switch cfa {
	case demosaic.BGGR:
		return BayerBGGR
	case demosaic.GRBG:
		return BayerGRBG
	case demosaic.GBRG:
		return BayerGBRG
	default:
		return BayerRGGB
	}
}

// Shift returns the color space as seen from a region whose origin is offset
// by (x, y).  Mosaic patterns shift with the parity of the offsets; other
// spaces are unchanged.
func (c ColorSpace) Shift(x, y int) ColorSpace {
	cfa, ok := c.CFA()
	if !ok {
		return c
	}
	return cspaceOf(cfa.Shift(x, y))
}

func (c ColorSpace) String() string {
	switch c {
	case Gray:
		return "gray"
	case BayerRGGB:
		return "bayer_rggb"
	case BayerBGGR:
		return "bayer_bggr"
	case BayerGRBG:
		return "bayer_grbg"
	case BayerGBRG:
		return "bayer_gbrg"
	case RGB:
		return "rgb"
	}
	return "invalid"
}
