// Package exposure finds the exposure time and binning that drive a chosen
// image percentile toward a target level.  The calculator is stateless and
// applies one proportional correction per call, with no hysteresis; run it
// once per captured frame and feed the result into the next capture.
package exposure

import (
	"math"
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.jpl.nasa.gov/bdube/rawframe/frame"
)

var (
	// ErrInvalidConfig indicates a builder parameter outside its allowed
	// range.
	ErrInvalidConfig = errors.New("exposure: invalid configuration")

	// ErrEmptyImage indicates a calculation over zero samples.
	ErrEmptyImage = errors.New("exposure: empty image")
)

// Builder configures a Calculator.  The zero value is not useful; start
// from NewBuilder, which seeds the defaults:
//
//	percentile  0.995
//	target      40000/65536
//	tolerance   5000/65536
//	exclusion   100 pixels
//	exposure    [1 ms, 10 s]
//	max binning 1
type Builder struct {
	percentile float32
	target     float32
	tolerance  float32
	exclusion  int
	minExp     time.Duration
	maxExp     time.Duration
	maxBin     int
}

// NewBuilder returns a builder seeded with the default configuration.
func NewBuilder() Builder {
	return Builder{
		percentile: 0.995,
		target:     40000.0 / 65536.0,
		tolerance:  5000.0 / 65536.0,
		exclusion:  100,
		minExp:     time.Millisecond,
		maxExp:     10 * time.Second,
		maxBin:     1,
	}
}

// Percentile sets the percentile of the sorted samples to steer, in [0, 1].
func (b Builder) Percentile(p float32) Builder { b.percentile = p; return b }

// Target sets the level, as a fraction of full scale, the percentile sample
// should reach.
func (b Builder) Target(t float32) Builder { b.target = t; return b }

// Tolerance sets the dead band around the target within which the current
// exposure is kept.
func (b Builder) Tolerance(t float32) Builder { b.tolerance = t; return b }

// Exclusion sets how many of the brightest samples to ignore, guarding the
// percentile against hot pixels.
func (b Builder) Exclusion(n int) Builder { b.exclusion = n; return b }

// ExposureBounds sets the shortest and longest exposure the calculator may
// recommend.
func (b Builder) ExposureBounds(min, max time.Duration) Builder {
	b.minExp, b.maxExp = min, max
	return b
}

// MaxBin sets the largest binning factor the calculator may recommend.
// Values below 2 disable binning changes.
func (b Builder) MaxBin(n int) Builder { b.maxBin = n; return b }

// Build validates the configuration and returns the calculator.
func (b Builder) Build() (*Calculator, error) {
	if b.target < 1.6e-5 || b.target > 1 {
		return nil, errors.Wrap(ErrInvalidConfig, "target must be in [1.6e-5, 1]")
	}
	if b.tolerance < 1.6e-5 || b.tolerance > 1 {
		return nil, errors.Wrap(ErrInvalidConfig, "tolerance must be in [1.6e-5, 1]")
	}
	if b.percentile < 0 || b.percentile > 1 {
		return nil, errors.Wrap(ErrInvalidConfig, "percentile must be in [0, 1]")
	}
	if b.minExp >= b.maxExp {
		return nil, errors.Wrap(ErrInvalidConfig, "min exposure must be below max")
	}
	if b.exclusion < 0 || b.exclusion > 65536 {
		return nil, errors.Wrap(ErrInvalidConfig, "exclusion must be in [0, 65536]")
	}
	if b.maxBin > 32 {
		return nil, errors.Wrap(ErrInvalidConfig, "max binning must be at most 32")
	}
	return &Calculator{cfg: b}, nil
}

// Calculator recommends exposure settings.  Obtain one from Builder.Build;
// it is immutable and safe for concurrent use.
type Calculator struct {
	cfg Builder
}

// Builder returns the configuration the calculator was built with.
func (c *Calculator) Builder() Builder { return c.cfg }

// Calculate recommends the next exposure and binning from the normalized
// luminance samples of a frame captured at the given exposure and binning.
// samples is not modified.
func (c *Calculator) Calculate(samples []float32, exposure time.Duration, bin int) (time.Duration, int, error) {
	n := len(samples)
	if n == 0 {
		return 0, 0, ErrEmptyImage
	}
	if c.cfg.exclusion > n {
		return 0, 0, errors.Wrapf(ErrInvalidConfig, "excluding %d of %d samples", c.cfg.exclusion, n)
	}

	maxBin := c.cfg.maxBin
	changeBin := maxBin >= 2
	if !changeBin {
		maxBin = 1
	}
	if bin < 1 {
		bin = 1
	}

	sorted := make([]float32, n)
	copy(sorted, samples)
	slices.Sort(sorted)

	var coord int
	if c.cfg.percentile > 0.99999 {
		coord = n - 1
	} else {
		coord = int(math.Floor(float64(c.cfg.percentile) * float64(n-1)))
	}
	if coord < c.cfg.exclusion {
		coord = n - 1 - c.cfg.exclusion
		if coord < 0 {
			coord = 0
		}
	}
	val := sorted[coord]

	if math.Abs(float64(c.cfg.target-val)) < float64(c.cfg.tolerance) {
		return exposure, bin, nil
	}
	if val <= 1e-5 {
		val = 1e-5
	}

	secs := math.Abs(float64(c.cfg.target) * float64(exposure.Microseconds()) * 1e-6 / float64(val))
	target := time.Duration(secs * float64(time.Second))

	if changeBin {
		if target < c.cfg.maxExp {
			for target < c.cfg.maxExp && bin > 2 {
				bin /= 2
				target *= 4
			}
		} else {
			for target > c.cfg.maxExp && bin*2 <= maxBin {
				bin *= 2
				target /= 4
			}
		}
	}

	if target > c.cfg.maxExp {
		target = c.cfg.maxExp
	}
	if target < c.cfg.minExp {
		target = c.cfg.minExp
	}
	if bin > maxBin {
		bin = maxBin
	}
	return target, bin, nil
}

// ForImage recommends the next exposure and binning from a captured image,
// reading the current exposure from the reserved EXPOSURE metadata entry.
func (c *Calculator) ForImage(img *frame.Image, bin int) (time.Duration, int, error) {
	exp, err := img.Exposure()
	if err != nil {
		return 0, 0, errors.Wrap(err, "reading capture exposure")
	}
	return c.Calculate(img.Data().Normalized(), exp, bin)
}
