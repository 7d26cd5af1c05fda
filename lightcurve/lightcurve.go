// Public domain.

// Package lightcurve holds time series photometry as used throughout the
// AST542 computational labs: a sampled flux with per-point uncertainties,
// read from the flat files the course distributes.
package lightcurve

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LightCurve is a single object's photometric time series.  Time is in MJD,
// flux and flux error in whatever linear unit the source file uses.  The
// three columns are parallel; Validate enforces this.
type LightCurve struct {
	Name string
	Band string

	// Target is the sky position of the object when the source file
	// carries one, nil otherwise.
	Target *coord.Equa

	Time    []float64
	Flux    []float64
	FluxErr []float64
}

// Len returns the number of points.
func (lc *LightCurve) Len() int { return len(lc.Time) }

// Validate checks the invariants assumed by everything downstream:
// column lengths agree, at least two points, times strictly increasing,
// flux errors positive and finite.
func (lc *LightCurve) Validate() error {
	if len(lc.Flux) != len(lc.Time) || len(lc.FluxErr) != len(lc.Time) {
		return fmt.Errorf("lightcurve %s: column lengths disagree: %d time, %d flux, %d flux_err",
			lc.Name, len(lc.Time), len(lc.Flux), len(lc.FluxErr))
	}
	if len(lc.Time) < 2 {
		return fmt.Errorf("lightcurve %s: need at least 2 points, have %d",
			lc.Name, len(lc.Time))
	}
	t0 := math.Inf(-1)
	for i, t := range lc.Time {
		if t <= t0 {
			return fmt.Errorf("lightcurve %s: times not strictly increasing at point %d",
				lc.Name, i)
		}
		t0 = t
		if e := lc.FluxErr[i]; !(e > 0) || math.IsInf(e, 1) {
			return fmt.Errorf("lightcurve %s: bad flux error %g at point %d",
				lc.Name, e, i)
		}
	}
	return nil
}

// Clean drops points with non-finite time, flux, or flux error and points
// with flux error <= 0, returning the number dropped.  Source files mask
// bad cadences this way rather than erroring on them.
func (lc *LightCurve) Clean() (dropped int) {
	keep := 0
	for i := range lc.Time {
		t, f, e := lc.Time[i], lc.Flux[i], lc.FluxErr[i]
		bad := math.IsNaN(t) || math.IsInf(t, 0) ||
			math.IsNaN(f) || math.IsInf(f, 0) ||
			math.IsNaN(e) || math.IsInf(e, 0) || e <= 0
		if bad {
			dropped++
			continue
		}
		lc.Time[keep] = t
		lc.Flux[keep] = f
		lc.FluxErr[keep] = e
		keep++
	}
	lc.Time = lc.Time[:keep]
	lc.Flux = lc.Flux[:keep]
	lc.FluxErr = lc.FluxErr[:keep]
	return dropped
}

// Sort orders points by time, keeping columns parallel.
func (lc *LightCurve) Sort() {
	sort.Sort((*byTime)(lc))
}

type byTime LightCurve

func (s *byTime) Len() int           { return len(s.Time) }
func (s *byTime) Less(i, j int) bool { return s.Time[i] < s.Time[j] }
func (s *byTime) Swap(i, j int) {
	s.Time[i], s.Time[j] = s.Time[j], s.Time[i]
	s.Flux[i], s.Flux[j] = s.Flux[j], s.Flux[i]
	s.FluxErr[i], s.FluxErr[j] = s.FluxErr[j], s.FluxErr[i]
}

// Span returns the time spanned by the series in days.
func (lc *LightCurve) Span() float64 {
	if len(lc.Time) == 0 {
		return 0
	}
	return lc.Time[len(lc.Time)-1] - lc.Time[0]
}

// Epochs returns the calendar times of the first and last points.
func (lc *LightCurve) Epochs() (first, last time.Time) {
	if len(lc.Time) == 0 {
		return
	}
	first = julian.JDToTime(lc.Time[0] + base.JMod)
	last = julian.JDToTime(lc.Time[len(lc.Time)-1] + base.JMod)
	return
}

// WeightedMean returns the inverse-variance weighted mean flux and its
// standard error.
func (lc *LightCurve) WeightedMean() (mean, stderr float64) {
	w := make([]float64, len(lc.FluxErr))
	for i, e := range lc.FluxErr {
		w[i] = 1 / (e * e)
	}
	mean = stat.Mean(lc.Flux, w)
	stderr = 1 / math.Sqrt(floats.Sum(w))
	return
}

// ChiSquared returns the chi-squared of the series about a constant flux mu.
func (lc *LightCurve) ChiSquared(mu float64) float64 {
	var x2 float64
	for i, f := range lc.Flux {
		r := (f - mu) / lc.FluxErr[i]
		x2 += r * r
	}
	return x2
}

// Mag converts a linear flux to a magnitude for zero point zp.
// Non-positive flux has no magnitude; NaN is returned.
func Mag(flux, zp float64) float64 {
	if flux <= 0 {
		return math.NaN()
	}
	return zp - 2.5*math.Log10(flux)
}

// FluxFromMag converts a magnitude back to linear flux for zero point zp.
func FluxFromMag(mag, zp float64) float64 {
	return math.Pow(10, .4*(zp-mag))
}
