// Public domain.

// Package model holds the likelihood functions the course labs fit to
// light curves: a constant flux, a constant flux with latent excess
// variance, and a two-component inlier/outlier mixture.
//
// All likelihoods are pure functions of (data, parameters) returning a
// scalar log value.  Out-of-range parameters return -Inf rather than an
// error; samplers and optimizers treat -Inf as zero probability and move
// on.  Parameter vectors are packed in fixed orders documented with each
// function.
package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const ln2pi = 1.8378770664093454835606594728112353

// ConstantFit gives the closed-form maximum likelihood constant flux:
// the inverse-variance weighted mean and its standard error.
func ConstantFit(f, e []float64) (mu, stderr float64) {
	w := make([]float64, len(e))
	for i, ei := range e {
		w[i] = 1 / (ei * ei)
	}
	return stat.Mean(f, w), 1 / math.Sqrt(floats.Sum(w))
}

// ConstantLogL is the Gaussian log likelihood of flux f with errors e
// about a constant flux mu.
func ConstantLogL(f, e []float64, mu float64) float64 {
	var lnL float64
	for i, fi := range f {
		s2 := e[i] * e[i]
		d := fi - mu
		lnL -= (d*d/s2 + math.Log(s2) + ln2pi) * .5
	}
	return lnL
}

// JitterLogL is the constant-mean Gaussian log likelihood with a latent
// variance added in quadrature to the per-point variances.
//
// Parameters are packed p = [mu, lnV]:
//
//	mu   constant mean flux
//	lnV  log of the latent variance V
//
// lnL = -1/2 Σ [ (f_i-mu)² / (σ_i²+V) + ln 2π(σ_i²+V) ]
func JitterLogL(f, e []float64, p []float64) float64 {
	mu := p[0]
	v := math.Exp(p[1])
	var lnL float64
	for i, fi := range f {
		s2 := e[i]*e[i] + v
		d := fi - mu
		lnL -= (d*d/s2 + math.Log(s2) + ln2pi) * .5
	}
	return lnL
}

// MixtureLogL is the log likelihood of the inlier/outlier mixture.
//
// Each point is drawn either from the inlier model N(mu, σ_i²) with
// probability 1-Pb, or from a broad outlier model N(Yb, σ_i²+Vb) with
// probability Pb.  Parameters are packed p = [mu, Pb, Yb, lnVb]:
//
//	mu    inlier constant mean flux
//	Pb    prior probability that any point is an outlier, in (0,1)
//	Yb    mean of the outlier distribution
//	lnVb  log of the outlier variance, added to σ_i² in quadrature
//
// The two component log likelihoods are combined per point with
// log-sum-exp; the identity lnL_i = LSE(ln(1-Pb)+lnN_in, ln Pb+lnN_out)
// is what keeps the evaluation stable when one component is negligible.
// Pb outside (0,1) returns -Inf.
func MixtureLogL(f, e []float64, p []float64) float64 {
	mu, pb, yb := p[0], p[1], p[2]
	if pb <= 0 || pb >= 1 {
		return math.Inf(-1)
	}
	vb := math.Exp(p[3])
	lnIn := math.Log(1 - pb)
	lnOut := math.Log(pb)
	var both [2]float64
	var lnL float64
	for i, fi := range f {
		both[0] = lnIn + lnNorm(fi, mu, e[i]*e[i])
		both[1] = lnOut + lnNorm(fi, yb, e[i]*e[i]+vb)
		lnL += floats.LogSumExp(both[:])
	}
	return lnL
}

// OutlierProb gives the posterior probability, point by point, that each
// point was drawn from the outlier component of the mixture with
// parameters p (packed as for MixtureLogL).
func OutlierProb(f, e []float64, p []float64) []float64 {
	mu, pb, yb := p[0], p[1], p[2]
	vb := math.Exp(p[3])
	lnIn := math.Log(1 - pb)
	lnOut := math.Log(pb)
	var both [2]float64
	prob := make([]float64, len(f))
	for i, fi := range f {
		both[0] = lnIn + lnNorm(fi, mu, e[i]*e[i])
		both[1] = lnOut + lnNorm(fi, yb, e[i]*e[i]+vb)
		prob[i] = math.Exp(both[1] - floats.LogSumExp(both[:]))
	}
	return prob
}

// lnNorm is the log density of N(mean, variance v) at x.
func lnNorm(x, mean, v float64) float64 {
	d := x - mean
	return -(d*d/v + math.Log(v) + ln2pi) * .5
}

// Box is a uniform prior over a box in parameter space.
type Box struct {
	Min, Max []float64
}

// LogPrior is 0 inside the box, -Inf outside.  NaN parameters are outside.
func (b Box) LogPrior(p []float64) float64 {
	for i, pi := range p {
		if !(pi >= b.Min[i] && pi <= b.Max[i]) {
			return math.Inf(-1)
		}
	}
	return 0
}

// LogPost returns a log posterior function combining the box prior with
// log likelihood lnL, suitable for handing to a sampler.  The likelihood
// is not evaluated outside the prior support.
func (b Box) LogPost(lnL func(p []float64) float64) func(p []float64) float64 {
	return func(p []float64) float64 {
		lp := b.LogPrior(p)
		if math.IsInf(lp, -1) {
			return lp
		}
		return lp + lnL(p)
	}
}

// JitterPrior builds the default box prior for JitterLogL parameters
// from the data: the mean within ±10 standard errors of the weighted
// mean widened by the sample scatter, and lnV from well below the
// smallest measurement variance to well above the sample variance.
func JitterPrior(f, e []float64) Box {
	mu, se := ConstantFit(f, e)
	sd := stat.StdDev(f, nil)
	if sd <= 0 {
		sd = se
	}
	w := 10 * (se + sd)
	vLo := floats.Min(e)
	vHi := sd
	if vHi <= vLo {
		vHi = 2 * vLo
	}
	return Box{
		Min: []float64{mu - w, math.Log(vLo*vLo) - 10},
		Max: []float64{mu + w, math.Log(vHi*vHi) + 10},
	}
}

// MixturePrior builds the default box prior for MixtureLogL parameters.
// pbMax caps the outlier fraction; the course sets it well below one half
// so the fit cannot relabel the bulk of the points as outliers.
func MixturePrior(f, e []float64, pbMax float64) Box {
	jp := JitterPrior(f, e)
	lo, hi := floats.Min(f), floats.Max(f)
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	return Box{
		Min: []float64{jp.Min[0], 1e-6, lo - span, jp.Min[1]},
		Max: []float64{jp.Max[0], pbMax, hi + span, jp.Max[1] + 5},
	}
}
