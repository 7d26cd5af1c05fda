// Public domain.

package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// MarginalMean computes the marginal posterior density of the mean flux
// with the latent variance treated as a nuisance parameter and
// marginalized out.
//
// The joint posterior of (mu, lnV) under the box prior is evaluated on
// the product of the two grids and lnV is integrated out by trapezoidal
// quadrature, leaving a density over muGrid normalized to unit integral.
//
// Algorithm:
//   - evaluate lnP(mu, lnV) on the grid, tracking the maximum so the
//     exponentials can be shifted before summing,
//   - trapezoid over lnV at each mu for the unnormalized marginal,
//   - trapezoid over mu for the normalizing constant.
//
// All-(-Inf) rows integrate to zero density at that mu; a grid placed
// entirely outside the prior yields a density that is zero everywhere.
func MarginalMean(f, e []float64, prior Box, muGrid, lnVGrid []float64) []float64 {
	lnP := make([]float64, len(muGrid)*len(lnVGrid))
	lnMax := math.Inf(-1)
	post := prior.LogPost(func(p []float64) float64 { return JitterLogL(f, e, p) })
	p := make([]float64, 2)
	for i, mu := range muGrid {
		p[0] = mu
		for j, lnV := range lnVGrid {
			p[1] = lnV
			lp := post(p)
			lnP[i*len(lnVGrid)+j] = lp
			if lp > lnMax {
				lnMax = lp
			}
		}
	}
	dens := make([]float64, len(muGrid))
	if math.IsInf(lnMax, -1) {
		return dens
	}
	row := make([]float64, len(lnVGrid))
	for i := range muGrid {
		for j := range lnVGrid {
			row[j] = math.Exp(lnP[i*len(lnVGrid)+j] - lnMax)
		}
		dens[i] = integrate.Trapezoidal(lnVGrid, row)
	}
	if z := integrate.Trapezoidal(muGrid, dens); z > 0 {
		floats.Scale(1/z, dens)
	}
	return dens
}

// PosteriorMeanStd reduces a gridded density to its mean and standard
// deviation by quadrature.  A density that is zero everywhere gives zeros.
func PosteriorMeanStd(grid, dens []float64) (mean, std float64) {
	g := make([]float64, len(grid))
	for i, x := range grid {
		g[i] = x * dens[i]
	}
	mean = integrate.Trapezoidal(grid, g)
	for i, x := range grid {
		d := x - mean
		g[i] = d * d * dens[i]
	}
	return mean, math.Sqrt(integrate.Trapezoidal(grid, g))
}

// Grid builds an n-point uniform grid over [lo, hi].
func Grid(lo, hi float64, n int) []float64 {
	g := make([]float64, n)
	floats.Span(g, lo, hi)
	return g
}

// AIC is the Akaike information criterion for a fit with k parameters.
func AIC(lnL float64, k int) float64 {
	return 2*float64(k) - 2*lnL
}

// BIC is the Bayesian information criterion for a fit with k parameters
// to n points.
func BIC(lnL float64, k, n int) float64 {
	return float64(k)*math.Log(float64(n)) - 2*lnL
}
