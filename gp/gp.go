// Public domain.

package gp

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

const ln2pi = 1.8378770664093454836

// GP is a Gaussian process conditioned on observed data, ready for
// prediction at new inputs.
type GP struct {
	Kernel Kernel

	t     []float64
	chol  mat.Cholesky
	alpha mat.VecDense // K⁻¹ y
	lnL   float64
}

// gram builds the kernel matrix over t with observation variances on
// the diagonal.
func gram(k Kernel, t, yerr []float64) *mat.SymDense {
	n := len(t)
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := k.Eval(t[i], t[j])
			if i == j && yerr != nil {
				v += yerr[i] * yerr[i]
			}
			m.SetSym(i, j, v)
		}
	}
	return m
}

// solve wraps the factored solve.  A mat.Condition return is an
// ill-conditioning warning, not a failure; the solution is still valid.
func (g *GP) solve(dst *mat.VecDense, b mat.Vector) error {
	err := g.chol.SolveVecTo(dst, b)
	if _, warn := err.(mat.Condition); warn {
		return nil
	}
	return err
}

// LogLikelihood returns the Gaussian process marginal log likelihood of
// y observed at t with errors yerr under kernel k,
//
//	ln L = -(yᵀK⁻¹y + ln det K + n ln 2π)/2,  K = kernel gram + diag(yerr²).
//
// It returns -Inf when K is not positive definite at the kernel's
// hyperparameters, so it can sit directly in an objective function.
// The three slices must have equal length.
func LogLikelihood(k Kernel, t, y, yerr []float64) float64 {
	var ch mat.Cholesky
	if !ch.Factorize(gram(k, t, yerr)) {
		return math.Inf(-1)
	}
	yv := mat.NewVecDense(len(y), y)
	var alpha mat.VecDense
	err := ch.SolveVecTo(&alpha, yv)
	if _, warn := err.(mat.Condition); err != nil && !warn {
		return math.Inf(-1)
	}
	return -.5 * (mat.Dot(yv, &alpha) + ch.LogDet() + float64(len(y))*ln2pi)
}

// Condition factors the kernel matrix over the observations and returns
// a process ready for prediction.
func Condition(k Kernel, t, y, yerr []float64) (*GP, error) {
	if len(t) == 0 {
		return nil, errors.New("gp: no observations")
	}
	if len(y) != len(t) || len(yerr) != len(t) {
		return nil, fmt.Errorf("gp: %d times, %d values, %d errors",
			len(t), len(y), len(yerr))
	}
	g := &GP{Kernel: k, t: append([]float64{}, t...)}
	if !g.chol.Factorize(gram(k, t, yerr)) {
		return nil, errors.New("gp: kernel matrix not positive definite")
	}
	yv := mat.NewVecDense(len(y), y)
	if err := g.solve(&g.alpha, yv); err != nil {
		return nil, err
	}
	g.lnL = -.5 * (mat.Dot(yv, &g.alpha) + g.chol.LogDet() + float64(len(y))*ln2pi)
	return g, nil
}

// LogLikelihood returns the marginal log likelihood of the conditioned
// data.
func (g *GP) LogLikelihood() float64 { return g.lnL }

// Predict returns the posterior mean and standard deviation of the
// process at the test inputs.
func (g *GP) Predict(ts []float64) (mean, std []float64) {
	n := len(g.t)
	mean = make([]float64, len(ts))
	std = make([]float64, len(ts))
	kstar := mat.NewVecDense(n, nil)
	var sol mat.VecDense
	for j, x := range ts {
		for i, ti := range g.t {
			kstar.SetVec(i, g.Kernel.Eval(ti, x))
		}
		mean[j] = mat.Dot(kstar, &g.alpha)
		if err := g.solve(&sol, kstar); err != nil {
			std[j] = math.NaN()
			continue
		}
		v := g.Kernel.Eval(x, x) - mat.Dot(kstar, &sol)
		if v < 0 {
			v = 0
		}
		std[j] = math.Sqrt(v)
	}
	return mean, std
}

// Sample draws one realization of the zero-mean process with kernel k
// at the inputs t.  A small nugget on the diagonal keeps the
// factorization stable for smooth kernels.
func Sample(k Kernel, t []float64, rnd *rand.Rand) ([]float64, error) {
	n := len(t)
	m := gram(k, t, nil)
	for i := 0; i < n; i++ {
		m.SetSym(i, i, m.At(i, i)*(1+1e-9)+1e-12)
	}
	var ch mat.Cholesky
	if !ch.Factorize(m) {
		return nil, errors.New("gp: kernel matrix not positive definite")
	}
	var l mat.TriDense
	ch.LTo(&l)
	z := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		z.SetVec(i, rnd.NormFloat64())
	}
	var y mat.VecDense
	y.MulVec(&l, z)
	out := make([]float64, n)
	for i := range out {
		out[i] = y.AtVec(i)
	}
	return out, nil
}
