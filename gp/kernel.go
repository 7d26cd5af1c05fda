// Public domain.

// Package gp implements Gaussian process regression over scalar inputs,
// enough for the course's correlated-noise labs: a few standard kernels,
// the marginal log likelihood, posterior prediction, and hyperparameter
// optimization.
package gp

import "math"

// Kernel is a covariance function over scalar inputs.
//
// Hyper and SetHyper expose the hyperparameters as a flat slice so
// optimizers can drive any kernel, composites included.  SetHyper must
// be given exactly len(Hyper()) values.
type Kernel interface {
	Eval(xa, xb float64) float64
	Hyper() []float64
	SetHyper(p []float64)
}

// SquaredExp is the squared exponential kernel,
//
//	k(r) = Amp² exp(-r²/2Scale²),
//
// the default smooth kernel of the labs.
type SquaredExp struct {
	Amp, Scale float64
}

func (k *SquaredExp) Eval(xa, xb float64) float64 {
	r := (xa - xb) / k.Scale
	return k.Amp * k.Amp * math.Exp(-.5*r*r)
}

func (k *SquaredExp) Hyper() []float64 { return []float64{k.Amp, k.Scale} }

func (k *SquaredExp) SetHyper(p []float64) { k.Amp, k.Scale = p[0], p[1] }

// Matern32 is the Matérn ν=3/2 kernel,
//
//	k(r) = Amp² (1 + √3r/Scale) exp(-√3r/Scale),
//
// rougher than SquaredExp; its sample paths are only once
// differentiable.
type Matern32 struct {
	Amp, Scale float64
}

func (k *Matern32) Eval(xa, xb float64) float64 {
	r := math.Sqrt(3) * math.Abs(xa-xb) / k.Scale
	return k.Amp * k.Amp * (1 + r) * math.Exp(-r)
}

func (k *Matern32) Hyper() []float64 { return []float64{k.Amp, k.Scale} }

func (k *Matern32) SetHyper(p []float64) { k.Amp, k.Scale = p[0], p[1] }

// ExpSquaredPeriodic is the exponential sine squared kernel,
//
//	k(Δ) = Amp² exp(-Gamma sin²(πΔ/Period)),
//
// strictly periodic in the input separation.  Multiplied with a
// SquaredExp of long scale it gives the quasi-periodic kernel used for
// stellar rotation signals.
type ExpSquaredPeriodic struct {
	Amp, Gamma, Period float64
}

func (k *ExpSquaredPeriodic) Eval(xa, xb float64) float64 {
	s := math.Sin(math.Pi * (xa - xb) / k.Period)
	return k.Amp * k.Amp * math.Exp(-k.Gamma*s*s)
}

func (k *ExpSquaredPeriodic) Hyper() []float64 {
	return []float64{k.Amp, k.Gamma, k.Period}
}

func (k *ExpSquaredPeriodic) SetHyper(p []float64) {
	k.Amp, k.Gamma, k.Period = p[0], p[1], p[2]
}

// Sum composes two kernels by addition.  Its hyperparameter slice is
// A's followed by B's.
type Sum struct{ A, B Kernel }

func (k Sum) Eval(xa, xb float64) float64 {
	return k.A.Eval(xa, xb) + k.B.Eval(xa, xb)
}

func (k Sum) Hyper() []float64 { return append(k.A.Hyper(), k.B.Hyper()...) }

func (k Sum) SetHyper(p []float64) {
	n := len(k.A.Hyper())
	k.A.SetHyper(p[:n])
	k.B.SetHyper(p[n:])
}

// Product composes two kernels by multiplication.  Its hyperparameter
// slice is A's followed by B's.
type Product struct{ A, B Kernel }

func (k Product) Eval(xa, xb float64) float64 {
	return k.A.Eval(xa, xb) * k.B.Eval(xa, xb)
}

func (k Product) Hyper() []float64 { return append(k.A.Hyper(), k.B.Hyper()...) }

func (k Product) SetHyper(p []float64) {
	n := len(k.A.Hyper())
	k.A.SetHyper(p[:n])
	k.B.SetHyper(p[n:])
}
