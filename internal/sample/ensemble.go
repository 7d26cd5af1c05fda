// Public domain.

// Package sample implements the affine-invariant ensemble sampler the
// course labs use to explore their posteriors: a set of walkers advanced
// by the stretch move, each proposal drawn through a randomly chosen
// partner from the complementary half of the ensemble.
//
// The sampler is deliberately sequential; runs are repeatable given a
// seeded generator, and parallelism belongs one level up where whole
// targets are dispatched to workers.
package sample

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// LogProb is a log posterior density up to a constant.  It must return
// -Inf, never NaN, for parameters with zero probability.
type LogProb func(p []float64) float64

// Ensemble is a set of walkers over a log probability.
type Ensemble struct {
	lnP LogProb
	rnd *rand.Rand
	dim int

	pos [][]float64 // current walker positions
	lnp []float64   // current walker log probabilities

	// stretch scale.  a=2 is the standard choice; larger values make
	// bolder proposals at the cost of acceptance.
	a float64
}

// NewEnsemble starts walkers at the given positions.
//
// The walker count must be even, and at least twice the parameter
// dimension so the complementary half spans parameter space.  Initial
// positions are evaluated up front: a NaN log probability anywhere, or
// -Inf at every walker, is an error since the ensemble could never move.
func NewEnsemble(lnP LogProb, start [][]float64, rnd *rand.Rand) (*Ensemble, error) {
	if len(start) == 0 {
		return nil, errors.New("sample: no walkers")
	}
	dim := len(start[0])
	if dim == 0 {
		return nil, errors.New("sample: zero-dimensional walkers")
	}
	if len(start)%2 != 0 || len(start) < 2*dim {
		return nil, fmt.Errorf(
			"sample: need an even number of walkers, at least %d for %d parameters, have %d",
			2*dim, dim, len(start))
	}
	e := &Ensemble{
		lnP: lnP,
		rnd: rnd,
		dim: dim,
		pos: make([][]float64, len(start)),
		lnp: make([]float64, len(start)),
		a:   2,
	}
	anyFinite := false
	for i, p := range start {
		if len(p) != dim {
			return nil, fmt.Errorf("sample: walker %d has %d parameters, want %d",
				i, len(p), dim)
		}
		e.pos[i] = append([]float64{}, p...)
		l := lnP(p)
		if math.IsNaN(l) {
			return nil, fmt.Errorf("sample: NaN log probability at initial position %d", i)
		}
		if !math.IsInf(l, -1) {
			anyFinite = true
		}
		e.lnp[i] = l
	}
	if !anyFinite {
		return nil, errors.New("sample: log probability is -Inf at every initial position")
	}
	return e, nil
}

// Ball spreads n walkers in a Gaussian ball around center, with the
// given per-parameter scale.
func Ball(center, scale []float64, n int, rnd *rand.Rand) [][]float64 {
	w := make([][]float64, n)
	for i := range w {
		p := make([]float64, len(center))
		for j, c := range center {
			p[j] = c + scale[j]*rnd.NormFloat64()
		}
		w[i] = p
	}
	return w
}

// Run advances the ensemble the given number of steps and returns the
// chain of visited positions.  The ensemble keeps its final state, so
// Run can be called again to extend a run.
func (e *Ensemble) Run(steps int) *Chain {
	c := &Chain{
		Walkers: len(e.pos),
		Dim:     e.dim,
		pos:     make([]float64, 0, steps*len(e.pos)*e.dim),
		lnp:     make([]float64, 0, steps*len(e.pos)),
	}
	half := len(e.pos) / 2
	for s := 0; s < steps; s++ {
		// red/black half updates: moves within a half batch are
		// independent because partners come from the other half.
		e.stretch(c, 0, half, half, len(e.pos))
		e.stretch(c, half, len(e.pos), 0, half)
		for _, p := range e.pos {
			c.pos = append(c.pos, p...)
		}
		c.lnp = append(c.lnp, e.lnp...)
		c.steps++
	}
	return c
}

// stretch applies the stretch move to walkers [lo,hi), drawing partners
// from [clo,chi).
//
// For walker X with partner Xj and z drawn from g(z) ∝ 1/√z on [1/a, a],
// the proposal is Y = Xj + z(X - Xj), accepted with probability
// min(1, z^(d-1) p(Y)/p(X)).  A walker at -Inf accepts any finite
// proposal and rejects any -Inf one; the ratio is never formed in that
// case so no NaN can leak in.
func (e *Ensemble) stretch(c *Chain, lo, hi, clo, chi int) {
	y := make([]float64, e.dim)
	for k := lo; k < hi; k++ {
		j := clo + e.rnd.IntN(chi-clo)
		xj := e.pos[j]
		xk := e.pos[k]
		u := e.rnd.Float64()
		zr := (e.a-1)*u + 1
		z := zr * zr / e.a
		for d := 0; d < e.dim; d++ {
			y[d] = xj[d] + z*(xk[d]-xj[d])
		}
		lnpNew := e.lnP(y)
		c.proposed++
		var ok bool
		switch {
		case math.IsInf(lnpNew, -1):
			ok = false
		case math.IsInf(e.lnp[k], -1):
			ok = true
		default:
			lnAccept := float64(e.dim-1)*math.Log(z) + lnpNew - e.lnp[k]
			ok = lnAccept >= 0 || math.Log(e.rnd.Float64()) < lnAccept
		}
		if ok {
			copy(e.pos[k], y)
			e.lnp[k] = lnpNew
			c.accepted++
		}
	}
}
