// Public domain.

package sample

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Chain is the record of an ensemble run: one position and log
// probability per walker per step.
type Chain struct {
	Walkers, Dim int

	steps int
	pos   []float64 // steps * walkers * dim
	lnp   []float64 // steps * walkers

	accepted, proposed int
}

// Steps returns the number of recorded steps.
func (c *Chain) Steps() int { return c.steps }

// At returns the position of a walker at a step.  The slice aliases
// chain storage; callers must not modify it.
func (c *Chain) At(step, walker int) []float64 {
	i := (step*c.Walkers + walker) * c.Dim
	return c.pos[i : i+c.Dim]
}

// LogProbAt returns the log probability of a walker at a step.
func (c *Chain) LogProbAt(step, walker int) float64 {
	return c.lnp[step*c.Walkers+walker]
}

// AcceptFrac is the fraction of proposals accepted over the run.
// Healthy stretch-move runs sit somewhere around .2 to .5; values near
// 0 or 1 mean the posterior scale was badly matched.
func (c *Chain) AcceptFrac() float64 {
	if c.proposed == 0 {
		return 0
	}
	return float64(c.accepted) / float64(c.proposed)
}

// Flat flattens the chain across walkers, discarding the first discard
// steps as burn-in and then keeping every thin-th step.  thin < 1 reads
// as 1.  Rows alias chain storage.
func (c *Chain) Flat(discard, thin int) [][]float64 {
	if thin < 1 {
		thin = 1
	}
	var flat [][]float64
	for s := discard; s < c.steps; s += thin {
		for w := 0; w < c.Walkers; w++ {
			flat = append(flat, c.At(s, w))
		}
	}
	return flat
}

// Col extracts one parameter from the flattened chain.
func (c *Chain) Col(p, discard, thin int) []float64 {
	flat := c.Flat(discard, thin)
	col := make([]float64, len(flat))
	for i, row := range flat {
		col[i] = row[p]
	}
	return col
}

// MeanStd returns the posterior mean and standard deviation of one
// parameter after burn-in.
func (c *Chain) MeanStd(p, discard int) (mean, std float64) {
	return stat.MeanStdDev(c.Col(p, discard, 1), nil)
}

// Quantile returns the q quantile of one parameter after burn-in.
func (c *Chain) Quantile(p, discard int, q float64) float64 {
	col := c.Col(p, discard, 1)
	sort.Float64s(col)
	return stat.Quantile(q, stat.Empirical, col, nil)
}

// MAP returns the position with the highest recorded log probability,
// a cheap point estimate for reporting.  Nil on an empty chain.
func (c *Chain) MAP() []float64 {
	if len(c.lnp) == 0 {
		return nil
	}
	best := 0
	for i, l := range c.lnp {
		if l > c.lnp[best] {
			best = i
		}
	}
	return c.At(best/c.Walkers, best%c.Walkers)
}
