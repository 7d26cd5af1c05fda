// Public domain.

package gp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// badObjective stands in for -Inf log likelihoods so the simplex always
// has finite values to order.
const badObjective = 1e300

// Optimize adjusts the kernel's hyperparameters to maximize the
// marginal log likelihood of y observed at t with errors yerr, and
// returns the maximized value.  The search runs over the logs of the
// hyperparameters with Nelder-Mead, so all hyperparameters must start
// positive.  The kernel is left set to the optimum.
func Optimize(k Kernel, t, y, yerr []float64) (float64, error) {
	h := k.Hyper()
	x0 := make([]float64, len(h))
	for i, v := range h {
		if v <= 0 || math.IsNaN(v) {
			return 0, fmt.Errorf("gp: hyperparameter %d = %g, must be positive", i, v)
		}
		x0[i] = math.Log(v)
	}
	p := make([]float64, len(h))
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			for i, v := range x {
				p[i] = math.Exp(v)
			}
			k.SetHyper(p)
			l := LogLikelihood(k, t, y, yerr)
			if math.IsInf(l, -1) {
				return badObjective
			}
			return -l
		},
	}
	res, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, err
	}
	if res.F >= badObjective {
		return 0, errors.New("gp: no positive definite kernel found")
	}
	for i, v := range res.X {
		p[i] = math.Exp(v)
	}
	k.SetHyper(p)
	return -res.F, nil
}
