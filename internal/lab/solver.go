// Public domain.

// Package lab implements the light-curve fitting pipeline behind the
// AST542 command: the constant-flux fit, the jitter fit with its
// marginalized mean, the inlier/outlier mixture, and the Gaussian
// process fit, with the bookkeeping needed to score and compare them.
package lab

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/adrn/AST542/gp"
	"github.com/adrn/AST542/internal/model"
	"github.com/adrn/AST542/internal/sample"
	"github.com/adrn/AST542/lightcurve"
)

// some parameters for the fits
const (
	defaultWalkers = 40
	defaultSteps   = 1000
	defaultPoutMax = .5
	outlierP       = .5 // flag a point above this posterior probability
	borderlineP    = .2 // mention a point above this one
)

// Config selects which models to fit and how hard to work at them.
type Config struct {
	// ensemble size and length for the mixture fit.  Zero values read
	// as 40 walkers and 1000 steps; the first quarter of a run is
	// discarded as burn-in.
	Walkers, Steps int

	Jitter   bool // fit the latent-variance model
	Outliers bool // fit the inlier/outlier mixture
	GP       bool // fit a squared exponential Gaussian process

	// PoutMax caps the mixture's outlier fraction.  Zero reads as .5.
	PoutMax float64

	// per-band flux error floors, and the floor for bands not listed
	ErrFloor        map[string]float64
	ErrFloorDefault float64
}

// Solver fits the configured models to light curves.  A Solver is
// read-only once built and may be shared by concurrent workers.
type Solver struct {
	cfg Config
}

// New creates a Solver, applying Config defaults.
func New(cfg Config) *Solver {
	if cfg.Walkers <= 0 {
		cfg.Walkers = defaultWalkers
	}
	if cfg.Walkers < 8 {
		// four mixture parameters need at least eight walkers
		cfg.Walkers = 8
	}
	if cfg.Walkers%2 != 0 {
		cfg.Walkers++
	}
	if cfg.Steps <= 0 {
		cfg.Steps = defaultSteps
	}
	if cfg.PoutMax <= 0 || cfg.PoutMax > 1 {
		cfg.PoutMax = defaultPoutMax
	}
	return &Solver{cfg}
}

// ModelFit is one fitted model's entry in the comparison table.
type ModelFit struct {
	Name     string
	K        int // parameter count, shared mean included
	LnL      float64
	AIC, BIC float64
}

// Result collects everything Solve computes for one light curve.
type Result struct {
	Name    string
	N       int // points surviving Clean
	Dropped int // points Clean removed
	Span    float64

	// constant fit
	Mean, MeanErr float64
	Chi2          float64

	// jitter fit
	JitterVar         float64 // maximum likelihood latent variance
	JitterSig         float64 // sqrt of the above, flux units
	JitterFrac        float64 // JitterSig over the mean flux
	MargMean, MargErr float64 // mean flux marginalized over lnV

	// mixture fit
	MixP       []float64 // highest-posterior [mu, Pb, Yb, lnVb]
	OutlierP   []float64 // per-point posterior outlier probability
	Outliers   []int     // points above outlierP
	Borderline []int     // points between borderlineP and outlierP
	AcceptFrac float64

	// Gaussian process fit
	Kernel         gp.Kernel // nil unless the GP model ran
	GPAmp, GPScale float64

	// model comparison, in fitting order; Best has the lowest AIC
	Models []ModelFit
	Best   string

	// the light curve as fitted: cleaned, floored, sorted
	LC *lightcurve.LightCurve
}

// Solve fits the configured models to one light curve.
//
// The curve is modified in place: bad points dropped, error floors
// applied, points sorted by time.  rnd drives the mixture sampler; for
// repeatable output reseed it per target.
func (s *Solver) Solve(lc *lightcurve.LightCurve, rnd *rand.Rand) (*Result, error) {
	r := s.newRun(lc, rnd) // create workspace
	if err := r.prep(); err != nil {
		return nil, err
	}
	if err := r.score(); err != nil {
		return nil, err
	}
	return r.res, nil
}

// workspace for fitting one light curve
type fitrun struct {
	solver *Solver
	lc     *lightcurve.LightCurve
	rnd    *rand.Rand
	res    *Result

	f, e []float64 // cleaned columns, aliases into lc

	mu0, se0 float64 // weighted mean and standard error
	sd       float64 // unweighted flux scatter
}

func (s *Solver) newRun(lc *lightcurve.LightCurve, rnd *rand.Rand) *fitrun {
	return &fitrun{
		solver: s,
		lc:     lc,
		rnd:    rnd,
		res:    &Result{Name: lc.Name, LC: lc},
	}
}

// prep cleans and validates the curve and computes the quantities every
// model shares.
func (r *fitrun) prep() error {
	lc := r.lc
	r.res.Dropped = lc.Clean()
	for i, e := range lc.FluxErr {
		lc.FluxErr[i] = r.solver.errFloor(lc.Band, e)
	}
	lc.Sort()
	if err := lc.Validate(); err != nil {
		return err
	}
	r.f, r.e = lc.Flux, lc.FluxErr
	r.res.N = lc.Len()
	r.res.Span = lc.Span()
	r.mu0, r.se0 = lc.WeightedMean()
	r.sd = stat.StdDev(r.f, nil)
	if r.sd <= 0 || math.IsNaN(r.sd) {
		r.sd = r.se0
	}
	return nil
}

// score runs the configured fits in order and settles the comparison
// table.
func (r *fitrun) score() error {
	r.constant()
	cfg := &r.solver.cfg
	if cfg.Jitter {
		r.jitter()
	}
	if cfg.Outliers {
		if err := r.mixture(); err != nil {
			return fmt.Errorf("%s: %w", r.lc.Name, err)
		}
	}
	if cfg.GP {
		if err := r.gaussproc(); err != nil {
			return fmt.Errorf("%s: %w", r.lc.Name, err)
		}
	}
	best := 0
	for i, m := range r.res.Models {
		if m.AIC < r.res.Models[best].AIC {
			best = i
		}
	}
	r.res.Best = r.res.Models[best].Name
	return nil
}

func (r *fitrun) addModel(name string, k int, lnL float64) {
	r.res.Models = append(r.res.Models, ModelFit{
		Name: name,
		K:    k,
		LnL:  lnL,
		AIC:  model.AIC(lnL, k),
		BIC:  model.BIC(lnL, k, r.res.N),
	})
}

func (r *fitrun) constant() {
	r.res.Mean, r.res.MeanErr = r.mu0, r.se0
	r.res.Chi2 = r.lc.ChiSquared(r.mu0)
	r.addModel("const", 1, model.ConstantLogL(r.f, r.e, r.mu0))
}

// jitter maximizes the latent-variance likelihood and then marginalizes
// the mean flux over lnV on a grid around the maximum.
func (r *fitrun) jitter() {
	// start lnV at the variance excess over the measurement errors,
	// or at the smallest measurement variance when there is none
	var meanVar float64
	for _, e := range r.e {
		meanVar += e * e
	}
	meanVar /= float64(len(r.e))
	v0 := r.sd*r.sd - meanVar
	if v0 <= 0 {
		m := floats.Min(r.e)
		v0 = m * m
	}
	p := optimize.Problem{
		Func: func(x []float64) float64 {
			return -model.JitterLogL(r.f, r.e, x)
		},
	}
	x0 := []float64{r.mu0, math.Log(v0)}
	opt, err := optimize.Minimize(p, x0, nil, &optimize.NelderMead{})
	lnV := x0[1]
	lnL := model.JitterLogL(r.f, r.e, x0)
	if err == nil && -opt.F >= lnL {
		lnV = opt.X[1]
		lnL = -opt.F
	}
	res := r.res
	res.JitterVar = math.Exp(lnV)
	res.JitterSig = math.Sqrt(res.JitterVar)
	res.JitterFrac = res.JitterSig / math.Abs(r.mu0)
	r.addModel("jitter", 2, lnL)

	// marginal posterior of the mean on a grid spanning several times
	// the widest plausible posterior width
	w := r.se0
	if sem := r.sd / math.Sqrt(float64(len(r.f))); sem > w {
		w = sem
	}
	prior := model.JitterPrior(r.f, r.e)
	muGrid := model.Grid(r.mu0-8*w, r.mu0+8*w, 161)
	lnVGrid := model.Grid(lnV-12, lnV+6, 121)
	dens := model.MarginalMean(r.f, r.e, prior, muGrid, lnVGrid)
	res.MargMean, res.MargErr = model.PosteriorMeanStd(muGrid, dens)
}

// mixture samples the four-parameter inlier/outlier posterior and reads
// outlier probabilities off the highest-posterior parameters.
func (r *fitrun) mixture() error {
	cfg := &r.solver.cfg
	prior := model.MixturePrior(r.f, r.e, cfg.PoutMax)
	post := prior.LogPost(func(p []float64) float64 {
		return model.MixtureLogL(r.f, r.e, p)
	})
	pb0 := .1
	if m := cfg.PoutMax / 2; m < pb0 {
		pb0 = m
	}
	center := []float64{r.mu0, pb0, r.mu0, math.Log(r.sd*r.sd) + 2}
	scale := []float64{r.se0, pb0 / 4, r.sd, .5}
	ens, err := sample.NewEnsemble(post, sample.Ball(center, scale, cfg.Walkers, r.rnd), r.rnd)
	if err != nil {
		return err
	}
	chain := ens.Run(cfg.Steps)
	res := r.res
	res.AcceptFrac = chain.AcceptFrac()
	res.MixP = append([]float64{}, chain.MAP()...)
	res.OutlierP = model.OutlierProb(r.f, r.e, res.MixP)
	for i, p := range res.OutlierP {
		switch {
		case p > outlierP:
			res.Outliers = append(res.Outliers, i)
		case p > borderlineP:
			res.Borderline = append(res.Borderline, i)
		}
	}
	r.addModel("mixture", 4, model.MixtureLogL(r.f, r.e, res.MixP))
	return nil
}

// gaussproc fits a squared exponential process to the flux about the
// weighted mean, optimizing amplitude and time scale.
func (r *fitrun) gaussproc() error {
	y := make([]float64, len(r.f))
	for i, f := range r.f {
		y[i] = f - r.mu0
	}
	amp := r.sd
	if m := floats.Min(r.e); amp < m {
		amp = m
	}
	k := &gp.SquaredExp{Amp: amp, Scale: r.res.Span / 10}
	lnL, err := gp.Optimize(k, r.lc.Time, y, r.e)
	if err != nil {
		return err
	}
	res := r.res
	res.Kernel = k
	res.GPAmp, res.GPScale = k.Amp, k.Scale
	// mean, amplitude, scale
	r.addModel("gp", 3, lnL)
	return nil
}
