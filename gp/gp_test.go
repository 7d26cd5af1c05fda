// Public domain.

package gp_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/adrn/AST542/gp"
)

func ExampleSquaredExp() {
	k := &gp.SquaredExp{Amp: 2, Scale: 3}
	fmt.Printf("%.3f %.3f\n", k.Eval(0, 0), k.Eval(0, 3))
	// Output:
	// 4.000 2.426
}

func TestKernels(t *testing.T) {
	se := &gp.SquaredExp{Amp: 2, Scale: 1}
	if v := se.Eval(3, 3); v != 4 {
		t.Fatal("squared exp at zero lag:", v)
	}
	if v, want := se.Eval(0, 1), 4*math.Exp(-.5); math.Abs(v-want) > 1e-12 {
		t.Fatal("squared exp at unit lag:", v)
	}
	m := &gp.Matern32{Amp: 1, Scale: 2}
	if v := m.Eval(0, 0); v != 1 {
		t.Fatal("matern at zero lag:", v)
	}
	if !(m.Eval(0, 0) > m.Eval(0, 1) && m.Eval(0, 1) > m.Eval(0, 5)) {
		t.Fatal("matern not decreasing in lag")
	}
	if m.Eval(0, 1) != m.Eval(1, 0) {
		t.Fatal("matern not symmetric")
	}
	p := &gp.ExpSquaredPeriodic{Amp: 1, Gamma: 3, Period: 2.5}
	if v := p.Eval(.7, .7+2.5); math.Abs(v-p.Eval(.7, .7)) > 1e-12 {
		t.Fatal("periodic kernel not periodic:", v)
	}
	// half a period away the sine is 1
	if v, want := p.Eval(0, 1.25), math.Exp(-3.); math.Abs(v-want) > 1e-12 {
		t.Fatal("periodic kernel at half period:", v)
	}
}

func TestComposite(t *testing.T) {
	a := &gp.SquaredExp{Amp: 1, Scale: 1}
	b := &gp.Matern32{Amp: 2, Scale: 3}
	s := gp.Sum{A: a, B: b}
	if v, want := s.Eval(0, 1), a.Eval(0, 1)+b.Eval(0, 1); v != want {
		t.Fatal("sum eval", v, want)
	}
	pr := gp.Product{A: a, B: b}
	if v, want := pr.Eval(0, 1), a.Eval(0, 1)*b.Eval(0, 1); v != want {
		t.Fatal("product eval", v, want)
	}
	h := s.Hyper()
	if len(h) != 4 || h[0] != 1 || h[3] != 3 {
		t.Fatal("composite hyper slice:", h)
	}
	s.SetHyper([]float64{5, 6, 7, 8})
	if a.Amp != 5 || a.Scale != 6 || b.Amp != 7 || b.Scale != 8 {
		t.Fatal("composite set did not reach the children")
	}
}

func TestLogLikelihoodSinglePoint(t *testing.T) {
	k := &gp.SquaredExp{Amp: 1.5, Scale: 2}
	y0, e := .7, .3
	got := gp.LogLikelihood(k, []float64{0}, []float64{y0}, []float64{e})
	v := 1.5*1.5 + e*e
	want := -.5 * (y0*y0/v + math.Log(v) + math.Log(2*math.Pi))
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("single point: got %g, closed form %g", got, want)
	}
}

// widely separated points under a short kernel are independent, so the
// joint log likelihood is the sum of single-point ones
func TestLogLikelihoodIndependent(t *testing.T) {
	k := &gp.SquaredExp{Amp: 1, Scale: 1}
	tt := []float64{0, 1000}
	y := []float64{.5, -1.2}
	e := []float64{.2, .4}
	got := gp.LogLikelihood(k, tt, y, e)
	var want float64
	for i := range y {
		v := 1 + e[i]*e[i]
		want += -.5 * (y[i]*y[i]/v + math.Log(v) + math.Log(2*math.Pi))
	}
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("independent points: got %g, want %g", got, want)
	}
}

func TestNotPositiveDefinite(t *testing.T) {
	// duplicate inputs with zero observation error give a singular gram
	k := &gp.SquaredExp{Amp: 1, Scale: 1}
	tt := []float64{1, 1}
	y := []float64{0, 0}
	e := []float64{0, 0}
	if l := gp.LogLikelihood(k, tt, y, e); !math.IsInf(l, -1) {
		t.Fatal("singular gram should give -Inf, got", l)
	}
	if _, err := gp.Condition(k, tt, y, e); err == nil {
		t.Fatal("conditioning on a singular gram accepted")
	}
}

func TestConditionErrors(t *testing.T) {
	k := &gp.SquaredExp{Amp: 1, Scale: 1}
	if _, err := gp.Condition(k, nil, nil, nil); err == nil {
		t.Error("empty data accepted")
	}
	if _, err := gp.Condition(k, []float64{1, 2}, []float64{1}, []float64{1, 1}); err == nil {
		t.Error("length mismatch accepted")
	}
}

func TestPredict(t *testing.T) {
	k := &gp.SquaredExp{Amp: 1, Scale: 1}
	tt := []float64{0, 1, 2}
	y := []float64{.5, -.2, .8}
	e := []float64{1e-6, 1e-6, 1e-6}
	g, err := gp.Condition(k, tt, y, e)
	if err != nil {
		t.Fatal(err)
	}
	mean, std := g.Predict([]float64{1, 100})
	// at an observed input with tiny error the posterior pins to the datum
	if math.Abs(mean[0]+.2) > 1e-3 {
		t.Fatal("posterior mean at observed input:", mean[0])
	}
	if std[0] > 1e-2 {
		t.Fatal("posterior sigma at observed input:", std[0])
	}
	// far from the data the prior takes over
	if math.Abs(mean[1]) > 1e-6 {
		t.Fatal("posterior mean far from data:", mean[1])
	}
	if math.Abs(std[1]-1) > 1e-6 {
		t.Fatal("posterior sigma far from data:", std[1])
	}
	if g.LogLikelihood() != gp.LogLikelihood(k, tt, y, e) {
		t.Fatal("conditioned log likelihood disagrees with the standalone one")
	}
}

func TestSample(t *testing.T) {
	// spacing far beyond the kernel scale makes the draws independent
	k := &gp.SquaredExp{Amp: 1, Scale: .1}
	tt := make([]float64, 200)
	for i := range tt {
		tt[i] = float64(i)
	}
	draw := func() []float64 {
		rnd := rand.New(rand.NewPCG(5, 5))
		y, err := gp.Sample(k, tt, rnd)
		if err != nil {
			t.Fatal(err)
		}
		return y
	}
	y := draw()
	if len(y) != 200 {
		t.Fatal("draw length", len(y))
	}
	var sum, sum2 float64
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatal("non-finite draw")
		}
		sum += v
		sum2 += v * v
	}
	mean := sum / 200
	variance := sum2/200 - mean*mean
	if variance < .5 || variance > 1.7 {
		t.Fatal("draw variance", variance, "for a unit amplitude kernel")
	}
	y2 := draw()
	for i := range y {
		if y[i] != y2[i] {
			t.Fatal("same seed, different draws")
		}
	}
}

func TestOptimize(t *testing.T) {
	tt := make([]float64, 20)
	y := make([]float64, 20)
	e := make([]float64, 20)
	for i := range tt {
		tt[i] = .5 * float64(i)
		y[i] = math.Sin(tt[i])
		e[i] = .2
	}
	k := &gp.SquaredExp{Amp: 1, Scale: 1}
	before := gp.LogLikelihood(k, tt, y, e)
	got, err := gp.Optimize(k, tt, y, e)
	if err != nil {
		t.Fatal(err)
	}
	if got < before-1e-9 {
		t.Fatalf("optimization went backwards: %g to %g", before, got)
	}
	if k.Amp <= 0 || k.Scale <= 0 {
		t.Fatal("optimum left non-positive hyperparameters:", k.Amp, k.Scale)
	}
	// the kernel is left set to the optimum
	if after := gp.LogLikelihood(k, tt, y, e); math.Abs(after-got) > 1e-9 {
		t.Fatalf("kernel not left at the optimum: %g vs %g", after, got)
	}
	if _, err := gp.Optimize(&gp.SquaredExp{Amp: 0, Scale: 1}, tt, y, e); err == nil {
		t.Error("zero starting amplitude accepted")
	}
}
