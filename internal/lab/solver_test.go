// Public domain.

package lab_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adrn/AST542/internal/lab"
	"github.com/adrn/AST542/lightcurve"
)

// clamp keeps synthetic noise inside 2.5 sigma so tests can bound
// statistics without reference to any particular random stream.
func clamp(z float64) float64 {
	if z > 2.5 {
		return 2.5
	}
	if z < -2.5 {
		return -2.5
	}
	return z
}

// constCurve builds n points of constant flux 100 with reported error 2
// and matching scatter.
func constCurve(name string, n int, rng *rand.Rand) *lightcurve.LightCurve {
	lc := &lightcurve.LightCurve{Name: name, Band: "r"}
	for i := 0; i < n; i++ {
		lc.Time = append(lc.Time, float64(i))
		lc.Flux = append(lc.Flux, 100+2*clamp(rng.NormFloat64()))
		lc.FluxErr = append(lc.FluxErr, 2)
	}
	return lc
}

func TestSolveConstant(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	lc := constCurve("c1", 60, rng)
	res, err := lab.New(lab.Config{}).Solve(lc, rng)
	if err != nil {
		t.Fatal(err)
	}
	if res.N != 60 || res.Dropped != 0 {
		t.Fatalf("n = %d dropped = %d, want 60 and 0", res.N, res.Dropped)
	}
	if math.Abs(res.Mean-100) > 1.2 {
		t.Errorf("mean = %g, want near 100", res.Mean)
	}
	want := 2 / math.Sqrt(60)
	if math.Abs(res.MeanErr-want) > 1e-12 {
		t.Errorf("mean err = %g, want %g", res.MeanErr, want)
	}
	if res.Chi2 < 25 || res.Chi2 > 105 {
		t.Errorf("chi2 = %g, want near 60", res.Chi2)
	}
	if len(res.Models) != 1 || res.Models[0].Name != "const" || res.Models[0].K != 1 {
		t.Fatalf("models = %+v, want single const entry", res.Models)
	}
	if res.Best != "const" {
		t.Errorf("best = %s, want const", res.Best)
	}
	if res.Span != 59 {
		t.Errorf("span = %g, want 59", res.Span)
	}
}

func TestSolveJitter(t *testing.T) {
	// scatter well beyond the reported errors
	rng := rand.New(rand.NewPCG(3, 4))
	lc := &lightcurve.LightCurve{Name: "j1", Band: "r"}
	for i := 0; i < 80; i++ {
		lc.Time = append(lc.Time, float64(i))
		lc.Flux = append(lc.Flux, 100+6*clamp(rng.NormFloat64()))
		lc.FluxErr = append(lc.FluxErr, 2)
	}
	res, err := lab.New(lab.Config{Jitter: true}).Solve(lc, rng)
	if err != nil {
		t.Fatal(err)
	}
	if res.JitterVar < 12 || res.JitterVar > 75 {
		t.Errorf("jitter var = %g, want near 36", res.JitterVar)
	}
	if math.Abs(res.JitterSig*res.JitterSig-res.JitterVar) > 1e-9 {
		t.Errorf("jitter sig = %g inconsistent with var %g", res.JitterSig, res.JitterVar)
	}
	if res.JitterFrac < .025 || res.JitterFrac > .1 {
		t.Errorf("jitter frac = %g, want near .06", res.JitterFrac)
	}
	if math.Abs(res.MargMean-100) > 3 {
		t.Errorf("marginal mean = %g, want near 100", res.MargMean)
	}
	if res.MargErr < .3 || res.MargErr > 1.5 {
		t.Errorf("marginal err = %g, want near .7", res.MargErr)
	}
	if len(res.Models) != 2 || res.Models[1].Name != "jitter" || res.Models[1].K != 2 {
		t.Fatalf("models = %+v, want const then jitter", res.Models)
	}
	if res.Models[1].LnL < res.Models[0].LnL+50 {
		t.Errorf("jitter lnL = %g const lnL = %g, want jitter far better",
			res.Models[1].LnL, res.Models[0].LnL)
	}
	if res.Best != "jitter" {
		t.Errorf("best = %s, want jitter", res.Best)
	}
}

func TestSolveOutliers(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	lc := constCurve("o1", 60, rng)
	// plant three gross outliers
	planted := []int{7, 30, 52}
	lc.Flux[7] += 25
	lc.Flux[30] -= 30
	lc.Flux[52] += 40
	res, err := lab.New(lab.Config{Outliers: true}).Solve(lc, rng)
	if err != nil {
		t.Fatal(err)
	}
	if res.AcceptFrac < .05 || res.AcceptFrac > .95 {
		t.Errorf("accept fraction = %g", res.AcceptFrac)
	}
	if len(res.Outliers) != len(planted) {
		t.Fatalf("outliers = %v, want %v", res.Outliers, planted)
	}
	for i, x := range planted {
		if res.Outliers[i] != x {
			t.Fatalf("outliers = %v, want %v", res.Outliers, planted)
		}
		if p := res.OutlierP[x]; p < .9 {
			t.Errorf("point %d outlier probability = %g, want > .9", x, p)
		}
	}
	if len(res.MixP) != 4 {
		t.Fatalf("mixture params = %v, want 4", res.MixP)
	}
	if pb := res.MixP[1]; pb <= 0 || pb > .35 {
		t.Errorf("outlier fraction = %g, want near 3/60", pb)
	}
	if math.Abs(res.MixP[0]-100) > 2 {
		t.Errorf("mixture mean = %g, want near 100", res.MixP[0])
	}
	if len(res.Models) != 2 || res.Models[1].Name != "mixture" || res.Models[1].K != 4 {
		t.Fatalf("models = %+v, want const then mixture", res.Models)
	}
	if res.Models[1].LnL < res.Models[0].LnL+100 {
		t.Errorf("mixture lnL = %g const lnL = %g, want mixture far better",
			res.Models[1].LnL, res.Models[0].LnL)
	}
	if res.Best != "mixture" {
		t.Errorf("best = %s, want mixture", res.Best)
	}
}

func TestSolveRepeatable(t *testing.T) {
	run := func() *lab.Result {
		rng := rand.New(rand.NewPCG(5, 6))
		lc := constCurve("o1", 60, rng)
		lc.Flux[7] += 25
		lc.Flux[30] -= 30
		lc.Flux[52] += 40
		res, err := lab.New(lab.Config{Outliers: true}).Solve(lc, rng)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	a, b := run(), run()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatal("identical runs differ:\n" + diff)
	}
}

func TestSolveGP(t *testing.T) {
	// a smooth signal far above the reported errors
	lc := &lightcurve.LightCurve{Name: "g1", Band: "g"}
	for i := 0; i < 81; i++ {
		x := float64(i) * .5
		lc.Time = append(lc.Time, x)
		lc.Flux = append(lc.Flux, 100+5*math.Sin(2*math.Pi*x/10))
		lc.FluxErr = append(lc.FluxErr, .3)
	}
	rng := rand.New(rand.NewPCG(7, 8))
	res, err := lab.New(lab.Config{GP: true}).Solve(lc, rng)
	if err != nil {
		t.Fatal(err)
	}
	if res.Kernel == nil {
		t.Fatal("no kernel on GP result")
	}
	if res.GPAmp <= 0 || res.GPScale <= 0 {
		t.Errorf("amp = %g scale = %g, want positive", res.GPAmp, res.GPScale)
	}
	if len(res.Models) != 2 || res.Models[1].Name != "gp" || res.Models[1].K != 3 {
		t.Fatalf("models = %+v, want const then gp", res.Models)
	}
	if res.Models[1].LnL < res.Models[0].LnL+100 {
		t.Errorf("gp lnL = %g const lnL = %g, want gp far better",
			res.Models[1].LnL, res.Models[0].LnL)
	}
	if res.Best != "gp" {
		t.Errorf("best = %s, want gp", res.Best)
	}
}

func TestSolveErrFloor(t *testing.T) {
	cfg := lab.Config{
		ErrFloor:        map[string]float64{"g": 3},
		ErrFloorDefault: 1,
	}
	rng := rand.New(rand.NewPCG(9, 10))
	lc := &lightcurve.LightCurve{
		Name:    "f1",
		Band:    "g",
		Time:    []float64{0, 1, 2},
		Flux:    []float64{10, 11, 9},
		FluxErr: []float64{.5, 2, 5},
	}
	if _, err := lab.New(cfg).Solve(lc, rng); err != nil {
		t.Fatal(err)
	}
	want := []float64{3, 3, 5}
	for i, e := range lc.FluxErr {
		if e != want[i] {
			t.Fatalf("band g floored errors = %v, want %v", lc.FluxErr, want)
		}
	}
	lc = &lightcurve.LightCurve{
		Name:    "f2",
		Band:    "r",
		Time:    []float64{0, 1, 2},
		Flux:    []float64{10, 11, 9},
		FluxErr: []float64{.5, 2, 5},
	}
	if _, err := lab.New(cfg).Solve(lc, rng); err != nil {
		t.Fatal(err)
	}
	want = []float64{1, 2, 5}
	for i, e := range lc.FluxErr {
		if e != want[i] {
			t.Fatalf("band r floored errors = %v, want %v", lc.FluxErr, want)
		}
	}
}

func TestSolveClean(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	lc := constCurve("d1", 10, rng)
	lc.Flux[4] = math.NaN()
	res, err := lab.New(lab.Config{}).Solve(lc, rng)
	if err != nil {
		t.Fatal(err)
	}
	if res.Dropped != 1 || res.N != 9 {
		t.Errorf("dropped = %d n = %d, want 1 and 9", res.Dropped, res.N)
	}
}

func TestSolveTooFew(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	lc := &lightcurve.LightCurve{
		Name:    "t1",
		Time:    []float64{0, 1},
		Flux:    []float64{10, math.Inf(1)},
		FluxErr: []float64{1, 1},
	}
	if _, err := lab.New(lab.Config{}).Solve(lc, rng); err == nil {
		t.Fatal("expected an error for a curve with one good point")
	}
}
