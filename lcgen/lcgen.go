/*
Command lcgen generates synthetic light curve files for use by the
program ast542.

The data sets used in the course labs are distributed separately, so
you do not need to run lcgen at all.  The program is provided so the
sets can be regenerated, and so classifier scoring with mcc has truth
to score against.

lcgen writes one CSV file per curve into an output directory, along
with a truth file, truth.txt, listing planted outliers as "name index"
pairs, the format read by mcc -t.

Curves cycle through kinds.  Most are constant flux with Gaussian noise
at the reported error.  Every fourth curve carries excess scatter
beyond the reported error, for the jitter lab, and every fourth carries
correlated variation drawn from a squared exponential Gaussian process,
for the GP lab.  A fraction of curves of every kind get one to three
planted outliers.

Usage

Usage:

   lcgen [options] [output directory]
   lcgen -v

The output directory defaults to the current directory.

   -frac=0.25: fraction of curves with planted outliers
   -n=20: number of curves
   -npy=: also write the fluxes as a NumPy matrix file
   -pts=60: points per curve
   -seed=0: generator seed, 0 seeds from the clock

By default the generator is seeded from the clock and each run yields a
different set.  Give -seed for a repeatable set.

All curves share a common time grid at unit cadence.  With -npy, the
fluxes are stacked one curve per row into an n by pts matrix and
written in NumPy .npy format, input for the PCA lab.

-------------
Public domain.
*/
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/soniakeys/exit"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/adrn/AST542/gp"
	"github.com/adrn/AST542/lightcurve"
	"github.com/adrn/AST542/pca"
)

const parentImport = "github.com/adrn/AST542"
const versionString = "lcgen version 0.1"
const copyrightString = "Public domain."

const truthFile = "truth.txt"

var bands = []string{"g", "r", "i"}

func main() {
	defer exit.Handler()
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage:
   lcgen [options] [output directory]
   lcgen -v
`)
		flag.PrintDefaults()
		os.Stderr.WriteString(`
For full documentation:
   go doc ` + parentImport + `/lcgen
`)
	}
	n := flag.Int("n", 20, "number of curves")
	pts := flag.Int("pts", 60, "points per curve")
	frac := flag.Float64("frac", .25, "fraction of curves with planted outliers")
	seed := flag.Uint64("seed", 0, "generator seed, 0 seeds from the clock")
	npy := flag.String("npy", "", "also write the fluxes as a NumPy matrix file")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	dir := "."
	switch flag.NArg() {
	case 0:
	case 1:
		dir = flag.Arg(0)
	default:
		flag.Usage()
		os.Exit(1)
	}
	if *n < 1 || *pts < 4 || *frac < 0 || *frac > 1 {
		flag.Usage()
		os.Exit(1)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		exit.Log(err)
	}
	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	rnd := rand.New(rand.NewPCG(s, s))

	// common time grid at unit cadence, so fluxes can stack into a
	// matrix.
	t := make([]float64, *pts)
	for j := range t {
		t[j] = float64(j)
	}

	var truth strings.Builder
	var fluxes *mat.Dense
	if *npy != "" {
		fluxes = mat.NewDense(*n, *pts, nil)
	}
	nOut, nContam := 0, 0
	for i := 0; i < *n; i++ {
		lc, planted := genCurve(fmt.Sprintf("lc%03d", i), i, t, *frac, rnd)
		for _, x := range planted {
			fmt.Fprintf(&truth, "%s %d\n", lc.Name, x)
		}
		nOut += len(planted)
		if len(planted) > 0 {
			nContam++
		}
		if fluxes != nil {
			fluxes.SetRow(i, lc.Flux)
		}
		if err := writeCurve(filepath.Join(dir, lc.Name+".csv"), lc); err != nil {
			exit.Log(err)
		}
	}
	err := os.WriteFile(filepath.Join(dir, truthFile), []byte(truth.String()), 0644)
	if err != nil {
		exit.Log(err)
	}
	if fluxes != nil {
		if err := pca.WriteMatrixNPY(*npy, fluxes); err != nil {
			exit.Log(err)
		}
	}
	fmt.Println(*n, "curves,", *pts, "points each")
	fmt.Println(nOut, "outliers planted in", nContam, "curves")
}

// genCurve synthesizes one curve on the grid t.  The kind of variation
// beyond the reported error cycles with i, and with probability frac
// the curve gets planted outliers, returned as sorted indexes.
func genCurve(name string, i int, t []float64, frac float64, rnd *rand.Rand) (*lightcurve.LightCurve, []int) {
	mean := distuv.Uniform{Min: 100, Max: 1000, Src: rnd}.Rand()
	e := mean * distuv.Uniform{Min: .01, Max: .03, Src: rnd}.Rand()
	noise := distuv.Normal{Mu: 0, Sigma: e, Src: rnd}
	lc := &lightcurve.LightCurve{
		Name:    name,
		Band:    bands[i%len(bands)],
		Time:    append([]float64{}, t...),
		Flux:    make([]float64, len(t)),
		FluxErr: make([]float64, len(t)),
	}
	for j := range lc.Flux {
		lc.Flux[j] = mean + noise.Rand()
		lc.FluxErr[j] = e
	}
	switch i % 4 {
	case 2: // excess scatter for the jitter lab
		extra := distuv.Normal{
			Mu:    0,
			Sigma: e * distuv.Uniform{Min: 1, Max: 3, Src: rnd}.Rand(),
			Src:   rnd,
		}
		for j := range lc.Flux {
			lc.Flux[j] += extra.Rand()
		}
	case 3: // correlated variation for the GP lab
		k := &gp.SquaredExp{Amp: 3 * e, Scale: float64(len(t)) / 8}
		y, err := gp.Sample(k, t, rnd)
		if err != nil {
			exit.Log(err)
		}
		for j := range lc.Flux {
			lc.Flux[j] += y[j]
		}
	}
	var planted []int
	if rnd.Float64() < frac {
		off := distuv.Uniform{Min: 5, Max: 10, Src: rnd}
		for _, j := range rnd.Perm(len(t))[:1+rnd.IntN(3)] {
			d := off.Rand() * e
			if rnd.IntN(2) == 0 {
				d = -d
			}
			lc.Flux[j] += d
			planted = append(planted, j)
		}
		sort.Ints(planted)
	}
	return lc, planted
}

func writeCurve(path string, lc *lightcurve.LightCurve) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := lightcurve.WriteCSV(f, lc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
