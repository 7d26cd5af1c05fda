// Public domain.

package labprog

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/exit"

	"github.com/adrn/AST542/internal/lab"
	"github.com/adrn/AST542/lightcurve"
)

const versionString = "ast542 version 0.4 Go source."
const copyrightString = "Public domain."

func Main() {
	defer exit.Handler()

	// these functions set up package vars and terminate on error
	cl := parseCommandLine()
	if cl.v {
		os.Exit(0)
	}
	cfg, repeatable, opt := readConfig(cl)
	solver := lab.New(cfg)

	if cl.dp != "" {
		if err := os.MkdirAll(cl.dp, 0755); err != nil {
			exit.Log(err)
		}
	}

	// remainder of main constructs and starts all the concurrent parts
	// of the program.

	// lcChIn supplies light curves by reading the input files.  It is fed
	// by splitter, running as a separate goroutine.  If splitter
	// encounters an error reading a file, it reports the error on errCh
	// and terminates immediately.
	lcChIn := make(chan *lightcurve.LightCurve)
	errCh := make(chan error)
	go splitter(cl.files, lcChIn, errCh)

	// prCh is used to keep fitted results in submission order.
	// it is a buffered channel so that a fast worker can drop off the
	// result without waiting for workers ahead of it.  the size of
	// the buffer must be at least maxWorkers, but otherwise isn't
	// critical.
	maxWorkers := runtime.GOMAXPROCS(0)
	prCh := make(chan chan *fitted, maxWorkers*2)
	lcChSeq := make(chan *fitSeq)

	// "dispatcher," dispatches curves to workers.
	// for each curve, attach a return channel that works like a ticket
	// for picking up the result of fitting the curve.  wait for an
	// available worker, send the curve to the worker and drop the
	// ticket in the queue for printing.
	go func() {
		for lc := range lcChIn { // for each curve to be fit
			rch := make(chan *fitted, 1) // create return channel
			lcChSeq <- &fitSeq{lc, rch}  // queue curve for fitting
			prCh <- rch                  // queue return channel for printing
		}
		close(prCh)
	}()

	// this function literal, run as a separate goroutine, starts the
	// worker goroutines (solve.)  they are not all started up front, but
	// only as the dispatcher calls for them.  after all, we may have
	// more cores than curves.  once it has started the maximum number of
	// workers, its work is done.
	go func() {
		for n := 0; n < maxWorkers; n++ {
			a, ok := <-lcChSeq
			if !ok {
				return
			}
			go solve(solver, a, lcChSeq, errCh, repeatable, &cfg, opt, cl.dp)
		}
	}()

	// column headings, delayed until now to avoid printing column
	// headings only to terminate with an error message if some
	// initialization fails.
	printHeadings(&cfg, opt)

	// everything is on its way.  just wait for results and print them
	// as they are available.  prCh is our channel of result channels in
	// the correct order.
	var results []*lab.Result
print:
	for {
		select {
		case err := <-errCh:
			exit.Log(err)
		// wait here for next result channel in processing order
		case rch, ok := <-prCh:
			if !ok {
				break print // normal end of input
			}
			select {
			case err := <-errCh:
				exit.Log(err)
			case r := <-rch: // wait here for fit result
				fmt.Println(r.line)
				if cl.dr != "" {
					results = append(results, r.res)
				}
			}
		}
	}
	if cl.dr != "" {
		if err := writeReport(cl.dr, results); err != nil {
			exit.Log(err)
		}
	}
}

type fitSeq struct {
	lc  *lightcurve.LightCurve
	rch chan *fitted
}

// fitted pairs the printable line for a target with the full result,
// which the report writer wants.
type fitted struct {
	line string
	res  *lab.Result
}

// splitter reads light curve files and feeds curves to the dispatcher.
// A file that cannot be read stops the run.  Curves with too few good
// points to fit are dropped without notification.
func splitter(files []string, lcCh chan *lightcurve.LightCurve, errCh chan error) {
	for _, path := range files {
		var lc *lightcurve.LightCurve
		var err error
		if path == "-" {
			lc, err = lightcurve.ReadCSV(os.Stdin, "stdin")
		} else {
			lc, err = lightcurve.Read(path)
		}
		if err != nil {
			errCh <- err
			break
		}
		sendValid(lc, lcCh)
	}
	close(lcCh)
}

// checks that a curve can be fit, and sends.
func sendValid(lc *lightcurve.LightCurve, lcCh chan *lightcurve.LightCurve) {
	if n := lc.Clean(); n > 0 {
		fmt.Fprintf(os.Stderr, "%s: %d bad points dropped\n", lc.Name, n)
	}
	if lc.Len() < 2 {
		return
	}
	lc.Sort()
	// the fits want strictly increasing times
	t0 := math.Inf(-1)
	for _, t := range lc.Time {
		if t <= t0 {
			return
		}
		t0 = t
	}
	lcCh <- lc
}

// worker process, fits light curves.
// the first curve to fit will be waiting in a.
// additional curves are requested by receiving on lcCh.
func solve(solver *lab.Solver,
	a *fitSeq, // first curve to fit
	lcCh chan *fitSeq, // channel for getting more curves
	errCh chan error,
	repeatable bool,
	cfg *lab.Config,
	opt *outputOptions,
	plotDir string) {
	seed := uint64(time.Now().UnixNano())
	rnd := rand.New(rand.NewPCG(seed, seed))
	// this is an infinite loop.  it just runs until the program shuts
	// down.
	for ; ; a = <-lcCh {
		if repeatable {
			rnd = rand.New(rand.NewPCG(3, 3))
		}

		res, err := solver.Solve(a.lc, rnd)
		if err != nil {
			errCh <- err
			continue
		}
		if plotDir != "" {
			if err := writePlot(plotDir, res); err != nil {
				errCh <- err
				continue
			}
		}

		// fit results sent on private result channel.
		a.rch <- &fitted{resultLine(res, cfg, opt), res} // buffered.  just drop off and continue
	}
}

// resultLine builds the output line for one fitted curve.
func resultLine(res *lab.Result, cfg *lab.Config, opt *outputOptions) string {
	if opt.points {
		return pointLines(res)
	}
	ol := fmt.Sprintf("%-12s %4d %6.1f %10.4g %9.3g",
		res.Name, res.N, res.Span, res.Mean, res.MeanErr)
	if opt.chi2 {
		if rs := fmt.Sprintf(" %5.2f", res.Chi2/float64(res.N-1)); len(rs) == 6 {
			ol += rs
		} else {
			ol += " **.**"
		}
	}
	if cfg.Jitter {
		if js := fmt.Sprintf(" %5.1f", res.JitterFrac*100); len(js) == 6 {
			ol += js
		} else {
			ol += " ***.*"
		}
		ol += fmt.Sprintf(" %10.4g %9.3g", res.MargMean, res.MargErr)
	}
	if cfg.Outliers {
		ol += fmt.Sprintf(" %3d %5.2f", len(res.Outliers), res.MixP[1])
	}
	if cfg.GP {
		ol += fmt.Sprintf(" %9.3g %9.3g", res.GPAmp, res.GPScale)
	}
	ol += fmt.Sprintf(" %-7s", res.Best)
	if opt.poss && cfg.Outliers {
		// borderline points, not strong enough for the flagged count
		for _, i := range res.Borderline {
			ol = fmt.Sprintf("%s (%d %.2f)", ol, i, res.OutlierP[i])
		}
	}
	return ol
}

// pointLines replaces the usual columns with one "name index
// probability" line per point, the format scored by mcc -t.
func pointLines(res *lab.Result) string {
	var b strings.Builder
	for i, p := range res.OutlierP {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %d %.3f", res.Name, i, p)
	}
	return b.String()
}

type commandLine struct {
	dc    string   // config file
	dp    string   // plot directory
	dr    string   // report file
	files []string // light curve files
	v     bool     // -v option
}

func parseCommandLine() *commandLine {
	var cl commandLine
	dh := flag.Bool("h", false, "")
	dv := flag.Bool("v", false, "")
	flag.StringVar(&cl.dc, "c", "", "")
	flag.StringVar(&cl.dp, "p", "", "")
	flag.StringVar(&cl.dr, "r", "", "")
	flag.Usage = func() {
		os.Stderr.WriteString(`
Usage: ast542 [options] <lcfile>...   fit light curves in files
       ast542 [options] -             fit a light curve from stdin
       ast542 -h                      display help and quick reference
       ast542 -v                      display version and copyright

Options:
       -c <config-file>
       -p <plot-directory>
       -r <report-file>
`)
	}
	flag.Parse()
	switch {
	case *dh:
		printHelp()
		os.Exit(0)
	case *dv:
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		cl.v = true
	case flag.NArg() == 0:
		flag.Usage()
		os.Exit(1)
	}
	cl.files = flag.Args()
	return &cl
}

type outputOptions struct {
	headings, chi2, poss, points bool
}

func readConfig(cl *commandLine) (cfg lab.Config, repeatable bool, opt *outputOptions) {
	// default configuration
	opt = new(outputOptions)
	opt.headings = true
	opt.chi2 = true
	opt.poss = true
	cfg.Jitter = true
	cfg.Outliers = true
	if cl.dc == "" {
		return
	}
	f, err := os.Open(cl.dc)
	if err != nil {
		exit.Log(err)
	}
	defer f.Close()

	rxSetting := regexp.MustCompile(`^[ \t]*(.*?)[ \t]*=[ \t]*(.+)$`)
	parseNum := func(s string) (float64, string) {
		ss := rxSetting.FindStringSubmatch(s)
		if len(ss) != 3 || ss[1] != "" {
			return 0, "Invalid format for setting."
		}
		v, err := strconv.ParseFloat(ss[2], 64)
		if err != nil {
			return 0, err.Error()
		}
		return v, ""
	}
	parseErrFloor := func(s string) (parseErr string) {
		ss := rxSetting.FindStringSubmatch(s)
		if len(ss) != 3 {
			return "Invalid format for errfloor."
		}
		fl, err := strconv.ParseFloat(ss[2], 64)
		if err != nil {
			return err.Error()
		}
		if fl < 0 || math.IsNaN(fl) || math.IsInf(fl, 1) {
			return "Error floor must be a non-negative number."
		}
		if ss[1] == "" {
			cfg.ErrFloorDefault = fl
			return ""
		}
		if cfg.ErrFloor == nil {
			cfg.ErrFloor = make(map[string]float64)
		}
		cfg.ErrFloor[ss[1]] = fl
		return ""
	}
	bad := func(errStr, line string) {
		exit.Log(fmt.Sprintf("%s\nConfig file line: %s", errStr, line))
	}

	for lr := bufio.NewReader(f); ; {
		l, isPre, err := lr.ReadLine()
		switch {
		case err == io.EOF:
			return
		case err != nil:
			exit.Log(err)
		case isPre:
			exit.Log("Unexpected long line in config file.")
		case len(l) == 0:
			continue
		case l[0] == '#':
			continue
		}
		ls := string(l)
		switch ls {
		case "headings":
			opt.headings = true
			continue
		case "noheadings":
			opt.headings = false
			continue
		case "chi2":
			opt.chi2 = true
			continue
		case "nochi2":
			opt.chi2 = false
			continue
		case "poss":
			opt.poss = true
			continue
		case "noposs":
			opt.poss = false
			continue
		case "points":
			opt.points = true
			continue
		case "nopoints":
			opt.points = false
			continue
		case "jitter":
			cfg.Jitter = true
			continue
		case "nojitter":
			cfg.Jitter = false
			continue
		case "outliers":
			cfg.Outliers = true
			continue
		case "nooutliers":
			cfg.Outliers = false
			continue
		case "gp":
			cfg.GP = true
			continue
		case "nogp":
			cfg.GP = false
			continue
		case "repeatable":
			repeatable = true
			continue
		case "random":
			repeatable = false
			continue
		}
		switch {
		case strings.HasPrefix(ls, "errfloor"):
			if errStr := parseErrFloor(ls[8:]); errStr > "" {
				bad(errStr, ls)
			}
		case strings.HasPrefix(ls, "walkers"):
			v, errStr := parseNum(ls[7:])
			if errStr == "" && (v < 2 || v != math.Trunc(v)) {
				errStr = "Walkers must be an integer, at least 2."
			}
			if errStr > "" {
				bad(errStr, ls)
			}
			cfg.Walkers = int(v)
		case strings.HasPrefix(ls, "steps"):
			v, errStr := parseNum(ls[5:])
			if errStr == "" && (v < 1 || v != math.Trunc(v)) {
				errStr = "Steps must be a positive integer."
			}
			if errStr > "" {
				bad(errStr, ls)
			}
			cfg.Steps = int(v)
		case strings.HasPrefix(ls, "pout"):
			v, errStr := parseNum(ls[4:])
			if errStr == "" && !(v > 0 && v <= 1) {
				errStr = "Pout must be in (0, 1]."
			}
			if errStr > "" {
				bad(errStr, ls)
			}
			cfg.PoutMax = v
		default:
			exit.Log("Unrecognized line in config file: " + ls)
		}
	}
}

func printHeadings(cfg *lab.Config, opt *outputOptions) {
	if !opt.headings {
		return
	}
	fmt.Println(versionString)
	fmt.Printf("%-12s %4s %6s %10s %9s", "Name", "Pts", "Days", "Mean", "+/-")
	if opt.chi2 {
		fmt.Printf(" %5s", "Chi2")
	}
	if cfg.Jitter {
		fmt.Printf(" %5s %10s %9s", "Jit%", "Marg", "+/-")
	}
	if cfg.Outliers {
		fmt.Printf(" %3s %5s", "Out", "Pout")
	}
	if cfg.GP {
		fmt.Printf(" %9s %9s", "GPamp", "GPscl")
	}
	fmt.Printf(" %-7s", "Best")
	if opt.poss && cfg.Outliers {
		fmt.Print(" Possibilities")
	}
	fmt.Println()
}

func printHelp() {
	fmt.Println(`
Ast542 fits simple statistical models to photometric light curves: a
constant flux, a constant with excess variance (jitter), an inlier and
outlier mixture, and a Gaussian process.  Input files are CSV or FITS
tables of time, flux, and flux error, one object per file.  Output is
one line of fitted quantities per object.

Config file keywords:
   headings
   noheadings
   chi2
   nochi2
   poss
   noposs
   points
   nopoints
   jitter
   nojitter
   outliers
   nooutliers
   gp
   nogp
   repeatable
   random
   walkers=<n>
   steps=<n>
   pout=<max outlier fraction>
   errfloor=<default floor>
   errfloor <band>=<floor>

For full documentation:
   godoc github.com/adrn/AST542`)
}
