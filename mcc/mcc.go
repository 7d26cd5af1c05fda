package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
)

const parentImport = "github.com/adrn/AST542"
const versionString = "mcc version 0.2"
const copyrightString = "Public domain."

var col int
var ignored int

type counts struct {
	tp, fn, fp, tn int
}

func main() {
	// parse command line
	var truthFn string
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage: mcc [options] <in-class> <out-of-class> [threshold]
       mcc -t <truth-file> <listing> [threshold]
`)
		flag.PrintDefaults()
		os.Stderr.WriteString(`
For full documentation:
   go doc ` + parentImport + `/mcc
`)
	}
	flag.IntVar(&col, "c", 6, "column containing outlier probability")
	flag.StringVar(&truthFn, "t", "", "truth file of planted outliers")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	wantArgs := 2
	if truthFn > "" {
		wantArgs = 1
	}
	if n := flag.NArg(); n < wantArgs || n > wantArgs+1 {
		flag.Usage()
		os.Exit(1)
	}
	// parse threshold
	threshold := .5
	thresholdPrec := 1
	if flag.NArg() == wantArgs+1 {
		tStr := flag.Arg(wantArgs)
		var err error
		threshold, err = strconv.ParseFloat(tStr, 64)
		if err != nil {
			log.Fatalln("Bad threshold:", err)
		}
		thresholdPrec = 0
		if p := strings.Index(tStr, "."); p >= 0 {
			thresholdPrec = len(tStr) - p - 1
		}
	}
	var c counts
	if truthFn > "" {
		var err error
		c, err = truthCounts(truthFn, flag.Arg(0), threshold)
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Println("\nTruth file:        ", truthFn)
		fmt.Println("Listing file:      ", flag.Arg(0))
	} else {
		// read in-class file (arg 1)
		var err error
		c.tp, c.fn, err = aboveThreshold(flag.Arg(0), threshold)
		if err != nil {
			log.Fatalln("in-class file:", err)
		}
		// read out-of-class file (arg 2)
		c.fp, c.tn, err = aboveThreshold(flag.Arg(1), threshold)
		if err != nil {
			log.Fatalln("out-of-class file:", err)
		}
		fmt.Println("\nIn-class file:     ", flag.Arg(0))
		fmt.Println("Out-of-class file: ", flag.Arg(1))
	}
	report(os.Stdout, c, threshold, thresholdPrec)
}

// report prints the confusion matrix and the Matthews correlation
// coefficient it implies.
func report(w io.Writer, c counts, threshold float64, prec int) {
	tpf := float64(c.tp)
	fnf := float64(c.fn)
	fpf := float64(c.fp)
	tnf := float64(c.tn)
	mcc := 0.
	if d := (tpf + fpf) * (tpf + fnf) * (tnf + fpf) * (tnf + fnf); d > 0 {
		mcc = (tpf*tnf - fpf*fnf) / math.Sqrt(d)
	}
	fmt.Fprintln(w, "Total points:      ", c.tp+c.fn+c.fp+c.tn)
	if ignored != 0 {
		fmt.Fprintln(w, "Lines ignored:     ", ignored)
	}
	fmt.Fprintf(w, "Threshold:          %.*f\n", prec, threshold)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "                       ast542 prediction")
	fmt.Fprintln(w, "                    -----------------------")
	fmt.Fprintln(w, "                      outlier        inlier")
	fmt.Fprintf(w, "Actual outlier        %7d       %7d\n", c.tp, c.fn)
	fmt.Fprintf(w, "Actual inlier         %7d       %7d\n", c.fp, c.tn)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Matthews correlation coefficient: %.2f\n", mcc)
}

// aboveThreshold counts probabilities at or above the threshold, and
// below it.  Lines without a parseable number in the probability column
// are ignored, but counted.
func aboveThreshold(fn string, threshold float64) (ge, lt int, err error) {
	var b []byte
	b, err = os.ReadFile(fn)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(b), "\n") {
		f := strings.Fields(line)
		if len(f) <= col {
			ignored++
			continue
		}
		p, err := strconv.ParseFloat(f[col], 64)
		if err != nil {
			ignored++
			continue
		}
		if p >= threshold {
			ge++
		} else {
			lt++
		}
	}
	return
}

// truthCounts tallies a listing of "name index probability" lines
// against a truth file of "name index" planted outliers.  Planted
// outliers the listing never scores count as missed.
func truthCounts(truthFn, listFn string, threshold float64) (c counts, err error) {
	b, err := os.ReadFile(truthFn)
	if err != nil {
		return
	}
	truth := map[string]bool{}
	for _, line := range strings.Split(string(b), "\n") {
		f := strings.Fields(line)
		if len(f) < 2 {
			ignored++
			continue
		}
		if _, err := strconv.Atoi(f[1]); err != nil {
			ignored++
			continue
		}
		truth[f[0]+" "+f[1]] = true
	}
	if b, err = os.ReadFile(listFn); err != nil {
		return
	}
	for _, line := range strings.Split(string(b), "\n") {
		f := strings.Fields(line)
		if len(f) < 3 {
			ignored++
			continue
		}
		if _, err := strconv.Atoi(f[1]); err != nil {
			ignored++
			continue
		}
		p, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			ignored++
			continue
		}
		key := f[0] + " " + f[1]
		pred := p >= threshold
		act := truth[key]
		delete(truth, key)
		switch {
		case act && pred:
			c.tp++
		case act:
			c.fn++
		case pred:
			c.fp++
		default:
			c.tn++
		}
	}
	c.fn += len(truth)
	return
}
