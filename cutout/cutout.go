package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/soniakeys/coord"
	sexa "github.com/soniakeys/sexagesimal"

	"github.com/adrn/AST542/sdss"
)

const parentImport = "github.com/adrn/AST542"
const versionString = "cutout version 0.2"
const copyrightString = "Public domain."

func main() {
	var o sdss.Options
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage: cutout [options] <ra> <dec> <outfile>

Coordinates are J2000, as decimal degrees or sexagesimal hh:mm:ss and
±dd:mm:ss.
`)
		flag.PrintDefaults()
		os.Stderr.WriteString(`
For full documentation:
   go doc ` + parentImport + `/cutout
`)
	}
	flag.Float64Var(&o.Scale, "scale", .4, "arcsec per pixel")
	flag.IntVar(&o.Width, "width", 512, "image width in pixels")
	flag.IntVar(&o.Height, "height", 512, "image height in pixels")
	flag.StringVar(&o.Opt, "opt", "", "SkyServer drawing options, eg G grid, L label")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}
	ra, err := sdss.ParseRA(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}
	dec, err := sdss.ParseDec(flag.Arg(1))
	if err != nil {
		log.Fatalln(err)
	}
	target := coord.Equa{RA: ra, Dec: dec}
	url := sdss.CutoutURL(target, o)
	// echo the parsed position so a surprising image can be checked
	// against the coordinates actually sent.
	fmt.Printf("%v %v\n", sexa.FmtRA(ra), sexa.FmtAngle(dec))
	fmt.Println(url)
	if err := sdss.Fetch(url, flag.Arg(2)); err != nil {
		log.Fatalln(err)
	}
}
