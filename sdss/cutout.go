// Public domain.

// Package sdss fetches survey image cutouts around a sky position from
// the SDSS SkyServer, and parses the coordinate arguments the cutout
// command takes.
package sdss

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
)

// CutoutBase links to the SkyServer image cutout service.  The getjpeg
// endpoint renders a JPEG finding chart around a given sky position.
//
// See https://skyserver.sdss.org/dr16/en/help/docs/api.aspx for the
// service documentation.
var CutoutBase = "https://skyserver.sdss.org/dr16/SkyServerWS/ImgCutout/getjpeg"

// Options select the size and rendering of a cutout.  The zero value
// reads as the defaults noted on the fields.
type Options struct {
	Scale         float64 // arcsec per pixel, default .4
	Width, Height int     // pixels, default 512
	Opt           string  // SkyServer drawing options, eg G grid, L label
}

func (o Options) withDefaults() Options {
	if o.Scale == 0 {
		o.Scale = .4
	}
	if o.Width == 0 {
		o.Width = 512
	}
	if o.Height == 0 {
		o.Height = 512
	}
	return o
}

// CutoutURL constructs the cutout request URL for a sky position.
// Coordinates go out in decimal degrees at fixed precision.
func CutoutURL(target coord.Equa, o Options) string {
	o = o.withDefaults()
	v := url.Values{}
	v.Set("ra", strconv.FormatFloat(unit.Angle(target.RA).Deg(), 'f', 6, 64))
	v.Set("dec", strconv.FormatFloat(unit.Angle(target.Dec).Deg(), 'f', 6, 64))
	v.Set("scale", strconv.FormatFloat(o.Scale, 'f', -1, 64))
	v.Set("width", strconv.Itoa(o.Width))
	v.Set("height", strconv.Itoa(o.Height))
	if o.Opt != "" {
		v.Set("opt", o.Opt)
	}
	return CutoutBase + "?" + v.Encode()
}

// Fetch gets the data at url and writes it to a new file outfile.
//
// The response must look like image data.  The cutout service answers
// out-of-footprint positions and malformed parameters with an HTML page
// and status 200; such a body is reported as an error, not saved.
func Fetch(url, outfile string) error {
	r, err := http.Get(url)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", url, r.Status)
	}
	body := bufio.NewReader(r.Body)
	head, err := body.Peek(512)
	if err != nil && err != io.EOF {
		return err
	}
	if ct := http.DetectContentType(head); strings.HasPrefix(ct, "text/html") {
		return fmt.Errorf("%s: server sent %s, not an image", url, ct)
	}
	f, err := os.Create(outfile)
	if err != nil {
		return err
	}
	if _, err = io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
