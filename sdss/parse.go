// Public domain.

package sdss

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/soniakeys/unit"
)

// ParseRA parses a right ascension given as decimal degrees or as
// sexagesimal hours, hh:mm:ss.s.  Degrees must lie in [0,360), hours
// in [0,24).
func ParseRA(s string) (unit.RA, error) {
	if strings.Contains(s, ":") {
		neg, h, m, sec, err := sexParts(s)
		if err != nil {
			return 0, fmt.Errorf("sdss: bad RA %q", s)
		}
		if neg || h >= 24 {
			return 0, fmt.Errorf("sdss: RA %q out of range", s)
		}
		return unit.NewRA(h, m, sec), nil
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(d) || d < 0 || d >= 360 {
		return 0, fmt.Errorf("sdss: bad RA %q: want degrees in [0,360) or hh:mm:ss", s)
	}
	return unit.RA(unit.AngleFromDeg(d)), nil
}

// ParseDec parses a declination given as decimal degrees or as
// sexagesimal degrees, ±dd:mm:ss.s.  The magnitude must not exceed 90.
func ParseDec(s string) (unit.Angle, error) {
	if strings.Contains(s, ":") {
		neg, d, m, sec, err := sexParts(s)
		if err != nil {
			return 0, fmt.Errorf("sdss: bad declination %q", s)
		}
		if float64(d)+float64(m)/60+sec/3600 > 90 {
			return 0, fmt.Errorf("sdss: declination %q out of range", s)
		}
		sign := byte('+')
		if neg {
			sign = '-'
		}
		return unit.NewAngle(sign, d, m, sec), nil
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(d) || d < -90 || d > 90 {
		return 0, fmt.Errorf("sdss: bad declination %q: want degrees in [-90,90] or ±dd:mm:ss", s)
	}
	return unit.AngleFromDeg(d), nil
}

// sexParts splits a ±a:b:c.c sexagesimal string into sign and
// components.  Two or three fields are accepted; a missing third field
// reads as zero.
func sexParts(s string) (neg bool, a, b int, c float64, err error) {
	t := s
	switch {
	case strings.HasPrefix(t, "-"):
		neg = true
		t = t[1:]
	case strings.HasPrefix(t, "+"):
		t = t[1:]
	}
	bad := func() (bool, int, int, float64, error) {
		return false, 0, 0, 0, fmt.Errorf("sdss: bad sexagesimal %q", s)
	}
	f := strings.Split(t, ":")
	if len(f) < 2 || len(f) > 3 {
		return bad()
	}
	if a, err = strconv.Atoi(f[0]); err != nil || a < 0 {
		return bad()
	}
	if b, err = strconv.Atoi(f[1]); err != nil || b < 0 || b > 59 {
		return bad()
	}
	if len(f) == 3 {
		if c, err = strconv.ParseFloat(f[2], 64); err != nil || math.IsNaN(c) || c < 0 || c >= 60 {
			return bad()
		}
	}
	return neg, a, b, c, nil
}
