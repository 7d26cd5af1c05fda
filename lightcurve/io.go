// Public domain.

package lightcurve

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
)

// Read reads a light curve from a file, dispatching on the file name
// extension.  Extensions .fits, .fit, and .fts read as FITS binary tables,
// anything else as CSV.  The light curve name is the base file name with
// the extension dropped, unless the file itself carries a name.
func Read(path string) (*LightCurve, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fits", ".fit", ".fts":
		return ReadFITS(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, baseName(path))
}

func baseName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}

// ReadCSV reads a time,flux,flux_err table.  Empty lines and lines beginning
// with # are ignored, as is a single leading header row.  Extra columns
// beyond the first three are quietly dropped.  Lines that have fewer than
// three fields or fields that do not parse as numbers are errors; files of
// this shape are course handouts, not telescope products, so junk in them
// is worth reporting rather than skipping.
func ReadCSV(r io.Reader, name string) (*LightCurve, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	lc := &LightCurve{Name: name}
	first := true
	for ln := 0; ; {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %v", name, err)
		}
		ln++
		if first {
			first = false
			if _, err := strconv.ParseFloat(rec[0], 64); err != nil {
				continue // header row
			}
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf(
				"%s: record %d: need time,flux,flux_err, have %d fields",
				name, ln, len(rec))
		}
		var v [3]float64
		for i := 0; i < 3; i++ {
			f, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: record %d: %v", name, ln, err)
			}
			v[i] = f
		}
		lc.Time = append(lc.Time, v[0])
		lc.Flux = append(lc.Flux, v[1])
		lc.FluxErr = append(lc.FluxErr, v[2])
	}
	if len(lc.Time) == 0 {
		return nil, fmt.Errorf("%s: no data", name)
	}
	return lc, nil
}

// WriteCSV writes the three columns with a header row, in a format ReadCSV
// reads back.
func WriteCSV(w io.Writer, lc *LightCurve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "flux", "flux_err"}); err != nil {
		return err
	}
	rec := make([]string, 3)
	for i := range lc.Time {
		rec[0] = strconv.FormatFloat(lc.Time[i], 'g', -1, 64)
		rec[1] = strconv.FormatFloat(lc.Flux[i], 'g', -1, 64)
		rec[2] = strconv.FormatFloat(lc.FluxErr[i], 'g', -1, 64)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadFITS reads a light curve from a FITS binary table.
//
// The first table HDU with TIME and FLUX columns is used; column and HDU
// names are matched case-insensitively and a FLUX_ERR column is optional
// (missing errors read as zero and fail Validate, which is the desired
// noisy failure).  The object name, band, and sky position are taken from
// OBJECT, FILTER, and RA_OBJ/DEC_OBJ header cards when present, checking
// the table header first and the primary header second.
func ReadFITS(path string) (*LightCurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fits, err := fitsio.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	defer fits.Close()
	for _, hdu := range fits.HDUs() {
		tbl, ok := hdu.(*fitsio.Table)
		if !ok {
			continue
		}
		it, ifl, ie := -1, -1, -1
		for i, col := range tbl.Cols() {
			switch {
			case strings.EqualFold(col.Name, "TIME"):
				it = i
			case strings.EqualFold(col.Name, "FLUX"):
				ifl = i
			case strings.EqualFold(col.Name, "FLUX_ERR"),
				strings.EqualFold(col.Name, "FLUX_ERROR"):
				ie = i
			}
		}
		if it < 0 || ifl < 0 {
			continue
		}
		lc, err := readTable(tbl, it, ifl, ie)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", path, err)
		}
		fitsHeaders(lc, tbl.Header(), fits.HDU(0).Header())
		if lc.Name == "" {
			lc.Name = baseName(path)
		}
		return lc, nil
	}
	return nil, fmt.Errorf("%s: no table HDU with TIME and FLUX columns", path)
}

func readTable(tbl *fitsio.Table, it, ifl, ie int) (*LightCurve, error) {
	n := int(tbl.NumRows())
	if n == 0 {
		return nil, fmt.Errorf("table %s: no data", tbl.Name())
	}
	rows, err := tbl.Read(0, int64(n))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cols := tbl.Cols()
	lc := &LightCurve{
		Time:    make([]float64, 0, n),
		Flux:    make([]float64, 0, n),
		FluxErr: make([]float64, 0, n),
	}
	for rows.Next() {
		m := make(map[string]interface{})
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		t, ok := cellFloat(m[cols[it].Name])
		if !ok {
			return nil, fmt.Errorf("column %s: non-numeric data", cols[it].Name)
		}
		f, ok := cellFloat(m[cols[ifl].Name])
		if !ok {
			return nil, fmt.Errorf("column %s: non-numeric data", cols[ifl].Name)
		}
		var e float64
		if ie >= 0 {
			if e, ok = cellFloat(m[cols[ie].Name]); !ok {
				return nil, fmt.Errorf("column %s: non-numeric data", cols[ie].Name)
			}
		}
		lc.Time = append(lc.Time, t)
		lc.Flux = append(lc.Flux, f)
		lc.FluxErr = append(lc.FluxErr, e)
	}
	return lc, rows.Err()
}

// cellFloat widens the numeric types fitsio hands back for table cells.
func cellFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case int16:
		return float64(v), true
	case int8:
		return float64(v), true
	case uint8:
		return float64(v), true
	}
	return 0, false
}

func fitsHeaders(lc *LightCurve, hdrs ...*fitsio.Header) {
	for _, hdr := range hdrs {
		if hdr == nil {
			continue
		}
		if lc.Name == "" {
			if c := hdr.Get("OBJECT"); c != nil {
				if s, ok := c.Value.(string); ok {
					lc.Name = strings.TrimSpace(s)
				}
			}
		}
		if lc.Band == "" {
			if c := hdr.Get("FILTER"); c != nil {
				if s, ok := c.Value.(string); ok {
					lc.Band = strings.TrimSpace(s)
				}
			}
		}
		if lc.Target == nil {
			ra, rok := cardFloat(hdr.Get("RA_OBJ"))
			dec, dok := cardFloat(hdr.Get("DEC_OBJ"))
			if rok && dok {
				t := new(coord.Equa)
				t.RA = unit.RAFromDeg(ra)
				t.Dec = unit.AngleFromDeg(dec)
				lc.Target = t
			}
		}
	}
}

func cardFloat(c *fitsio.Card) (float64, bool) {
	if c == nil {
		return 0, false
	}
	return cellFloat(c.Value)
}
