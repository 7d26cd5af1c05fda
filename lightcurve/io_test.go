package lightcurve_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/require"

	"github.com/adrn/AST542/lightcurve"
)

func TestReadCSV(t *testing.T) {
	in := `time,flux,flux_err
# a comment
56000.5,10,1
56001.5, 11 ,0.5,extra
`
	lc, err := lightcurve.ReadCSV(strings.NewReader(in), "sn1")
	require.NoError(t, err)
	require.Equal(t, "sn1", lc.Name)
	require.Equal(t, []float64{56000.5, 56001.5}, lc.Time)
	require.Equal(t, []float64{10, 11}, lc.Flux)
	require.Equal(t, []float64{1, .5}, lc.FluxErr)
}

func TestReadCSVNoHeader(t *testing.T) {
	lc, err := lightcurve.ReadCSV(strings.NewReader("1,2,3\n4,5,6\n"), "x")
	require.NoError(t, err)
	require.Equal(t, []float64{1, 4}, lc.Time)
}

func TestReadCSVErrors(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"", "no data"},
		{"time,flux,flux_err\n", "no data"},
		{"1,2\n", "need time,flux,flux_err"},
		{"1,2,3\nx,2,3\n", "record 2"},
		{"time,flux,flux_err\nfoo,bar,baz\n", "record 2"},
	} {
		_, err := lightcurve.ReadCSV(strings.NewReader(tc.in), "bad")
		require.ErrorContains(t, err, tc.want, "input %q", tc.in)
	}
}

func TestWriteCSV(t *testing.T) {
	lc := &lightcurve.LightCurve{
		Name:    "sn2",
		Time:    []float64{56000, 56001.25},
		Flux:    []float64{1052, 1053.5},
		FluxErr: []float64{2.5, 2.5},
	}
	var b bytes.Buffer
	require.NoError(t, lightcurve.WriteCSV(&b, lc))
	g := goldie.New(t)
	g.Assert(t, "writecsv", b.Bytes())

	rt, err := lightcurve.ReadCSV(bytes.NewReader(b.Bytes()), lc.Name)
	require.NoError(t, err)
	require.Equal(t, lc.Time, rt.Time)
	require.Equal(t, lc.Flux, rt.Flux)
	require.Equal(t, lc.FluxErr, rt.FluxErr)
}

func TestReadFITS(t *testing.T) {
	lc, err := lightcurve.ReadFITS(filepath.Join("testdata", "lc.fits"))
	require.NoError(t, err)
	require.Equal(t, "sn2023abc", lc.Name)
	require.Equal(t, "r", lc.Band)
	require.Equal(t, []float64{56000, 56001, 56002, 56003}, lc.Time)
	require.Equal(t, []float64{10, 11, 9, 10.5}, lc.Flux)
	require.Equal(t, []float64{.5, .5, .5, .5}, lc.FluxErr)
	require.NotNil(t, lc.Target)
	require.Equal(t, unit.RAFromDeg(150.1), lc.Target.RA)
	require.Equal(t, unit.AngleFromDeg(2.2), lc.Target.Dec)
	require.NoError(t, lc.Validate())
}

func TestReadFITSNoTable(t *testing.T) {
	_, err := lightcurve.ReadFITS(filepath.Join("testdata", "notable.fits"))
	require.ErrorContains(t, err, "no table HDU")
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "sn3.csv")
	require.NoError(t, os.WriteFile(fn, []byte("time,flux,flux_err\n1,2,3\n2,3,4\n"), 0644))
	lc, err := lightcurve.Read(fn)
	require.NoError(t, err)
	require.Equal(t, "sn3", lc.Name)
	require.Equal(t, 2, lc.Len())

	// extension dispatch sends .fits to the FITS reader
	lc, err = lightcurve.Read(filepath.Join("testdata", "lc.fits"))
	require.NoError(t, err)
	require.Equal(t, "sn2023abc", lc.Name)

	_, err = lightcurve.Read(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
}
