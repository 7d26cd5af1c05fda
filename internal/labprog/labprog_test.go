// Public domain.

package labprog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adrn/AST542/gp"
	"github.com/adrn/AST542/internal/lab"
	"github.com/adrn/AST542/lightcurve"
)

func TestReadConfigDefaults(t *testing.T) {
	cfg, repeatable, opt := readConfig(&commandLine{})
	require.True(t, opt.headings)
	require.True(t, opt.chi2)
	require.True(t, opt.poss)
	require.False(t, opt.points)
	require.True(t, cfg.Jitter)
	require.True(t, cfg.Outliers)
	require.False(t, cfg.GP)
	require.False(t, repeatable)
	require.Zero(t, cfg.Walkers)
	require.Zero(t, cfg.Steps)
	require.Zero(t, cfg.PoutMax)
}

func TestReadConfig(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "ast542.config")
	err := os.WriteFile(fn, []byte(`# lab 3 settings

noheadings
nochi2
points
nojitter
gp
repeatable
walkers=16
steps=200
pout=0.25
errfloor=0.5
errfloor g=1.5
`), 0644)
	require.NoError(t, err)

	cfg, repeatable, opt := readConfig(&commandLine{dc: fn})
	require.False(t, opt.headings)
	require.False(t, opt.chi2)
	require.True(t, opt.points)
	require.True(t, opt.poss)
	require.False(t, cfg.Jitter)
	require.True(t, cfg.Outliers)
	require.True(t, cfg.GP)
	require.True(t, repeatable)
	require.Equal(t, 16, cfg.Walkers)
	require.Equal(t, 200, cfg.Steps)
	require.Equal(t, .25, cfg.PoutMax)
	require.Equal(t, .5, cfg.ErrFloorDefault)
	require.Equal(t, 1.5, cfg.ErrFloor["g"])
}

func testResult() *lab.Result {
	return &lab.Result{
		Name:       "sn2011fe",
		N:          412,
		Span:       59.5,
		Mean:       1.25,
		MeanErr:    .002,
		Chi2:       513.75, // 1.25 per degree of freedom
		JitterFrac: .024,
		MargMean:   1.26,
		MargErr:    .0025,
		MixP:       []float64{1.25, .04, 1.9, -4},
		OutlierP:   []float64{0, 0, 0, .25},
		Outliers:   []int{7, 30},
		Borderline: []int{3},
		Best:       "mixture",
	}
}

func TestPointLines(t *testing.T) {
	cfg := &lab.Config{Outliers: true}
	opt := &outputOptions{points: true}
	line := resultLine(testResult(), cfg, opt)
	want := `sn2011fe 0 0.000
sn2011fe 1 0.000
sn2011fe 2 0.000
sn2011fe 3 0.250`
	require.Equal(t, want, line)
}

func TestResultLine(t *testing.T) {
	cfg := &lab.Config{Jitter: true, Outliers: true}
	opt := &outputOptions{chi2: true, poss: true}
	line := resultLine(testResult(), cfg, opt)
	if !strings.HasPrefix(line, "sn2011fe ") {
		t.Fatalf("line = %q, want name first", line)
	}
	for _, want := range []string{"   59.5", " 1.25", " 0.002", " 1.26", "   2  0.04", "mixture"} {
		if !strings.Contains(line, want) {
			t.Errorf("line = %q, missing %q", line, want)
		}
	}
	if !strings.HasSuffix(line, "(3 0.25)") {
		t.Errorf("line = %q, want borderline annotation last", line)
	}

	// possibilities off
	opt.poss = false
	line = resultLine(testResult(), cfg, opt)
	if strings.Contains(line, "(3") {
		t.Errorf("line = %q, has annotation with poss off", line)
	}

	// chi2 too wide for its column
	res := testResult()
	res.N = 2
	res.Chi2 = 99999
	line = resultLine(res, cfg, opt)
	if !strings.Contains(line, " **.**") {
		t.Errorf("line = %q, want overflow stars", line)
	}
}

func TestWritePlot(t *testing.T) {
	lc := &lightcurve.LightCurve{Name: "t1", Band: "r"}
	for i := 0; i < 12; i++ {
		lc.Time = append(lc.Time, float64(i))
		lc.Flux = append(lc.Flux, 10+.1*float64(i%3))
		lc.FluxErr = append(lc.FluxErr, .1)
	}
	res := &lab.Result{
		Name:      "t1",
		N:         12,
		Mean:      10.1,
		MargMean:  10.1,
		JitterVar: .01,
		JitterSig: .1,
		Outliers:  []int{5},
		Kernel:    &gp.SquaredExp{Amp: .2, Scale: 3},
		LC:        lc,
	}
	dir := t.TempDir()
	require.NoError(t, writePlot(dir, res))
	fi, err := os.Stat(filepath.Join(dir, "t1.png"))
	require.NoError(t, err)
	require.Greater(t, fi.Size(), int64(0))
}

func TestWriteReport(t *testing.T) {
	lc := &lightcurve.LightCurve{
		Name:    "t2",
		Time:    []float64{0, 1, 2, 3},
		Flux:    []float64{5, 5.1, 9, 5},
		FluxErr: []float64{.1, .1, .1, .1},
	}
	res := &lab.Result{
		Name:     "t2",
		N:        4,
		Mean:     5.03,
		OutlierP: []float64{.01, .01, .99, .01},
		Outliers: []int{2},
		Best:     "mixture",
		Kernel:   &gp.SquaredExp{Amp: .5, Scale: 1.5},
		LC:       lc,
	}
	fn := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, writeReport(fn, []*lab.Result{res}))
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	require.Contains(t, string(b), "t2")
	require.Contains(t, string(b), "echarts")
	require.Contains(t, string(b), `"type":"line"`)
}
