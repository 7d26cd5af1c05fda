// Public domain.

package labprog

import (
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/adrn/AST542/gp"
	"github.com/adrn/AST542/internal/lab"
	"github.com/adrn/AST542/internal/model"
)

// errPoints feeds plotter.NewYErrorBars, which wants both the points
// and their error extents.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// writePlot writes a PNG of the data and fitted models for one curve.
func writePlot(dir string, res *lab.Result) error {
	lc := res.LC
	p := plot.New()
	p.Title.Text = res.Name
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Flux"

	out := make(map[int]bool, len(res.Outliers))
	for _, i := range res.Outliers {
		out[i] = true
	}
	var pts, outPts plotter.XYs
	var errs plotter.YErrors
	for i := range lc.Time {
		xy := plotter.XY{X: lc.Time[i], Y: lc.Flux[i]}
		if out[i] {
			outPts = append(outPts, xy)
			continue
		}
		pts = append(pts, xy)
		errs = append(errs, struct{ Low, High float64 }{lc.FluxErr[i], lc.FluxErr[i]})
	}
	bars, err := plotter.NewYErrorBars(errPoints{pts, errs})
	if err != nil {
		return err
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = color.RGBA{R: 68, G: 119, B: 170, A: 255}
	sc.GlyphStyle.Radius = vg.Points(2)
	p.Add(bars, sc)

	if len(outPts) > 0 {
		osc, err := plotter.NewScatter(outPts)
		if err != nil {
			return err
		}
		osc.GlyphStyle.Color = color.RGBA{R: 204, G: 51, B: 17, A: 255}
		osc.GlyphStyle.Radius = vg.Points(3)
		p.Add(osc)
		p.Legend.Add("outliers", osc)
	}

	gray := color.RGBA{R: 102, G: 102, B: 102, A: 255}
	dash := []vg.Length{vg.Points(3), vg.Points(3)}
	t0, t1 := lc.Time[0], lc.Time[lc.Len()-1]
	mu := res.Mean
	if res.JitterVar > 0 {
		mu = res.MargMean
	}
	mean, err := flatLine(t0, t1, mu, gray, nil)
	if err != nil {
		return err
	}
	p.Add(mean)
	p.Legend.Add("mean", mean)

	if res.JitterVar > 0 {
		var band *plotter.Line
		for _, y := range []float64{mu - res.JitterSig, mu + res.JitterSig} {
			if band, err = flatLine(t0, t1, y, gray, dash); err != nil {
				return err
			}
			p.Add(band)
		}
		p.Legend.Add("jitter", band)
	}

	if res.Kernel != nil {
		resid := make([]float64, lc.Len())
		for i, f := range lc.Flux {
			resid[i] = f - res.Mean
		}
		g, err := gp.Condition(res.Kernel, lc.Time, resid, lc.FluxErr)
		if err != nil {
			return err
		}
		ts := model.Grid(t0, t1, 200)
		gm, gs := g.Predict(ts)
		ml := make(plotter.XYs, len(ts))
		lo := make(plotter.XYs, len(ts))
		hi := make(plotter.XYs, len(ts))
		for i, x := range ts {
			ml[i] = plotter.XY{X: x, Y: res.Mean + gm[i]}
			lo[i] = plotter.XY{X: x, Y: res.Mean + gm[i] - gs[i]}
			hi[i] = plotter.XY{X: x, Y: res.Mean + gm[i] + gs[i]}
		}
		green := color.RGBA{R: 34, G: 136, B: 51, A: 255}
		gl, err := plotter.NewLine(ml)
		if err != nil {
			return err
		}
		gl.Color = green
		gl.Width = vg.Points(1.5)
		p.Add(gl)
		p.Legend.Add("gp", gl)
		for _, band := range []plotter.XYs{lo, hi} {
			bl, err := plotter.NewLine(band)
			if err != nil {
				return err
			}
			bl.Color = green
			bl.Dashes = dash
			p.Add(bl)
		}
	}

	p.Legend.Top = true
	return p.Save(10*vg.Inch, 5*vg.Inch, filepath.Join(dir, res.Name+".png"))
}

func flatLine(t0, t1, y float64, c color.Color, dashes []vg.Length) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: t0, Y: y}, {X: t1, Y: y}})
	if err != nil {
		return nil, err
	}
	l.Color = c
	l.Dashes = dashes
	return l, nil
}
