// Public domain.

package labprog

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/adrn/AST542/gp"
	"github.com/adrn/AST542/internal/lab"
	"github.com/adrn/AST542/internal/model"
)

// viridis, the usual sequential palette, for the outlier probability
// color scale.
var reportColors = []string{"#440154", "#482777", "#3e4989", "#31688e",
	"#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// writeReport writes an HTML page with one chart per fitted curve,
// points colored by posterior outlier probability.
func writeReport(path string, results []*lab.Result) error {
	page := components.NewPage()
	page.PageTitle = "ast542 fits"
	for _, res := range results {
		ch, err := targetChart(res)
		if err != nil {
			return err
		}
		page.AddCharts(ch)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func targetChart(res *lab.Result) (*charts.Scatter, error) {
	lc := res.LC
	data := make([]opts.ScatterData, lc.Len())
	for i := range lc.Time {
		p := 0.0
		if i < len(res.OutlierP) {
			p = res.OutlierP[i]
		}
		data[i] = opts.ScatterData{Value: []interface{}{lc.Time[i], lc.Flux[i], p}}
	}

	// pad the time axis a little so edge points stay visible
	t0, t1 := lc.Time[0], lc.Time[lc.Len()-1]
	pad := (t1 - t0) * .02
	if pad == 0 {
		pad = 1
	}

	subtitle := fmt.Sprintf("n=%d mean=%.6g best=%s", res.N, res.Mean, res.Best)
	if len(res.Outliers) > 0 {
		subtitle = fmt.Sprintf("%s outliers=%v", subtitle, res.Outliers)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "450px"}),
		charts.WithTitleOpts(opts.Title{Title: res.Name, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: t0 - pad, Max: t1 + pad, Name: "Time",
			NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Flux", NameLocation: "middle", NameGap: 40}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: reportColors},
		}),
	)
	scatter.AddSeries("flux", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	if res.Kernel != nil {
		resid := make([]float64, lc.Len())
		for i, f := range lc.Flux {
			resid[i] = f - res.Mean
		}
		g, err := gp.Condition(res.Kernel, lc.Time, resid, lc.FluxErr)
		if err != nil {
			return nil, err
		}
		ts := model.Grid(t0, t1, 200)
		gm, _ := g.Predict(ts)
		ld := make([]opts.LineData, len(ts))
		for i, x := range ts {
			// the visual map reads dimension 2, so give the curve a zero there
			ld[i] = opts.LineData{Value: []interface{}{x, res.Mean + gm[i], 0.0}}
		}
		line := charts.NewLine()
		line.AddSeries("gp", ld, charts.WithLineChartOpts(
			opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}))
		scatter.Overlap(line)
	}
	return scatter, nil
}
