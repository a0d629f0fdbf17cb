package diagnostics

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// NoiseDecayPoint is one sample of a noise-budget-over-operations chart:
// the operation index (e.g. number of ciphertext multiplications applied
// so far) and the remaining budget in bits.
type NoiseDecayPoint struct {
	Operation  int
	BudgetBits float64
}

// RenderNoiseDecayChart writes an HTML line chart of noise budget versus
// operation count to w, for visually tracking how many multiplications a
// parameter set can sustain before MinNoiseBudget is crossed.
func RenderNoiseDecayChart(w io.Writer, title string, points []NoiseDecayPoint) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "noise budget (bits) vs. operation count"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "operation"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "budget (bits)"}),
	)

	xAxis := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		xAxis[i] = strconv.Itoa(p.Operation)
		data[i] = opts.LineData{Value: p.BudgetBits}
	}

	line.SetXAxis(xAxis).AddSeries("noise budget", data)
	return line.Render(w)
}
