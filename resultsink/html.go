package resultsink

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes a single go-echarts page to w, one bar chart per
// test family, showing the distribution of -log10(p) across that
// family's repeated or parameterised results. It is a diagnostic view
// for spotting systematic bias across parameterisations; it is
// supplemental to RenderBrief/RenderFull, never a replacement for them.
// Grounded in cmd/analysis's newHistogramChart/components.NewPage
// pattern.
func (r Report) RenderHTML(w io.Writer) error {
	grouped := r.groupedByName()
	page := components.NewPage()
	for _, name := range sortedKeys(grouped) {
		page.AddCharts(negLogPHistogram(name, grouped[name]))
	}
	return page.Render(w)
}

func negLogPHistogram(name string, rows []resultRow) *charts.Bar {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		p := row.result.P
		if math.IsNaN(p) || p <= 0 {
			continue
		}
		values = append(values, -math.Log10(p))
	}

	labels := make([]string, len(values))
	items := make([]opts.BarData, len(values))
	for i, v := range values {
		labels[i] = fmt.Sprintf("#%d", i+1)
		items[i] = opts.BarData{Value: v}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: name, Subtitle: fmt.Sprintf("n=%d, -log10(p) per result", len(values))}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: name, Width: "1000px", Height: "400px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("-log10(p)", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}
