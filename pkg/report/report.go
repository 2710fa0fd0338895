// Package report renders go-echarts HTML charts from a search run,
// generalizing the teacher's util.PlotResults (a 2D Pareto-front scatter
// against a known true front) to a VRP archive whose true front is
// unknown and whose objective count may exceed two.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/binyao-or/vrp-solver/pkg/population"
)

// ParetoFront renders a scatter plot of every archive member's first two
// objective values, front-0 members in one series and the rest in
// another -- the closest VRP analogue to the teacher's "true front vs.
// found solutions" comparison, since this archive has no known optimum to
// plot against. xLabel/yLabel name the two objectives being plotted (e.g.
// "unassigned jobs", "total cost"); for more than two objectives, callers
// pick which pair to visualise.
func ParetoFront(members []*population.Member, xIdx, yIdx int, xLabel, yLabel string, w io.Writer) error {
	if len(members) == 0 {
		return fmt.Errorf("report: no archive members to plot")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Solution Archive"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithXAxisOpts(opts.XAxis{Name: xLabel, SplitLine: &opts.SplitLine{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel, SplitLine: &opts.SplitLine{Show: opts.Bool(true)}}),
	)

	var front, rest []opts.ScatterData
	for _, m := range members {
		if len(m.Value) <= xIdx || len(m.Value) <= yIdx {
			continue
		}
		point := opts.ScatterData{Value: []float64{m.Value[xIdx], m.Value[yIdx]}, SymbolSize: 8}
		if m.Rank == 0 {
			point.Symbol = "circle"
			front = append(front, point)
		} else {
			point.Symbol = "triangle"
			rest = append(rest, point)
		}
	}

	scatter.AddSeries("Front 0 (non-dominated)", front).
		AddSeries("Dominated members", rest).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
			charts.WithEmphasisOpts(opts.Emphasis{}),
		)

	return scatter.Render(w)
}

// GenerationPoint is one sample for GenerationFitness: the best fitness
// value observed as of that generation.
type GenerationPoint struct {
	Generation  int
	BestFitness float64
}

// GenerationFitness renders a line chart of best fitness over generations,
// the convergence-trend view spec.md §6's periodic emission feeds.
func GenerationFitness(points []GenerationPoint, w io.Writer) error {
	if len(points) == 0 {
		return fmt.Errorf("report: no generation history to plot")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Best Fitness by Generation"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithXAxisOpts(opts.XAxis{Name: "generation"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "best fitness", SplitLine: &opts.SplitLine{Show: opts.Bool(true)}}),
	)

	xAxis := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		xAxis[i] = fmt.Sprintf("%d", p.Generation)
		data[i] = opts.LineData{Value: p.BestFitness}
	}

	line.SetXAxis(xAxis).AddSeries("best fitness", data).
		SetSeriesOptions(charts.WithLineChartOpts(charts.LineChartOpts{Smooth: opts.Bool(true)}))

	return line.Render(w)
}
