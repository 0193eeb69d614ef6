package diag

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/phil-mansfield/gravtree"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

// WriteEnergyChart renders the kinetic, potential and total energy in h
// against step as a PNG and writes it to w.
func WriteEnergyChart(w io.Writer, h *History) error {
	if h.Len() == 0 {
		return gravtree.Wrap(gravtree.InvalidInput, "diag.WriteEnergyChart",
			gravtree.Errorf(gravtree.InvalidInput, "history is empty"))
	}

	steps, kinetic, potential, total := h.Series()

	// go-chart can't render a range of zero width, so flat series and single
	// records get explicit axis ranges.
	xMin, xMax := steps[0], steps[len(steps)-1]
	if xMax <= xMin {
		xMax = xMin + 1
	}
	yMin, yMax := bounds(kinetic, potential, total)
	pad := 0.05 * (yMax - yMin)
	if pad == 0 {
		pad = math.Max(1, math.Abs(yMax)*0.05)
	}

	graph := chart.Chart{
		Title:  "Energy",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Step",
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Energy",
			Range: &chart.ContinuousRange{Min: yMin - pad, Max: yMax + pad},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.3g", v.(float64))
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Kinetic",
				XValues: steps,
				YValues: kinetic,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "Potential",
				XValues: steps,
				YValues: potential,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "Total",
				XValues: steps,
				YValues: total,
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 0, G: 0, B: 0, A: 255},
					StrokeWidth: 3,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return gravtree.Wrap(gravtree.IOError, "diag.WriteEnergyChart", err)
	}
	return nil
}

func bounds(series ...[]float64) (min, max float64) {
	min, max = math.Inf(+1), math.Inf(-1)
	for _, xs := range series {
		for _, x := range xs {
			min, max = math.Min(min, x), math.Max(max, x)
		}
	}
	return min, max
}
