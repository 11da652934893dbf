package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DensityChart describes a density-over-time line chart.
type DensityChart struct {
	Title string
	T     []float64
	// Density holds one sample per entry of T.
	Density []float64
	// Mean, when ShowMean is set, is drawn as a horizontal reference line.
	Mean     float64
	ShowMean bool
	Width    int
	Height   int
}

// WritePNG renders the chart as PNG.
func (c DensityChart) WritePNG(w io.Writer) error {
	if len(c.T) < 2 || len(c.T) != len(c.Density) {
		return errors.New("render: density chart needs at least two samples")
	}
	width, height := c.Width, c.Height
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "density",
			XValues: c.T,
			YValues: c.Density,
			Style: chart.Style{
				StrokeColor: drawing.Color{R: 0, G: 0, B: 255, A: 255},
				StrokeWidth: 1,
			},
		},
	}
	if c.ShowMean {
		first, last := c.T[0], c.T[len(c.T)-1]
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("mean %.4f", c.Mean),
			XValues: []float64{first, last},
			YValues: []float64{c.Mean, c.Mean},
			Style: chart.Style{
				StrokeColor:     drawing.Color{R: 255, G: 0, B: 0, A: 255},
				StrokeWidth:     1,
				StrokeDashArray: []float64{4, 2},
			},
		})
	}

	graph := chart.Chart{
		Title:  c.Title,
		Width:  width,
		Height: height,
		XAxis:  chart.XAxis{Name: "t"},
		YAxis: chart.YAxis{
			Name:  "density",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}
