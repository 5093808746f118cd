// Package charts holds the palette and helpers shared by the PNG charts.
package charts

import (
	"bytes"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette holds the colors used by rendered charts.
type Palette struct {
	Background drawing.Color
	Primary    drawing.Color
	Accent     drawing.Color
	Text       drawing.Color
}

// DefaultPalette is a dark theme.
var DefaultPalette = Palette{
	Background: drawing.ColorFromHex("0f1714"),
	Primary:    drawing.ColorFromHex("2f8f6b"),
	Accent:     drawing.ColorFromHex("d4a72c"),
	Text:       drawing.ColorFromHex("e6ede9"),
}

// Frame returns the background and canvas styles of p.
func (p Palette) Frame() (background, canvas chart.Style) {
	return chart.Style{FillColor: p.Background}, chart.Style{FillColor: p.Background}
}

// Placeholder renders msg centered on an empty chart.
func Placeholder(p Palette, msg string) ([]byte, error) {
	background, canvas := p.Frame()
	graph := chart.Chart{
		Width:      400,
		Height:     200,
		Background: background,
		Canvas:     canvas,
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}},
		// go-chart needs one visible series with a non-empty x range.
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(p.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	return Render(graph)
}

// Renderable is implemented by chart.Chart and chart.BarChart.
type Renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Render draws c as a PNG.
func Render(c Renderable) ([]byte, error) {
	buffer := bytes.NewBuffer([]byte{})
	if err := c.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
