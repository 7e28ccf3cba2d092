// Package chart renders the indicator dashboard sent with the crypto report.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"CryptoSentinel/internal/model"
)

const (
	Width  = 14 * vg.Inch
	Height = 16 * vg.Inch
)

var (
	colorPrice  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorShort  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	colorLong   = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	colorSignal = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	colorHist   = color.RGBA{R: 127, G: 127, B: 127, A: 160}
	colorRSI    = color.RGBA{R: 148, G: 103, B: 189, A: 255}
	colorBand   = color.RGBA{R: 140, G: 86, B: 75, A: 255}
	colorGuide  = color.RGBA{R: 0, G: 0, B: 0, A: 90}
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("chart: no rows to render")

// Render draws four stacked panels (price with moving averages, MACD, RSI
// and Bollinger bands) over the last lastN rows and writes a PNG to path.
// Undefined points are left out of each line.
func Render(rows []model.IndicatorRow, lastN int, path string) error {
	if lastN > 0 && len(rows) > lastN {
		rows = rows[len(rows)-lastN:]
	}
	if len(rows) == 0 {
		return ErrNoData
	}

	panels := []func([]model.IndicatorRow) (*plot.Plot, error){
		pricePanel,
		macdPanel,
		rsiPanel,
		bollingerPanel,
	}
	plots := make([][]*plot.Plot, len(panels))
	for i, build := range panels {
		p, err := build(rows)
		if err != nil {
			return fmt.Errorf("build panel %d: %w", i, err)
		}
		p.X.Tick.Marker = dateTicks(rows)
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(Width, Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: 1,
		PadX: vg.Millimeter,
		PadY: 4 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("encode chart: %w", err)
	}
	return f.Close()
}

func pricePanel(rows []model.IndicatorRow) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Price and Moving Averages"
	p.Y.Label.Text = "USD"
	err := addLines(p, rows,
		series{"Price", colorPrice, func(r model.IndicatorRow) float64 { return r.Price }},
		series{"Short MA", colorShort, func(r model.IndicatorRow) float64 { return r.MAShort }},
		series{"Long MA", colorLong, func(r model.IndicatorRow) float64 { return r.MALong }},
	)
	return p, err
}

func macdPanel(rows []model.IndicatorRow) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "MACD"

	hist := make(plotter.Values, len(rows))
	for i, r := range rows {
		v := r.MACD - r.Signal
		if math.IsNaN(v) {
			v = 0
		}
		hist[i] = v
	}
	bars, err := plotter.NewBarChart(hist, vg.Points(2))
	if err != nil {
		return nil, err
	}
	bars.Color = colorHist
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.Legend.Add("Histogram", bars)

	err = addLines(p, rows,
		series{"MACD", colorPrice, func(r model.IndicatorRow) float64 { return r.MACD }},
		series{"Signal", colorSignal, func(r model.IndicatorRow) float64 { return r.Signal }},
	)
	return p, err
}

func rsiPanel(rows []model.IndicatorRow) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "RSI"
	p.Y.Min, p.Y.Max = 0, 100
	if err := addLines(p, rows,
		series{"RSI", colorRSI, func(r model.IndicatorRow) float64 { return r.RSI }},
	); err != nil {
		return nil, err
	}
	for _, level := range []float64{70, 30} {
		guide, err := plotter.NewLine(plotter.XYs{{X: 0, Y: level}, {X: float64(len(rows) - 1), Y: level}})
		if err != nil {
			return nil, err
		}
		guide.Color = colorGuide
		guide.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(guide)
	}
	return p, nil
}

func bollingerPanel(rows []model.IndicatorRow) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Bollinger Bands"
	p.Y.Label.Text = "USD"
	err := addLines(p, rows,
		series{"Price", colorPrice, func(r model.IndicatorRow) float64 { return r.Price }},
		series{"Upper", colorBand, func(r model.IndicatorRow) float64 { return r.BollingerUpper }},
		series{"Middle", colorShort, func(r model.IndicatorRow) float64 { return r.BollingerMid }},
		series{"Lower", colorBand, func(r model.IndicatorRow) float64 { return r.BollingerLower }},
	)
	return p, err
}

type series struct {
	name  string
	color color.Color
	value func(model.IndicatorRow) float64
}

func addLines(p *plot.Plot, rows []model.IndicatorRow, lines ...series) error {
	for _, s := range lines {
		pts := points(rows, s.value)
		if len(pts) == 0 {
			continue
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		l.Color = s.color
		l.Width = vg.Points(1.2)
		p.Add(l)
		p.Legend.Add(s.name, l)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return nil
}

// points maps rows to (index, value), dropping NaN values.
func points(rows []model.IndicatorRow, value func(model.IndicatorRow) float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(rows))
	for i, r := range rows {
		v := value(r)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}
	return pts
}
