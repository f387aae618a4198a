package plot

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"time"

	"dataviz/internal/config"
	"dataviz/internal/errors"
	"dataviz/internal/log"
	"dataviz/internal/table"

	"github.com/google/uuid"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	titleFontSize = 16
	labelFontSize = 12
	tickFontSize  = 10
	tickRotation  = 45
	barWidth      = 0.8
	kdePoints     = 200
	day           = float64(24 * time.Hour)
)

var (
	lineColor         = drawing.ColorFromHex("4C72B0")
	distributionColor = drawing.ColorFromHex("87CEEB")
	kdeColor          = drawing.ColorFromHex("2E86C1")
	gridColor         = drawing.ColorFromHex("E5E5E5")
	// Set2
	countPalette = []drawing.Color{
		drawing.ColorFromHex("66C2A5"),
		drawing.ColorFromHex("FC8D62"),
		drawing.ColorFromHex("8DA0CB"),
		drawing.ColorFromHex("E78AC3"),
		drawing.ColorFromHex("A6D854"),
		drawing.ColorFromHex("FFD92F"),
		drawing.ColorFromHex("E5C494"),
		drawing.ColorFromHex("B3B3B3"),
	}
)

// Image is a rendered chart
type Image struct {
	// ID identifies one render in logs and HTTP responses
	ID     string
	Kind   Kind
	Title  string
	XLabel string
	YLabel string
	Width  int
	Height int
	PNG    []byte
}

// Decode returns the chart as an image.Image
func (img *Image) Decode() (image.Image, error) {
	return png.Decode(bytes.NewReader(img.PNG))
}

// Renderer draws validated requests
type Renderer struct {
	Width      int
	Height     int
	TitleColor string
}

// NewRenderer returns a renderer sized and coloured by cfg.Chart
func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{
		Width:      cfg.Chart.Width,
		Height:     cfg.Chart.Height,
		TitleColor: cfg.Chart.TitleColor,
	}
}

// DefaultRenderer returns a 1000x600 renderer
func DefaultRenderer() *Renderer {
	return &Renderer{
		Width:      config.DefaultChartWidth,
		Height:     config.DefaultChartHeight,
		TitleColor: config.DefaultTitleColor,
	}
}

// Render validates req against t and draws it. Validation problems are
// returned as *errors.ValidationWarning and produce no image.
func (r *Renderer) Render(t *table.Table, req Request) (*Image, error) {
	if err := Validate(t, req); err != nil {
		return nil, err
	}

	ch, err := r.build(t, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, errors.NewRenderError("chart rendering failed", req.Kind.String(), err)
	}

	id := uuid.New().String()
	log.LogWithFields(
		log.F("render_id", id),
		log.F("kind", req.Kind.String()),
		log.F("x", req.X),
		log.F("y", req.YLabel()),
		log.F("bytes", buf.Len()),
	).Debug("chart rendered")

	return &Image{
		ID:     id,
		Kind:   req.Kind,
		Title:  req.Title(),
		XLabel: req.X,
		YLabel: req.YLabel(),
		Width:  ch.Width,
		Height: ch.Height,
		PNG:    buf.Bytes(),
	}, nil
}

// build lays out the chart for a validated request
func (r *Renderer) build(t *table.Table, req Request) (*chart.Chart, error) {
	x, _ := t.Column(req.X)

	var (
		xa, ya chart.Range
		xt, yt []chart.Tick
		series []chart.Series
	)

	switch req.Kind {
	case Line, Scatter:
		y, _ := t.Column(req.Y)
		rows := usableRows(t, x, y)
		px, py := project(x, rows), project(y, rows)
		style := chart.Style{StrokeColor: lineColor, StrokeWidth: 2}
		if req.Kind == Scatter || len(rows) == 1 {
			style = chart.Style{StrokeWidth: chart.Disabled, DotColor: lineColor, DotWidth: 5}
		}
		series = []chart.Series{chart.ContinuousSeries{
			Name:    req.Title(),
			XValues: px.coords,
			YValues: py.coords,
			Style:   style,
		}}
		xa, xt, ya, yt = px.rng, px.ticks, py.rng, py.ticks

	case Bar:
		y, _ := t.Column(req.Y)
		groups := groupRows(x, usableRows(t, x, y))
		heights := make([]float64, len(groups))
		for i, g := range groups {
			vs := make([]float64, len(g.rows))
			for j, row := range g.rows {
				vs[j], _ = y.Float(row)
			}
			heights[i] = mean(vs)
		}
		series = bars(heights, func(int) drawing.Color { return lineColor })
		lo, hi := bounds(heights)
		ya = valueRange(lo, hi)
		xa, xt, yt = categoryRange(len(groups)), categoryTicks(groupLabels(groups)), rangeTicks(ya)

	case Count:
		groups := groupRows(x, usableRows(t, x))
		counts := make([]float64, len(groups))
		for i, g := range groups {
			counts[i] = float64(len(g.rows))
		}
		series = bars(counts, func(i int) drawing.Color { return countPalette[i%len(countPalette)] })
		_, hi := bounds(counts)
		ya = valueRange(0, hi)
		xa, xt, yt = categoryRange(len(groups)), categoryTicks(groupLabels(groups)), rangeTicks(ya)

	case Distribution:
		rows := usableRows(t, x)
		if x.Type == table.Categorical {
			groups := groupRows(x, rows)
			freq := make([]float64, len(groups))
			for i, g := range groups {
				freq[i] = float64(len(g.rows)) / float64(len(rows))
			}
			series = bars(freq, func(int) drawing.Color { return distributionColor })
			_, hi := bounds(freq)
			ya = valueRange(0, hi)
			xa, xt, yt = categoryRange(len(groups)), categoryTicks(groupLabels(groups)), rangeTicks(ya)
			break
		}

		px := project(x, rows)
		unit := 1.0
		if x.Type == table.Temporal {
			unit = day
		}
		bins := histogram(px.coords, unit)
		peak := 0.0
		for _, b := range bins {
			series = append(series, barSeries(b.lo, b.hi, b.density, distributionColor))
			if b.density > peak {
				peak = b.density
			}
		}
		lo, hi := bounds(px.coords)
		if kx, ky := kde(px.coords, lo, hi, kdePoints, unit); kx != nil {
			series = append(series, chart.ContinuousSeries{
				Name:    "KDE",
				XValues: kx,
				YValues: ky,
				Style:   chart.Style{StrokeColor: kdeColor, StrokeWidth: 2},
			})
			_, khi := bounds(ky)
			if khi > peak {
				peak = khi
			}
		}
		binLo, binHi := bins[0].lo, bins[len(bins)-1].hi
		xa = pad(binLo, binHi, unit)
		if x.Type == table.Temporal {
			xt = timeTicks(xa.GetMin(), xa.GetMax())
		} else {
			xt = numericTicks(xa.GetMin(), xa.GetMax())
		}
		ya = valueRange(0, peak)
		yt = rangeTicks(ya)

	default:
		return nil, errors.NewRenderError("no renderer for plot type", req.Kind.String(), nil)
	}

	if len(series) == 0 {
		return nil, errors.NewRenderError("nothing to draw", req.Kind.String(), nil)
	}
	xt, yt = spanTicks(xa, xt), spanTicks(ya, yt)

	return &chart.Chart{
		Title:      req.Title(),
		TitleStyle: chart.Style{FontColor: drawing.ColorFromHex(strings.TrimPrefix(r.TitleColor, "#")), FontSize: titleFontSize},
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: drawing.ColorWhite},
		XAxis: chart.XAxis{
			Name:           req.X,
			NameStyle:      chart.Style{FontSize: labelFontSize},
			Range:          xa,
			Ticks:          xt,
			TickStyle:      chart.Style{FontSize: tickFontSize, TextRotationDegrees: tickRotation},
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
		},
		YAxis: chart.YAxis{
			Name:           req.YLabel(),
			NameStyle:      chart.Style{FontSize: labelFontSize},
			Range:          ya,
			Ticks:          yt,
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
		},
		Series: series,
	}, nil
}

// bars draws one bar per value, centred on its index
func bars(heights []float64, color func(i int) drawing.Color) []chart.Series {
	series := make([]chart.Series, len(heights))
	for i, h := range heights {
		x := float64(i)
		series[i] = barSeries(x-barWidth/2, x+barWidth/2, h, color(i))
	}
	return series
}

// barSeries is a filled horizontal segment; go-chart fills down to the
// bottom of the value range.
func barSeries(left, right, height float64, color drawing.Color) chart.Series {
	return chart.ContinuousSeries{
		XValues: []float64{left, right},
		YValues: []float64{height, height},
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 1,
			FillColor:   color,
		},
	}
}

func rangeTicks(rng chart.Range) []chart.Tick {
	return numericTicks(rng.GetMin(), rng.GetMax())
}
