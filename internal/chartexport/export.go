// Package chartexport renders the filler word donut to PNG or SVG.
package chartexport

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"highpitch/internal/filler"
	"highpitch/internal/logging"
)

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want png or svg)", s)
}

// FormatFromPath picks the format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatPNG
}

// Options controls the exported image.
type Options struct {
	// Size is the width and height of the square canvas in pixels.
	Size int
	// InnerRatio and OuterRatio size the ring relative to the plot radius.
	InnerRatio float64
	OuterRatio float64
	// LabelRatio places labels at this fraction of the plot diameter from
	// the center.
	LabelRatio float64
	// FontPath is an optional TTF file. Hangul labels need one.
	FontPath   string
	Background string
	TextColor  string
}

// DefaultOptions mirrors the in-app chart proportions.
func DefaultOptions() Options {
	return Options{
		Size:       512,
		InnerRatio: 0.618,
		OuterRatio: 0.8,
		LabelRatio: filler.DefaultLayout().NarrowRatio,
		Background: "#FFFFFF",
		TextColor:  "#2B2B33",
	}
}

// slowExport is the render time above which an export is logged as a warning.
const slowExport = 2 * time.Second

// plotFraction is the share of the canvas the chart itself occupies; the
// rest is margin for labels.
const plotFraction = 0.72

// Exporter draws chart views onto go-chart renderers.
type Exporter struct {
	opts Options
	font *truetype.Font
}

// New creates an exporter, loading opts.FontPath when set.
func New(opts Options) (*Exporter, error) {
	def := DefaultOptions()
	if opts.Size <= 0 {
		opts.Size = def.Size
	}
	if opts.OuterRatio <= 0 || opts.OuterRatio > 1 {
		opts.OuterRatio = def.OuterRatio
	}
	if opts.InnerRatio <= 0 || opts.InnerRatio >= opts.OuterRatio {
		opts.InnerRatio = def.InnerRatio
	}
	if opts.LabelRatio <= 0 {
		opts.LabelRatio = def.LabelRatio
	}
	if opts.Background == "" {
		opts.Background = def.Background
	}
	if opts.TextColor == "" {
		opts.TextColor = def.TextColor
	}

	font, err := loadFont(opts.FontPath)
	if err != nil {
		return nil, err
	}
	return &Exporter{opts: opts, font: font}, nil
}

func loadFont(path string) (*truetype.Font, error) {
	if path == "" {
		return chart.GetDefaultFont()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

// Geometry is the pixel layout of one export.
type Geometry struct {
	CX, CY      float64
	Inner       float64
	Outer       float64
	LabelRadius float64
}

// Geometry returns the ring and label radii for the configured size.
func (e *Exporter) Geometry() Geometry {
	size := float64(e.opts.Size)
	plot := size * plotFraction
	return Geometry{
		CX:          size / 2,
		CY:          size / 2,
		Inner:       plot / 2 * e.opts.InnerRatio,
		Outer:       plot / 2 * e.opts.OuterRatio,
		LabelRadius: plot * e.opts.LabelRatio,
	}
}

// Render writes view in the given format.
func (e *Exporter) Render(w io.Writer, format Format, view filler.ChartView) error {
	var provider chart.RendererProvider
	switch format {
	case FormatPNG:
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}

	timer := logging.StartTimer(logging.CategoryChart, "export "+string(format))
	defer timer.StopWithThreshold(slowExport)

	r, err := provider(e.opts.Size, e.opts.Size)
	if err != nil {
		return fmt.Errorf("create %s renderer: %w", format, err)
	}
	// One point per pixel keeps font sizes in canvas units.
	r.SetDPI(72)

	c := &canvas{r: r, font: e.font, escape: format == FormatSVG}
	e.draw(c, view)

	return r.Save(w)
}

// WriteFile renders view to path.
func (e *Exporter) WriteFile(path string, format Format, view filler.ChartView) error {
	var buf bytes.Buffer
	if err := e.Render(&buf, format, view); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	logging.Chart("exported %s (%d bytes)", path, buf.Len())
	return nil
}

func (e *Exporter) draw(c *canvas, view filler.ChartView) {
	size := float64(e.opts.Size)
	g := e.Geometry()
	text := drawing.ColorFromHex(e.opts.TextColor)

	c.rect(0, 0, size, size, drawing.ColorFromHex(e.opts.Background))

	spans := filler.Spans(view.Buckets)
	theta := 0.0
	si := 0
	for _, b := range view.Buckets {
		if b.Value <= 0 {
			continue
		}
		span := spans[si]
		si++
		c.ringSlice(g, theta, theta+span, drawing.ColorFromHex(b.Color.Hex()))
		theta += span
	}

	unit := size * plotFraction / 212
	if view.Empty() {
		c.centeredLines(g.CX, g.CY, []line{
			{"사용된 습관어가", 11 * unit, text},
			{"없어요!", 11 * unit, text},
		})
		return
	}

	c.centeredLines(g.CX, g.CY, []line{
		{fmt.Sprintf("%d가지", view.TypeCount), 14 * unit, drawing.ColorFromHex(filler.ColorBase.Hex())},
		{"습관어", 11 * unit, text},
	})

	for _, p := range filler.PlaceLabels(view.Buckets, g.LabelRadius) {
		c.centeredLines(g.CX+p.OffsetX, g.CY+p.OffsetY, []line{
			{p.Word, 11 * unit, text},
			{fmt.Sprintf("%d회", p.Value), 10 * unit, text},
		})
	}
}

type line struct {
	body  string
	size  float64
	color drawing.Color
}

// canvas wraps a go-chart renderer with the few shapes the donut needs.
type canvas struct {
	r      chart.Renderer
	font   *truetype.Font
	escape bool
}

func (c *canvas) rect(x0, y0, x1, y1 float64, fill drawing.Color) {
	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(drawing.ColorTransparent)
	c.r.SetStrokeWidth(0)
	c.r.MoveTo(int(x0), int(y0))
	c.r.LineTo(int(x1), int(y0))
	c.r.LineTo(int(x1), int(y1))
	c.r.LineTo(int(x0), int(y1))
	c.r.Close()
	c.r.Fill()
}

// ringSlice fills the annulus sector between angles a0 and a1, measured
// clockwise from 12 o'clock. Arcs are flattened to line segments because
// the raster and SVG renderers disagree on ArcTo's angle convention.
func (c *canvas) ringSlice(g Geometry, a0, a1 float64, fill drawing.Color) {
	steps := int(math.Ceil((a1 - a0) / (2 * math.Pi) * 180))
	if steps < 2 {
		steps = 2
	}

	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(fill)
	c.r.SetStrokeWidth(1)

	x, y := polar(g, g.Outer, a0)
	c.r.MoveTo(x, y)
	for i := 1; i <= steps; i++ {
		x, y = polar(g, g.Outer, a0+(a1-a0)*float64(i)/float64(steps))
		c.r.LineTo(x, y)
	}
	for i := steps; i >= 0; i-- {
		x, y = polar(g, g.Inner, a0+(a1-a0)*float64(i)/float64(steps))
		c.r.LineTo(x, y)
	}
	c.r.Close()
	c.r.FillStroke()
}

func polar(g Geometry, r, a float64) (int, int) {
	return int(math.Round(g.CX + r*math.Sin(a))), int(math.Round(g.CY - r*math.Cos(a)))
}

// centeredLines stacks lines vertically around (cx, cy).
func (c *canvas) centeredLines(cx, cy float64, lines []line) {
	total := 0.0
	for _, l := range lines {
		total += l.size * 1.2
	}
	y := cy - total/2
	for _, l := range lines {
		c.r.SetFont(c.font)
		c.r.SetFontSize(l.size)
		c.r.SetFontColor(l.color)
		box := c.r.MeasureText(l.body)

		y += l.size * 1.2
		body := l.body
		if c.escape {
			body = html.EscapeString(body)
		}
		c.r.Text(body, int(math.Round(cx-float64(box.Width())/2)), int(math.Round(y-l.size*0.2)))
	}
}
