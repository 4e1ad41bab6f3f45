// Package chart turns a price history into plot geometry for an SVG-style
// viewport: normalized points, a line path and a fill-area path.
package chart

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mswatii/steam-price-tracker/internal/models"
)

// paddingRatio of the price range is added above and below the series
const (
	paddingRatio    = 0.1
	fallbackPadding = 1.0
)

// Viewport is the output coordinate space; y grows downward.
// A dimension that is not a positive finite number falls back to DefaultViewport.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var DefaultViewport = Viewport{Width: 100, Height: 100}

// Point is a sample mapped into viewport coordinates
type Point struct {
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Price float64   `json:"price"`
	Date  time.Time `json:"date"`
}

// Geometry is everything needed to draw one price chart
type Geometry struct {
	Points    []Point   `json:"points"`
	LinePath  string    `json:"linePath"`
	AreaPath  string    `json:"areaPath"`
	MinPrice  float64   `json:"minPrice"`
	MaxPrice  float64   `json:"maxPrice"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Viewport  Viewport  `json:"viewport"`
}

func (v Viewport) normalize() Viewport {
	if !(v.Width > 0) || math.IsInf(v.Width, 0) {
		v.Width = DefaultViewport.Width
	}
	if !(v.Height > 0) || math.IsInf(v.Height, 0) {
		v.Height = DefaultViewport.Height
	}
	return v
}

// ComputeGeometry maps samples, ordered by ascending date, into vp.
// It returns nil when there is nothing to draw.
func ComputeGeometry(samples []models.PriceSample, vp Viewport) *Geometry {
	if len(samples) == 0 {
		return nil
	}
	vp = vp.normalize()

	minPrice, maxPrice := samples[0].Price, samples[0].Price
	for _, s := range samples[1:] {
		minPrice = math.Min(minPrice, s.Price)
		maxPrice = math.Max(maxPrice, s.Price)
	}

	padding := (maxPrice - minPrice) * paddingRatio
	if padding == 0 {
		padding = fallbackPadding
	}
	adjustedMin := minPrice - padding
	adjustedRange := (maxPrice + padding) - adjustedMin

	n := len(samples)
	points := make([]Point, n)
	for i, s := range samples {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1) * vp.Width
		}
		points[i] = Point{
			X:     x,
			Y:     vp.Height - ((s.Price-adjustedMin)/adjustedRange)*vp.Height,
			Price: s.Price,
			Date:  s.Date,
		}
	}

	line := linePath(points)
	return &Geometry{
		Points:    points,
		LinePath:  line,
		AreaPath:  areaPath(line, points, vp.Height),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		StartDate: samples[0].Date,
		EndDate:   samples[n-1].Date,
		Viewport:  vp,
	}
}

func linePath(points []Point) string {
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(formatCoord(p.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Y))
	}
	return b.String()
}

// areaPath closes the line down to the baseline and back under the first point
func areaPath(line string, points []Point, baseline float64) string {
	first, last := points[0], points[len(points)-1]
	base := formatCoord(baseline)
	return line +
		" L " + formatCoord(last.X) + " " + base +
		" L " + formatCoord(first.X) + " " + base +
		" Z"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Nearest returns the point horizontally closest to x. Ties go to the
// earlier point; ok is false when points is empty.
func Nearest(points []Point, x float64) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	closest := points[0]
	best := math.Abs(closest.X - x)
	for _, p := range points[1:] {
		if d := math.Abs(p.X - x); d < best {
			closest, best = p, d
		}
	}
	return closest, true
}
