// Package render rasterizes a chipshost scene into an image. It is a
// minimal software renderer: Bresenham lines, scanline polygon fills
// and bitmap-font labels, enough to present frames, curves, regions,
// points and labels on screen or in an exported PNG.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/openchips/legend/pkg/chips"
	"github.com/openchips/legend/pkg/chipshost"
	"github.com/openchips/legend/pkg/colors"
)

var background = color.RGBA{255, 255, 255, 255}

// Render draws the scene's current window at w x h pixels.
func Render(s *chipshost.Scene, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, 0, 0, w-1, h-1, background, 1)

	var win *chipshost.Window
	for _, cand := range s.Windows {
		if cand.ID == s.CurWindow {
			win = cand
			break
		}
	}
	if win == nil && len(s.Windows) > 0 {
		win = s.Windows[0]
	}
	if win == nil {
		return img
	}

	for _, f := range win.Frames {
		renderFrame(img, f, w, h)
	}
	return img
}

func renderFrame(img *image.RGBA, f *chipshost.Frame, w, h int) {
	fx1 := int(f.X1 * float64(w))
	fx2 := int(f.X2 * float64(w))
	fy1 := int((1 - f.Y2) * float64(h))
	fy2 := int((1 - f.Y1) * float64(h))

	if !f.Style.Transparency {
		fillRect(img, fx1, fy1, fx2, fy2, background, 1)
	}
	for _, p := range f.Plots {
		renderPlot(img, p, fx1, fy1, fx2, fy2)
	}
	if f.Style.BorderVisible {
		rect(img, fx1, fy1, fx2, fy2, colors.Resolve(f.Style.BorderColor))
	}
}

// mapping converts a plot's world coordinates to pixels.
type mapping struct {
	xlo, xhi, ylo, yhi       float64
	left, right, top, bottom float64
}

func (m *mapping) px(x float64) int {
	return int(math.Round(m.left + (x-m.xlo)/(m.xhi-m.xlo)*(m.right-m.left)))
}

func (m *mapping) py(y float64) int {
	return int(math.Round(m.bottom - (y-m.ylo)/(m.yhi-m.ylo)*(m.bottom-m.top)))
}

func renderPlot(img *image.RGBA, p *chipshost.Plot, fx1, fy1, fx2, fy2 int) {
	fw := float64(fx2 - fx1)
	fh := float64(fy2 - fy1)
	m := &mapping{
		left:   float64(fx1) + p.Style.LeftMargin*fw,
		right:  float64(fx2) - p.Style.RightMargin*fw,
		top:    float64(fy1) + p.Style.TopMargin*fh,
		bottom: float64(fy2) - p.Style.BottomMargin*fh,
	}
	m.xlo, m.xhi, m.ylo, m.yhi = worldRanges(p)

	for _, r := range p.Regions {
		renderRegion(img, r, m)
	}
	for _, c := range p.Curves {
		renderCurve(img, c, m)
	}
	for _, pt := range p.Points {
		drawSymbol(img, m.px(pt.X), m.py(pt.Y), pt.Style, colors.Resolve(pt.Style.Color))
	}
	for _, l := range p.Labels {
		drawText(img, m.px(l.X), m.py(l.Y), l.Text, colors.Resolve(l.Style.Color), l.Style.HAlign, l.Style.VAlign)
	}
	renderAxes(img, p, m)
}

// worldRanges takes the plot's data ranges from its axes, falling back
// to the data extents with a small pad when no axis was added.
func worldRanges(p *chipshost.Plot) (xlo, xhi, ylo, yhi float64) {
	xlo, xhi, ylo, yhi = 0, 1, 0, 1
	var haveX, haveY bool
	for _, a := range p.Axes {
		switch a.Axis {
		case chips.XAxis:
			xlo, xhi = a.Lo, a.Hi
			haveX = true
		case chips.YAxis:
			ylo, yhi = a.Lo, a.Hi
			haveY = true
		}
	}
	if haveX && haveY {
		return
	}

	first := true
	minX, maxX, minY, maxY := 0.0, 1.0, 0.0, 1.0
	scan := func(xs, ys []float64) {
		for i := range xs {
			if first {
				minX, maxX, minY, maxY = xs[i], xs[i], ys[i], ys[i]
				first = false
				continue
			}
			minX = math.Min(minX, xs[i])
			maxX = math.Max(maxX, xs[i])
			minY = math.Min(minY, ys[i])
			maxY = math.Max(maxY, ys[i])
		}
	}
	for _, c := range p.Curves {
		scan(c.Xs, c.Ys)
	}
	if first {
		return
	}
	padX := (maxX - minX) * 0.05
	padY := (maxY - minY) * 0.05
	if padX == 0 {
		padX = 0.5
	}
	if padY == 0 {
		padY = 0.5
	}
	if !haveX {
		xlo, xhi = minX-padX, maxX+padX
	}
	if !haveY {
		ylo, yhi = minY-padY, maxY+padY
	}
	return
}

func renderRegion(img *image.RGBA, r *chipshost.Region, m *mapping) {
	xs := make([]int, len(r.Xs))
	ys := make([]int, len(r.Ys))
	for i := range r.Xs {
		xs[i] = m.px(r.Xs[i])
		ys[i] = m.py(r.Ys[i])
	}
	if r.Style.FillStyle != "none" {
		fillPolygon(img, xs, ys, colors.Resolve(r.Style.FillColor), r.Style.Opacity)
	}
	edge := colors.Resolve(r.Style.EdgeColor)
	j := len(xs) - 1
	for i := range xs {
		line(img, xs[j], ys[j], xs[i], ys[i], edge, nil, 1)
		j = i
	}
}

func renderCurve(img *image.RGBA, c *chipshost.Curve, m *mapping) {
	col := colors.Resolve(c.Style.Line.Color)
	thickness := int(c.Style.Line.Thickness)
	if thickness < 1 {
		thickness = 1
	}
	pattern := dashPattern(c.Style.Line.Style)

	if c.Style.Line.Style != chips.LineNone {
		for i := 1; i < len(c.Xs); i++ {
			line(img,
				m.px(c.Xs[i-1]), m.py(c.Ys[i-1]),
				m.px(c.Xs[i]), m.py(c.Ys[i]),
				col, pattern, thickness)
		}
	}
	if c.Style.Symbol.Style != chips.SymbolNone {
		scol := colors.Resolve(c.Style.Symbol.Color)
		for i := range c.Xs {
			drawSymbol(img, m.px(c.Xs[i]), m.py(c.Ys[i]), c.Style.Symbol, scol)
		}
	}
}

func dashPattern(kind chips.LineKind) []int {
	switch kind {
	case chips.LineDash:
		return []int{6, 4}
	case chips.LineDot:
		return []int{2, 3}
	case chips.LineDashDot:
		return []int{6, 3, 2, 3}
	default:
		return nil
	}
}

// renderAxes draws the plot box edges for visible axes. Hidden axes
// leave the drawing area bare, which is what overlay plots rely on.
func renderAxes(img *image.RGBA, p *chipshost.Plot, m *mapping) {
	black := colors.Resolve("black")
	for _, a := range p.Axes {
		if a.Hidden {
			continue
		}
		switch a.Axis {
		case chips.XAxis:
			line(img, int(m.left), int(m.bottom), int(m.right), int(m.bottom), black, nil, 1)
		case chips.YAxis:
			line(img, int(m.left), int(m.bottom), int(m.left), int(m.top), black, nil, 1)
		}
	}
}
