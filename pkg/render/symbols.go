package render

import (
	"image"
	"image/color"
	"math"

	"github.com/openchips/legend/pkg/chips"
)

// drawSymbol draws one marker glyph centered at cx,cy. Size is the
// glyph diameter in pixels; Angle rotates the polygonal glyphs.
func drawSymbol(img *image.RGBA, cx, cy int, style chips.SymbolStyle, col color.RGBA) {
	size := style.Size
	if size <= 0 {
		size = 8
	}
	r := size / 2
	if r < 1 {
		r = 1
	}

	switch style.Style {
	case chips.SymbolNone:
	case chips.SymbolPoint:
		img.SetRGBA(cx, cy, col)
		img.SetRGBA(cx+1, cy, col)
		img.SetRGBA(cx, cy+1, col)
		img.SetRGBA(cx+1, cy+1, col)
	case chips.SymbolCircle:
		drawCircle(img, cx, cy, r, col, style.Fill)
	case chips.SymbolCross:
		line(img, cx-r, cy-r, cx+r, cy+r, col, nil, 1)
		line(img, cx-r, cy+r, cx+r, cy-r, col, nil, 1)
	case chips.SymbolPlus:
		line(img, cx-r, cy, cx+r, cy, col, nil, 1)
		line(img, cx, cy-r, cx, cy+r, col, nil, 1)
	case chips.SymbolSquare:
		drawPolygon(img, cx, cy, []float64{-1, 1, 1, -1}, []float64{-1, -1, 1, 1}, r, style.Angle, col, style.Fill)
	case chips.SymbolDiamond:
		drawPolygon(img, cx, cy, []float64{0, 1, 0, -1}, []float64{-1, 0, 1, 0}, r, style.Angle, col, style.Fill)
	case chips.SymbolUpTriangle:
		drawPolygon(img, cx, cy, []float64{0, 1, -1}, []float64{-1, 1, 1}, r, style.Angle, col, style.Fill)
	case chips.SymbolDownTriangle:
		drawPolygon(img, cx, cy, []float64{0, 1, -1}, []float64{1, -1, -1}, r, style.Angle, col, style.Fill)
	}
}

func drawCircle(img *image.RGBA, cx, cy, r int, col color.RGBA, fill bool) {
	if fill {
		for y := -r; y <= r; y++ {
			for x := -r; x <= r; x++ {
				if x*x+y*y <= r*r {
					img.SetRGBA(cx+x, cy+y, col)
				}
			}
		}
		return
	}
	// Midpoint circle.
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			img.SetRGBA(cx+p[0], cy+p[1], col)
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// drawPolygon draws a unit polygon scaled by r, rotated by angle
// degrees, centered at cx,cy.
func drawPolygon(img *image.RGBA, cx, cy int, ux, uy []float64, r int, angle float64, col color.RGBA, fill bool) {
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	xs := make([]int, len(ux))
	ys := make([]int, len(uy))
	for i := range ux {
		x := ux[i]*cos - uy[i]*sin
		y := ux[i]*sin + uy[i]*cos
		xs[i] = cx + int(math.Round(x*float64(r)))
		ys[i] = cy + int(math.Round(y*float64(r)))
	}
	if fill {
		fillPolygon(img, xs, ys, col, 1)
	}
	j := len(xs) - 1
	for i := range xs {
		line(img, xs[j], ys[j], xs[i], ys[i], col, nil, 1)
		j = i
	}
}
