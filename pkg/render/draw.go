package render

import (
	"image"
	"image/color"
)

type setter interface {
	SetRGBA(x, y int, c color.RGBA)
}

// Bresenham draws a line segment onto p, invoking plot for every pixel
// so callers can apply dash patterns.
func Bresenham(x1, y1, x2, y2 int, plot func(x, y int)) {
	dx, dy := x2-x1, y2-y1
	absDx, absDy := abs(dx), abs(dy)
	xInc, yInc := sign(dx), sign(dy)

	if absDx == 0 && absDy == 0 {
		plot(x1, y1)
		return
	}

	var d, dInc1, dInc2 int
	isXDominant := absDx > absDy
	if isXDominant {
		d, dInc1, dInc2 = 2*absDy-absDx, 2*absDy, 2*(absDy-absDx)
	} else {
		d, dInc1, dInc2 = 2*absDx-absDy, 2*absDx, 2*(absDx-absDy)
	}

	for {
		plot(x1, y1)
		if x1 == x2 && y1 == y2 {
			break
		}
		if isXDominant {
			if d < 0 {
				d += dInc1
			} else {
				y1 += yInc
				d += dInc2
			}
			x1 += xInc
		} else {
			if d < 0 {
				d += dInc1
			} else {
				x1 += xInc
				d += dInc2
			}
			y1 += yInc
		}
	}
}

// line draws a possibly patterned, possibly thick line.
func line(img setter, x1, y1, x2, y2 int, col color.RGBA, pattern []int, thickness int) {
	n := 0
	plot := func(x, y int) {
		on := true
		if pattern != nil {
			phase := n % patternLen(pattern)
			run, isOn := 0, true
			for _, p := range pattern {
				run += p
				if phase < run {
					on = isOn
					break
				}
				isOn = !isOn
			}
		}
		n++
		if !on {
			return
		}
		img.SetRGBA(x, y, col)
		for t := 1; t < thickness; t++ {
			img.SetRGBA(x+t, y, col)
			img.SetRGBA(x, y+t, col)
		}
	}
	Bresenham(x1, y1, x2, y2, plot)
}

func patternLen(pattern []int) int {
	total := 0
	for _, p := range pattern {
		total += p
	}
	if total == 0 {
		return 1
	}
	return total
}

// blend alpha-composites col over the pixel at x,y.
func blend(img *image.RGBA, x, y int, col color.RGBA, opacity float64) {
	if opacity >= 1 {
		img.SetRGBA(x, y, col)
		return
	}
	if opacity <= 0 {
		return
	}
	bg := img.RGBAAt(x, y)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*opacity + float64(b)*(1-opacity))
	}
	img.SetRGBA(x, y, color.RGBA{
		R: mix(col.R, bg.R),
		G: mix(col.G, bg.G),
		B: mix(col.B, bg.B),
		A: 255,
	})
}

// fillPolygon scanline-fills a polygon given in pixel coordinates,
// even-odd rule.
func fillPolygon(img *image.RGBA, xs, ys []int, col color.RGBA, opacity float64) {
	if len(xs) < 3 || len(xs) != len(ys) {
		return
	}
	minY, maxY := ys[0], ys[0]
	for _, y := range ys {
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	for y := minY; y <= maxY; y++ {
		var crossings []int
		j := len(xs) - 1
		for i := range xs {
			yi, yj := ys[i], ys[j]
			if (yi <= y && yj > y) || (yj <= y && yi > y) {
				x := xs[i] + (y-yi)*(xs[j]-xs[i])/(yj-yi)
				crossings = append(crossings, x)
			}
			j = i
		}
		sortInts(crossings)
		for i := 0; i+1 < len(crossings); i += 2 {
			for x := crossings[i]; x <= crossings[i+1]; x++ {
				blend(img, x, y, col, opacity)
			}
		}
	}
}

func sortInts(v []int) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

func rect(img setter, x1, y1, x2, y2 int, col color.RGBA) {
	line(img, x1, y1, x2, y1, col, nil, 1)
	line(img, x2, y1, x2, y2, col, nil, 1)
	line(img, x2, y2, x1, y2, col, nil, 1)
	line(img, x1, y2, x1, y1, col, nil, 1)
}

func fillRect(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, opacity float64) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			blend(img, x, y, col, opacity)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	if n < 0 {
		return -1
	} else if n > 0 {
		return 1
	}
	return 0
}
