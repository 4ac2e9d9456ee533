package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawText renders s with the basic 7x13 face. halign/valign shift the
// anchor across the string extents, 0 meaning left/baseline-bottom and
// 1 meaning right/top.
func drawText(img *image.RGBA, x, y int, s string, col color.RGBA, halign, valign float64) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	height := face.Metrics().Ascent.Ceil()

	dx := int(halign * float64(width))
	dy := int(valign * float64(height))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x-dx, y+dy),
	}
	d.DrawString(s)
}
