// Package colors resolves the host toolkit's color names to RGBA.
package colors

import (
	"hash/crc32"
	"image/color"
	"strconv"
	"strings"
)

var colorMap = map[string]color.RGBA{
	"black":     {0, 0, 0, 255},
	"white":     {255, 255, 255, 255},
	"red":       {255, 0, 0, 255},
	"green":     {0, 255, 0, 255},
	"blue":      {0, 0, 255, 255},
	"cyan":      {0, 255, 255, 255},
	"magenta":   {255, 0, 255, 255},
	"yellow":    {255, 255, 0, 255},
	"orange":    {255, 165, 0, 255},
	"gold":      {255, 215, 0, 255},
	"forest":    {34, 139, 34, 255},
	"navy":      {0, 0, 128, 255},
	"maroon":    {128, 0, 0, 255},
	"purple":    {128, 0, 128, 255},
	"turquoise": {64, 224, 208, 255},
	"gray":      {128, 128, 128, 255},
	"grey":      {128, 128, 128, 255},
	"default":   {0, 0, 0, 255},
}

// Resolve maps a named or #rrggbb color to RGBA. Unknown names hash to
// a stable color instead of failing, so every curve stays visible.
func Resolve(name string) color.RGBA {
	if name == "" {
		return colorMap["default"]
	}
	if c, ok := colorMap[strings.ToLower(name)]; ok {
		return c
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil {
			return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
		}
	}
	return HashRGB(name)
}

// HashRGB derives a stable color from an arbitrary string.
func HashRGB(s string) color.RGBA {
	h := crc32.ChecksumIEEE([]byte(s))
	r := uint8((h >> 16) & 0xFF)
	g := uint8((h >> 8) & 0xFF)
	b := uint8(h & 0xFF)
	// Lift very dark results so they do not vanish on the background.
	if int(r)+int(g)+int(b) < 120 {
		r += 80
		g += 80
		b += 80
	}
	return color.RGBA{r, g, b, 255}
}
