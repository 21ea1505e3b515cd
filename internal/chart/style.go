package chart

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/vg/draw"
)

// shorthand mirrors the single-letter color codes of common plotting tools.
var shorthand = map[string]color.RGBA{
	"b": {R: 0, G: 0, B: 255, A: 255},
	"g": {R: 0, G: 128, B: 0, A: 255},
	"r": {R: 255, G: 0, B: 0, A: 255},
	"c": {R: 0, G: 191, B: 191, A: 255},
	"m": {R: 191, G: 0, B: 191, A: 255},
	"y": {R: 191, G: 191, B: 0, A: 255},
	"k": {R: 0, G: 0, B: 0, A: 255},
	"w": {R: 255, G: 255, B: 255, A: 255},
}

// ParseColor resolves a single-letter code or an SVG color name.
func ParseColor(name string) (color.Color, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if c, ok := shorthand[key]; ok {
		return c, nil
	}
	if c, ok := colornames.Map[key]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown color %q", name)
}

// ParseMarker resolves a marker code to a glyph.
func ParseMarker(code string) (draw.GlyphDrawer, error) {
	switch strings.TrimSpace(code) {
	case "x", "":
		return draw.CrossGlyph{}, nil
	case "+":
		return draw.PlusGlyph{}, nil
	case "o":
		return draw.RingGlyph{}, nil
	case ".":
		return draw.CircleGlyph{}, nil
	case "s":
		return draw.BoxGlyph{}, nil
	case "^":
		return draw.PyramidGlyph{}, nil
	}
	return nil, fmt.Errorf("unknown marker %q", code)
}
