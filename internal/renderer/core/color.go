package core

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Color represents a color value.
// Supports true color (RGB) and terminal palette colors.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	// G and B are ignored in indexed mode.
	Indexed bool
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ansiNames are the names of the 16 palette colors, in palette order.
var ansiNames = []string{
	"ansiblack", "ansired", "ansigreen", "ansiyellow",
	"ansiblue", "ansimagenta", "ansicyan", "ansigray",
	"ansibrightblack", "ansibrightred", "ansibrightgreen", "ansibrightyellow",
	"ansibrightblue", "ansibrightmagenta", "ansibrightcyan", "ansiwhite",
}

// ParseColor parses a color name. It accepts "default", "#rgb" and
// "#rrggbb" hex forms, the ansi* palette names, "colorN" palette
// indexes, and the W3C color names tcell knows.
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch {
	case name == "" || name == "default":
		return ColorDefault, nil
	case strings.HasPrefix(name, "#"):
		c, err := colorful.Hex(name)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return ColorFromRGB(r, g, b), nil
	case strings.HasPrefix(name, "color"):
		n, err := strconv.ParseUint(strings.TrimPrefix(name, "color"), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid palette color %q", s)
		}
		return ColorFromIndex(uint8(n)), nil
	}
	for i, n := range ansiNames {
		if n == name {
			return ColorFromIndex(uint8(i)), nil
		}
	}
	tc, ok := tcell.ColorNames[name]
	if !ok {
		return Color{}, fmt.Errorf("unknown color %q", s)
	}
	return fromTcell(tc), nil
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func fromTcell(tc tcell.Color) Color {
	if tc >= tcell.ColorValid && tc < tcell.ColorIsRGB {
		return ColorFromIndex(uint8(tc - tcell.ColorValid))
	}
	r, g, b := tc.RGB()
	return ColorFromRGB(uint8(r), uint8(g), uint8(b))
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default != other.Default {
		return false
	}
	if c.Default {
		return true
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.IsDefault() {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("color%d", c.R)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the color's components. Palette colors use the xterm
// palette values.
func (c Color) RGB() (r, g, b uint8) {
	if c.Indexed {
		p := xtermPalette()[c.R]
		return p.R, p.G, p.B
	}
	return c.R, c.G, c.B
}

// Palette256 returns the nearest color of the xterm 256-color palette.
// Colors in the 16-color range are never chosen, since terminals remap
// them freely.
func (c Color) Palette256() Color {
	if c.Default || c.Indexed {
		return c
	}
	return ColorFromIndex(nearest(c, 16, 256))
}

// Palette16 returns the nearest of the 16 basic palette colors.
func (c Color) Palette16() Color {
	if c.Default || (c.Indexed && c.R < 16) {
		return c
	}
	return ColorFromIndex(nearest(c, 0, 16))
}

type nearestKey struct {
	c      Color
	lo, hi int
}

var nearestCache sync.Map

// nearest finds the palette index in [lo, hi) closest to c in Lab space.
func nearest(c Color, lo, hi int) uint8 {
	r, g, b := c.RGB()
	key := nearestKey{c: ColorFromRGB(r, g, b), lo: lo, hi: hi}
	if v, ok := nearestCache.Load(key); ok {
		return v.(uint8)
	}
	want := toColorful(r, g, b)
	pal := xtermPalette()
	best, bestDist := lo, -1.0
	for i := lo; i < hi; i++ {
		d := want.DistanceLab(toColorful(pal[i].R, pal[i].G, pal[i].B))
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	nearestCache.Store(key, uint8(best))
	return uint8(best)
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// basic16 holds the xterm defaults for the 16 basic colors.
var basic16 = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

var xtermPalette = sync.OnceValue(func() [256]Color {
	var pal [256]Color
	for i, rgb := range basic16 {
		pal[i] = ColorFromRGB(rgb[0], rgb[1], rgb[2])
	}
	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	for i := range 216 {
		pal[16+i] = ColorFromRGB(steps[i/36], steps[(i/6)%6], steps[i%6])
	}
	for i := range 24 {
		v := uint8(8 + i*10)
		pal[232+i] = ColorFromRGB(v, v, v)
	}
	return pal
})
