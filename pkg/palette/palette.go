// Package palette generates visually distinct display colors for transit
// lines. Hues advance by the golden angle so consecutive lines land far
// apart on the color wheel regardless of how many are created.
package palette

import (
	"fmt"
	"math"
)

// Golden angle in degrees. Consecutive hues at this spacing never cluster,
// which keeps adjacent line colors distinguishable on a map.
const hueStep = 137.50776405003785

// Saturation and lightness are fixed; only the hue varies.
const (
	saturation = 0.70
	lightness  = 0.50
)

// Generator produces an endless sequence of line colors.
// It is deterministic: two generators with the same start hue yield the
// same sequence. Generator is not safe for concurrent use.
type Generator struct {
	hue float64
}

// New creates a generator starting at hue 0 (a saturated red).
func New() *Generator {
	return &Generator{}
}

// NewAt creates a generator starting at the given hue in degrees.
func NewAt(hue float64) *Generator {
	return &Generator{hue: math.Mod(hue, 360)}
}

// Next returns the next color as a "#rrggbb" hex string and advances the
// generator. Next never fails.
func (g *Generator) Next() string {
	c := hslToHex(g.hue, saturation, lightness)
	g.hue = math.Mod(g.hue+hueStep, 360)
	return c
}

// hslToHex converts an HSL color (h in degrees, s and l in [0,1]) to a
// "#rrggbb" string.
func hslToHex(h, s, l float64) string {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := l - c/2
	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Round((r+m)*255)),
		int(math.Round((g+m)*255)),
		int(math.Round((b+m)*255)))
}
