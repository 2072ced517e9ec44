// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a packed 0xRRGGBB colour value as understood by the viewer.
type Color uint32

// namedColors holds the CSS colour keywords accepted by ParseColor in addition to hex notation.
var namedColors = map[string]Color{
	"black":   0x000000,
	"white":   0xffffff,
	"red":     0xff0000,
	"green":   0x008000,
	"lime":    0x00ff00,
	"blue":    0x0000ff,
	"yellow":  0xffff00,
	"cyan":    0x00ffff,
	"magenta": 0xff00ff,
	"orange":  0xffa500,
	"purple":  0x800080,
	"pink":    0xffc0cb,
	"grey":    0x808080,
	"gray":    0x808080,
}

// ParseColor converts a colour string into a Color.
// Accepts "#rrggbb", "#rgb", "0xrrggbb", bare "rrggbb" and a small set of CSS keywords.
//
// Parameters:
//   - s: the colour string
//
// Returns:
//   - Color: the parsed colour
//   - error: error if the string is not a recognised colour
func ParseColor(s string) (Color, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return 0, fmt.Errorf("empty colour string")
	}
	if c, ok := namedColors[raw]; ok {
		return c, nil
	}

	hex := raw
	switch {
	case strings.HasPrefix(hex, "#"):
		hex = hex[1:]
	case strings.HasPrefix(hex, "0x"):
		hex = hex[2:]
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color(v), nil
}

// MustParseColor is ParseColor for compile-time constants. It panics on invalid input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGB returns the colour channels normalised to [0, 1].
func (c Color) RGB() (r, g, b float32) {
	return float32((c>>16)&0xff) / 255, float32((c>>8)&0xff) / 255, float32(c&0xff) / 255
}

// Hex returns the colour in "#rrggbb" notation.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}
