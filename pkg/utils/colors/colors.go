package colors

import (
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var named = map[string]string{
	"black":         "#000000",
	"white":         "#ffffff",
	"grey":          "#808080",
	"gray":          "#808080",
	"paleturquoise": "#afeeee",
	"darkseagreen":  "#8fbc8f",
}

var white = colorful.Color{R: 1, G: 1, B: 1}

// Parse reads the CSS color forms the grid palette uses: #rrggbb, #rrggbbaa,
// rgb()/rgba() and a handful of names. "inherit" and unknown values report false.
func Parse(css string) (c colorful.Color, alpha float64, ok bool) {
	s := strings.ToLower(strings.TrimSpace(css))
	if hex, isNamed := named[s]; isNamed {
		s = hex
	}

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		return parseRGB(s)
	}
	return colorful.Color{}, 0, false
}

func parseHex(s string) (colorful.Color, float64, bool) {
	alpha := 1.0
	switch len(s) {
	case 7:
	case 9:
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		alpha = float64(a) / 255
		s = s[:7]
	default:
		return colorful.Color{}, 0, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, 0, false
	}
	return c, alpha, true
}

func parseRGB(s string) (colorful.Color, float64, bool) {
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return colorful.Color{}, 0, false
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return colorful.Color{}, 0, false
	}

	var channels [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		channels[i] = v / 255
	}
	alpha := 1.0
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		alpha = v
	}
	return colorful.Color{R: channels[0], G: channels[1], B: channels[2]}.Clamped(), alpha, true
}

// Opaque flattens a translucent color onto a white page
func Opaque(css string) (colorful.Color, bool) {
	c, alpha, ok := Parse(css)
	if !ok {
		return colorful.Color{}, false
	}
	if alpha >= 1 {
		return c, true
	}
	return c.BlendRgb(white, 1-alpha).Clamped(), true
}

// Hex returns the opaque #rrggbb form, or false for colors that mean "no fill"
func Hex(css string) (string, bool) {
	c, ok := Opaque(css)
	if !ok {
		return "", false
	}
	return c.Hex(), true
}
