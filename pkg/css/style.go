package css

import (
	"fmt"
	"strconv"
	"strings"
)

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// Merge copies every property of other onto s.
func (s *Style) Merge(other *Style) {
	for k, v := range other.Properties {
		s.Properties[k] = v
	}
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSuffix(strings.TrimSpace(val), "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// FormatLength renders a length the way ParseLength reads it back.
func FormatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

func (s *Style) edge(prefix, suffix string) BoxEdge {
	get := func(side string) float64 {
		v, _ := s.GetLength(prefix + "-" + side + suffix)
		return v
	}
	return BoxEdge{Top: get("top"), Right: get("right"), Bottom: get("bottom"), Left: get("left")}
}

func (s *Style) GetMargin() BoxEdge      { return s.edge("margin", "") }
func (s *Style) GetBorderWidth() BoxEdge { return s.edge("border", "-width") }

type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
)

// GetPosition returns the position value (default: static)
func (s *Style) GetPosition() PositionType {
	switch v, _ := s.Get("position"); PositionType(v) {
	case PositionRelative:
		return PositionRelative
	case PositionAbsolute, "fixed":
		return PositionAbsolute
	}
	return PositionStatic
}

// GetZIndex returns the z-index value (default: 0)
func (s *Style) GetZIndex() int {
	if v, ok := s.Get("z-index"); ok {
		if z, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return z
		}
	}
	return 0
}

// IsHidden reports display:none.
func (s *Style) IsHidden() bool {
	v, _ := s.Get("display")
	return v == "none"
}

// ParseInlineStyle parses the contents of a style attribute.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for property, value := range parseDeclarations(styleAttr) {
		style.Set(property, value)
	}
	return style
}

// parseDeclarations splits "a: b; c: d" and expands shorthands.
func parseDeclarations(block string) map[string]string {
	style := NewStyle()
	for _, decl := range strings.Split(block, ";") {
		property, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		value = strings.TrimSpace(value)
		if property == "" || value == "" {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style.Properties
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, "", value)
	case "border-width":
		expandBoxProperty(style, "border", "-width", value)
	case "border":
		expandBorderProperty(style, value)
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands the 1-4 value box shorthand into per-side
// properties named prefix-side+suffix.
func expandBoxProperty(style *Style, prefix, suffix, value string) {
	parts := strings.Fields(value)
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(prefix+"-top"+suffix, t)
	style.Set(prefix+"-right"+suffix, r)
	style.Set(prefix+"-bottom"+suffix, b)
	style.Set(prefix+"-left"+suffix, l)
}

// expandBorderProperty expands border shorthand
// Format: "1px solid black" or "2px dotted #FF0000"
func expandBorderProperty(style *Style, value string) {
	for _, part := range strings.Fields(value) {
		switch {
		case strings.HasSuffix(part, "px"):
			expandBoxProperty(style, "border", "-width", part)
		case part == "solid" || part == "dotted" || part == "dashed" || part == "double" || part == "none":
			style.Set("border-style", part)
		default:
			style.Set("border-color", part)
		}
	}
}

// Color is an sRGB color with alpha in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

var namedColors = map[string]Color{
	"black":   {0, 0, 0, 1},
	"white":   {255, 255, 255, 1},
	"red":     {255, 0, 0, 1},
	"green":   {0, 128, 0, 1},
	"blue":    {0, 0, 255, 1},
	"yellow":  {255, 255, 0, 1},
	"cyan":    {0, 255, 255, 1},
	"magenta": {255, 0, 255, 1},
	"gray":    {128, 128, 128, 1},
	"grey":    {128, 128, 128, 1},
	"orange":  {255, 165, 0, 1},
	"purple":  {128, 0, 128, 1},
	"pink":    {255, 192, 203, 1},
	"brown":   {165, 42, 42, 1},
	"lime":    {0, 255, 0, 1},
	"navy":    {0, 0, 128, 1},
	"teal":    {0, 128, 128, 1},
	"silver":  {192, 192, 192, 1},
	"maroon":  {128, 0, 0, 1},
	"olive":   {128, 128, 0, 1},

	"transparent": {0, 0, 0, 0},
}

// ParseColor accepts named colors, #rgb, #rgba, #rrggbb, #rrggbbaa,
// rgb(r,g,b) and rgba(r,g,b,a).
func ParseColor(colorStr string) (Color, bool) {
	s := strings.ToLower(strings.TrimSpace(colorStr))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if inner, ok := strings.CutPrefix(s, "rgba("); ok {
		return parseRGBFunc(strings.TrimSuffix(inner, ")"), true)
	}
	if inner, ok := strings.CutPrefix(s, "rgb("); ok {
		return parseRGBFunc(strings.TrimSuffix(inner, ")"), false)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, 8)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	if len(hex) == 6 {
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 1}, true
	}
	return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), float64(uint8(v)) / 255}, true
}

func parseRGBFunc(args string, withAlpha bool) (Color, bool) {
	parts := strings.Split(args, ",")
	if (withAlpha && len(parts) != 4) || (!withAlpha && len(parts) != 3) {
		return Color{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return Color{}, false
		}
		ch[i] = uint8(n)
	}
	c := Color{ch[0], ch[1], ch[2], 1}
	if withAlpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, false
		}
		c.A = a
	}
	return c, true
}

// RGBA returns the channels as floats in [0,1], the form gg expects.
func (c Color) RGBA() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, c.A
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%g)", c.R, c.G, c.B, c.A)
}
