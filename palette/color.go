// Package palette derives theme colors from a single primary color.
//
// All functions are total over their inputs: a malformed hex string never
// aborts a generation run, it is logged and replaced with Fallback.
package palette

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Fallback is the neutral light gray returned when a color cannot be parsed.
const Fallback = "#F8F9FA"

// ErrMalformedColor is wrapped by ParseHex for anything that is not #RRGGBB.
var ErrMalformedColor = errors.New("malformed color")

// RGB uses 0-255 channel values.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSL is only an intermediate representation: H in [0,360), S and L in [0,100].
type HSL struct {
	H float64
	S float64
	L float64
}

var fallbackRGB = RGB{R: 0xF8, G: 0xF9, B: 0xFA}

// ParseHex parses "#RRGGBB" or "RRGGBB" (case-insensitive).
func ParseHex(s string) (RGB, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(v) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrMalformedColor, s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrMalformedColor, s)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// HexToRGB is ParseHex with the Fallback substituted on error.
func HexToRGB(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		malformed(s, err)
		return fallbackRGB
	}
	return c
}

// Hex formats the color as uppercase #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBToHSL converts using the standard hexcone model.
func RGBToHSL(c RGB) HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	maxc := math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))
	l := (maxc + minc) / 2
	if maxc == minc {
		return HSL{H: 0, S: 0, L: l * 100}
	}
	d := maxc - minc
	var s float64
	if l > 0.5 {
		s = d / (2 - maxc - minc)
	} else {
		s = d / (maxc + minc)
	}
	var h float64
	switch maxc {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return HSL{H: h * 60, S: s * 100, L: l * 100}
}

// HSLToHex converts back to #RRGGBB. Hue is wrapped into [0,360) first so
// every input lands in exactly one of the six sectors.
func HSLToHex(c HSL) string {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	s := clamp(c.S, 0, 100) / 100
	l := clamp(c.L, 0, 100) / 100

	chroma := (1 - math.Abs(2*l-1)) * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - chroma/2

	var r, g, b float64
	switch sector := int(h / 60); sector {
	case 0:
		r, g, b = chroma, x, 0
	case 1:
		r, g, b = x, chroma, 0
	case 2:
		r, g, b = 0, chroma, x
	case 3:
		r, g, b = 0, x, chroma
	case 4:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	return RGB{R: channel((r + m) * 255), G: channel((g + m) * 255), B: channel((b + m) * 255)}.Hex()
}

// Lighten moves each channel toward 255 by amount (0..1).
func Lighten(color string, amount float64) string {
	c, err := ParseHex(color)
	if err != nil {
		malformed(color, err)
		return Fallback
	}
	up := func(v uint8) uint8 {
		f := float64(v)
		return channel(math.Min(255, math.Round(f+(255-f)*amount)))
	}
	return RGB{R: up(c.R), G: up(c.G), B: up(c.B)}.Hex()
}

// Darken scales each channel by (1-amount). It is not the inverse of Lighten.
func Darken(color string, amount float64) string {
	c, err := ParseHex(color)
	if err != nil {
		malformed(color, err)
		return Fallback
	}
	down := func(v uint8) uint8 {
		return channel(math.Max(0, math.Round(float64(v)*(1-amount))))
	}
	return RGB{R: down(c.R), G: down(c.G), B: down(c.B)}.Hex()
}

// Blend interpolates linearly between a (t=0) and b (t=1).
func Blend(a, b string, t float64) string {
	ca, err := ParseHex(a)
	if err != nil {
		malformed(a, err)
		return Fallback
	}
	cb, err := ParseHex(b)
	if err != nil {
		malformed(b, err)
		return Fallback
	}
	t = clamp(t, 0, 1)
	mix := func(x, y uint8) uint8 {
		return channel(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return RGB{R: mix(ca.R, cb.R), G: mix(ca.G, cb.G), B: mix(ca.B, cb.B)}.Hex()
}

// TintedGray keeps the hue of tint and forces saturation/lightness.
func TintedGray(tint string, saturation, lightness float64) string {
	c, err := ParseHex(tint)
	if err != nil {
		malformed(tint, err)
		return Fallback
	}
	hsl := RGBToHSL(c)
	return HSLToHex(HSL{H: hsl.H, S: saturation, L: lightness})
}

// SubtleTint is TintedGray with saturation capped to [0,20].
func SubtleTint(tint string, strength, lightness float64) string {
	return TintedGray(tint, clamp(strength, 0, 20), lightness)
}

func channel(v float64) uint8 {
	return uint8(clamp(math.Round(v), 0, 255))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// checked returns base when it parses, Fallback otherwise.
func checked(base string) string {
	if _, err := ParseHex(base); err != nil {
		malformed(base, err)
		return Fallback
	}
	return base
}

func malformed(value string, err error) {
	zap.L().Warn("Malformed color, using fallback", zap.String("color", value), zap.String("fallback", Fallback), zap.Error(err))
}
