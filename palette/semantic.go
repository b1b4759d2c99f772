package palette

import (
	"math"
	"strings"
)

// Mode selects the light or dark variant of the semantic palette.
type Mode int

const (
	Light Mode = iota
	Dark
)

// ParseMode maps "dark" (any case) to Dark, everything else to Light.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "dark") {
		return Dark
	}
	return Light
}

func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// Semantic holds named color roles for one theme mode.
type Semantic struct {
	Background          string `json:"background"`
	BackgroundSecondary string `json:"backgroundSecondary"`
	BackgroundTertiary  string `json:"backgroundTertiary"`
	Text                string `json:"text"`
	TextSecondary       string `json:"textSecondary"`
	TextTertiary        string `json:"textTertiary"`
	Accent              string `json:"accent"`
	AccentHover         string `json:"accentHover"`
	Border              string `json:"border"`
	Separator           string `json:"separator"`
	CardBg              string `json:"cardBg"`
}

// SemanticColors builds the role palette. Dark mode only derives the accent
// roles from base, the rest are fixed design-system values.
func SemanticColors(base string, mode Mode) Semantic {
	base = checked(base)
	if mode == Dark {
		return Semantic{
			Background:          "#000000",
			BackgroundSecondary: "#1C1C1E",
			BackgroundTertiary:  "#2C2C2E",
			Text:                "#FFFFFF",
			TextSecondary:       "#98989D",
			TextTertiary:        "#636366",
			Accent:              base,
			AccentHover:         Lighten(base, 0.2),
			Border:              "#38383A",
			Separator:           "#48484A",
			CardBg:              "#1C1C1E",
		}
	}
	return Semantic{
		Background:          "#FFFFFF",
		BackgroundSecondary: TintedGray(base, 5, 98),
		BackgroundTertiary:  TintedGray(base, 8, 95),
		Text:                "#1D1D1F",
		TextSecondary:       "#86868B",
		TextTertiary:        "#AEAEB2",
		Accent:              base,
		AccentHover:         Darken(base, 0.1),
		Border:              "#D2D2D7",
		Separator:           "#E5E5EA",
		CardBg:              TintedGray(base, 10, 96),
	}
}

// ContrastRatio returns the WCAG 2.1 contrast ratio (1..21). Unparseable
// input yields 1.
func ContrastRatio(a, b string) float64 {
	ca, err := ParseHex(a)
	if err != nil {
		malformed(a, err)
		return 1
	}
	cb, err := ParseHex(b)
	if err != nil {
		malformed(b, err)
		return 1
	}
	l1, l2 := luminance(ca), luminance(cb)
	if l2 > l1 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// MeetsAA reports WCAG AA compliance: 3.0 for large text, 4.5 otherwise.
func MeetsAA(fg, bg string, largeText bool) bool {
	threshold := 4.5
	if largeText {
		threshold = 3.0
	}
	return ContrastRatio(fg, bg) >= threshold
}

// OnColor picks white or near-black text for a solid background, preferring
// white whenever it passes the large-text threshold.
func OnColor(bg string) string {
	if MeetsAA("#FFFFFF", bg, true) {
		return "#FFFFFF"
	}
	return "#1D1D1F"
}

func luminance(c RGB) float64 {
	lin := func(v uint8) float64 {
		f := float64(v) / 255
		if f <= 0.03928 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}
