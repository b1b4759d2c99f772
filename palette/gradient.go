package palette

// gradient describes how a sequence generator spreads Lighten amounts over
// its items. Rising sequences start at the base color and get lighter,
// falling ones start light and end on the base color.
type gradient struct {
	span   float64
	rising bool
}

var (
	pyramidGradient  = gradient{span: 0.6, rising: true}  // top (base) to bottom (light)
	stepUpGradient   = gradient{span: 0.6, rising: false} // left (light) to right (base)
	processGradient  = gradient{span: 0.5, rising: false} // top (light) to bottom (base)
	timelineGradient = gradient{span: 0.4, rising: false} // left (light) to right (base)
)

func (g gradient) colors(base string, n int) []string {
	if n <= 0 {
		return nil
	}
	den := float64(n - 1)
	if den < 1 {
		den = 1
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		frac := float64(i) / den
		if !g.rising {
			frac = 1 - frac
		}
		out = append(out, Lighten(base, g.span*frac))
	}
	return out
}

// PyramidColors returns levels colors, index 0 being the base color.
func PyramidColors(base string, levels int) []string { return pyramidGradient.colors(base, levels) }

// StepUpColors returns steps colors, lightest first.
func StepUpColors(base string, steps int) []string { return stepUpGradient.colors(base, steps) }

// ProcessColors returns steps colors, lightest first.
func ProcessColors(base string, steps int) []string { return processGradient.colors(base, steps) }

// TimelineColors returns milestones colors, lightest first.
func TimelineColors(base string, milestones int) []string {
	return timelineGradient.colors(base, milestones)
}

// Compare is the before/after pair used by comparison slides.
type Compare struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// CompareColors darkens the left side by 30% and keeps the base on the right.
// A malformed base yields Fallback on both sides.
func CompareColors(base string) Compare {
	base = checked(base)
	return Compare{Left: Darken(base, 0.3), Right: base}
}
