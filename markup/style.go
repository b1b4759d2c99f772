package markup

import "strings"

// Weight is a named font weight. Only semibold and bold render bold.
type Weight string

const (
	WeightLight    Weight = "light"
	WeightRegular  Weight = "regular"
	WeightMedium   Weight = "medium"
	WeightSemibold Weight = "semibold"
	WeightBold     Weight = "bold"
)

func (w Weight) Bold() bool {
	switch Weight(strings.ToLower(string(w))) {
	case WeightSemibold, WeightBold:
		return true
	}
	return false
}

// Align is paragraph alignment.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignJustify
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	case AlignJustify:
		return "justify"
	default:
		return "start"
	}
}

// Sizes is the type scale in points.
type Sizes struct {
	Title        float64 `yaml:"title" json:"title"`
	Date         float64 `yaml:"date" json:"date"`
	SectionTitle float64 `yaml:"section_title" json:"sectionTitle"`
	ContentTitle float64 `yaml:"content_title" json:"contentTitle"`
	Subhead      float64 `yaml:"subhead" json:"subhead"`
	Body         float64 `yaml:"body" json:"body"`
	Footer       float64 `yaml:"footer" json:"footer"`
	Chip         float64 `yaml:"chip" json:"chip"`
	LaneTitle    float64 `yaml:"lane_title" json:"laneTitle"`
	Small        float64 `yaml:"small" json:"small"`
	ProcessStep  float64 `yaml:"process_step" json:"processStep"`
	Axis         float64 `yaml:"axis" json:"axis"`
	GhostNum     float64 `yaml:"ghost_num" json:"ghostNum"`
}

// DefaultSizes is the stock type scale.
var DefaultSizes = Sizes{
	Title:        40,
	Date:         16,
	SectionTitle: 38,
	ContentTitle: 24,
	Subhead:      16,
	Body:         14,
	Footer:       9,
	Chip:         11,
	LaneTitle:    13,
	Small:        10,
	ProcessStep:  14,
	Axis:         12,
	GhostNum:     180,
}

// TextStyle describes how a whole text box is styled before ranges are applied.
// Zero fields mean "inherit"; see Resolve.
type TextStyle struct {
	Family     string  `json:"family,omitempty"`
	Size       float64 `json:"size,omitempty"`
	Color      string  `json:"color,omitempty"`
	Bold       bool    `json:"bold,omitempty"`
	Weight     Weight  `json:"weight,omitempty"`
	Align      Align   `json:"align"`
	LineHeight float64 `json:"lineHeight,omitempty"`
}

// Resolve fills zero fields from defaults. A named Weight overrides Bold.
// Without defaults for them, size falls back to the body size and line
// height to 1.
func (s TextStyle) Resolve(defaults TextStyle) TextStyle {
	if s.Family == "" {
		s.Family = defaults.Family
	}
	if s.Size <= 0 {
		s.Size = defaults.Size
	}
	if s.Size <= 0 {
		s.Size = DefaultSizes.Body
	}
	if s.Color == "" {
		s.Color = defaults.Color
	}
	if s.LineHeight <= 0 {
		s.LineHeight = defaults.LineHeight
	}
	if s.LineHeight <= 0 {
		s.LineHeight = 1
	}
	if s.Weight != "" {
		s.Bold = s.Weight.Bold()
	}
	return s
}
