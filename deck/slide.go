package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Slide types understood by the generator.
const (
	TypeTitle     = "title"
	TypeSection   = "section"
	TypeContent   = "content"
	TypeAgenda    = "agenda"
	TypeCompare   = "compare"
	TypeProcess   = "process"
	TypeTimeline  = "timeline"
	TypeCards     = "cards"
	TypeTable     = "table"
	TypeQuote     = "quote"
	TypeKPI       = "kpi"
	TypePyramid   = "pyramid"
	TypeStepUp    = "stepUp"
	TypeImageText = "imageText"
	TypeClosing   = "closing"
	TypeDiagram   = "diagram"
	TypeProgress  = "progress"
	TypeTriangle  = "triangle"
	TypeFlowChart = "flowChart"
)

// Slide is one entry of the input deck. Which fields matter depends on Type.
type Slide struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Subhead string `json:"subhead,omitempty"`
	Date    string `json:"date,omitempty"`
	Notes   string `json:"notes,omitempty"`

	// content / agenda
	Points    []string   `json:"points,omitempty"`
	TwoColumn bool       `json:"twoColumn,omitempty"`
	Columns   [][]string `json:"columns,omitempty"`
	Images    []Image    `json:"images,omitempty"`

	// compare
	LeftTitle  string   `json:"leftTitle,omitempty"`
	RightTitle string   `json:"rightTitle,omitempty"`
	LeftItems  []string `json:"leftItems,omitempty"`
	RightItems []string `json:"rightItems,omitempty"`

	// process / stepUp / pyramid
	Steps  []string `json:"steps,omitempty"`
	Levels []Level  `json:"levels,omitempty"`

	Milestones []Milestone `json:"milestones,omitempty"`
	// cards / progress / triangle
	Items []Card `json:"items,omitempty"`

	Lanes []Lane `json:"lanes,omitempty"`
	Flows []Flow `json:"flows,omitempty"`

	// table
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`

	// quote
	Text   string `json:"text,omitempty"`
	Author string `json:"author,omitempty"`

	KPIs []KPI `json:"kpis,omitempty"`

	// imageText
	Image         string `json:"image,omitempty"`
	ImageCaption  string `json:"imageCaption,omitempty"`
	ImagePosition string `json:"imagePosition,omitempty"`
}

// Image is an image reference; JSON accepts a bare string or {"url": ...}.
type Image struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

func (i *Image) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i.URL = s
		return nil
	}
	type plain Image
	return json.Unmarshal(data, (*plain)(i))
}

// Milestone is a timeline entry.
type Milestone struct {
	Label string `json:"label"`
	Date  string `json:"date,omitempty"`
	State string `json:"state,omitempty"` // done, next or todo
}

// Card is a titled block used by the cards, progress and triangle slides.
// A bare string is a card with only a title, "label" is accepted for title.
type Card struct {
	Title   string  `json:"title"`
	Desc    string  `json:"desc,omitempty"`
	Percent float64 `json:"percent,omitempty"` // progress only, 0..100
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Title = s
		return nil
	}
	var aux struct {
		Title   string  `json:"title"`
		Label   string  `json:"label"`
		Desc    string  `json:"desc"`
		Percent float64 `json:"percent"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Card{Title: aux.Title, Desc: aux.Desc, Percent: aux.Percent}
	if c.Title == "" {
		c.Title = aux.Label
	}
	return nil
}

// Lane is one column of a swimlane diagram.
type Lane struct {
	Title string   `json:"title"`
	Items []string `json:"items,omitempty"`
}

// Flow is one row of a flow chart; JSON accepts a bare array of steps or
// {"steps": [...]}.
type Flow struct {
	Steps []string `json:"steps"`
}

func (f *Flow) UnmarshalJSON(data []byte) error {
	var steps []string
	if err := json.Unmarshal(data, &steps); err == nil {
		f.Steps = steps
		return nil
	}
	type plain Flow
	return json.Unmarshal(data, (*plain)(f))
}

// Level is one tier of a pyramid.
type Level struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// KPI is a single headline number.
type KPI struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change,omitempty"`
	Status string `json:"status,omitempty"` // good, bad or neutral
}

// Source is a deck file: either a bare array of slides or an object with
// optional settings overrides.
type Source struct {
	Settings json.RawMessage `json:"settings,omitempty"`
	Slides   []Slide         `json:"slides"`
}

// ApplySettings overlays the deck's own settings on base. Fields absent from
// the deck keep their base value.
func (s *Source) ApplySettings(base Settings) (Settings, error) {
	if len(s.Settings) == 0 || string(s.Settings) == "null" {
		return base, nil
	}
	if err := json.Unmarshal(s.Settings, &base); err != nil {
		return base, fmt.Errorf("decode deck settings: %w", err)
	}
	return base, nil
}

// ReadSource decodes a deck from r.
func ReadSource(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("deck is empty")
	}
	var src Source
	if data[0] == '[' {
		err = json.Unmarshal(data, &src.Slides)
	} else {
		err = json.Unmarshal(data, &src)
	}
	if err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	return &src, nil
}
