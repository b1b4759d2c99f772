package palette

// Palette is the flat set of colors slide builders draw with. It is computed
// once per generation run and passed by value; nothing mutates it afterwards.
type Palette struct {
	Mode           Mode   `json:"mode"`
	Primary        string `json:"primary"`
	Background     string `json:"background"`
	BackgroundGray string `json:"backgroundGray"`
	FaintGray      string `json:"faintGray"`
	TextPrimary    string `json:"textPrimary"`
	GhostGray      string `json:"ghostGray"`
	TableHeaderBg  string `json:"tableHeaderBg"`
	LaneBorder     string `json:"laneBorder"`
	CardBorder     string `json:"cardBorder"`
	NeutralGray    string `json:"neutralGray"`
	ProcessArrow   string `json:"processArrow"`
	Separator      string `json:"separator"`
	CardBg         string `json:"cardBg"`
	AccentHover    string `json:"accentHover"`
	OnPrimary      string `json:"onPrimary"`
}

// New derives the palette for primary in the given mode. A malformed primary
// is replaced by Fallback so every derived role stays well-formed.
func New(primary string, mode Mode) Palette {
	primary = checked(primary)
	sem := SemanticColors(primary, mode)
	ghost := 88.0
	if mode == Dark {
		ghost = 30
	}
	p := Palette{
		Mode:           mode,
		Primary:        sem.Accent,
		Background:     sem.Background,
		BackgroundGray: sem.BackgroundSecondary,
		FaintGray:      sem.BackgroundTertiary,
		TextPrimary:    sem.Text,
		GhostGray:      SubtleTint(primary, 8, ghost),
		TableHeaderBg:  sem.BackgroundTertiary,
		LaneBorder:     sem.Border,
		CardBorder:     sem.Border,
		NeutralGray:    sem.TextSecondary,
		ProcessArrow:   sem.TextTertiary,
		Separator:      sem.Separator,
		CardBg:         sem.CardBg,
		AccentHover:    sem.AccentHover,
		OnPrimary:      OnColor(sem.Accent),
	}
	return p
}

func (p Palette) Compare() Compare { return CompareColors(p.Primary) }
func (p Palette) Pyramid(n int) []string { return PyramidColors(p.Primary, n) }
func (p Palette) StepUp(n int) []string { return StepUpColors(p.Primary, n) }
func (p Palette) Process(n int) []string { return ProcessColors(p.Primary, n) }
func (p Palette) Timeline(n int) []string { return TimelineColors(p.Primary, n) }
