package deck

import (
	"strings"
	"testing"
	"time"
)

func TestReadSourceArray(t *testing.T) {
	src, err := ReadSource(strings.NewReader(`
	[
	  {"type": "title", "title": "Hello"},
	  {"type": "content", "title": "Gallery", "images": ["a.png", {"url": "b.jpg", "caption": "B"}]},
	  {"type": "cards", "items": ["Plain", {"title": "Rich", "desc": "detail"}]}
	]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Settings != nil || len(src.Slides) != 3 {
		t.Fatalf("unexpected source %+v", src)
	}
	imgs := src.Slides[1].Images
	if len(imgs) != 2 || imgs[0].URL != "a.png" || imgs[1].URL != "b.jpg" || imgs[1].Caption != "B" {
		t.Fatalf("unexpected images %+v", imgs)
	}
	cards := src.Slides[2].Items
	if cards[0] != (Card{Title: "Plain"}) || cards[1] != (Card{Title: "Rich", Desc: "detail"}) {
		t.Fatalf("unexpected cards %+v", cards)
	}
}

func TestReadSourceDiagramShapes(t *testing.T) {
	src, err := ReadSource(strings.NewReader(`[
	  {"type": "progress", "items": [{"label": "Build", "percent": 42.5}, {"title": "Ship", "label": "ignored"}]},
	  {"type": "flowChart", "flows": [["A", "B"], {"steps": ["C"]}]},
	  {"type": "diagram", "lanes": [{"title": "Ops", "items": ["Deploy"]}]}
	]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := src.Slides[0].Items
	if items[0] != (Card{Title: "Build", Percent: 42.5}) || items[1] != (Card{Title: "Ship"}) {
		t.Fatalf("unexpected progress items %+v", items)
	}
	flows := src.Slides[1].Flows
	if len(flows) != 2 || strings.Join(flows[0].Steps, ",") != "A,B" || strings.Join(flows[1].Steps, ",") != "C" {
		t.Fatalf("unexpected flows %+v", flows)
	}
	lanes := src.Slides[2].Lanes
	if len(lanes) != 1 || lanes[0].Title != "Ops" || lanes[0].Items[0] != "Deploy" {
		t.Fatalf("unexpected lanes %+v", lanes)
	}
}

func TestReadSourceObject(t *testing.T) {
	src, err := ReadSource(strings.NewReader(`{
	  "settings": {"primaryColor": "#FF9500", "themeMode": "dark", "enableGradient": true},
	  "slides": [{"type": "closing"}]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settings, err := src.ApplySettings(DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.PrimaryColor != "#FF9500" || settings.ThemeMode != "dark" || !settings.EnableGradient {
		t.Fatalf("settings not applied: %+v", settings)
	}
	// fields the deck does not mention keep the base value
	if !settings.ShowBottomBar || settings.GradientEnd != "#FF52DF" {
		t.Fatalf("base settings lost: %+v", settings)
	}
	if len(src.Slides) != 1 || src.Slides[0].Type != TypeClosing {
		t.Fatalf("unexpected slides %+v", src.Slides)
	}
}

func TestApplySettingsWithoutOverrides(t *testing.T) {
	src := &Source{}
	base := DefaultSettings()
	got, err := src.ApplySettings(base)
	if err != nil || got != base {
		t.Fatalf("expected base settings back, got %+v (%v)", got, err)
	}
	src.Settings = []byte(`{"primaryColor": 3}`)
	if _, err := src.ApplySettings(base); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestReadSourceErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "[{", `{"slides": 3}`} {
		if _, err := ReadSource(strings.NewReader(in)); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestSettingsDefaults(t *testing.T) {
	s := Settings{ThemeMode: "dark"}.withDefaults()
	if s.PrimaryColor != "#0A84FF" || s.FontFamily != "Latin Modern Sans" || s.ThemeMode != "dark" {
		t.Fatalf("unexpected settings %+v", s)
	}
	if s.ShowBottomBar {
		t.Fatalf("booleans must not be defaulted")
	}
}

func TestFileName(t *testing.T) {
	when := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		title    string
		withDate bool
		want     string
	}{
		{"Quarterly Review\nQ3", true, "quarterly-review-q3-2025.03.07"},
		{"Quarterly Review", false, "quarterly-review"},
		{"", false, "slide-generator-presentation"},
		{"!!!", true, "slide-generator-presentation-2025.03.07"},
	}
	for _, c := range cases {
		if got := FileName(c.title, when, c.withDate); got != c.want {
			t.Fatalf("FileName(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestDeckTitle(t *testing.T) {
	if got := DeckTitle([]Slide{{Type: TypeTitle, Title: " Line one\nline two "}}); got != "Line one line two" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := DeckTitle([]Slide{{Type: TypeContent, Title: "Not a title"}}); got != DefaultTitle {
		t.Fatalf("non-title first slide should fall back, got %q", got)
	}
	if got := DeckTitle(nil); got != DefaultTitle {
		t.Fatalf("empty deck should fall back, got %q", got)
	}
}
