package deck

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/markup"
)

var fixedNow = time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)

func newTestGenerator(t *testing.T, settings Settings, opts ...layout.Option) *Generator {
	t.Helper()
	m, err := layout.New(720, 405, opts...)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return NewGenerator(m, settings, zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
}

func texts(p *Page) []string {
	var out []string
	for _, s := range p.Shapes {
		if s.Kind == ShapeText {
			out = append(out, s.Text.Text)
		}
	}
	return out
}

func countKind(p *Page, kind ShapeKind) int {
	n := 0
	for _, s := range p.Shapes {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func sampleDeck() []Slide {
	return []Slide{
		{Type: TypeTitle, Title: "Quarterly\nReview"},
		{Type: TypeAgenda, Title: "Agenda"},
		{Type: TypeSection, Title: "Results"},
		{Type: TypeContent, Title: "Highlights", Points: []string{"**Revenue** up", "[[Churn]] down"}, Notes: "Say **thanks** to [[sales]]"},
		{Type: TypeCompare, Title: "Before / After", LeftTitle: "Before", RightTitle: "After", LeftItems: []string{"slow"}, RightItems: []string{"fast"}},
		{Type: TypeProcess, Title: "Flow", Steps: []string{"Plan", "Build", "Ship"}},
		{Type: TypeTimeline, Title: "Roadmap", Milestones: []Milestone{{Label: "Q1", State: "done"}, {Label: "Q2", State: "next"}, {Label: "Q3", State: "todo"}}},
		{Type: TypeSection, Title: "Details"},
		{Type: TypeCards, Title: "Pillars", Items: []Card{{Title: "Speed", Desc: "fast"}, {Title: "Scale"}, {Title: "Cost"}}},
		{Type: TypeTable, Title: "Numbers", Headers: []string{"Metric", "Value"}, Rows: [][]string{{"ARR", "10M"}, {"NPS", "60"}}},
		{Type: TypeQuote, Title: "Voice", Text: "It just works.", Author: "A customer"},
		{Type: TypeKPI, Title: "KPIs", KPIs: []KPI{{Label: "ARR", Value: "10M", Change: "+12%", Status: "good"}}},
		{Type: TypePyramid, Title: "Needs", Levels: []Level{{Title: "Top"}, {Title: "Middle"}, {Title: "Base", Description: "foundation"}}},
		{Type: TypeStepUp, Title: "Maturity", Steps: []string{"Crawl", "Walk", "Run"}},
		{Type: TypeImageText, Title: "Product", Image: "shot.png", ImageCaption: "UI", Points: []string{"clean"}},
		{Type: TypeClosing},
	}
}

func TestGenerateFullDeck(t *testing.T) {
	g := newTestGenerator(t, DefaultSettings())
	doc, err := g.Run(context.Background(), sampleDeck())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != len(sampleDeck()) {
		t.Fatalf("expected %d pages, got %d", len(sampleDeck()), len(doc.Pages))
	}
	if doc.Title != "Quarterly Review" || doc.FileName != "quarterly-review-2025.03.07" {
		t.Fatalf("unexpected title/file name %q %q", doc.Title, doc.FileName)
	}
	if doc.ID == "" || doc.Width != 720 || doc.Height != 405 {
		t.Fatalf("unexpected document header %+v", doc)
	}

	// page numbers skip the title slide; the agenda is page 1
	if got := texts(doc.Pages[1]); !slices.Contains(got, "1") || !slices.Contains(got, "© 2025 Your Company") {
		t.Fatalf("agenda should carry footer and page 1, got %q", got)
	}
	if got := texts(doc.Pages[len(doc.Pages)-2]); !slices.Contains(got, "14") {
		t.Fatalf("last content slide should be page 14, got %q", got)
	}
	if got := texts(doc.Pages[0]); slices.Contains(got, "0") || !slices.Contains(got, "2025.03.07") {
		t.Fatalf("title slide should show the date and no page number, got %q", got)
	}
	if got := texts(doc.Pages[len(doc.Pages)-1]); !slices.Equal(got, []string{"Thank you"}) {
		t.Fatalf("closing slide should only carry its message, got %q", got)
	}
}

func TestSectionGhostNumbers(t *testing.T) {
	g := newTestGenerator(t, DefaultSettings())
	doc, _ := g.Run(context.Background(), sampleDeck())
	if got := texts(doc.Pages[2]); got[0] != "01" {
		t.Fatalf("first section should show 01, got %q", got)
	}
	if got := texts(doc.Pages[7]); got[0] != "02" {
		t.Fatalf("second section should show 02, got %q", got)
	}
}

func TestAgendaFallsBackToSections(t *testing.T) {
	g := newTestGenerator(t, DefaultSettings())
	doc, _ := g.Run(context.Background(), sampleDeck())
	var body string
	for _, s := range doc.Pages[1].Shapes {
		if s.Kind == ShapeText && strings.Contains(s.Text.Text, "Results") {
			body = s.Text.Text
		}
	}
	if body != "Results\n\nDetails" {
		t.Fatalf("agenda should list section titles, got %q", body)
	}

	doc, _ = g.Run(context.Background(), []Slide{{Type: TypeContent, Title: "目次"}})
	if got := texts(doc.Pages[0]); !slices.Contains(got, strings.Join(defaultAgenda, "\n\n")) {
		t.Fatalf("agenda-titled content without sections should use the default outline, got %q", got)
	}
}

func TestNotesAreSanitized(t *testing.T) {
	g := newTestGenerator(t, DefaultSettings())
	doc, _ := g.Run(context.Background(), sampleDeck())
	if got := doc.Pages[3].Notes; got != "Say thanks to sales" {
		t.Fatalf("unexpected notes %q", got)
	}
}

func TestStyledRangesUseAccent(t *testing.T) {
	g := newTestGenerator(t, Settings{PrimaryColor: "#4285F4"})
	doc, _ := g.Run(context.Background(), []Slide{{Type: TypeContent, Title: "T", Points: []string{"[[key]] point"}}})
	for _, s := range doc.Pages[0].Shapes {
		if s.Kind == ShapeText && s.Text.Text == "key point" {
			if len(s.Text.Ranges) != 1 || s.Text.Ranges[0].Color != "#4285F4" {
				t.Fatalf("expected an accent range, got %+v", s.Text.Ranges)
			}
			if s.Style.Size != markup.DefaultSizes.Body || s.Style.Color != g.Palette().TextPrimary {
				t.Fatalf("body text should use deck defaults, got %+v", s.Style)
			}
			return
		}
	}
	t.Fatalf("bullet text not found")
}

func TestUnknownTypeIsSkippedButCounted(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m, _ := layout.New(720, 405)
	g := NewGenerator(m, DefaultSettings(), zap.New(core))

	doc, err := g.Run(context.Background(), []Slide{
		{Type: "hologram", Title: "?"},
		{Type: TypeContent, Title: "After", Points: []string{"x"}},
	})
	if !errors.Is(err, ErrUnknownSlideType) {
		t.Fatalf("expected ErrUnknownSlideType, got %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("unknown slide should not produce a page, got %d", len(doc.Pages))
	}
	if got := texts(doc.Pages[0]); !slices.Contains(got, "2") {
		t.Fatalf("unknown slides still consume a page number, got %q", got)
	}
	if logs.FilterMessage("Slide skipped").Len() != 1 {
		t.Fatalf("expected a skip warning")
	}
}

func TestFailingSlideDoesNotStopRun(t *testing.T) {
	table, err := layout.NewTable(960, 540, map[layout.SlideType]map[layout.Region]layout.Spec{
		"contentSlide": {
			"title": {Left: layout.Px(25), Top: layout.Px(20), Width: layout.Px(830), Height: layout.Px(65)},
			"body":  {Left: layout.Px(25), Top: layout.Px(132), Width: layout.Px(910), Height: layout.Px(330)},
		},
		"compareSlide": {
			"title": {Left: layout.Px(25), Top: layout.Px(20), Width: layout.Px(830), Height: layout.Px(65)},
		},
	})
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	g := newTestGenerator(t, DefaultSettings(), layout.WithTable(table))
	doc, err := g.Run(context.Background(), []Slide{
		{Type: TypeCompare, Title: "Broken", Notes: "never attached"},
		{Type: TypeContent, Title: "Fine", Points: []string{"ok"}},
	})
	if !errors.Is(err, layout.ErrRegionNotFound) {
		t.Fatalf("expected a region error, got %v", err)
	}
	if n := len(multierr.Errors(err)); n != 1 {
		t.Fatalf("expected exactly one failure, got %d", n)
	}
	if len(doc.Pages) != 2 || doc.Pages[0].Notes != "" {
		t.Fatalf("failed slide keeps its page but gets no notes")
	}
	if got := texts(doc.Pages[1]); !slices.Contains(got, "ok") {
		t.Fatalf("slide after the failure should be built, got %q", got)
	}
}

type panicSurface struct{ *Recorder }

func (p panicSurface) AddPage(kind string) Canvas {
	c := p.Recorder.AddPage(kind)
	if kind == TypeQuote {
		return panicCanvas{c}
	}
	return c
}

type panicCanvas struct{ Canvas }

func (panicCanvas) Text(layout.Rect, markup.Styled, markup.TextStyle) { panic("surface exploded") }

func TestPanickingSlideIsIsolated(t *testing.T) {
	g := newTestGenerator(t, DefaultSettings())
	surface := panicSurface{NewRecorder(720, 405)}
	err := g.Generate(context.Background(), []Slide{
		{Type: TypeQuote, Text: "boom"},
		{Type: TypeContent, Title: "still here"},
	}, surface)
	if err == nil || !strings.Contains(err.Error(), "surface exploded") {
		t.Fatalf("expected the panic to surface as an error, got %v", err)
	}
	if got := len(surface.Document().Pages); got != 2 {
		t.Fatalf("expected both pages, got %d", got)
	}
}

func TestGenerateStopsOnCancel(t *testing.T) {
	g := newTestGenerator(t, DefaultSettings())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc, err := g.Run(ctx, sampleDeck())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(doc.Pages) != 0 {
		t.Fatalf("no slide should be built after cancellation")
	}
}

func TestGradientBottomBar(t *testing.T) {
	s := DefaultSettings()
	s.EnableGradient = true
	s.ShowTitleUnderline = false
	g := newTestGenerator(t, s)
	doc, _ := g.Run(context.Background(), []Slide{{Type: TypeTitle, Title: "T"}})
	var strips []Shape
	for _, sh := range doc.Pages[0].Shapes {
		if sh.Kind == ShapeRect {
			strips = append(strips, sh)
		}
	}
	// bottom bar is 720pt wide: floor(720/2) strips
	if len(strips) != 360 {
		t.Fatalf("expected 360 strips, got %d", len(strips))
	}
	if strips[0].Fill.Color != "#4285F4" || strips[len(strips)-1].Fill.Color != "#FF52DF" {
		t.Fatalf("gradient should run start→end, got %s→%s", strips[0].Fill.Color, strips[len(strips)-1].Fill.Color)
	}
}

func TestToggles(t *testing.T) {
	s := DefaultSettings()
	s.ShowBottomBar = false
	s.ShowTitleUnderline = false
	s.ShowDateColumn = false
	g := newTestGenerator(t, s)
	doc, _ := g.Run(context.Background(), []Slide{{Type: TypeTitle, Title: "T"}, {Type: TypeContent, Title: "C"}})
	for i, p := range doc.Pages {
		if n := countKind(p, ShapeRect); n != 0 {
			t.Fatalf("page %d: expected no bars, got %d rects", i, n)
		}
	}
	if got := texts(doc.Pages[0]); slices.Contains(got, "2025.03.07") {
		t.Fatalf("date should be hidden")
	}
	if doc.FileName != "t" {
		t.Fatalf("file name should have no date, got %q", doc.FileName)
	}
}

func TestHeaderLogoAnchoredRight(t *testing.T) {
	s := DefaultSettings()
	s.HeaderLogo = "logo.png"
	g := newTestGenerator(t, s)
	doc, _ := g.Run(context.Background(), []Slide{{Type: TypeContent, Title: "C"}})
	for _, sh := range doc.Pages[0].Shapes {
		if sh.Kind == ShapeImage && sh.Src == "logo.png" {
			if sh.Rect.Left != 648.75 || sh.Rect.Width != 56.25 {
				t.Fatalf("logo should sit 20px from the right edge, got %+v", sh.Rect)
			}
			return
		}
	}
	t.Fatalf("header logo not drawn")
}

func TestTypesAreSorted(t *testing.T) {
	types := Types()
	if len(types) != 19 || !slices.IsSorted(types) {
		t.Fatalf("unexpected types %v", types)
	}
}
