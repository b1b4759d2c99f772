package deck

import (
	"context"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ByLCY/slidegen/layout"
)

func arrows(p *Page) int {
	n := 0
	for _, s := range p.Shapes {
		if s.Kind == ShapeLine && s.Arrow {
			n++
		}
	}
	return n
}

func TestDiagramLanes(t *testing.T) {
	g := newTestGenerator(t, DefaultSettings())
	doc, err := g.Run(context.Background(), []Slide{{
		Type:  TypeDiagram,
		Title: "Ownership",
		Lanes: []Lane{
			{Title: "Sales", Items: []string{"Lead", "Deal"}},
			{Title: "Ops", Items: []string{"Onboard", "Support"}},
			{Title: "Finance", Items: []string{"Invoice"}},
		},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := doc.Pages[0]
	got := texts(p)
	for _, want := range []string{"Sales", "Ops", "Finance", "Lead", "Invoice"} {
		if !slices.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
	var cards []layout.Rect
	for _, s := range p.Shapes {
		if s.Kind == ShapeRoundRect {
			cards = append(cards, s.Rect)
		}
	}
	if len(cards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(cards))
	}
	// plenty of room: cards are capped at 70px
	if cards[0].Height != 52.5 {
		t.Fatalf("card height should be capped, got %g", cards[0].Height)
	}
	// rows 0 and 1 connect Sales to Ops, row 0 connects Ops to Finance
	if n := arrows(p); n != 3 {
		t.Fatalf("expected 3 arrows, got %d", n)
	}
}

func TestProgressBars(t *testing.T) {
	g := newTestGenerator(t, DefaultSettings())
	doc, err := g.Run(context.Background(), []Slide{{
		Type:  TypeProgress,
		Title: "Status",
		Items: []Card{{Title: "Design", Percent: 80}, {Title: "Build", Percent: 150}, {Title: "Test"}},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := doc.Pages[0]
	got := texts(p)
	for _, want := range []string{"Design", "80%", "100%", "0%"} {
		if !slices.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}

	primary := g.Palette().Primary
	tracks := map[float64]float64{}
	for _, s := range p.Shapes {
		if s.Kind == ShapeRoundRect && s.Fill.Color == g.Palette().FaintGray {
			tracks[s.Rect.Top] = s.Rect.Width
		}
	}
	if len(tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(tracks))
	}
	var ratios []float64
	for _, s := range p.Shapes {
		if w, ok := tracks[s.Rect.Top]; ok && s.Kind == ShapeRect && s.Fill.Color == primary {
			ratios = append(ratios, s.Rect.Width/w)
		}
	}
	if len(ratios) != 2 || math.Abs(ratios[0]-0.8) > 1e-9 || math.Abs(ratios[1]-1) > 1e-9 {
		t.Fatalf("unexpected bar fill ratios %v", ratios)
	}
}

func TestTriangleTakesThreeNodes(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m, err := layout.New(720, 405)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	g := NewGenerator(m, DefaultSettings(), zap.New(core), WithClock(func() time.Time { return fixedNow }))
	doc, err := g.Run(context.Background(), []Slide{{
		Type:  TypeTriangle,
		Title: "Balance",
		Items: []Card{{Title: "People"}, {Title: "Process", Desc: "repeatable"}, {Title: "Tools"}, {Title: "Extra"}},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := doc.Pages[0]
	if n := countKind(p, ShapeRoundRect); n != 3 {
		t.Fatalf("expected 3 nodes, got %d", n)
	}
	if n := countKind(p, ShapeLine); n != 3 {
		t.Fatalf("expected 3 edges, got %d", n)
	}
	if slices.Contains(texts(p), "Extra") {
		t.Fatalf("fourth item should be dropped")
	}
	if logs.FilterMessage("Triangle takes three items, dropping the rest").Len() != 1 {
		t.Fatalf("expected a warning about dropped items")
	}
}

func TestFlowChartRows(t *testing.T) {
	g := newTestGenerator(t, DefaultSettings())
	doc, err := g.Run(context.Background(), []Slide{
		{Type: TypeFlowChart, Title: "Two rows", Flows: []Flow{{Steps: []string{"A", "B", "C"}}, {Steps: []string{"D", "E"}}}},
		{Type: TypeFlowChart, Title: "One row", Steps: []string{"Plan", "Do"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boxTops := func(p *Page) []float64 {
		var out []float64
		for _, s := range p.Shapes {
			if s.Kind == ShapeRoundRect && !slices.Contains(out, s.Rect.Top) {
				out = append(out, s.Rect.Top)
			}
		}
		return out
	}
	if got := boxTops(doc.Pages[0]); !slices.Equal(got, []float64{112.5, 217.5}) {
		t.Fatalf("two flows should use the upper and lower rows, got %v", got)
	}
	if n := arrows(doc.Pages[0]); n != 3 {
		t.Fatalf("expected 3 arrows, got %d", n)
	}
	if got := boxTops(doc.Pages[1]); !slices.Equal(got, []float64{120}) {
		t.Fatalf("steps should use the single row, got %v", got)
	}
}

func TestFlowChartWithoutTwoRowGeometry(t *testing.T) {
	table, err := layout.NewTable(960, 540, map[layout.SlideType]map[layout.Region]layout.Spec{
		"flowChartSlide": {
			"title":     {Left: layout.Px(25), Top: layout.Px(20), Width: layout.Px(830), Height: layout.Px(65)},
			"singleRow": {Left: layout.Px(25), Top: layout.Px(160), Width: layout.Px(910), Height: layout.Px(180)},
		},
	})
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	g := newTestGenerator(t, DefaultSettings(), layout.WithTable(table))
	doc, err := g.Run(context.Background(), []Slide{
		{Type: TypeFlowChart, Title: "F", Flows: []Flow{{Steps: []string{"A", "B"}}, {Steps: []string{"C"}}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := texts(doc.Pages[0])
	if !slices.Contains(got, "A") || slices.Contains(got, "C") {
		t.Fatalf("only the first flow should be drawn, got %q", got)
	}
}

func TestLongListsContinueOnNextPage(t *testing.T) {
	points := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	cards := []Card{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}, {Title: "e"}}
	g := newTestGenerator(t, DefaultSettings())
	doc, err := g.Run(context.Background(), []Slide{
		{Type: TypeContent, Title: "Long", Subhead: "Sub", Points: points, Notes: "n"},
		{Type: TypeCards, Title: "Grid", Items: cards},
		{Type: TypeContent, Title: "Two", TwoColumn: true, Points: points},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 5 {
		t.Fatalf("expected 5 pages, got %d", len(doc.Pages))
	}
	first, second := texts(doc.Pages[0]), texts(doc.Pages[1])
	if !slices.Contains(first, strings.Join(points[:6], "\n\n")) || !slices.Contains(second, "p7\n\np8") {
		t.Fatalf("points not split at six: %q / %q", first, second)
	}
	if !slices.Contains(second, "Long") || slices.Contains(second, "Sub") || !slices.Contains(second, "2") {
		t.Fatalf("continuation page should keep the title, drop the subhead and count a page, got %q", second)
	}
	if doc.Pages[0].Notes != "n" || doc.Pages[1].Notes != "" {
		t.Fatalf("notes belong to the first page only")
	}
	if n := countKind(doc.Pages[2], ShapeRoundRect); n != 4 {
		t.Fatalf("first cards page should hold 4 cards, got %d", n)
	}
	if n := countKind(doc.Pages[3], ShapeRoundRect); n != 1 {
		t.Fatalf("second cards page should hold 1 card, got %d", n)
	}
	// two-column content is laid out as given
	if doc.Pages[4].Kind != TypeContent || !slices.Contains(texts(doc.Pages[4]), "5") {
		t.Fatalf("two-column slide should be a single page 5, got %q", texts(doc.Pages[4]))
	}
}
