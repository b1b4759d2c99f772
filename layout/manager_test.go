package layout

import (
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func approxRect(t *testing.T, got, want Rect) {
	t.Helper()
	const eps = 1e-9
	if math.Abs(got.Left-want.Left) > eps || math.Abs(got.Top-want.Top) > eps ||
		math.Abs(got.Width-want.Width) > eps || math.Abs(got.Height-want.Height) > eps {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func newDefault(t *testing.T, w, h float64, opts ...Option) *Manager {
	t.Helper()
	m, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New(%g, %g): %v", w, h, err)
	}
	return m
}

func TestDefaultPageIsUnitScale(t *testing.T) {
	m := newDefault(t, 720, 405)
	if m.ScaleX() != 1 || m.ScaleY() != 1 {
		t.Fatalf("720x405pt should map at scale 1, got %g/%g", m.ScaleX(), m.ScaleY())
	}
	r, err := m.RectPath("contentSlide.title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approxRect(t, r, Rect{Left: 18.75, Top: 15, Width: 622.5, Height: 48.75})
}

func TestAnisotropicScaling(t *testing.T) {
	m := newDefault(t, 1440, 405)
	if m.ScaleX() != 2 || m.ScaleY() != 1 {
		t.Fatalf("expected scale 2/1, got %g/%g", m.ScaleX(), m.ScaleY())
	}
	r, err := m.Rect("contentSlide", "body")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approxRect(t, r, Rect{Left: 37.5, Top: 99, Width: 1365, Height: 247.5})
}

func TestRightAnchorEquivalence(t *testing.T) {
	m := newDefault(t, 720, 405)
	byRight, err := m.Rect("contentSlide", "headerLogo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byLeft := m.Resolve(Spec{Left: Px(865), Top: Px(20), Width: Px(75)})
	approxRect(t, byRight, byLeft)
	if byRight.Height != 0 {
		t.Fatalf("absent height should resolve to 0, got %g", byRight.Height)
	}
}

func TestLeftWinsOverRight(t *testing.T) {
	m := newDefault(t, 720, 405)
	r := m.Resolve(Spec{Left: Px(100), Right: Px(20), Width: Px(50)})
	if r.Left != 75 {
		t.Fatalf("left should be authoritative, got %g", r.Left)
	}
}

func TestMissingAnchorFallsBackToZero(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := newDefault(t, 720, 405, WithLogger(zap.New(core)))

	r := m.Resolve(Spec{Top: Px(10), Width: Px(100)})
	if r.Left != 0 {
		t.Fatalf("expected left fallback 0, got %g", r.Left)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestRightAnchorPastPageEdgeIsClamped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	table, err := LoadTable(strings.NewReader(`positions v1 { slide s { b { right: 20; top: 0; width: 1000; height: 10 } } }`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := newDefault(t, 720, 405, WithTable(table), WithLogger(zap.New(core)))
	r, err := m.Rect("s", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approxRect(t, r, Rect{Left: 0, Top: 0, Width: 750, Height: 7.5})
	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["anchor"] != "right" {
		t.Fatalf("expected one clamp warning naming the right anchor, got %v", entries)
	}
}

func TestNegativeGeometryIsClamped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := newDefault(t, 720, 405, WithLogger(zap.New(core)))
	r := m.Resolve(Spec{Left: Px(10), Top: Px(-10), Width: Px(-50), Height: Px(-20)})
	approxRect(t, r, Rect{Left: 7.5})
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
	for path, rect := range m.ResolveAll() {
		if rect.Left < 0 || rect.Top < 0 || rect.Width < 0 || rect.Height < 0 {
			t.Fatalf("%s resolved to a negative rectangle %+v", path, rect)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	m := newDefault(t, 1024, 576)
	for _, path := range []string{"titleSlide.title", "footer.rightPage", "pyramidSlide.pyramidArea"} {
		a, err := m.RectPath(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		b, _ := m.RectPath(path)
		if a != b {
			t.Fatalf("%s resolved differently: %+v vs %+v", path, a, b)
		}
	}
}

func TestRegionNotFound(t *testing.T) {
	m := newDefault(t, 720, 405)
	for _, path := range []string{"contentSlide.missing", "nope.title", "contentSlide", "a.b.c", ""} {
		if _, err := m.RectPath(path); !errors.Is(err, ErrRegionNotFound) {
			t.Fatalf("%q: expected ErrRegionNotFound, got %v", path, err)
		}
	}
}

func TestInvalidCanvas(t *testing.T) {
	for _, size := range [][2]float64{{0, 405}, {720, -1}, {math.NaN(), 405}} {
		if _, err := New(size[0], size[1]); !errors.Is(err, ErrInvalidCanvas) {
			t.Fatalf("%v: expected ErrInvalidCanvas, got %v", size, err)
		}
	}
}

func TestContentRect(t *testing.T) {
	m := newDefault(t, 720, 405)
	cases := map[SlideType]Region{
		"contentSlide":   "body",
		"processSlide":   "area",
		"cardsSlide":     "gridArea",
		"diagramSlide":   "lanesArea",
		"pyramidSlide":   "pyramidArea",
		"stepUpSlide":    "stepArea",
		"flowChartSlide": "singleRow",
		"compareSlide":   "leftBox",
		"imageTextSlide": "leftText",
	}
	for slide, region := range cases {
		got, ok := m.ContentRect(slide)
		if !ok {
			t.Fatalf("%s: expected a content rect", slide)
		}
		want, _ := m.Rect(slide, region)
		if got != want {
			t.Fatalf("%s: expected %s rect %+v, got %+v", slide, region, want, got)
		}
	}
	if _, ok := m.ContentRect("titleSlide"); ok {
		t.Fatalf("titleSlide has no content region")
	}
}

func TestCustomTable(t *testing.T) {
	table, err := NewTable(100, 50, map[SlideType]map[Region]Spec{
		"s": {"r": {Right: Px(10), Top: Px(5), Width: Px(20), Height: Px(10)}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := newDefault(t, 75, 37.5, WithTable(table))
	r, err := m.Rect("s", "r")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approxRect(t, r, Rect{Left: 52.5, Top: 3.75, Width: 15, Height: 7.5})
}

func TestDumpCoversEveryRegion(t *testing.T) {
	m := newDefault(t, 720, 405)
	d := m.Dump()
	if _, ok := d.Rects["footer.bottomBar"]; !ok {
		t.Fatalf("dump should contain footer.bottomBar")
	}
	count := 0
	for _, st := range m.Table().Slides() {
		count += len(m.Table().Regions(st))
	}
	if len(d.Rects) != count {
		t.Fatalf("expected %d rects, got %d", count, len(d.Rects))
	}
}

func TestDoubleSizeDoublesEveryRegion(t *testing.T) {
	small := newDefault(t, 720, 405).ResolveAll()
	large := newDefault(t, 1440, 810).ResolveAll()
	if len(small) != len(large) {
		t.Fatalf("region count differs: %d vs %d", len(small), len(large))
	}
	for key, r := range small {
		approxRect(t, large[key], Rect{Left: 2 * r.Left, Top: 2 * r.Top, Width: 2 * r.Width, Height: 2 * r.Height})
	}
}
