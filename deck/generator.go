// Package deck builds slides from a deck description onto a drawing Surface.
//
// Geometry comes from a layout.Manager, colors from a palette.Palette derived
// once per run, and text styling from the markup package.
package deck

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/markup"
	"github.com/ByLCY/slidegen/palette"
)

// ErrUnknownSlideType marks slides whose type has no builder.
var ErrUnknownSlideType = errors.New("unknown slide type")

// DefaultTitle names decks whose first slide is not a title slide.
const DefaultTitle = "Slide Generator Presentation"

type builder func(r *run, c Canvas, s Slide) error

var builders = map[string]builder{
	TypeTitle:     buildTitle,
	TypeSection:   buildSection,
	TypeContent:   buildContent,
	TypeAgenda:    buildAgenda,
	TypeCompare:   buildCompare,
	TypeProcess:   buildProcess,
	TypeTimeline:  buildTimeline,
	TypeCards:     buildCards,
	TypeTable:     buildTable,
	TypeQuote:     buildQuote,
	TypeKPI:       buildKPI,
	TypePyramid:   buildPyramid,
	TypeStepUp:    buildStepUp,
	TypeImageText: buildImageText,
	TypeClosing:   buildClosing,
	TypeDiagram:   buildDiagram,
	TypeProgress:  buildProgress,
	TypeTriangle:  buildTriangle,
	TypeFlowChart: buildFlowChart,
}

// Types lists the slide types the generator can build.
func Types() []string {
	out := make([]string, 0, len(builders))
	for t := range builders {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Generator draws decks. It is immutable after construction and may be
// reused for several runs.
type Generator struct {
	layout   *layout.Manager
	settings Settings
	palette  palette.Palette
	sizes    markup.Sizes
	log      *zap.Logger
	clock    func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces time.Now, used for dates and the footer year.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// WithSizes replaces the default type scale.
func WithSizes(s markup.Sizes) Option {
	return func(g *Generator) { g.sizes = s }
}

// NewGenerator prepares a generator. The palette is derived here, once.
func NewGenerator(m *layout.Manager, settings Settings, log *zap.Logger, opts ...Option) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	settings = settings.withDefaults()
	g := &Generator{
		layout:   m,
		settings: settings,
		palette:  palette.New(settings.PrimaryColor, settings.Mode()),
		sizes:    markup.DefaultSizes,
		log:      log,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Palette returns the colors used by this generator.
func (g *Generator) Palette() palette.Palette { return g.palette }

// run holds the state of one generation pass.
type run struct {
	*Generator
	slides  []Slide
	title   string
	now     time.Time
	page    int
	section int
}

// Generate builds every slide onto surface in order. Long lists are spread
// over continuation pages (see paginate). A failing slide does not stop the
// run: its error is collected and generation continues with the next slide.
// The returned error aggregates all per-slide failures; use multierr.Errors
// to inspect them. Cancellation is checked between pages.
func (g *Generator) Generate(ctx context.Context, slides []Slide, surface Surface) (err error) {
	r := &run{Generator: g, slides: slides, title: DeckTitle(slides), now: g.clock()}

	for i, s := range slides {
		parts := paginate(s)
		if len(parts) > 1 {
			g.log.Debug("Slide split", zap.Int("index", i+1), zap.String("type", s.Type), zap.Int("pages", len(parts)))
		}
		for _, part := range parts {
			if cerr := ctx.Err(); cerr != nil {
				return multierr.Append(err, cerr)
			}
			err = multierr.Append(err, r.buildPage(i, part, surface))
		}
	}
	return err
}

// buildPage builds one page of slide i.
func (r *run) buildPage(i int, s Slide, surface Surface) error {
	if s.Type != TypeTitle && s.Type != TypeClosing {
		r.page++
	}
	build, ok := builders[s.Type]
	if !ok {
		serr := fmt.Errorf("slide %d: %w %q", i+1, ErrUnknownSlideType, s.Type)
		r.log.Warn("Slide skipped", zap.Error(serr))
		return serr
	}
	c := surface.AddPage(s.Type)
	if berr := r.build(build, c, s); berr != nil {
		serr := fmt.Errorf("slide %d (%s): %w", i+1, s.Type, berr)
		r.log.Warn("Slide generation failed", zap.Error(serr))
		return serr
	}
	if s.Notes != "" {
		c.Notes(markup.SanitizeNotes(s.Notes))
	}
	r.log.Debug("Slide built", zap.Int("index", i+1), zap.String("type", s.Type), zap.Int("page", r.page))
	return nil
}

// paginate spreads lists that do not fit one page over continuation slides
// with the same title: plain bullet content at markup.DefaultMaxBullets
// points, cards, progress and KPI grids at markup.DefaultMaxPerSlide items.
// Subhead and notes stay on the first page.
func paginate(s Slide) []Slide {
	switch s.Type {
	case TypeContent:
		if s.TwoColumn || len(s.Columns) > 0 || len(s.Images) > 0 {
			break
		}
		return splitSlide(s, markup.Chunk(s.Points, markup.DefaultMaxBullets), func(p *Slide, g []string) { p.Points = g })
	case TypeCards, TypeProgress:
		return splitSlide(s, markup.Chunk(s.Items, markup.DefaultMaxPerSlide), func(p *Slide, g []Card) { p.Items = g })
	case TypeKPI:
		return splitSlide(s, markup.Chunk(s.KPIs, markup.DefaultMaxPerSlide), func(p *Slide, g []KPI) { p.KPIs = g })
	}
	return []Slide{s}
}

func splitSlide[T any](s Slide, groups [][]T, set func(*Slide, []T)) []Slide {
	if len(groups) <= 1 {
		return []Slide{s}
	}
	out := make([]Slide, len(groups))
	for i, g := range groups {
		part := s
		set(&part, g)
		if i > 0 {
			part.Subhead, part.Notes = "", ""
		}
		out[i] = part
	}
	return out
}

func (r *run) build(b builder, c Canvas, s Slide) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Debug("Builder panic", zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return b(r, c, s)
}

// Run generates onto a fresh Recorder and returns the recorded document,
// together with any per-slide errors.
func (g *Generator) Run(ctx context.Context, slides []Slide) (*Document, error) {
	rec := NewRecorder(g.layout.PageWidth(), g.layout.PageHeight())
	err := g.Generate(ctx, slides, rec)
	doc := rec.Document()
	doc.Title = DeckTitle(slides)
	doc.FileName = FileName(doc.Title, g.clock(), g.settings.ShowDateColumn)
	return doc, err
}

// DeckTitle is the single-line title of the first slide when it is a title
// slide, DefaultTitle otherwise.
func DeckTitle(slides []Slide) string {
	if len(slides) > 0 && slides[0].Type == TypeTitle {
		if t := markup.SingleLine(slides[0].Title); t != "" {
			return t
		}
	}
	return DefaultTitle
}

// sectionTitles collects section titles for an agenda without explicit points.
func (r *run) sectionTitles() []string {
	var out []string
	for _, s := range r.slides {
		if s.Type == TypeSection && strings.TrimSpace(s.Title) != "" {
			out = append(out, strings.TrimSpace(s.Title))
		}
	}
	return out
}
