package deck

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/slidegen/binding"
	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/markup"
	"github.com/ByLCY/slidegen/palette"
)

// Spacing on the design grid, in base pixels.
const (
	cardGapPx   = 12
	imageGapPx  = 10
	arrowGapPx  = 8
	cushionPad  = 30
	compareBarH = 40
	comparePad  = 12
	maxImages   = 6
	minStrips   = 20
)

// region resolves a region that the builder cannot do without.
func (r *run) region(st layout.SlideType, name layout.Region) (layout.Rect, error) {
	return r.layout.Rect(st, name)
}

// optional resolves a region the builder may skip.
func (r *run) optional(st layout.SlideType, name layout.Region) (layout.Rect, bool) {
	rect, err := r.layout.Rect(st, name)
	if err != nil {
		if !errors.Is(err, layout.ErrRegionNotFound) {
			r.log.Warn("Unable to resolve region", zap.Error(err))
		}
		return layout.Rect{}, false
	}
	return rect, true
}

func (r *run) px(v float64) float64 { return r.layout.PxToPt(v) }

// style returns s with deck defaults filled in.
func (r *run) style(s markup.TextStyle) markup.TextStyle {
	return s.Resolve(markup.TextStyle{
		Family: r.settings.FontFamily,
		Size:   r.sizes.Body,
		Color:  r.palette.TextPrimary,
	})
}

func (r *run) text(c Canvas, rect layout.Rect, raw string, s markup.TextStyle) {
	c.Text(rect, markup.Parse(raw, r.palette.Primary), r.style(s))
}

func (r *run) bullets(c Canvas, rect layout.Rect, points []string, s markup.TextStyle) {
	c.Text(rect, markup.JoinBullets(points, r.palette.Primary), r.style(s))
}

// header draws the title block shared by content-like slides.
func (r *run) header(c Canvas, st layout.SlideType, s Slide) error {
	if r.settings.HeaderLogo != "" {
		if rect, ok := r.optional(st, "headerLogo"); ok {
			if rect.Height == 0 {
				rect.Height = rect.Width
			}
			c.Image(rect, r.settings.HeaderLogo)
		}
	}
	title, err := r.region(st, "title")
	if err != nil {
		return err
	}
	r.text(c, title, s.Title, markup.TextStyle{Size: r.sizes.ContentTitle, Weight: markup.WeightBold})

	if r.settings.ShowTitleUnderline {
		if rect, ok := r.optional(st, "titleUnderline"); ok {
			r.fill(c, rect)
		}
	}
	if s.Subhead != "" {
		if rect, ok := r.optional(st, "subhead"); ok {
			r.text(c, rect, s.Subhead, markup.TextStyle{Size: r.sizes.Subhead, Color: r.palette.NeutralGray})
		}
	}
	return nil
}

// footer draws the footer text, page number and bottom bar.
func (r *run) footer(c Canvas) {
	if text := r.footerText(); text != "" {
		if rect, ok := r.optional("footer", "leftText"); ok {
			r.text(c, rect, text, markup.TextStyle{Size: r.sizes.Footer, Color: r.palette.NeutralGray})
		}
	}
	if rect, ok := r.optional("footer", "rightPage"); ok {
		r.text(c, rect, strconv.Itoa(r.page), markup.TextStyle{Size: r.sizes.Footer, Color: r.palette.NeutralGray, Align: markup.AlignEnd})
	}
	r.bottomBar(c)
}

func (r *run) bottomBar(c Canvas) {
	if !r.settings.ShowBottomBar {
		return
	}
	if rect, ok := r.optional("footer", "bottomBar"); ok {
		r.fill(c, rect)
	}
}

func (r *run) footerText() string {
	return binding.Expand(r.settings.FooterText, binding.Scope{
		"year":  r.now.Year(),
		"date":  r.now,
		"title": r.title,
		"page":  r.page,
	})
}

// fill paints rect with the accent: a gradient when enabled, else the primary color.
func (r *run) fill(c Canvas, rect layout.Rect) {
	if r.settings.EnableGradient {
		gradient(c, rect, r.settings.GradientStart, r.settings.GradientEnd)
		return
	}
	c.Shape(ShapeRect, rect, Fill{Color: r.palette.Primary})
}

// gradient approximates a horizontal gradient with solid strips that
// overlap by half a point.
func gradient(c Canvas, rect layout.Rect, start, end string) {
	n := max(minStrips, int(math.Floor(rect.Width/2)))
	w := rect.Width / float64(n)
	for i := range n {
		t := float64(i) / float64(n-1)
		strip := layout.Rect{Left: rect.Left + float64(i)*w, Top: rect.Top, Width: w + 0.5, Height: rect.Height}
		c.Shape(ShapeRect, strip, Fill{Color: palette.Blend(start, end, t)})
	}
}

// cushion draws the soft card that sits behind list content.
func (r *run) cushion(c Canvas, rect layout.Rect) {
	c.Shape(ShapeRoundRect, rect, Fill{Color: r.palette.BackgroundGray, Stroke: r.palette.Separator, StrokeWidth: 0.75})
}

func (r *run) compareBox(c Canvas, rect layout.Rect, title string, items []string, headerColor string) {
	c.Shape(ShapeRect, rect, Fill{Color: r.palette.BackgroundGray, Stroke: r.palette.LaneBorder, StrokeWidth: 1})
	bar := layout.Rect{Left: rect.Left, Top: rect.Top, Width: rect.Width, Height: r.px(compareBarH)}
	c.Shape(ShapeRect, bar, Fill{Color: headerColor})
	r.text(c, bar, title, markup.TextStyle{
		Size:   r.sizes.LaneTitle,
		Weight: markup.WeightBold,
		Color:  palette.OnColor(headerColor),
		Align:  markup.AlignCenter,
	})
	pad := r.px(comparePad)
	body := layout.Rect{
		Left:   rect.Left + pad,
		Top:    rect.Top + bar.Height + pad,
		Width:  rect.Width - 2*pad,
		Height: rect.Height - bar.Height - 2*pad,
	}
	r.bullets(c, body, items, markup.TextStyle{})
}

// arrowBetween connects the right edge of a to the left edge of b when there
// is room between them.
func (r *run) arrowBetween(c Canvas, a, b layout.Rect) {
	from := Point{X: a.Right(), Y: a.CenterY()}
	to := Point{X: b.Left, Y: b.CenterY()}
	if to.X-from.X <= 0 {
		return
	}
	c.Line(from, to, Fill{Stroke: r.palette.Primary, StrokeWidth: 1.5}, true)
}

// numberedItems draws agenda entries: leading numbers are stripped and the
// items are rendered as one styled block on a cushion.
func (r *run) numberedItems(c Canvas, area layout.Rect, items []string) {
	r.cushion(c, area)
	clean := make([]string, len(items))
	for i, it := range items {
		clean[i] = markup.StripOrdinal(it)
	}
	r.text(c, area.Inset(r.px(cushionPad)), strings.Join(clean, markup.BulletJoiner), markup.TextStyle{LineHeight: 1.3})
}

// images lays out up to six images in a grid inside area.
func (r *run) images(c Canvas, area layout.Rect, imgs []Image) {
	n := min(maxImages, len(imgs))
	if n == 0 {
		return
	}
	cols := 3
	switch {
	case n == 1:
		cols = 1
	case n <= 4:
		cols = 2
	}
	rows := (n + cols - 1) / cols
	gap := r.px(imageGapPx)
	cells := make([]layout.Rect, 0, n)
	for _, row := range area.Rows(rows, gap) {
		cells = append(cells, row.Columns(cols, gap)...)
	}
	for i := range n {
		c.Image(cells[i], imgs[i].URL)
	}
}
