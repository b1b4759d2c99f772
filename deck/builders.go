package deck

import (
	"fmt"

	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/markup"
	"github.com/ByLCY/slidegen/palette"
)

// defaultAgenda is used when an agenda has neither points nor sections to list.
var defaultAgenda = []string{"Objectives", "Key points", "Next steps"}

func buildTitle(r *run, c Canvas, s Slide) error {
	c.Background(r.palette.Background, r.settings.TitleBg)
	if r.settings.HeaderLogo != "" {
		if rect, ok := r.optional("titleSlide", "logo"); ok {
			if rect.Height == 0 {
				rect.Height = rect.Width / 3
			}
			c.Image(rect, r.settings.HeaderLogo)
		}
	}
	title, err := r.region("titleSlide", "title")
	if err != nil {
		return err
	}
	r.text(c, title, s.Title, markup.TextStyle{Size: r.sizes.Title, Weight: markup.WeightBold})

	if r.settings.ShowDateColumn {
		if rect, ok := r.optional("titleSlide", "date"); ok {
			date := s.Date
			if date == "" {
				date = r.now.Format("2006.01.02")
			}
			r.text(c, rect, date, markup.TextStyle{Size: r.sizes.Date, Color: r.palette.NeutralGray})
		}
	}
	r.bottomBar(c)
	return nil
}

func buildSection(r *run, c Canvas, s Slide) error {
	r.section++
	c.Background(r.palette.Background, r.settings.SectionBg)
	if rect, ok := r.optional("sectionSlide", "ghostNum"); ok {
		r.text(c, rect, fmt.Sprintf("%02d", r.section), markup.TextStyle{
			Size:   r.sizes.GhostNum,
			Color:  r.palette.GhostGray,
			Weight: markup.WeightBold,
		})
	}
	title, err := r.region("sectionSlide", "title")
	if err != nil {
		return err
	}
	r.text(c, title, s.Title, markup.TextStyle{Size: r.sizes.SectionTitle, Weight: markup.WeightBold})
	r.footer(c)
	return nil
}

func buildContent(r *run, c Canvas, s Slide) error {
	const st = "contentSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)

	if markup.IsAgendaTitle(s.Title) && len(s.Points) == 0 {
		body, err := r.region(st, "body")
		if err != nil {
			return err
		}
		r.numberedItems(c, body, r.agendaItems(nil))
		return nil
	}

	left, right := s.Points, []string(nil)
	twoCol := s.TwoColumn || len(s.Columns) == 2
	if len(s.Columns) == 2 {
		left, right = s.Columns[0], s.Columns[1]
	} else if s.TwoColumn {
		half := (len(s.Points) + 1) / 2
		left, right = s.Points[:half], s.Points[half:]
	}

	switch {
	case len(s.Images) > 0 && len(left) == 0 && !twoCol:
		body, err := r.region(st, "body")
		if err != nil {
			return err
		}
		r.images(c, body, s.Images)
	case twoCol || len(s.Images) > 0:
		lrect, err := r.region(st, "twoColLeft")
		if err != nil {
			return err
		}
		rrect, err := r.region(st, "twoColRight")
		if err != nil {
			return err
		}
		r.bullets(c, lrect, left, markup.TextStyle{})
		if twoCol {
			r.bullets(c, rrect, right, markup.TextStyle{})
		} else {
			r.images(c, rrect, s.Images)
		}
	default:
		body, err := r.region(st, "body")
		if err != nil {
			return err
		}
		r.bullets(c, body, left, markup.TextStyle{})
	}
	return nil
}

// agendaItems falls back from explicit points to the deck's section titles
// and finally to a generic outline.
func (r *run) agendaItems(points []string) []string {
	if len(points) > 0 {
		return points
	}
	if sections := r.sectionTitles(); len(sections) > 0 {
		return sections
	}
	return defaultAgenda
}

func buildAgenda(r *run, c Canvas, s Slide) error {
	const st = "contentSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	body, err := r.region(st, "body")
	if err != nil {
		return err
	}
	r.numberedItems(c, body, r.agendaItems(s.Points))
	return nil
}

func buildCompare(r *run, c Canvas, s Slide) error {
	const st = "compareSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	left, err := r.region(st, "leftBox")
	if err != nil {
		return err
	}
	right, err := r.region(st, "rightBox")
	if err != nil {
		return err
	}
	colors := r.palette.Compare()
	r.compareBox(c, left, s.LeftTitle, s.LeftItems, colors.Left)
	r.compareBox(c, right, s.RightTitle, s.RightItems, colors.Right)
	return nil
}

func buildProcess(r *run, c Canvas, s Slide) error {
	const st = "processSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	area, err := r.region(st, "area")
	if err != nil {
		return err
	}
	n := len(s.Steps)
	if n == 0 {
		return nil
	}
	colors := r.palette.Process(n)
	gap := r.px(arrowGapPx)
	rows := area.Rows(n, gap)
	for i, row := range rows {
		box := layout.Rect{Left: row.Left, Top: row.Top, Width: min(row.Height, r.px(48)), Height: row.Height}
		c.Shape(ShapeRoundRect, box, Fill{Color: colors[i]})
		r.text(c, box, fmt.Sprint(i+1), markup.TextStyle{
			Size:   r.sizes.ProcessStep,
			Weight: markup.WeightBold,
			Color:  palette.OnColor(colors[i]),
			Align:  markup.AlignCenter,
		})
		label := layout.Rect{Left: box.Right() + r.px(16), Top: row.Top, Width: row.Width - box.Width - r.px(16), Height: row.Height}
		r.text(c, label, s.Steps[i], markup.TextStyle{Size: r.sizes.ProcessStep})
		if i+1 < n {
			next := rows[i+1]
			from := Point{X: box.CenterX(), Y: box.Bottom()}
			to := Point{X: box.CenterX(), Y: next.Top}
			c.Line(from, to, Fill{Stroke: r.palette.ProcessArrow, StrokeWidth: 1}, false)
		}
	}
	return nil
}

func buildTimeline(r *run, c Canvas, s Slide) error {
	const st = "timelineSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	area, err := r.region(st, "area")
	if err != nil {
		return err
	}
	n := len(s.Milestones)
	if n == 0 {
		return nil
	}
	inner := area.Inset(r.px(40))
	axisY := area.CenterY()
	c.Line(Point{X: inner.Left, Y: axisY}, Point{X: inner.Right(), Y: axisY}, Fill{Stroke: r.palette.Separator, StrokeWidth: 2}, false)

	colors := r.palette.Timeline(n)
	dot := r.px(10)
	labelW := inner.Width / float64(n)
	for i, m := range s.Milestones {
		x := inner.Left + inner.Width/2
		if n > 1 {
			x = inner.Left + inner.Width*float64(i)/float64(n-1)
		}
		fill := Fill{Color: colors[i]}
		switch m.State {
		case "todo":
			fill = Fill{Color: r.palette.Background, Stroke: colors[i], StrokeWidth: 1.5}
		case "next":
			fill = Fill{Color: r.palette.Primary, Stroke: r.palette.AccentHover, StrokeWidth: 2}
		}
		c.Shape(ShapeEllipse, layout.Rect{Left: x - dot, Top: axisY - dot, Width: 2 * dot, Height: 2 * dot}, fill)

		label := layout.Rect{Left: x - labelW/2, Top: axisY - r.px(70), Width: labelW, Height: r.px(50)}
		r.text(c, label, m.Label, markup.TextStyle{Weight: markup.WeightSemibold, Align: markup.AlignCenter})
		if m.Date != "" {
			date := layout.Rect{Left: label.Left, Top: axisY + r.px(20), Width: labelW, Height: r.px(30)}
			r.text(c, date, m.Date, markup.TextStyle{Size: r.sizes.Small, Color: r.palette.NeutralGray, Align: markup.AlignCenter})
		}
	}
	return nil
}

func buildCards(r *run, c Canvas, s Slide) error {
	const st = "cardsSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	area, err := r.region(st, "gridArea")
	if err != nil {
		return err
	}
	n := len(s.Items)
	if n == 0 {
		return nil
	}
	cols := 3
	switch {
	case n == 1:
		cols = 1
	case n <= 4:
		cols = 2
	}
	gap := r.px(cardGapPx)
	var cells []layout.Rect
	for _, row := range area.Rows((n+cols-1)/cols, gap) {
		cells = append(cells, row.Columns(cols, gap)...)
	}
	pad := r.px(14)
	for i, card := range s.Items {
		cell := cells[i]
		c.Shape(ShapeRoundRect, cell, Fill{Color: r.palette.CardBg, Stroke: r.palette.CardBorder, StrokeWidth: 1})
		inner := cell.Inset(pad)
		titleH := min(inner.Height, r.px(28))
		r.text(c, layout.Rect{Left: inner.Left, Top: inner.Top, Width: inner.Width, Height: titleH}, card.Title,
			markup.TextStyle{Weight: markup.WeightBold, Color: r.palette.Primary})
		if card.Desc != "" {
			desc := layout.Rect{Left: inner.Left, Top: inner.Top + titleH, Width: inner.Width, Height: inner.Height - titleH}
			r.text(c, desc, markup.Truncate(card.Desc, 0), markup.TextStyle{Size: r.sizes.Body})
		}
	}
	return nil
}

func buildTable(r *run, c Canvas, s Slide) error {
	const st = "tableSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	area, err := r.region(st, "area")
	if err != nil {
		return err
	}
	cols := len(s.Headers)
	for _, row := range s.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}
	rows := len(s.Rows)
	if len(s.Headers) > 0 {
		rows++
	}
	rowH := min(area.Height/float64(rows), r.px(40))
	pad := r.px(8)
	cell := func(row, col int) layout.Rect {
		w := area.Width / float64(cols)
		return layout.Rect{Left: area.Left + float64(col)*w, Top: area.Top + float64(row)*rowH, Width: w, Height: rowH}
	}
	line := 0
	if len(s.Headers) > 0 {
		for j := range cols {
			rect := cell(0, j)
			c.Shape(ShapeRect, rect, Fill{Color: r.palette.TableHeaderBg, Stroke: r.palette.LaneBorder, StrokeWidth: 0.75})
			if j < len(s.Headers) {
				r.text(c, rect.Inset(pad), s.Headers[j], markup.TextStyle{Weight: markup.WeightBold, Align: markup.AlignCenter})
			}
		}
		line++
	}
	for i, row := range s.Rows {
		for j := range cols {
			rect := cell(line+i, j)
			c.Shape(ShapeRect, rect, Fill{Color: r.palette.Background, Stroke: r.palette.LaneBorder, StrokeWidth: 0.75})
			if j < len(row) {
				r.text(c, rect.Inset(pad), row[j], markup.TextStyle{Align: markup.AlignCenter})
			}
		}
	}
	return nil
}

func buildQuote(r *run, c Canvas, s Slide) error {
	const st = "quoteSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	// quote geometry is not part of the table; resolve it ad hoc
	mark := r.layout.Resolve(layout.Spec{Left: layout.Px(60), Top: layout.Px(150), Width: layout.Px(80), Height: layout.Px(80)})
	body := r.layout.Resolve(layout.Spec{Left: layout.Px(150), Top: layout.Px(170), Width: layout.Px(720), Height: layout.Px(200)})
	author := r.layout.Resolve(layout.Spec{Left: layout.Px(150), Top: layout.Px(380), Width: layout.Px(720), Height: layout.Px(40)})

	r.text(c, mark, "“", markup.TextStyle{Size: 72, Weight: markup.WeightBold, Color: r.palette.Primary})
	r.text(c, body, s.Text, markup.TextStyle{Size: r.sizes.ContentTitle, LineHeight: 1.4})
	if s.Author != "" {
		r.text(c, author, "— "+s.Author, markup.TextStyle{Size: r.sizes.Subhead, Color: r.palette.NeutralGray, Align: markup.AlignEnd})
	}
	return nil
}

// KPI status colors.
const (
	statusGood = "#34C759"
	statusBad  = "#FF3B30"
)

func buildKPI(r *run, c Canvas, s Slide) error {
	const st = "kpiSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	area, err := r.region(st, "gridArea")
	if err != nil {
		return err
	}
	n := len(s.KPIs)
	if n == 0 {
		return nil
	}
	cols := min(n, 4)
	gap := r.px(cardGapPx)
	var cells []layout.Rect
	for _, row := range area.Rows((n+cols-1)/cols, gap) {
		cells = append(cells, row.Columns(cols, gap)...)
	}
	for i, k := range s.KPIs {
		cell := cells[i]
		c.Shape(ShapeRoundRect, cell, Fill{Color: r.palette.CardBg, Stroke: r.palette.CardBorder, StrokeWidth: 1})
		rows := cell.Inset(r.px(16)).Rows(3, 0)
		r.text(c, rows[0], k.Label, markup.TextStyle{Size: r.sizes.Small, Color: r.palette.NeutralGray})
		r.text(c, rows[1], k.Value, markup.TextStyle{Size: 32, Weight: markup.WeightBold, Color: r.palette.Primary})
		if k.Change != "" {
			color := r.palette.NeutralGray
			switch k.Status {
			case "good":
				color = statusGood
			case "bad":
				color = statusBad
			}
			r.text(c, rows[2], k.Change, markup.TextStyle{Size: r.sizes.Small, Weight: markup.WeightSemibold, Color: color})
		}
	}
	return nil
}

func buildPyramid(r *run, c Canvas, s Slide) error {
	const st = "pyramidSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	area, err := r.region(st, "pyramidArea")
	if err != nil {
		return err
	}
	n := len(s.Levels)
	if n == 0 {
		return nil
	}
	colors := r.palette.Pyramid(n)
	shape := area.Columns(2, r.px(30))
	tiers, texts := shape[0], shape[1]
	gap := r.px(6)
	minW := tiers.Width * 0.35
	for i, row := range tiers.Rows(n, gap) {
		w := tiers.Width
		if n > 1 {
			w = minW + (tiers.Width-minW)*float64(i)/float64(n-1)
		}
		tier := layout.Rect{Left: tiers.CenterX() - w/2, Top: row.Top, Width: w, Height: row.Height}
		kind := ShapeRect
		if i == 0 && n > 1 {
			kind = ShapeTriangle
		}
		c.Shape(kind, tier, Fill{Color: colors[i]})
		r.text(c, tier, s.Levels[i].Title, markup.TextStyle{Weight: markup.WeightBold, Color: palette.OnColor(colors[i]), Align: markup.AlignCenter})
	}
	for i, row := range texts.Rows(n, gap) {
		if d := s.Levels[i].Description; d != "" {
			r.text(c, row, d, markup.TextStyle{Size: r.sizes.Body})
		}
	}
	return nil
}

func buildStepUp(r *run, c Canvas, s Slide) error {
	const st = "stepUpSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	area, err := r.region(st, "stepArea")
	if err != nil {
		return err
	}
	steps := s.Items
	if len(steps) == 0 {
		for _, t := range s.Steps {
			steps = append(steps, Card{Title: t})
		}
	}
	n := len(steps)
	if n == 0 {
		return nil
	}
	colors := r.palette.StepUp(n)
	gap := r.px(8)
	for i, col := range area.Columns(n, gap) {
		h := col.Height * float64(i+1) / float64(n)
		step := layout.Rect{Left: col.Left, Top: col.Bottom() - h, Width: col.Width, Height: h}
		c.Shape(ShapeRect, step, Fill{Color: colors[i]})
		titleH := min(h, r.px(40))
		head := layout.Rect{Left: step.Left, Top: step.Top, Width: step.Width, Height: titleH}
		fg := palette.OnColor(colors[i])
		r.text(c, head.Inset(r.px(6)), steps[i].Title, markup.TextStyle{Weight: markup.WeightBold, Color: fg, Align: markup.AlignCenter})
		if steps[i].Desc != "" && h > titleH {
			desc := layout.Rect{Left: step.Left, Top: step.Top + titleH, Width: step.Width, Height: h - titleH}
			r.text(c, desc.Inset(r.px(8)), steps[i].Desc, markup.TextStyle{Size: r.sizes.Small, Color: fg})
		}
	}
	return nil
}

func buildImageText(r *run, c Canvas, s Slide) error {
	const st = "imageTextSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	imgRegion, capRegion, textRegion := layout.Region("leftImage"), layout.Region("leftImageCaption"), layout.Region("rightText")
	if s.ImagePosition == "right" {
		imgRegion, capRegion, textRegion = "rightImage", "rightImageCaption", "leftText"
	}
	img, err := r.region(st, imgRegion)
	if err != nil {
		return err
	}
	text, err := r.region(st, textRegion)
	if err != nil {
		return err
	}
	if s.Image != "" {
		c.Image(img, s.Image)
	} else {
		c.Shape(ShapeRect, img, Fill{Color: r.palette.FaintGray})
	}
	if s.ImageCaption != "" {
		if rect, ok := r.optional(st, capRegion); ok {
			r.text(c, rect, s.ImageCaption, markup.TextStyle{Size: r.sizes.Small, Color: r.palette.NeutralGray, Align: markup.AlignCenter})
		}
	}
	r.bullets(c, text, s.Points, markup.TextStyle{})
	return nil
}

func buildClosing(r *run, c Canvas, s Slide) error {
	c.Background(r.palette.Background, r.settings.ClosingBg)
	if r.settings.ClosingLogo != "" {
		if rect, ok := r.optional("closingSlide", "logo"); ok {
			if rect.Height == 0 {
				rect.Height = rect.Width / 2
			}
			c.Image(rect, r.settings.ClosingLogo)
		}
	}
	msg := s.Title
	if msg == "" {
		msg = "Thank you"
	}
	rect, err := r.region("closingSlide", "message")
	if err != nil {
		return err
	}
	r.text(c, rect, msg, markup.TextStyle{Size: r.sizes.SectionTitle, Weight: markup.WeightBold, Align: markup.AlignCenter})
	return nil
}
