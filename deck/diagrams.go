package deck

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/markup"
	"github.com/ByLCY/slidegen/palette"
)

// Swimlane and flow geometry, in base pixels.
const (
	laneGapPx      = 24
	lanePadPx      = 10
	laneTitleHPx   = 30
	laneCardGapPx  = 12
	laneCardMinHPx = 48
	laneCardMaxHPx = 70
	flowGapPx      = 24
	progressGapPx  = 18
	progressPadPx  = 16
	percentWPx     = 108
	trackHPx       = 14
	triangleNodes  = 3
	maxFlows       = 2
)

func buildDiagram(r *run, c Canvas, s Slide) error {
	const st = "diagramSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	area, err := r.region(st, "lanesArea")
	if err != nil {
		return err
	}
	if len(s.Lanes) == 0 {
		return nil
	}
	titleH, pad := r.px(laneTitleHPx), r.px(lanePadPx)
	var prev []layout.Rect
	for i, lane := range area.Columns(len(s.Lanes), r.px(laneGapPx)) {
		c.Shape(ShapeRect, lane, Fill{Color: r.palette.BackgroundGray, Stroke: r.palette.LaneBorder, StrokeWidth: 1})
		head := layout.Rect{Left: lane.Left, Top: lane.Top, Width: lane.Width, Height: titleH}
		c.Shape(ShapeRect, head, Fill{Color: r.palette.Primary})
		r.text(c, head, s.Lanes[i].Title, markup.TextStyle{
			Size:   r.sizes.LaneTitle,
			Weight: markup.WeightBold,
			Color:  r.palette.OnPrimary,
			Align:  markup.AlignCenter,
		})
		body := layout.Rect{Left: lane.Left + pad, Top: head.Bottom() + pad, Width: lane.Width - 2*pad, Height: lane.Height - titleH - 2*pad}
		cards := r.laneCards(body, len(s.Lanes[i].Items))
		for j, item := range s.Lanes[i].Items {
			c.Shape(ShapeRoundRect, cards[j], Fill{Color: r.palette.CardBg, Stroke: r.palette.CardBorder, StrokeWidth: 1})
			r.text(c, cards[j].Inset(r.px(6)), item, markup.TextStyle{Size: r.sizes.Small, Align: markup.AlignCenter})
			// 相邻泳道同一行的卡片用箭头相连
			if j < len(prev) {
				r.arrowBetween(c, prev[j], cards[j])
			}
		}
		prev = cards
	}
	return nil
}

// laneCards stacks n cards from the top of body. Card height follows the
// available space within [laneCardMinHPx, laneCardMaxHPx].
func (r *run) laneCards(body layout.Rect, n int) []layout.Rect {
	if n == 0 {
		return nil
	}
	gap := r.px(laneCardGapPx)
	h := (body.Height - gap*float64(n-1)) / float64(n)
	h = math.Max(r.px(laneCardMinHPx), math.Min(r.px(laneCardMaxHPx), h))
	out := make([]layout.Rect, n)
	for i := range out {
		out[i] = layout.Rect{Left: body.Left, Top: body.Top + float64(i)*(h+gap), Width: body.Width, Height: h}
	}
	return out
}

func buildProgress(r *run, c Canvas, s Slide) error {
	const st = "progressSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	area, err := r.region(st, "area")
	if err != nil {
		return err
	}
	if len(s.Items) == 0 {
		return nil
	}
	pad, pctW := r.px(progressPadPx), r.px(percentWPx)
	for i, row := range area.Rows(len(s.Items), r.px(progressGapPx)) {
		item := s.Items[i]
		pct := math.Max(0, math.Min(100, item.Percent))
		c.Shape(ShapeRoundRect, row, Fill{Color: r.palette.CardBg, Stroke: r.palette.CardBorder, StrokeWidth: 1})

		trackH := math.Min(r.px(trackHPx), row.Height/4)
		track := layout.Rect{Left: row.Left + pad, Top: row.Bottom() - pad - trackH, Width: row.Width - 2*pad, Height: trackH}
		c.Shape(ShapeRoundRect, track, Fill{Color: r.palette.FaintGray})
		if pct > 0 {
			bar := track
			bar.Width = track.Width * pct / 100
			r.fill(c, bar)
		}

		textH := math.Max(0, track.Top-row.Top-pad)
		label := layout.Rect{Left: row.Left + pad, Top: row.Top + pad/2, Width: math.Max(0, row.Width-2*pad-pctW), Height: textH}
		r.text(c, label, item.Title, markup.TextStyle{Weight: markup.WeightSemibold})
		value := layout.Rect{Left: row.Right() - pad - pctW, Top: label.Top, Width: pctW, Height: textH}
		r.text(c, value, fmt.Sprintf("%d%%", int(math.Round(pct))), markup.TextStyle{
			Size:   r.sizes.Subhead,
			Weight: markup.WeightBold,
			Color:  r.palette.Primary,
			Align:  markup.AlignEnd,
		})
	}
	return nil
}

func buildTriangle(r *run, c Canvas, s Slide) error {
	const st = "triangleSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	area, err := r.region(st, "area")
	if err != nil {
		return err
	}
	nodes := s.Items
	if len(nodes) > triangleNodes {
		r.log.Warn("Triangle takes three items, dropping the rest", zap.String("title", s.Title), zap.Int("items", len(nodes)))
		nodes = nodes[:triangleNodes]
	}
	if len(nodes) == 0 {
		return nil
	}
	// 节点尺寸按区域比例缩放：顶部居中、右下、左下
	w, h := area.Width*260/910, area.Height*140/350
	inset := area.Width * 160 / 910
	centers := []Point{
		{X: area.CenterX(), Y: area.Top + h/2},
		{X: area.Right() - inset, Y: area.Bottom() - h/2},
		{X: area.Left + inset, Y: area.Bottom() - h/2},
	}[:len(nodes)]
	// 连线先画，节点盖在上面
	stroke := Fill{Stroke: r.palette.Separator, StrokeWidth: 2}
	for i := 0; i+1 < len(centers); i++ {
		c.Line(centers[i], centers[i+1], stroke, false)
	}
	if len(centers) == triangleNodes {
		c.Line(centers[2], centers[0], stroke, false)
	}
	colors := r.palette.Process(len(nodes))
	for i, n := range nodes {
		box := layout.Rect{Left: centers[i].X - w/2, Top: centers[i].Y - h/2, Width: w, Height: h}
		c.Shape(ShapeRoundRect, box, Fill{Color: colors[i]})
		fg := palette.OnColor(colors[i])
		inner := box.Inset(r.px(12))
		if n.Desc == "" {
			r.text(c, inner, n.Title, markup.TextStyle{Weight: markup.WeightBold, Color: fg, Align: markup.AlignCenter})
			continue
		}
		rows := inner.Rows(2, 0)
		r.text(c, rows[0], n.Title, markup.TextStyle{Weight: markup.WeightBold, Color: fg, Align: markup.AlignCenter})
		r.text(c, rows[1], markup.Truncate(n.Desc, 0), markup.TextStyle{Size: r.sizes.Small, Color: fg})
	}
	return nil
}

func buildFlowChart(r *run, c Canvas, s Slide) error {
	const st = "flowChartSlide"
	c.Background(r.palette.Background, r.settings.MainBg)
	if err := r.header(c, st, s); err != nil {
		return err
	}
	defer r.footer(c)
	flows := s.Flows
	if len(flows) == 0 && len(s.Steps) > 0 {
		flows = []Flow{{Steps: s.Steps}}
	}
	if len(flows) > maxFlows {
		r.log.Warn("Flow chart takes at most two rows, dropping the rest", zap.String("title", s.Title), zap.Int("flows", len(flows)))
		flows = flows[:maxFlows]
	}
	if len(flows) == 0 {
		return nil
	}

	table := r.layout.Table()
	var rows []layout.Rect
	if len(flows) == maxFlows && table.Has(st, "upperRow") && table.Has(st, "lowerRow") {
		upper, err := r.region(st, "upperRow")
		if err != nil {
			return err
		}
		lower, err := r.region(st, "lowerRow")
		if err != nil {
			return err
		}
		rows = []layout.Rect{upper, lower}
	} else {
		single, err := r.region(st, "singleRow")
		if err != nil {
			return err
		}
		if len(flows) > 1 {
			r.log.Warn("No two-row geometry, drawing the first flow only", zap.String("title", s.Title))
		}
		flows, rows = flows[:1], []layout.Rect{single}
	}

	for i, flow := range flows {
		boxes := rows[i].Columns(len(flow.Steps), r.px(flowGapPx))
		for j, step := range flow.Steps {
			c.Shape(ShapeRoundRect, boxes[j], Fill{Color: r.palette.CardBg, Stroke: r.palette.Primary, StrokeWidth: 1.5})
			r.text(c, boxes[j].Inset(r.px(10)), step, markup.TextStyle{Weight: markup.WeightSemibold, Align: markup.AlignCenter})
			if j > 0 {
				r.arrowBetween(c, boxes[j-1], boxes[j])
			}
		}
	}
	return nil
}
