package layout

import "math"

// 该文件定义位置表条目与解析结果，供布局计算、幻灯片构建与调试 JSON 共用。

// SlideType names a slide archetype in the position table, e.g. "contentSlide".
type SlideType string

// Region names a rectangular area within a slide archetype, e.g. "title".
type Region string

// Spec is a region in base-pixel units. Nil fields are absent: Left and Right
// are alternative horizontal anchors, Left wins when both are set.
type Spec struct {
	Left   *float64 `json:"left,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	Top    *float64 `json:"top,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Px returns a pointer to v, for building Specs inline.
func Px(v float64) *float64 { return &v }

// Anchor reports which horizontal field a spec is positioned by.
func (s Spec) Anchor() string {
	switch {
	case s.Left != nil:
		return "left"
	case s.Right != nil:
		return "right"
	default:
		return ""
	}
}

// Rect is an absolute rectangle in target units (points).
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64   { return r.Left + r.Width }
func (r Rect) Bottom() float64  { return r.Top + r.Height }
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }

// Inset shrinks the rectangle by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{Left: r.Left + d, Top: r.Top + d, Width: math.Max(0, r.Width-2*d), Height: math.Max(0, r.Height-2*d)}
}

// Offset moves the rectangle without resizing it.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Width: r.Width, Height: r.Height}
}

// Columns splits the rectangle into n equal columns separated by gap.
func (r Rect) Columns(n int, gap float64) []Rect {
	if n <= 0 {
		return nil
	}
	w := (r.Width - gap*float64(n-1)) / float64(n)
	out := make([]Rect, n)
	for i := range out {
		out[i] = Rect{Left: r.Left + float64(i)*(w+gap), Top: r.Top, Width: w, Height: r.Height}
	}
	return out
}

// Rows splits the rectangle into n equal rows separated by gap.
func (r Rect) Rows(n int, gap float64) []Rect {
	if n <= 0 {
		return nil
	}
	h := (r.Height - gap*float64(n-1)) / float64(n)
	out := make([]Rect, n)
	for i := range out {
		out[i] = Rect{Left: r.Left, Top: r.Top + float64(i)*(h+gap), Width: r.Width, Height: h}
	}
	return out
}
