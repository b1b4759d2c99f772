package layout

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// contentCandidates are tried in order by ContentRect.
var contentCandidates = []Region{
	"body", "area", "gridArea", "lanesArea", "pyramidArea", "stepArea",
	"singleRow", "twoColLeft", "leftBox", "leftText",
}

// Manager 将基准像素区域换算为目标页面上的绝对矩形。
// 缩放系数在创建时确定，之后只读，可被多个 goroutine 共享。
type Manager struct {
	table  *Table
	log    *zap.Logger
	pageW  float64
	pageH  float64
	scaleX float64
	scaleY float64
}

// New creates a manager for a page of targetW x targetH points.
// A 720x405pt page maps the 960x540 grid at scale 1.
func New(targetW, targetH float64, opts ...Option) (*Manager, error) {
	if !(targetW > 0) || !(targetH > 0) {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, targetW, targetH)
	}
	m := &Manager{log: zap.NewNop(), pageW: targetW, pageH: targetH}
	for _, opt := range opts {
		opt(m)
	}
	if m.table == nil {
		t, err := DefaultTable()
		if err != nil {
			return nil, err
		}
		m.table = t
	}
	m.scaleX = targetW / (m.table.BaseWidth * PxToPt)
	m.scaleY = targetH / (m.table.BaseHeight * PxToPt)
	return m, nil
}

func (m *Manager) ScaleX() float64     { return m.scaleX }
func (m *Manager) ScaleY() float64     { return m.scaleY }
func (m *Manager) PageWidth() float64  { return m.pageW }
func (m *Manager) PageHeight() float64 { return m.pageH }
func (m *Manager) Table() *Table       { return m.table }

// PxToPt converts base pixels to points without scaling.
func (m *Manager) PxToPt(px float64) float64 { return px * PxToPt }

// Resolve 将 Spec 解析为目标单位的矩形。
// left 优先于 right；两者都缺失时记录警告并取 0。缺失的 top/width/height 视为 0。
// 结果总是非负的：越出页面左侧的 left 以及负的尺寸会被截到 0 并记录警告。
func (m *Manager) Resolve(spec Spec) Rect {
	var left float64
	anchor := spec.Anchor()
	switch anchor {
	case "left":
		left = *spec.Left
	case "right":
		left = m.table.BaseWidth - *spec.Right - deref(spec.Width)
	default:
		m.log.Warn("Region has neither left nor right, using left=0", zap.Any("spec", spec))
	}
	if left < 0 {
		m.log.Warn("Region starts left of the page, clamping to 0", zap.String("anchor", anchor), zap.Float64("left", left))
		left = 0
	}
	top, width, height := deref(spec.Top), deref(spec.Width), deref(spec.Height)
	if top < 0 || width < 0 || height < 0 {
		m.log.Warn("Region has negative geometry, clamping to 0", zap.Any("spec", spec))
		top, width, height = max(top, 0), max(width, 0), max(height, 0)
	}
	return Rect{
		Left:   m.PxToPt(left) * m.scaleX,
		Top:    m.PxToPt(top) * m.scaleY,
		Width:  m.PxToPt(width) * m.scaleX,
		Height: m.PxToPt(height) * m.scaleY,
	}
}

// Rect resolves slide.region from the table.
func (m *Manager) Rect(slide SlideType, region Region) (Rect, error) {
	spec, err := m.table.Lookup(slide, region)
	if err != nil {
		return Rect{}, err
	}
	return m.Resolve(spec), nil
}

// RectPath resolves a dotted "slide.region" path. Any other shape is ErrRegionNotFound.
func (m *Manager) RectPath(path string) (Rect, error) {
	parts := strings.Split(path, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Rect{}, fmt.Errorf("%w: %q", ErrRegionNotFound, path)
	}
	return m.Rect(SlideType(parts[0]), Region(parts[1]))
}

// ContentRect returns the primary content area of a slide type: the first
// region present among the usual body-like names.
func (m *Manager) ContentRect(slide SlideType) (Rect, bool) {
	for _, region := range contentCandidates {
		if spec, err := m.table.Lookup(slide, region); err == nil {
			return m.Resolve(spec), true
		}
	}
	return Rect{}, false
}

// ResolveAll resolves every region of the table, keyed by "slide.region".
func (m *Manager) ResolveAll() map[string]Rect {
	out := make(map[string]Rect)
	for _, st := range m.table.Slides() {
		for _, region := range m.table.Regions(st) {
			spec, _ := m.table.Lookup(st, region)
			out[string(st)+"."+string(region)] = m.Resolve(spec)
		}
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
