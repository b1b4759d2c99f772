package layout

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/ByLCY/slidegen/dsl"
)

// Design canvas used when a table declares no base.
const (
	BaseWidth  = 960.0
	BaseHeight = 540.0
)

var (
	// ErrRegionNotFound is returned when a slide type or region is absent from the table.
	ErrRegionNotFound = errors.New("region not found")
	// ErrInvalidCanvas is returned for non-positive canvas sizes.
	ErrInvalidCanvas = errors.New("invalid canvas size")
)

//go:embed positions.layout
var defaultPositions []byte

// Table 保存每种幻灯片原型的区域定义（基准像素）。加载后只读，可在并发中共享。
type Table struct {
	BaseWidth  float64
	BaseHeight float64
	slides     map[SlideType]map[Region]Spec
}

// NewTable builds a table from an in-memory map, mostly for tests and callers
// that define geometry in code.
func NewTable(baseW, baseH float64, slides map[SlideType]map[Region]Spec) (*Table, error) {
	if baseW <= 0 || baseH <= 0 {
		return nil, fmt.Errorf("%w: base %gx%g", ErrInvalidCanvas, baseW, baseH)
	}
	t := &Table{BaseWidth: baseW, BaseHeight: baseH, slides: make(map[SlideType]map[Region]Spec, len(slides))}
	for st, regions := range slides {
		m := make(map[Region]Spec, len(regions))
		for name, spec := range regions {
			m[name] = spec
		}
		t.slides[st] = m
	}
	return t, nil
}

// LoadTable 解析位置表 DSL 并转换为类型化的 Table。
// 未知字段、重复的 slide/region 以及非正的 base 尺寸都会报错并附带源位置。
func LoadTable(r io.Reader) (*Table, error) {
	file, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse position table: %w", err)
	}
	return fromAST(file)
}

func fromAST(file *dsl.File) (*Table, error) {
	t := &Table{BaseWidth: BaseWidth, BaseHeight: BaseHeight, slides: make(map[SlideType]map[Region]Spec)}
	seenBase := false
	for _, entry := range file.Entries {
		switch {
		case entry.Base != nil:
			b := entry.Base
			if seenBase {
				return nil, fmt.Errorf("%s: duplicate base declaration", b.Pos)
			}
			seenBase = true
			if b.Width <= 0 || b.Height <= 0 {
				return nil, fmt.Errorf("%s: %w: base %gx%g", b.Pos, ErrInvalidCanvas, float64(b.Width), float64(b.Height))
			}
			t.BaseWidth, t.BaseHeight = float64(b.Width), float64(b.Height)
		case entry.Slide != nil:
			s := entry.Slide
			name := SlideType(s.Name)
			if _, dup := t.slides[name]; dup {
				return nil, fmt.Errorf("%s: duplicate slide %q", s.Pos, s.Name)
			}
			regions := make(map[Region]Spec, len(s.Regions))
			for _, reg := range s.Regions {
				if _, dup := regions[Region(reg.Name)]; dup {
					return nil, fmt.Errorf("%s: duplicate region %s.%s", reg.Pos, s.Name, reg.Name)
				}
				spec, err := specFromFields(reg)
				if err != nil {
					return nil, err
				}
				regions[Region(reg.Name)] = spec
			}
			t.slides[name] = regions
		}
	}
	return t, nil
}

func specFromFields(reg *dsl.Region) (Spec, error) {
	var spec Spec
	for _, f := range reg.Fields {
		v := float64(f.Value)
		var dst **float64
		switch f.Key {
		case "left":
			dst = &spec.Left
		case "right":
			dst = &spec.Right
		case "top":
			dst = &spec.Top
		case "width":
			dst = &spec.Width
		case "height":
			dst = &spec.Height
		default:
			return Spec{}, fmt.Errorf("%s: unknown field %q in region %s", f.Pos, f.Key, reg.Name)
		}
		if *dst != nil {
			return Spec{}, fmt.Errorf("%s: field %q set twice in region %s", f.Pos, f.Key, reg.Name)
		}
		if v < 0 && (f.Key == "width" || f.Key == "height") {
			return Spec{}, fmt.Errorf("%s: negative %s %g in region %s", f.Pos, f.Key, v, reg.Name)
		}
		*dst = Px(v)
	}
	return spec, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// DefaultTable 返回内置位置表，首次调用时解析一次。
func DefaultTable() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = LoadTable(bytes.NewReader(defaultPositions))
	})
	return defaultTable, defaultErr
}

// Lookup returns the spec stored for slide.region.
func (t *Table) Lookup(slide SlideType, region Region) (Spec, error) {
	regions, ok := t.slides[slide]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s.%s", ErrRegionNotFound, slide, region)
	}
	spec, ok := regions[region]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s.%s", ErrRegionNotFound, slide, region)
	}
	return spec, nil
}

// Has reports whether slide.region exists.
func (t *Table) Has(slide SlideType, region Region) bool {
	_, err := t.Lookup(slide, region)
	return err == nil
}

// Slides lists the slide types in sorted order.
func (t *Table) Slides() []SlideType {
	out := make([]SlideType, 0, len(t.slides))
	for st := range t.slides {
		out = append(out, st)
	}
	slices.Sort(out)
	return out
}

// Regions lists the regions of one slide type in sorted order.
func (t *Table) Regions(slide SlideType) []Region {
	regions := t.slides[slide]
	out := make([]Region, 0, len(regions))
	for r := range regions {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}
