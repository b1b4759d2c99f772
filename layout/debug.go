package layout

import (
	"encoding/json"
	"os"
)

// Dump 是 `slidegen layout` 输出的调试结构。
type Dump struct {
	PageWidth  float64         `json:"pageWidth"`
	PageHeight float64         `json:"pageHeight"`
	ScaleX     float64         `json:"scaleX"`
	ScaleY     float64         `json:"scaleY"`
	Rects      map[string]Rect `json:"rects"`
}

// Dump 汇总当前页面尺寸下所有区域的解析结果。
func (m *Manager) Dump() Dump {
	return Dump{
		PageWidth:  m.pageW,
		PageHeight: m.pageH,
		ScaleX:     m.scaleX,
		ScaleY:     m.scaleY,
		Rects:      m.ResolveAll(),
	}
}

// WriteDebugJSON 将任意布局结果输出为缩进 JSON，便于调试或可视化。
func WriteDebugJSON(v any, path string) error {
	if v == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
