package canvasrenderer

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"
	"go.uber.org/zap"

	"github.com/ByLCY/slidegen/fonts"
	"github.com/ByLCY/slidegen/markup"
	"github.com/ByLCY/slidegen/palette"
)

// FontResource 描述一个外部字体族，Regular 必填，Bold 为空时使用 Regular。
type FontResource struct {
	Regular []byte
	Bold    []byte
}

// family 返回名称对应的字体族；未知名称回退到内置字体并记录一次警告。
func (r *Renderer) family(name string) (*canvas.FontFamily, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = strings.ToLower(fonts.Family)
	}

	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if f, ok := r.families[key]; ok {
		return f, nil
	}
	if res, ok := r.fontRes[key]; ok {
		f, err := loadFamily(name, res)
		if err != nil {
			return nil, fmt.Errorf("load font %q: %w", name, err)
		}
		r.families[key] = f
		return f, nil
	}

	f, err := r.builtinFamily()
	if err != nil {
		return nil, err
	}
	if key != strings.ToLower(fonts.Family) {
		r.log.Warn("Font family not available, using built-in", zap.String("family", name), zap.String("fallback", fonts.Family))
	}
	r.families[key] = f
	return f, nil
}

// builtinFamily 需要在持有 fontMu 时调用。
func (r *Renderer) builtinFamily() (*canvas.FontFamily, error) {
	if r.fallback != nil {
		return r.fallback, nil
	}
	family := canvas.NewFontFamily(fonts.Family)
	for _, f := range []struct {
		name  string
		style canvas.FontStyle
	}{
		{"regular", canvas.FontRegular},
		{"bold", canvas.FontBold},
		{"italic", canvas.FontItalic},
	} {
		data, err := fonts.Load(f.name)
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, f.style); err != nil {
			return nil, fmt.Errorf("load built-in font %s: %w", f.name, err)
		}
	}
	r.fallback = family
	return family, nil
}

func loadFamily(name string, res FontResource) (*canvas.FontFamily, error) {
	if len(res.Regular) == 0 {
		return nil, fmt.Errorf("regular face is missing")
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(res.Regular, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	bold := res.Bold
	if len(bold) == 0 {
		bold = res.Regular
	}
	if err := family.LoadFont(bold, 0, canvas.FontBold); err != nil {
		return nil, err
	}
	return family, nil
}

// face 创建字号为 style.Size（pt）的字体面。
func (r *Renderer) face(style markup.TextStyle, bold bool, col string) (*canvas.FontFace, error) {
	family, err := r.family(style.Family)
	if err != nil {
		return nil, err
	}
	fs := canvas.FontRegular
	if bold {
		fs = canvas.FontBold
	}
	return family.Face(style.Size, colorOf(col), fs, canvas.FontNormal), nil
}

// colorOf 将 #RRGGBB 转换为颜色，空字符串表示透明。
func colorOf(hex string) color.Color {
	if hex == "" {
		return color.RGBA{}
	}
	c, err := palette.ParseHex(hex)
	if err != nil {
		return canvas.Black
	}
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
