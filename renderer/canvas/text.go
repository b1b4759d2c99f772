package canvasrenderer

import (
	"math"
	"unicode"

	"github.com/tdewolff/canvas"
	"go.uber.org/zap"

	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/markup"
)

// Line 是排版后的一行，宽高均为毫米。
type Line struct {
	Content   string
	Width     float64
	Height    float64
	GapBefore float64

	start, end int
}

// richText 是逐字符带字体面的文本。
type richText struct {
	runes  []rune
	faceOf []int
	faces  []*canvas.FontFace
}

// piece 是同一字体面的连续片段。
type piece struct {
	text string
	face *canvas.FontFace
}

// newRichText 按样式区间为每个字符选择字体面。
func (r *Renderer) newRichText(t markup.Styled, style markup.TextStyle) (*richText, error) {
	rt := &richText{runes: []rune(t.Text)}
	rt.faceOf = make([]int, len(rt.runes))

	type key struct {
		bold  bool
		color string
	}
	index := map[key]int{}
	faceFor := func(k key) (int, error) {
		if i, ok := index[k]; ok {
			return i, nil
		}
		f, err := r.face(style, k.bold, k.color)
		if err != nil {
			return 0, err
		}
		index[k] = len(rt.faces)
		rt.faces = append(rt.faces, f)
		return index[k], nil
	}

	// 基础字体面始终位于 0 号，用于行高度量
	base := key{bold: style.Bold, color: style.Color}
	if _, err := faceFor(base); err != nil {
		return nil, err
	}
	for _, rg := range t.Ranges {
		k := base
		k.bold = k.bold || rg.Bold
		if rg.Color != "" {
			k.color = rg.Color
		}
		fi, err := faceFor(k)
		if err != nil {
			return nil, err
		}
		for i := max(rg.Start, 0); i < min(rg.End, len(rt.runes)); i++ {
			rt.faceOf[i] = fi
		}
	}
	return rt, nil
}

func (rt *richText) pieces(start, end int) []piece {
	var out []piece
	for i := start; i < end; {
		j := i + 1
		for j < end && rt.faceOf[j] == rt.faceOf[i] {
			j++
		}
		out = append(out, piece{text: string(rt.runes[i:j]), face: rt.faces[rt.faceOf[i]]})
		i = j
	}
	return out
}

func (rt *richText) width(start, end int) float64 {
	w := 0.0
	for _, p := range rt.pieces(start, end) {
		w += p.face.TextWidth(p.text)
	}
	return w
}

type token struct {
	start, end int
	space      bool
	newline    bool
}

// tokenize 将文本切分为单词、空白与换行。
func (rt *richText) tokenize() []token {
	var tokens []token
	start := -1
	lastWasSpace := false
	flush := func(end int) {
		if start >= 0 && end > start {
			tokens = append(tokens, token{start: start, end: end, space: lastWasSpace})
		}
		start = -1
	}
	for i, c := range rt.runes {
		if c == '\n' {
			flush(i)
			tokens = append(tokens, token{start: i, end: i, newline: true})
			continue
		}
		isSpace := unicode.IsSpace(c)
		if start < 0 {
			start, lastWasSpace = i, isSpace
		} else if lastWasSpace != isSpace {
			flush(i)
			start, lastWasSpace = i, isSpace
		}
	}
	flush(len(rt.runes))
	return tokens
}

// wrap 使用贪心算法换行：优先在空白处分割，单词超过限制时在词内拆分。
func (rt *richText) wrap(limit float64) []Line {
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	var lines []Line
	start, end := -1, -1
	current := 0.0
	soft := false

	emit := func(force bool, at int) {
		if start < 0 {
			if force {
				lines = append(lines, Line{start: at, end: at})
			}
			return
		}
		for end > start && unicode.IsSpace(rt.runes[end-1]) {
			end--
		}
		lines = append(lines, Line{start: start, end: end, Content: string(rt.runes[start:end]), Width: rt.width(start, end)})
		start, end, current = -1, -1, 0
		soft = !force
	}
	appendRange := func(s, e int, w float64) {
		if start < 0 {
			start = s
		}
		end = e
		current += w
	}

	for _, tok := range rt.tokenize() {
		if tok.newline {
			emit(true, tok.start)
			soft = false
			continue
		}
		if tok.space && start < 0 && soft {
			continue
		}
		w := rt.width(tok.start, tok.end)
		if current > 0 && current+w > limit {
			emit(false, tok.start)
			if tok.space {
				continue
			}
		}
		if w <= limit {
			appendRange(tok.start, tok.end, w)
			continue
		}
		for _, chunk := range rt.splitByWidth(tok.start, tok.end, limit) {
			cw := rt.width(chunk[0], chunk[1])
			if current > 0 && current+cw > limit {
				emit(false, chunk[0])
			}
			appendRange(chunk[0], chunk[1], cw)
		}
	}
	emit(true, len(rt.runes))
	return lines
}

func (rt *richText) splitByWidth(start, end int, limit float64) [][2]int {
	var parts [][2]int
	from := start
	for i := start + 1; i <= end; i++ {
		if rt.width(from, i) > limit && i-from > 1 {
			parts = append(parts, [2]int{from, i - 1})
			from = i - 1
		}
	}
	if from < end {
		parts = append(parts, [2]int{from, end})
	}
	return parts
}

// LayoutLines 排版富文本，width 为毫米，返回的行按 style.LineHeight 设置行距。
func (r *Renderer) LayoutLines(t markup.Styled, style markup.TextStyle, width float64) ([]Line, error) {
	style = style.Resolve(markup.TextStyle{})
	rt, err := r.newRichText(t, style)
	if err != nil {
		return nil, err
	}
	return rt.layout(width, style.LineHeight), nil
}

func (rt *richText) layout(width, lineHeight float64) []Line {
	lines := rt.wrap(width)
	textHeight := rt.faces[0].Metrics().LineHeight
	leading := math.Max(textHeight*lineHeight-textHeight, 0)
	for i := range lines {
		lines[i].Height = textHeight
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines
}

// drawText 在矩形（pt）内绘制富文本。居中对齐时同时垂直居中。
func (r *Renderer) drawText(ctx *canvas.Context, rect layout.Rect, t markup.Styled, style markup.TextStyle) error {
	style = style.Resolve(markup.TextStyle{})
	rt, err := r.newRichText(t, style)
	if err != nil {
		return err
	}
	box := toMM(rect)
	lines := rt.layout(box.Width, style.LineHeight)

	total := 0.0
	for _, ln := range lines {
		total += ln.GapBefore + ln.Height
	}
	cursorY := box.Top
	if style.Align == markup.AlignCenter && total < box.Height {
		cursorY += (box.Height - total) / 2
	}
	ascent := rt.faces[0].Metrics().Ascent
	for _, ln := range lines {
		cursorY += ln.GapBefore
		x := box.Left
		switch style.Align {
		case markup.AlignCenter:
			x += (box.Width - ln.Width) / 2
		case markup.AlignEnd:
			x += box.Width - ln.Width
		}
		for _, p := range rt.pieces(ln.start, ln.end) {
			ctx.DrawText(x, cursorY+ascent, canvas.NewTextLine(p.face, p.text, canvas.Left))
			x += p.face.TextWidth(p.text)
		}
		cursorY += ln.Height
	}
	if total > box.Height+1e-6 {
		r.log.Debug("Text overflows its box", zap.String("text", markup.Truncate(t.Text, 40)), zap.Float64("overflow_mm", total-box.Height))
	}
	return nil
}
