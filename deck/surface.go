package deck

import (
	"time"

	"github.com/google/uuid"

	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/markup"
)

// ShapeKind enumerates the primitives a Canvas can draw.
type ShapeKind string

const (
	ShapeRect      ShapeKind = "rect"
	ShapeRoundRect ShapeKind = "roundRect"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeLine      ShapeKind = "line"
	ShapeText      ShapeKind = "text"
	ShapeImage     ShapeKind = "image"
)

// Fill describes a shape's paint. Empty colors are transparent.
type Fill struct {
	Color       string  `json:"color,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// Point is a position in target units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Surface is the document being generated. Each AddPage call appends one
// blank slide and returns a Canvas drawing onto it.
type Surface interface {
	AddPage(kind string) Canvas
}

// Canvas draws onto a single slide. Coordinates are target units (points).
type Canvas interface {
	Background(color, image string)
	Shape(kind ShapeKind, r layout.Rect, f Fill)
	Line(from, to Point, f Fill, arrow bool)
	Text(r layout.Rect, text markup.Styled, style markup.TextStyle)
	Image(r layout.Rect, src string)
	Notes(text string)
}

// Shape is one recorded drawing operation.
type Shape struct {
	Kind  ShapeKind         `json:"kind"`
	Rect  layout.Rect       `json:"rect"`
	Fill  Fill              `json:"fill"`
	From  *Point            `json:"from,omitempty"`
	To    *Point            `json:"to,omitempty"`
	Arrow bool              `json:"arrow,omitempty"`
	Text  *markup.Styled    `json:"text,omitempty"`
	Style *markup.TextStyle `json:"style,omitempty"`
	Src   string            `json:"src,omitempty"`
}

// Page is one recorded slide.
type Page struct {
	Kind            string  `json:"kind"`
	Background      string  `json:"background,omitempty"`
	BackgroundImage string  `json:"backgroundImage,omitempty"`
	Shapes          []Shape `json:"shapes"`
	Notes           string  `json:"notes,omitempty"`
}

// Document is the in-memory result of a generation run.
type Document struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	FileName string    `json:"fileName"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Created  time.Time `json:"created"`
	Pages    []*Page   `json:"pages"`
}

// Recorder is a Surface that keeps every drawing operation in a Document.
type Recorder struct {
	doc *Document
}

// NewRecorder starts an empty document of the given page size in points.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{doc: &Document{
		ID:      uuid.NewString(),
		Width:   width,
		Height:  height,
		Created: time.Now(),
	}}
}

func (r *Recorder) AddPage(kind string) Canvas {
	p := &Page{Kind: kind}
	r.doc.Pages = append(r.doc.Pages, p)
	return pageCanvas{page: p}
}

// Document returns the recorded document.
func (r *Recorder) Document() *Document { return r.doc }

type pageCanvas struct{ page *Page }

func (c pageCanvas) Background(color, image string) {
	c.page.Background, c.page.BackgroundImage = color, image
}

func (c pageCanvas) Shape(kind ShapeKind, r layout.Rect, f Fill) {
	c.page.Shapes = append(c.page.Shapes, Shape{Kind: kind, Rect: r, Fill: f})
}

func (c pageCanvas) Line(from, to Point, f Fill, arrow bool) {
	c.page.Shapes = append(c.page.Shapes, Shape{Kind: ShapeLine, From: &from, To: &to, Fill: f, Arrow: arrow})
}

func (c pageCanvas) Text(r layout.Rect, text markup.Styled, style markup.TextStyle) {
	c.page.Shapes = append(c.page.Shapes, Shape{Kind: ShapeText, Rect: r, Text: &text, Style: &style})
}

func (c pageCanvas) Image(r layout.Rect, src string) {
	c.page.Shapes = append(c.page.Shapes, Shape{Kind: ShapeImage, Rect: r, Src: src})
}

func (c pageCanvas) Notes(text string) { c.page.Notes = text }
