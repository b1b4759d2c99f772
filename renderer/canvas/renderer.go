package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/zap"

	"github.com/ByLCY/slidegen/deck"
	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/renderer"
)

const (
	// defaultDPMM 约为 150 dpi，位图超过该密度时会被缩小。
	defaultDPMM   = 6.0
	cornerRatio   = 0.08
	arrowHeadSize = 6.0 // pt
	placeholder   = "#E5E5EA"
	creator       = "slidegen"
)

// Renderer draws recorded decks via github.com/tdewolff/canvas.
type Renderer struct {
	images ImageSource
	log    *zap.Logger
	dpmm   float64

	fontMu   sync.Mutex
	fontRes  map[string]FontResource
	families map[string]*canvas.FontFamily
	fallback *canvas.FontFamily

	imgMu    sync.Mutex
	imgCache map[string]image.Image
}

var _ renderer.Renderer = (*Renderer)(nil)

// Option configures the canvas renderer.
type Option func(*Renderer)

// WithImageSource replaces the default file system image source.
func WithImageSource(src ImageSource) Option {
	return func(r *Renderer) {
		if src != nil {
			r.images = src
		}
	}
}

// WithLogger sets the logger used for recoverable problems such as missing images.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithFont registers an external font family under name.
func WithFont(name string, res FontResource) Option {
	return func(r *Renderer) {
		if name != "" {
			r.fontRes[strings.ToLower(name)] = res
		}
	}
}

// WithResolution sets the raster density for embedded images, in dots per mm.
func WithResolution(dpmm float64) Option {
	return func(r *Renderer) {
		if dpmm > 0 {
			r.dpmm = dpmm
		}
	}
}

// NewRenderer creates a canvas-based renderer resolving relative image paths
// against baseDir.
func NewRenderer(baseDir string, opts ...Option) *Renderer {
	r := &Renderer{
		images:   DirSource{BaseDir: baseDir},
		log:      zap.NewNop(),
		dpmm:     defaultDPMM,
		fontRes:  map[string]FontResource{},
		families: map[string]*canvas.FontFamily{},
		imgCache: map[string]image.Image{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders the document into a PDF byte slice, one PDF page per slide.
// Missing or broken images are replaced by a placeholder and logged.
func (r *Renderer) Render(doc *deck.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("document has no pages")
	}
	pw, ph := doc.Width*layout.PtToMm, doc.Height*layout.PtToMm

	var buf bytes.Buffer
	writer := pdf.New(&buf, pw, ph, nil)
	writer.SetInfo(doc.Title, "", "", "", creator)
	for i, page := range doc.Pages {
		if i > 0 {
			writer.NewPage(pw, ph)
		}
		c := canvas.New(pw, ph)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与布局一致

		if err := r.drawPage(ctx, page, pw, ph); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page *deck.Page, pw, ph float64) error {
	if page.Background != "" {
		setFill(ctx, deck.Fill{Color: page.Background})
		ctx.DrawPath(0, 0, canvas.Rectangle(pw, ph))
	}
	if page.BackgroundImage != "" {
		r.drawBackground(ctx, page.BackgroundImage, pw, ph)
	}
	for _, s := range page.Shapes {
		if err := r.drawShape(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawShape(ctx *canvas.Context, s deck.Shape) error {
	box := toMM(s.Rect)
	switch s.Kind {
	case deck.ShapeRect:
		setFill(ctx, s.Fill)
		ctx.DrawPath(box.Left, box.Top, canvas.Rectangle(box.Width, box.Height))
	case deck.ShapeRoundRect:
		setFill(ctx, s.Fill)
		ctx.DrawPath(box.Left, box.Top, canvas.RoundedRectangle(box.Width, box.Height, min(box.Width, box.Height)*cornerRatio))
	case deck.ShapeEllipse:
		setFill(ctx, s.Fill)
		ctx.DrawPath(box.CenterX(), box.CenterY(), canvas.Ellipse(box.Width/2, box.Height/2))
	case deck.ShapeTriangle:
		setFill(ctx, s.Fill)
		p := &canvas.Path{}
		p.MoveTo(box.Width/2, 0)
		p.LineTo(box.Width, box.Height)
		p.LineTo(0, box.Height)
		p.Close()
		ctx.DrawPath(box.Left, box.Top, p)
	case deck.ShapeLine:
		if s.From == nil || s.To == nil {
			return nil
		}
		r.drawLine(ctx, *s.From, *s.To, s.Fill, s.Arrow)
	case deck.ShapeText:
		if s.Text == nil || s.Style == nil {
			return nil
		}
		return r.drawText(ctx, s.Rect, *s.Text, *s.Style)
	case deck.ShapeImage:
		r.drawImage(ctx, s.Src, box)
	default:
		r.log.Debug("Unsupported shape", zap.String("kind", string(s.Kind)))
	}
	return nil
}

// drawLine 绘制直线，arrow 为真时在终点绘制实心箭头。
func (r *Renderer) drawLine(ctx *canvas.Context, from, to deck.Point, f deck.Fill, arrow bool) {
	x1, y1 := from.X*layout.PtToMm, from.Y*layout.PtToMm
	x2, y2 := to.X*layout.PtToMm, to.Y*layout.PtToMm
	stroke := f.Stroke
	if stroke == "" {
		stroke = f.Color
	}
	ctx.SetFillColor(color.RGBA{})
	ctx.SetStrokeColor(colorOf(stroke))
	ctx.SetStrokeWidth(max(f.StrokeWidth, 0.5) * layout.PtToMm)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(x2-x1, y2-y1)
	ctx.DrawPath(x1, y1, p)

	if !arrow {
		return
	}
	length := math.Hypot(x2-x1, y2-y1)
	if length == 0 {
		return
	}
	ux, uy := (x2-x1)/length, (y2-y1)/length
	size := arrowHeadSize * layout.PtToMm
	head := &canvas.Path{}
	head.MoveTo(0, 0)
	head.LineTo(-ux*size-uy*size/2, -uy*size+ux*size/2)
	head.LineTo(-ux*size+uy*size/2, -uy*size-ux*size/2)
	head.Close()
	ctx.SetFillColor(colorOf(stroke))
	ctx.SetStrokeColor(color.RGBA{})
	ctx.DrawPath(x2, y2, head)
}

func (r *Renderer) drawImage(ctx *canvas.Context, src string, box layout.Rect) {
	img, err := r.loadImage(src)
	if err != nil {
		r.log.Warn("Unable to load image, using placeholder", zap.String("src", src), zap.Error(err))
		setFill(ctx, deck.Fill{Color: placeholder})
		ctx.DrawPath(box.Left, box.Top, canvas.Rectangle(box.Width, box.Height))
		return
	}
	b := img.Bounds()
	w, h := contain(b.Dx(), b.Dy(), box.Width, box.Height)
	if w <= 0 || h <= 0 {
		return
	}
	img = downsample(img, w, h, r.dpmm)
	ctx.DrawImage(box.Left+(box.Width-w)/2, box.Top+(box.Height-h)/2, img, canvas.DPMM(float64(img.Bounds().Dx())/w))
}

// drawBackground 以铺满方式绘制背景图，超出部分居中裁剪。
func (r *Renderer) drawBackground(ctx *canvas.Context, src string, pw, ph float64) {
	img, err := r.loadImage(src)
	if err != nil {
		r.log.Warn("Unable to load background image", zap.String("src", src), zap.Error(err))
		return
	}
	fw, fh := int(pw*r.dpmm+0.5), int(ph*r.dpmm+0.5)
	if b := img.Bounds(); b.Dx() < fw || b.Dy() < fh {
		// 不放大小图，只裁剪到页面比例
		scale := min(float64(b.Dx())/pw, float64(b.Dy())/ph)
		fw, fh = max(int(pw*scale), 1), max(int(ph*scale), 1)
	}
	img = imaging.Fill(img, fw, fh, imaging.Center, imaging.Lanczos)
	ctx.DrawImage(0, 0, img, canvas.DPMM(float64(fw)/pw))
}

func setFill(ctx *canvas.Context, f deck.Fill) {
	ctx.SetFillColor(colorOf(f.Color))
	if f.Stroke == "" || f.StrokeWidth <= 0 {
		ctx.SetStrokeColor(color.RGBA{})
		ctx.SetStrokeWidth(0)
		return
	}
	ctx.SetStrokeColor(colorOf(f.Stroke))
	ctx.SetStrokeWidth(f.StrokeWidth * layout.PtToMm)
}

// toMM 将点(pt)矩形转换为毫米(mm)。
func toMM(r layout.Rect) layout.Rect {
	return layout.Rect{
		Left:   r.Left * layout.PtToMm,
		Top:    r.Top * layout.PtToMm,
		Width:  r.Width * layout.PtToMm,
		Height: r.Height * layout.PtToMm,
	}
}
