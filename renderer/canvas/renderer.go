package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/text2pdf/fonts"
	"github.com/ByLCY/text2pdf/layout"
	"github.com/ByLCY/text2pdf/renderer"
)

const defaultCreator = "papyrus text2pdf"

// Renderer draws layout plans via github.com/tdewolff/canvas and measures text
// with the same font faces, so measured widths match the drawn output.
//
// A Renderer holds parsed font state and is meant to serve a single conversion;
// create a new one per conversion instead of sharing it across goroutines.
type Renderer struct {
	family fonts.Family
	ff     *canvas.FontFamily

	faceMu sync.Mutex
	faces  map[faceKey]*canvas.FontFace
}

var (
	_ renderer.MeasuringRenderer = (*Renderer)(nil)
	_ layout.Measurer            = (*Renderer)(nil)
)

type faceKey struct {
	size  float64
	color layout.Color
}

// New loads the embedded font for family and returns a renderer bound to it.
func New(family fonts.Family) (*Renderer, error) {
	data, err := fonts.Load(family)
	if err != nil {
		return nil, err
	}
	ff := canvas.NewFontFamily(string(family))
	if err := ff.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", family, err)
	}
	return &Renderer{
		family: family,
		ff:     ff,
		faces:  map[faceKey]*canvas.FontFace{},
	}, nil
}

// Family returns the font family this renderer was created for.
func (r *Renderer) Family() fonts.Family { return r.family }

// Measure implements layout.Measurer. size is in points and so is the result;
// canvas reports widths in millimeters, converted here at the boundary.
func (r *Renderer) Measure(s string, size float64) float64 {
	if s == "" || !(size > 0) {
		return 0
	}
	face := r.face(size, layout.TextColor)
	return layout.ToPT(face.TextWidth(s))
}

// Render renders the plan into a PDF byte slice, one canvas per page.
func (r *Renderer) Render(plan *layout.Plan) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("排版计划为空")
	}
	if len(plan.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	width, height := layout.ToMM(plan.PageWidth), layout.ToMM(plan.PageHeight)
	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	r.applyMeta(writer, plan.Meta)
	for i, page := range plan.Pages {
		if i > 0 {
			writer.NewPage(width, height)
		}
		c := canvas.New(width, height)
		ctx := canvas.NewContext(c)
		// 计划坐标与 PDF 一致：原点在左下角，y 轴向上。
		ctx.SetCoordSystem(canvas.CartesianI)

		r.drawPage(ctx, plan, page)
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	creator := meta.Creator
	if creator == "" {
		creator = defaultCreator
	}
	writer.SetInfo(meta.Title, meta.Subject, "", "", creator)
}

// drawPage draws the header first, then body lines, then the footer.
func (r *Renderer) drawPage(ctx *canvas.Context, plan *layout.Plan, page layout.Page) {
	if page.Header != nil {
		r.drawDirective(ctx, *page.Header)
	}
	for _, ln := range page.Lines {
		if ln.Blank() {
			continue
		}
		r.drawText(ctx, ln.Text, ln.X, ln.Y, plan.FontSize, layout.TextColor)
	}
	if page.Footer != nil {
		r.drawDirective(ctx, *page.Footer)
	}
}

func (r *Renderer) drawDirective(ctx *canvas.Context, d layout.Directive) {
	if d.Text == "" {
		return
	}
	r.drawText(ctx, d.Text, d.X, d.Y, d.Size, d.Color)
}

// drawText places text with its baseline at (x, y), both in points.
func (r *Renderer) drawText(ctx *canvas.Context, s string, x, y, size float64, col layout.Color) {
	face := r.face(size, col)
	line := canvas.NewTextLine(face, s, canvas.Left)
	ctx.DrawText(layout.ToMM(x), layout.ToMM(y), line)
}

func (r *Renderer) face(size float64, col layout.Color) *canvas.FontFace {
	key := faceKey{size: size, color: col}
	r.faceMu.Lock()
	defer r.faceMu.Unlock()
	if face, ok := r.faces[key]; ok {
		return face
	}
	face := r.ff.Face(size, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal)
	r.faces[key] = face
	return face
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
