// Package canvasrenderer 基于 github.com/tdewolff/canvas 将排版结果输出为 PDF。
// 渲染阶段只按既有断行区间重走 token 流：盒子前进其固定宽度，行内胶水按
// GlueWidth 伸缩，断点胶水整体丢弃，带宽度的断点罚分以连字符落墨。
package canvasrenderer

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/galley/compose"
	"github.com/ByLCY/galley/fonts"
	"github.com/ByLCY/galley/layout"
	"github.com/ByLCY/galley/linebreak"
	"github.com/ByLCY/galley/renderer"
)

const (
	// 缺省页面为 A4 纵向，单位 mm。
	defaultPageWidth  = 210.0
	defaultPageHeight = 297.0
	defaultMargin     = 20.0

	// 相邻块之间的额外间距，mm。
	blockSpacing = 3.0

	// 字号未指定时取 12pt。
	defaultFontSizePT = 12.0
)

// Options 控制页面几何，零值退回 A4 与 20mm 页边距。
type Options struct {
	PageWidth  float64 // mm
	PageHeight float64 // mm
	Margin     float64 // mm
}

// Renderer 把排版结果写成 PDF。字族按名字缓存，可并发复用。
type Renderer struct {
	opts Options

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 构造 PDF 渲染器。
func NewRenderer(opts Options) *Renderer {
	if opts.PageWidth <= 0 {
		opts.PageWidth = defaultPageWidth
	}
	if opts.PageHeight <= 0 {
		opts.PageHeight = defaultPageHeight
	}
	if opts.Margin <= 0 {
		opts.Margin = defaultMargin
	}
	return &Renderer{
		opts:     opts,
		families: make(map[string]*canvas.FontFamily),
	}
}

// Render 输出整篇文档的 PDF 字节。页面坐标采用 CartesianIV（原点左上、
// y 向下），与逐行向下推进的光标一致。
func (r *Renderer) Render(res *layout.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("canvasrenderer: 排版结果为空")
	}

	style := res.Settings.Style
	fontSize := style.FontSize
	if fontSize.IsZero() {
		fontSize = layout.Length{Value: defaultFontSizePT, Unit: layout.UnitPT}
	}
	face, err := r.face(style.Font, fontSize)
	if err != nil {
		return nil, err
	}
	lineHeight := style.LineHeight.Resolve(fontSize, layout.UnitMM)
	ascent := face.Metrics().Ascent

	pageW, pageH, margin := r.opts.PageWidth, r.opts.PageHeight, r.opts.Margin

	var buf bytes.Buffer
	writer := pdf.New(&buf, pageW, pageH, nil)
	applyMeta(writer, res.Meta)

	c := canvas.New(pageW, pageH)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	y := margin
	newPage := func() {
		c.RenderTo(writer)
		writer.NewPage(pageW, pageH)
		c = canvas.New(pageW, pageH)
		ctx = canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV)
		y = margin
	}

	for i, block := range res.Blocks {
		if block.Breaks == nil {
			continue
		}
		if i > 0 {
			y += blockSpacing
		}
		for _, line := range block.Breaks.Lines {
			if y+lineHeight > pageH-margin && y > margin {
				newPage()
			}
			drawLine(ctx, face, block.Tokens, line, margin, y+ascent)
			y += lineHeight
		}
	}

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写出 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// placed 是行内走位的产物：一段要落墨的文本及其相对行首的水平偏移。
type placed struct {
	text string
	x    float64
}

// placeLine 沿一行的 token 区间推进 x 光标。行首的胶水与罚分不占位
// （与度量阶段的约定一致），行内胶水按调整比伸缩，断点胶水整体丢弃，
// 行内罚分宽度为零，带宽度的断点罚分以连字符收尾。
func placeLine(tokens []linebreak.Token, line linebreak.Line) []placed {
	i := line.Start
	for i < line.End && tokens[i].Kind != linebreak.KindBox {
		i++
	}

	var out []placed
	x := 0.0
	last := line.End - 1
	for ; i < line.End; i++ {
		tok := tokens[i]
		switch tok.Kind {
		case linebreak.KindBox:
			if tok.Content != "" {
				out = append(out, placed{text: tok.Content, x: x})
			}
			x += tok.Width
		case linebreak.KindGlue:
			if i == last {
				continue
			}
			x += linebreak.GlueWidth(tok, line.Ratio)
		case linebreak.KindPenalty:
			if i == last && tok.Width > 0 {
				out = append(out, placed{text: "-", x: x})
			}
		}
	}
	return out
}

func drawLine(ctx *canvas.Context, face *canvas.FontFace, tokens []linebreak.Token, line linebreak.Line, x0, baseline float64) {
	for _, p := range placeLine(tokens, line) {
		ctx.DrawText(x0+p.x, baseline, canvas.NewTextLine(face, p.text, canvas.Left))
	}
}

// face 返回指定字族与字号的字面。字号按 pt 传入 canvas，文本宽度则以
// mm 参与比较，沿用 canvas 的单位约定。
func (r *Renderer) face(name string, size layout.Length) (*canvas.FontFace, error) {
	family, err := r.family(name)
	if err != nil {
		return nil, err
	}
	return family.Face(size.ToPT(), canvas.Black, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) family(name string) (*canvas.FontFamily, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = fonts.DefaultName
	}

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if family, ok := r.families[key]; ok {
		return family, nil
	}

	data, err := fonts.Load(key)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(key)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", key, err)
	}
	r.families[key] = family
	return family, nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)
}

// FaceMeasurer 用真实字体度量文本，使 token 宽度与 PDF 落墨完全一致。
// 词间胶水沿用经典排版约定：自然宽 w、伸展 w/2、收缩 w/3。
type FaceMeasurer struct {
	face  *canvas.FontFace
	space float64
}

var _ compose.Measurer = (*FaceMeasurer)(nil)

// NewFaceMeasurer 按内置字族名与字号构造度量器。字号零值取 12pt，
// 空字族名取缺省字族。
func NewFaceMeasurer(name string, size layout.Length) (*FaceMeasurer, error) {
	if size.IsZero() {
		size = layout.Length{Value: defaultFontSizePT, Unit: layout.UnitPT}
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = fonts.DefaultName
	}
	data, err := fonts.Load(key)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(key)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", key, err)
	}
	face := family.Face(size.ToPT(), canvas.Black, canvas.FontRegular, canvas.FontNormal)
	return &FaceMeasurer{face: face, space: face.TextWidth(" ")}, nil
}

// TextWidth 返回文本的自然宽度，mm。
func (m *FaceMeasurer) TextWidth(s string) float64 { return m.face.TextWidth(s) }

// SpaceGlue 返回词间空白的自然宽度、伸展量与收缩量，mm。
func (m *FaceMeasurer) SpaceGlue() (width, stretch, shrink float64) {
	return m.space, m.space / 2, m.space / 3
}
