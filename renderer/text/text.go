// Package textrenderer 将排版结果输出为等宽文本，主要配合
// compose.MonoMeasurer 使用：一个宽度单位对应一个字符格。
package textrenderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/galley/layout"
	"github.com/ByLCY/galley/linebreak"
	"github.com/ByLCY/galley/renderer"
)

// Renderer 把每行 token 走成一行文本。胶水宽度四舍五入到整数格，
// 舍入误差沿行向右扩散，整行总宽不随胶水数量漂移。
type Renderer struct{}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 构造文本渲染器。
func NewRenderer() *Renderer { return &Renderer{} }

// Render 输出整篇文档的文本，块与块之间以空行分隔。
func (r *Renderer) Render(res *layout.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("textrenderer: 排版结果为空")
	}
	var sb strings.Builder
	for i, block := range res.Blocks {
		if block.Breaks == nil {
			continue
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, line := range block.Breaks.Lines {
			sb.WriteString(renderLine(block.Tokens, line))
			sb.WriteByte('\n')
		}
	}
	return []byte(sb.String()), nil
}

// renderLine 按与 PDF 渲染相同的走位规则拼一行：行首的胶水与罚分
// 不占位，断点胶水整体丢弃，带宽度的断点罚分以连字符收尾。
// 无内容的盒子以 # 填充占位，便于直接检查流式排版的结果。
func renderLine(tokens []linebreak.Token, line linebreak.Line) string {
	i := line.Start
	for i < line.End && tokens[i].Kind != linebreak.KindBox {
		i++
	}

	var sb strings.Builder
	carry := 0.0
	last := line.End - 1
	for ; i < line.End; i++ {
		tok := tokens[i]
		switch tok.Kind {
		case linebreak.KindBox:
			if tok.Content != "" {
				sb.WriteString(tok.Content)
			} else {
				sb.WriteString(strings.Repeat("#", cells(tok.Width, &carry)))
			}
		case linebreak.KindGlue:
			if i == last {
				continue
			}
			sb.WriteString(strings.Repeat(" ", cells(linebreak.GlueWidth(tok, line.Ratio), &carry)))
		case linebreak.KindPenalty:
			if i == last && tok.Width > 0 {
				sb.WriteString(strings.Repeat("-", cells(tok.Width, &carry)))
			}
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// cells 把一段宽度折算成整数字符格，小数余量记入 carry 向右扩散。
func cells(width float64, carry *float64) int {
	exact := width + *carry
	n := int(math.Round(exact))
	if n < 0 {
		n = 0
	}
	*carry = exact - float64(n)
	return n
}
