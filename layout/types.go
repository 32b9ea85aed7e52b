package layout

import (
	"github.com/ByLCY/galley/compose"
	"github.com/ByLCY/galley/linebreak"
)

// 该文件定义排版结果与文档级设置，供排版计算、渲染与调试 JSON 共用。

// 块类型取值。
const (
	BlockParagraph = "paragraph"
	BlockStream    = "stream"
)

// Block 对应文档中的一个 paragraph 或 stream 段，携带展开后的
// token 序列与断行结果。渲染端按 Breaks 中的行区间回放 Tokens，
// 不重新执行断行搜索。
type Block struct {
	Name   string            `json:"name"`
	Kind   string            `json:"kind"`
	Tokens []linebreak.Token `json:"tokens"`
	Breaks *linebreak.Result `json:"breaks,omitempty"`
}

// Style 汇总 options 段中与渲染相关的设置。字号与行高保留书写
// 单位，由渲染端在目标单位下解析。
type Style struct {
	Font       string         `json:"font,omitempty"`
	FontSize   Length         `json:"fontSize"`
	LineHeight LineHeightSpec `json:"lineHeight"`
}

// Settings 是文档级版面设置：目标行宽、断行参数、组排选项与渲染
// 样式。Width 带单位时换算为毫米；不带单位时按度量器的原生单位
// （如等宽单元格）使用。
type Settings struct {
	Width   float64              `json:"width"`
	Params  linebreak.Parameters `json:"params"`
	Compose compose.Options      `json:"compose"`
	Style   Style                `json:"style"`
}

// DocumentMeta 描述文档元数据，供输出端写入文件属性。
type DocumentMeta struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Result 是整篇文档的排版结果：生效的设置、元数据与逐块断行输出。
type Result struct {
	Doc      string       `json:"doc"`
	Settings Settings     `json:"settings"`
	Meta     DocumentMeta `json:"meta"`
	Blocks   []Block      `json:"blocks"`
}

// LineTotal 统计全文档的行数。
func (r *Result) LineTotal() int {
	total := 0
	for _, b := range r.Blocks {
		if b.Breaks != nil {
			total += b.Breaks.LineCount()
		}
	}
	return total
}
