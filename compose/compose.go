// Package compose 把正文文本转换为断行引擎的 token 流。
// 分词、词间胶水、软连字符与段末收尾遵循固定约定，宽度度量则交给
// Measurer 的具体实现（真实字体或等宽单元格）。
package compose

import (
	"fmt"
	"strings"

	"github.com/ByLCY/galley/linebreak"
)

// Measurer 负责文本宽度与词间空白的度量。实现方决定单位：
// 字体度量用 mm，等宽度量用单元格数，引擎本身不关心单位。
type Measurer interface {
	// TextWidth 返回一段文本的自然宽度。
	TextWidth(s string) float64

	// SpaceGlue 返回词间空白的自然宽度、伸展量与收缩量。
	SpaceGlue() (width, stretch, shrink float64)
}

// 转换约定的默认值。连字惩罚沿用排版传统的温和取值；
// 段末伸展量足够大以保证末行总能自然收尾。
const (
	DefaultHyphenPenalty = 50.0
	DefaultFinishStretch = 10000.0
)

// Options 控制文本到 token 的转换细节。零值字段取默认约定。
type Options struct {
	// HyphenPenalty 是软连字符断点的惩罚值。
	HyphenPenalty float64 `json:"hyphenPenalty"`

	// HyphenWidth 是断在软连字符处时连字符占用的宽度；
	// 零值时按 Measurer 度量 "-" 取值。
	HyphenWidth float64 `json:"hyphenWidth"`

	// FinishStretch 是段末收尾胶水的伸展量，决定末行右侧留白的自由度。
	FinishStretch float64 `json:"finishStretch"`
}

func (o Options) normalized(m Measurer) Options {
	if o.HyphenPenalty == 0 {
		o.HyphenPenalty = DefaultHyphenPenalty
	}
	if o.HyphenWidth == 0 {
		o.HyphenWidth = m.TextWidth("-")
	}
	if o.FinishStretch == 0 {
		o.FinishStretch = DefaultFinishStretch
	}
	return o
}

// softHyphen 标记作者显式给出的断词点，仅在断行发生时显示为连字符。
const softHyphen = "­"

// Text 把一段正文转换为 token 流：
//   - 连续空白折叠为一个词间胶水；
//   - 换行符视为段内硬断行，之前的行不做两端对齐；
//   - 软连字符（U+00AD）转换为带 Flagged 标记的惩罚断点；
//   - 段末追加收尾胶水与强制断点，使末行保持自然宽度。
//
// 纯空白输入返回空流。回车符一律丢弃。
func Text(content string, m Measurer, opts Options) ([]linebreak.Token, error) {
	if m == nil {
		return nil, fmt.Errorf("compose: 缺少度量器")
	}
	opts = opts.normalized(m)
	content = strings.ReplaceAll(content, "\r", "")
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	spaceW, spaceY, spaceZ := m.SpaceGlue()
	var tokens []linebreak.Token
	for li, line := range strings.Split(content, "\n") {
		if li > 0 {
			tokens = appendFinish(tokens, opts.FinishStretch)
		}
		for wi, word := range strings.Fields(line) {
			if wi > 0 {
				tokens = append(tokens, linebreak.Glue(spaceW, spaceY, spaceZ))
			}
			tokens = appendWord(tokens, word, m, opts)
		}
	}
	return appendFinish(tokens, opts.FinishStretch), nil
}

// appendWord 展开一个词：软连字符把词切成片段，片段间插入 Flagged 惩罚点。
func appendWord(tokens []linebreak.Token, word string, m Measurer, opts Options) []linebreak.Token {
	first := true
	for _, frag := range strings.Split(word, softHyphen) {
		if frag == "" {
			continue
		}
		if !first {
			tokens = append(tokens, linebreak.Penalty(opts.HyphenWidth, opts.HyphenPenalty, true))
		}
		tokens = append(tokens, linebreak.Box(m.TextWidth(frag), frag))
		first = false
	}
	return tokens
}

// appendFinish 追加段末收尾：大伸展量胶水吸收剩余空间，强制断点结束该行。
func appendFinish(tokens []linebreak.Token, finishStretch float64) []linebreak.Token {
	return append(tokens,
		linebreak.Glue(0, finishStretch, 0),
		linebreak.Penalty(0, linebreak.PenaltyForce, false),
	)
}
