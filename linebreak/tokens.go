package linebreak

// 该文件定义排版基元（盒子/胶水/惩罚点）与只读的 token 流。
// 流在构造时完成校验与前缀和预处理，之后对引擎整个生命周期只读。

import (
	"errors"
	"fmt"
)

// Kind 标识 token 的种类。
type Kind int

const (
	KindBox     Kind = iota // 刚性内容，宽度固定
	KindGlue                // 可伸缩空白
	KindPenalty             // 候选断点及其代价偏置
)

// String 返回种类的可读名称。
func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindGlue:
		return "glue"
	case KindPenalty:
		return "penalty"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// 惩罚值哨兵与 badness 上限。
// Penalty <= PenaltyForce 强制断行；Penalty >= PenaltyInfinite 禁止断行。
const (
	PenaltyInfinite = 10000.0
	PenaltyForce    = -10000.0
	InfiniteBadness = 10000.0
)

// Token 是三种形态共用的扁平结构，Kind 决定哪些字段有意义：
//   - Box：Width 与 Content；
//   - Glue：Width（自然宽度）、Stretch、Shrink；
//   - Penalty：Width（断点处附加宽度，如连字符）、Penalty、Flagged。
type Token struct {
	Kind    Kind    `json:"kind"`
	Width   float64 `json:"width"`
	Stretch float64 `json:"stretch,omitempty"`
	Shrink  float64 `json:"shrink,omitempty"`
	Penalty float64 `json:"penalty,omitempty"`
	Flagged bool    `json:"flagged,omitempty"`
	Content string  `json:"content,omitempty"`
}

// Box 构造一个刚性内容 token，content 为引擎不关心的载荷。
func Box(width float64, content string) Token {
	return Token{Kind: KindBox, Width: width, Content: content}
}

// Glue 构造一个可伸缩空白 token。
func Glue(width, stretch, shrink float64) Token {
	return Token{Kind: KindGlue, Width: width, Stretch: stretch, Shrink: shrink}
}

// Penalty 构造一个候选断点 token。flagged 标记不宜连续出现的断点类型（如连字断行）。
func Penalty(width, penalty float64, flagged bool) Token {
	return Token{Kind: KindPenalty, Width: width, Penalty: penalty, Flagged: flagged}
}

// ErrInvalidToken 表示 token 流中存在非法 token（负宽度盒子、负伸缩量胶水）。
var ErrInvalidToken = errors.New("linebreak: 非法 token")

// Stream 是一条只读的 token 序列及其派生索引。
// NewStream 之后内容不再变化，可被多次优化安全复用。
type Stream struct {
	tokens []Token

	// 前缀和：sumWidth/sumStretch/sumShrink 的第 i 项覆盖 [0,i) 区间内
	// 盒子与胶水的宽度/伸展量/收缩量之和（惩罚点仅在成为断点时计宽）。
	sumWidth   []float64
	sumStretch []float64
	sumShrink  []float64

	// nextBox[i] 为 i 及其后第一个盒子的下标，不存在时为 len(tokens)。
	// 行首的可丢弃 token（胶水、惩罚点）以此跳过。
	nextBox []int
}

// NewStream 校验并封存一条 token 序列。
// 校验规则（构造期而非搜索期）：盒子宽度、胶水的伸展/收缩量都不得为负。
// 空序列合法，表示零行输出。
func NewStream(tokens []Token) (*Stream, error) {
	for i, tok := range tokens {
		switch tok.Kind {
		case KindBox:
			if tok.Width < 0 {
				return nil, fmt.Errorf("第 %d 个 token：盒子宽度为负 (%g): %w", i, tok.Width, ErrInvalidToken)
			}
		case KindGlue:
			if tok.Stretch < 0 || tok.Shrink < 0 {
				return nil, fmt.Errorf("第 %d 个 token：胶水伸缩量为负 (stretch=%g shrink=%g): %w", i, tok.Stretch, tok.Shrink, ErrInvalidToken)
			}
		case KindPenalty:
			// 惩罚值允许任意符号，哨兵之外的数值也合法
		default:
			return nil, fmt.Errorf("第 %d 个 token：未知种类 %d: %w", i, int(tok.Kind), ErrInvalidToken)
		}
	}

	s := &Stream{
		tokens:     append([]Token(nil), tokens...),
		sumWidth:   make([]float64, len(tokens)+1),
		sumStretch: make([]float64, len(tokens)+1),
		sumShrink:  make([]float64, len(tokens)+1),
		nextBox:    make([]int, len(tokens)+1),
	}
	for i, tok := range s.tokens {
		w, y, z := 0.0, 0.0, 0.0
		switch tok.Kind {
		case KindBox:
			w = tok.Width
		case KindGlue:
			w, y, z = tok.Width, tok.Stretch, tok.Shrink
		}
		s.sumWidth[i+1] = s.sumWidth[i] + w
		s.sumStretch[i+1] = s.sumStretch[i] + y
		s.sumShrink[i+1] = s.sumShrink[i] + z
	}
	s.nextBox[len(s.tokens)] = len(s.tokens)
	for i := len(s.tokens) - 1; i >= 0; i-- {
		if s.tokens[i].Kind == KindBox {
			s.nextBox[i] = i
		} else {
			s.nextBox[i] = s.nextBox[i+1]
		}
	}
	return s, nil
}

// Len 返回 token 数量。
func (s *Stream) Len() int { return len(s.tokens) }

// At 返回第 i 个 token。
func (s *Stream) At(i int) Token { return s.tokens[i] }

// Tokens 返回底层序列，调用方不得修改。
func (s *Stream) Tokens() []Token { return s.tokens }
