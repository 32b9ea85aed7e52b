package linebreak

// 该文件定义断行结果类型并实现提取阶段：沿前驱指针回溯最优路径，
// 反转为正序后逐行给出 token 区间与缓存的调整比。

// Line 描述一行输出：半开 token 区间 [Start,End)、调整比与匀称度等级。
// 区间首尾相接且恰好覆盖整条输入流；断点 token 是区间的最后一个元素。
// Ratio 为正表示行内胶水按 Stretch 伸展该倍数，为负表示按 Shrink 收缩。
type Line struct {
	Start   int     `json:"start"`
	End     int     `json:"end"`
	Ratio   float64 `json:"ratio"`
	Fitness Fitness `json:"fitness"`
}

// Stats 记录一次搜索的规模，便于观察活跃集合的裁剪效果。
type Stats struct {
	NodesCreated     int `json:"nodesCreated"`
	NodesDeactivated int `json:"nodesDeactivated"`
	MaxActive        int `json:"maxActive"`
	Positions        int `json:"positions"`
}

// Result 是一次优化的完整输出。
type Result struct {
	Lines []Line  `json:"lines"`
	Width float64 `json:"width"`
	Stats Stats   `json:"stats"`
}

// LineCount 返回行数。
func (r *Result) LineCount() int { return len(r.Lines) }

// extract 从终点结点回溯构造正序的行序列。路径合法时无失败模式。
func (b *breaker) extract(term int32) []Line {
	var chain []int32
	for idx := term; idx > 0; idx = b.arena[idx].prev {
		chain = append(chain, idx)
	}

	lines := make([]Line, len(chain))
	prevPos := -1
	for i := len(chain) - 1; i >= 0; i-- {
		nd := b.arena[chain[i]]
		lines[len(chain)-1-i] = Line{
			Start:   prevPos + 1,
			End:     nd.pos + 1,
			Ratio:   nd.ratio,
			Fitness: nd.fitness,
		}
		prevPos = nd.pos
	}
	return lines
}

// GlueWidth 返回按调整比伸缩后的胶水宽度，供渲染方重走 token 流计算
// 最终位置，无须重跑优化。非胶水 token 原样返回其宽度。
func GlueWidth(tok Token, ratio float64) float64 {
	if tok.Kind != KindGlue {
		return tok.Width
	}
	if ratio >= 0 {
		return tok.Width + ratio*tok.Stretch
	}
	return tok.Width + ratio*tok.Shrink
}
