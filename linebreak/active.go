package linebreak

// 该文件维护单趟扫描中的断点图：arena 分配的断点结点与活跃集合。
// 结点经前驱下标构成一棵树；活跃集合按创建顺序保存 arena 下标，
// 停用即从集合中剔除，结点本身留在 arena 里供回溯。

// node 是一个候选断点及恢复代价计算所需的全部状态。
type node struct {
	pos      int     // 断点 token 下标，起始结点为 -1
	line     int     // 到达该断点时已完成的行数
	fitness  Fitness // 以该断点结束的行的匀称度等级
	ratio    float64 // 该行的调整比，缓存供提取阶段使用
	demerits float64 // 到达该断点的最优路径总 demerits
	flagged  bool    // 该断点是否带 Flagged 标记
	prev     int32   // 前驱结点的 arena 下标，起始结点为 -1
}

// candidate 聚合同一位置、同一匀称度等级下的最优到达方式。
type candidate struct {
	active   bool
	demerits float64
	line     int
	ratio    float64
	prev     int32
}

// better 判断新到达方式是否应替换现有候选：demerits 更小者胜；持平时行数
// 更少者胜；仍持平保留先到者（活跃集合按创建顺序迭代，即最早创建者）。
func (c *candidate) better(demerits float64, line int) bool {
	if !c.active {
		return true
	}
	if demerits != c.demerits {
		return demerits < c.demerits
	}
	return line < c.line
}

// breaker 承载一次优化的全部可变状态。
type breaker struct {
	stream *Stream
	width  float64
	params Parameters

	arena  []node
	active []int32
	stats  Stats
}

func newBreaker(s *Stream, width float64, params Parameters) *breaker {
	b := &breaker{
		stream: s,
		width:  width,
		params: params,
		arena:  make([]node, 1, 16),
		active: make([]int32, 1, 8),
	}
	// 起始结点：位于流首之前，等级视作 decent。
	b.arena[0] = node{pos: -1, fitness: FitnessDecent, prev: -1}
	b.active[0] = 0
	b.stats.MaxActive = 1
	return b
}

// step 在合法断点 p 处做一轮松弛：对每个活跃前驱度量候选行，按收缩超限
// 永久停用、伸展超限仅跳过的规则维护活跃集合，并为每个可达等级保留最优
// 到达方式。强制断点绕过容差检查，且结清后停用其前的全部前驱。
func (b *breaker) step(p int, forced bool, pi float64, flagged bool) {
	var best [4]candidate
	survivors := b.active[:0]

	for _, ai := range b.active {
		nd := b.arena[ai]
		f := b.stream.measure(nd.pos, p, b.width, b.params.Tolerance)
		if f.overfull {
			// 行内容只增不减，收缩超限对该前驱永不恢复：停用。
			b.stats.NodesDeactivated++
			continue
		}
		if f.tooLoose && !forced {
			// 更长的行可能重新落入容差，仅跳过本断点。
			survivors = append(survivors, ai)
			continue
		}
		d := nd.demerits + b.params.lineDemerits(f.badness, pi, forced, nd.fitness, f.class, nd.flagged, flagged)
		if c := &best[f.class]; c.better(d, nd.line+1) {
			*c = candidate{active: true, demerits: d, line: nd.line + 1, ratio: f.ratio, prev: ai}
		}
		if forced {
			// 强制断点处所有行都已终止，跨越它的前驱不再有意义。
			b.stats.NodesDeactivated++
			continue
		}
		survivors = append(survivors, ai)
	}

	// 等级按固定顺序落入 arena，保证创建顺序确定。
	for class := FitnessTight; class <= FitnessVeryLoose; class++ {
		c := best[class]
		if !c.active {
			continue
		}
		idx := int32(len(b.arena))
		b.arena = append(b.arena, node{
			pos:      p,
			line:     c.line,
			fitness:  class,
			ratio:    c.ratio,
			demerits: c.demerits,
			flagged:  flagged,
			prev:     c.prev,
		})
		survivors = append(survivors, idx)
		b.stats.NodesCreated++
	}

	b.active = survivors
	if len(b.active) > b.stats.MaxActive {
		b.stats.MaxActive = len(b.active)
	}
}

// chooseTerminal 在终点位置的活跃结点中选出答案：总 demerits 最小，持平时
// 行数更少者，再持平时最早创建者。Looseness 非零时在此基础上向目标行数偏置。
func (b *breaker) chooseTerminal() int32 {
	bestIdx := int32(-1)
	for _, ai := range b.active {
		if bestIdx < 0 || terminalBetter(b.arena[ai], b.arena[bestIdx]) {
			bestIdx = ai
		}
	}
	if bestIdx < 0 || b.params.Looseness == 0 {
		return bestIdx
	}

	want := b.arena[bestIdx].line + b.params.Looseness
	loose := bestIdx
	for _, ai := range b.active {
		nd, cur := b.arena[ai], b.arena[loose]
		dn, dc := absInt(nd.line-want), absInt(cur.line-want)
		switch {
		case dn < dc:
			loose = ai
		case dn == dc && terminalBetter(nd, cur):
			loose = ai
		}
	}
	return loose
}

func terminalBetter(a, b node) bool {
	if a.demerits != b.demerits {
		return a.demerits < b.demerits
	}
	return a.line < b.line
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
