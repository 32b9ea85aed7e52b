package linebreak

// 该文件实现断点搜索主循环：自左向右单趟扫描，在每个合法断点处
// 对活跃前驱做松弛，最终从终点候选回溯出全局最优断行方案。

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoFeasibleBreak 表示在到达流末尾的强制断点前活跃集合已耗尽：
// 当前伸缩容差下输入不可断行。引擎不会自行放宽重试，是否放宽容差
// 再调用一次由调用方决定。
var ErrNoFeasibleBreak = errors.New("linebreak: 无可行断点方案")

// Break 对一条 token 流计算全局最优断行。
// 空流返回零行结果而非错误；失败时不遗留任何部分状态。
func Break(stream *Stream, width float64, params Parameters) (*Result, error) {
	return BreakContext(context.Background(), stream, width, params)
}

// BreakContext 与 Break 相同，另在每个扫描位置检查 ctx。
// 超时或取消等价于放弃本次搜索：返回 ctx 的错误，所有中间状态随调用丢弃，
// 重试会从全新的活跃集合开始。
func BreakContext(ctx context.Context, stream *Stream, width float64, params Parameters) (*Result, error) {
	if stream == nil {
		return nil, fmt.Errorf("linebreak: token 流为空")
	}
	if width <= 0 {
		return nil, fmt.Errorf("linebreak: 目标宽度必须为正数，当前为 %g", width)
	}
	n := stream.Len()
	if n == 0 {
		return &Result{Width: width}, nil
	}

	params = params.normalized()
	b := newBreaker(stream, width, params)

	for p := 0; p < n; p++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("linebreak: 搜索在位置 %d 被中止: %w", p, err)
		}
		legal, forced, pi, flagged := classify(stream, p, params)
		if !legal {
			continue
		}
		b.stats.Positions++
		b.step(p, forced, pi, flagged)
		if len(b.active) == 0 {
			return nil, fmt.Errorf("位置 %d 处活跃断点耗尽: %w", p, ErrNoFeasibleBreak)
		}
	}

	term := b.chooseTerminal()
	if term < 0 {
		return nil, ErrNoFeasibleBreak
	}
	return &Result{
		Lines: b.extract(term),
		Width: width,
		Stats: b.stats,
	}, nil
}

// classify 判定位置 p 是否为合法断点及其属性。合法断点：
//   - 紧跟在盒子之后的胶水；
//   - 惩罚值低于禁止阈值的惩罚点（低于强制阈值时为强制断点）；
//   - 流的最后一个 token，无条件视为强制断点。
func classify(s *Stream, p int, params Parameters) (legal, forced bool, pi float64, flagged bool) {
	tok := s.At(p)
	if p == s.Len()-1 {
		return true, true, params.LinePenalty, tok.Kind == KindPenalty && tok.Flagged
	}
	switch tok.Kind {
	case KindGlue:
		if p > 0 && s.At(p-1).Kind == KindBox {
			return true, false, params.LinePenalty, false
		}
	case KindPenalty:
		if tok.Penalty < PenaltyInfinite {
			return true, tok.Penalty <= PenaltyForce, tok.Penalty, tok.Flagged
		}
	}
	return false, false, 0, false
}
