package linebreak

// 该文件实现代价模型：调整比、badness、匀称度等级与每行 demerits。
// 全部为纯函数，借助 Stream 的前缀和在 O(1) 内完成任意候选行的度量。

import "math"

// Fitness 是一行伸缩程度的粗分级，用于惩罚相邻行密度突变。
type Fitness int

const (
	FitnessTight     Fitness = iota // ratio < -0.5
	FitnessDecent                   // -0.5 <= ratio <= 0.5
	FitnessLoose                    // 0.5 < ratio <= 1
	FitnessVeryLoose                // ratio > 1
)

// String 返回等级的可读名称。
func (f Fitness) String() string {
	switch f {
	case FitnessTight:
		return "tight"
	case FitnessDecent:
		return "decent"
	case FitnessLoose:
		return "loose"
	case FitnessVeryLoose:
		return "very-loose"
	default:
		return "unknown"
	}
}

func fitnessFor(ratio float64) Fitness {
	switch {
	case ratio < -0.5:
		return FitnessTight
	case ratio <= 0.5:
		return FitnessDecent
	case ratio <= 1:
		return FitnessLoose
	default:
		return FitnessVeryLoose
	}
}

// badness 对偏离自然宽度施加立方惩罚并在上限处饱和：
// min(10000, round(100*|ratio|^3))。小幅伸缩几乎不可见，大幅伸缩重罚。
func badness(ratio float64) float64 {
	b := math.Round(100 * math.Abs(ratio*ratio*ratio))
	if b > InfiniteBadness || math.IsNaN(b) {
		return InfiniteBadness
	}
	return b
}

// fit 是一次度量的结果。overfull 表示所需收缩超过可用收缩（对该前驱永久
// 不可行）；tooLoose 表示所需伸展超出容差（仅当前断点不可行，行变长后可能
// 恢复）。二者皆否时该行可行，ratio/badness/class 直接可用。
// tooLoose 时仍填充各字段：强制断点会绕过容差检查使用它们。
type fit struct {
	ratio    float64
	badness  float64
	class    Fitness
	overfull bool
	tooLoose bool
}

// measure 度量断在 at 处、前驱断点位于 prev 的候选行（prev 为 -1 表示流首）。
// 自然宽度自前驱后的第一个盒子起算（行首可丢弃 token 跳过），不含断点胶水
// 自身；断点若是惩罚点或盒子则计入其宽度。伸展/收缩量同理只含行内胶水。
func (s *Stream) measure(prev, at int, target, tolerance float64) fit {
	start := prev + 1
	if start < 0 {
		start = 0
	}
	eff := s.nextBox[start]
	if eff > at {
		eff = at
	}
	natural := s.sumWidth[at] - s.sumWidth[eff]
	stretch := s.sumStretch[at] - s.sumStretch[eff]
	shrink := s.sumShrink[at] - s.sumShrink[eff]
	if brk := s.tokens[at]; brk.Kind != KindGlue {
		natural += brk.Width
	}

	need := target - natural
	switch {
	case need > 0:
		if stretch <= 0 {
			// 无可伸展量：无限松。比值按 0 报告（胶水无从移动），badness 饱和。
			return fit{ratio: 0, badness: InfiniteBadness, class: FitnessVeryLoose, tooLoose: true}
		}
		r := need / stretch
		f := fit{ratio: r, badness: badness(r), class: fitnessFor(r)}
		if r > tolerance {
			f.tooLoose = true
		}
		return f
	case need < 0:
		if shrink <= 0 || need < -shrink {
			// 所需收缩超过可用收缩：胶水将被压到自然下限以下，几何上不可行。
			return fit{overfull: true}
		}
		r := need / shrink
		return fit{ratio: r, badness: badness(r), class: fitnessFor(r)}
	default:
		return fit{ratio: 0, badness: 0, class: FitnessDecent}
	}
}

// lineDemerits 计算一行的 demerits。pi 为该断点的有效惩罚值：惩罚点断点取
// token 自身的 Penalty，其余断点取 LinePenalty。强制断点忽略 pi。
func (p Parameters) lineDemerits(b, pi float64, forced bool, prevClass, class Fitness, prevFlagged, flagged bool) float64 {
	var d float64
	switch {
	case forced:
		d = b * b
	case pi >= 0:
		d = (b + pi) * (b + pi)
	default:
		d = b*b - pi*pi
	}
	if diff := int(class) - int(prevClass); diff > 1 || diff < -1 {
		d += p.FitnessDemerits
	}
	if flagged && prevFlagged {
		d += p.FlaggedDemerits
	}
	return d
}
