package linebreak

// Parameters 配置单次优化的代价模型，全部是可调约定而非硬编码定律。
type Parameters struct {
	// Tolerance 是伸展方向可接受的最大调整比：need/stretch 超过它时该行
	// 在当前断点不可行（仅跳过，不停用前驱）。必须为正，非正值按默认处理。
	Tolerance float64 `json:"tolerance"`

	// LinePenalty 是无惩罚点断点（胶水断点、流末尾的强制断点）的每行固定
	// 惩罚；惩罚点断点使用 token 自身的 Penalty 值。
	LinePenalty float64 `json:"linePenalty"`

	// FitnessDemerits 在相邻两行的匀称度等级相差超过一档时追加。
	FitnessDemerits float64 `json:"fitnessDemerits"`

	// FlaggedDemerits 在连续两个断点都带 Flagged 标记时追加。
	FlaggedDemerits float64 `json:"flaggedDemerits"`

	// Looseness 在终点候选间偏置行数：+n 倾向多 n 行，-n 倾向少 n 行。
	// 只影响终点选择，不改变任何可行性判断。
	Looseness int `json:"looseness"`
}

// 默认代价常数。数值沿用该算法家族的惯例，含义见各字段注释。
const (
	DefaultTolerance       = 2.0
	DefaultLinePenalty     = 10.0
	DefaultFitnessDemerits = 10000.0
	DefaultFlaggedDemerits = 10000.0
)

// DefaultParameters 返回默认代价配置。
func DefaultParameters() Parameters {
	return Parameters{
		Tolerance:       DefaultTolerance,
		LinePenalty:     DefaultLinePenalty,
		FitnessDemerits: DefaultFitnessDemerits,
		FlaggedDemerits: DefaultFlaggedDemerits,
	}
}

// normalized 把零值配置修正为可用配置：容差必须为正。
func (p Parameters) normalized() Parameters {
	if p.Tolerance <= 0 {
		p.Tolerance = DefaultTolerance
	}
	return p
}
