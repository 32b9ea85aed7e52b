package compose

import "github.com/rivo/uniseg"

// MonoMeasurer 以终端单元格为单位度量文本：宽字符占两格，组合字素按
// 单个字素簇计宽。词间空格一格，可加宽不可压缩。
type MonoMeasurer struct{}

var _ Measurer = MonoMeasurer{}

// TextWidth 返回文本占用的单元格数。
func (MonoMeasurer) TextWidth(s string) float64 {
	return float64(uniseg.StringWidth(s))
}

// SpaceGlue 返回单格空格，伸展一格，不可收缩。
func (MonoMeasurer) SpaceGlue() (width, stretch, shrink float64) {
	return 1, 1, 0
}
