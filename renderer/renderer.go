// Package renderer 定义渲染层的公共接口。渲染器只消费排版结果中
// 已经定稿的断行区间与调整比，不重跑优化。
package renderer

import "github.com/ByLCY/galley/layout"

// Renderer 将排版结果转换为目标格式的字节序列。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
