package layout

import "github.com/ByLCY/galley/compose"

// BuildOptions 配置排版阶段所需的依赖与行为。
type BuildOptions struct {
	// Measurer 负责段落文本的宽度度量，组排段落时必需。
	Measurer compose.Measurer
	// Settings 为调用方预先解析好的版面设置；为 nil 时以
	// DefaultSettings 为基线从文档 options 段解析。
	Settings *Settings
	// Strict 使未解析的数据插值路径成为错误而非原样保留。
	Strict bool
}
