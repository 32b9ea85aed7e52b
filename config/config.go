// Package config 读取 galley 的持久配置：galley.yaml 与 GALLEY_ 前缀的
// 环境变量。文档 options 区段与命令行参数在其结果之上逐层覆盖。
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/ByLCY/galley/compose"
	"github.com/ByLCY/galley/fonts"
	"github.com/ByLCY/galley/layout"
	"github.com/ByLCY/galley/linebreak"
)

// Config 汇总排版管线的全局缺省值。
type Config struct {
	Width           float64 `mapstructure:"width"`
	Tolerance       float64 `mapstructure:"tolerance"`
	LinePenalty     float64 `mapstructure:"line_penalty"`
	FitnessDemerits float64 `mapstructure:"fitness_demerits"`
	FlaggedDemerits float64 `mapstructure:"flagged_demerits"`
	Looseness       int     `mapstructure:"looseness"`
	HyphenPenalty   float64 `mapstructure:"hyphen_penalty"`
	FinishStretch   float64 `mapstructure:"finish_stretch"`
	Format          string  `mapstructure:"format"`
	Font            string  `mapstructure:"font"`
	FontSize        float64 `mapstructure:"font_size"` // pt
	LineHeight      string  `mapstructure:"line_height"`
	Verbose         bool    `mapstructure:"verbose"`
}

// Load 读取配置。path 指定具体文件；为空时在当前目录与 $HOME/.galley
// 下查找 galley.yaml，文件缺席不算错误。每个键都注册了默认值，因此
// GALLEY_ 前缀的环境变量总能覆盖到位。
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigName("galley")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.galley")
	}
	v.SetEnvPrefix("GALLEY")
	v.AutomaticEnv()

	params := linebreak.DefaultParameters()
	v.SetDefault("width", layout.DefaultSettings().Width)
	v.SetDefault("tolerance", params.Tolerance)
	v.SetDefault("line_penalty", params.LinePenalty)
	v.SetDefault("fitness_demerits", params.FitnessDemerits)
	v.SetDefault("flagged_demerits", params.FlaggedDemerits)
	v.SetDefault("looseness", params.Looseness)
	v.SetDefault("hyphen_penalty", compose.DefaultHyphenPenalty)
	v.SetDefault("finish_stretch", compose.DefaultFinishStretch)
	v.SetDefault("format", "text")
	v.SetDefault("font", fonts.DefaultName)
	v.SetDefault("font_size", 12.0)
	v.SetDefault("line_height", "")
	v.SetDefault("verbose", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("解析配置失败: %w", err)
	}
	return cfg, nil
}

// Settings 把配置翻译为排版设置，作为解析文档 options 区段的基底。
// 假定接收者来自 Load，各字段已填入缺省值。
func (c Config) Settings() (layout.Settings, error) {
	if c.Width <= 0 {
		return layout.Settings{}, fmt.Errorf("width 必须为正数，当前为 %g", c.Width)
	}
	if c.Tolerance <= 0 {
		return layout.Settings{}, fmt.Errorf("tolerance 必须为正数，当前为 %g", c.Tolerance)
	}
	if c.FontSize <= 0 {
		return layout.Settings{}, fmt.Errorf("font_size 必须为正数，当前为 %g", c.FontSize)
	}

	s := layout.DefaultSettings()
	s.Width = c.Width
	s.Params.Tolerance = c.Tolerance
	s.Params.LinePenalty = c.LinePenalty
	s.Params.FitnessDemerits = c.FitnessDemerits
	s.Params.FlaggedDemerits = c.FlaggedDemerits
	s.Params.Looseness = c.Looseness
	s.Compose.HyphenPenalty = c.HyphenPenalty
	s.Compose.FinishStretch = c.FinishStretch
	s.Style.Font = c.Font
	s.Style.FontSize = layout.Length{Value: c.FontSize, Unit: layout.UnitPT}
	if c.LineHeight != "" {
		lh, err := layout.ParseLineHeight(c.LineHeight)
		if err != nil {
			return layout.Settings{}, fmt.Errorf("line_height: %w", err)
		}
		s.Style.LineHeight = lh
	}
	return s, nil
}
