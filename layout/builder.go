package layout

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/galley/binding"
	"github.com/ByLCY/galley/compose"
	"github.com/ByLCY/galley/dsl"
	"github.com/ByLCY/galley/linebreak"
)

// DefaultSettings 返回文档未声明 options 段时的版面设置基线。
func DefaultSettings() Settings {
	return Settings{
		Width:  180,
		Params: linebreak.DefaultParameters(),
	}
}

// Build 根据 DSL 文档生成全文断行结果。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	return BuildContext(context.Background(), doc, data, opts)
}

// BuildContext 与 Build 相同，但允许通过 ctx 限制搜索时长；
// 取消后不保留任何部分结果。
func BuildContext(ctx context.Context, doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少文本度量器 Measurer")
	}

	settings := opts.Settings
	if settings == nil {
		resolved, err := ResolveSettings(doc, DefaultSettings())
		if err != nil {
			return nil, err
		}
		settings = &resolved
	}
	if settings.Width <= 0 {
		return nil, fmt.Errorf("layout: 行宽必须为正数，当前为 %g", settings.Width)
	}

	blocks, err := collectBlocks(doc, data, *settings, opts)
	if err != nil {
		return nil, err
	}

	streams := make([]*linebreak.Stream, len(blocks))
	for i, blk := range blocks {
		stream, err := linebreak.NewStream(blk.Tokens)
		if err != nil {
			return nil, fmt.Errorf("块 %s: %w", blk.Name, err)
		}
		streams[i] = stream
	}

	results, err := linebreak.BreakAll(ctx, streams, settings.Width, settings.Params)
	if err != nil {
		return nil, fmt.Errorf("断行失败: %w", err)
	}
	for i := range blocks {
		blocks[i].Breaks = results[i]
	}

	return &Result{
		Doc:      doc.Name,
		Settings: *settings,
		Meta:     collectMeta(doc),
		Blocks:   blocks,
	}, nil
}

// collectBlocks 将 paragraph 与 stream 段展开为 token 块，保持文档顺序。
// 空段落照常生成零 token 块，断行后得到零行。
func collectBlocks(doc *dsl.Document, data any, settings Settings, opts BuildOptions) ([]Block, error) {
	var blocks []Block
	for _, section := range doc.Sections {
		switch {
		case section.Paragraph != nil:
			p := section.Paragraph
			content := p.Content()
			if data != nil {
				if opts.Strict {
					bound, err := binding.InterpolateStrict(content, data)
					if err != nil {
						return nil, fmt.Errorf("段落 %s: %w", p.Name, err)
					}
					content = bound
				} else {
					content = binding.Interpolate(content, data)
				}
			}
			tokens, err := compose.Text(content, opts.Measurer, settings.Compose)
			if err != nil {
				return nil, fmt.Errorf("段落 %s: %w", p.Name, err)
			}
			blocks = append(blocks, Block{Name: p.Name, Kind: BlockParagraph, Tokens: tokens})
		case section.Stream != nil:
			st := section.Stream
			tokens, err := streamTokens(st.Tokens)
			if err != nil {
				return nil, fmt.Errorf("流 %s: %w", st.Name, err)
			}
			blocks = append(blocks, Block{Name: st.Name, Kind: BlockStream, Tokens: tokens})
		}
	}
	return blocks, nil
}

// streamTokens 把 stream 段的 token 语句翻译为引擎 token。宽度字面量
// 允许带单位（换算为毫米），penalty 代价必须是纯数。
func streamTokens(stmts []*dsl.TokenStmt) ([]linebreak.Token, error) {
	out := make([]linebreak.Token, 0, len(stmts))
	for i, stmt := range stmts {
		switch {
		case stmt.Box != nil:
			content := ""
			if stmt.Box.Content != nil {
				content = string(*stmt.Box.Content)
			}
			out = append(out, linebreak.Box(lengthOf(stmt.Box.Width), content))
		case stmt.Glue != nil:
			out = append(out, linebreak.Glue(
				lengthOf(stmt.Glue.Width),
				lengthOf(stmt.Glue.Stretch),
				lengthOf(stmt.Glue.Shrink),
			))
		case stmt.Penalty != nil:
			cost, err := strconv.ParseFloat(stmt.Penalty.Penalty, 64)
			if err != nil {
				return nil, fmt.Errorf("第 %d 个 token：penalty 代价 %q 无法解析", i, stmt.Penalty.Penalty)
			}
			out = append(out, linebreak.Penalty(lengthOf(stmt.Penalty.Width), cost, stmt.Penalty.Flagged))
		}
	}
	return out, nil
}

// lengthOf 将 DSL 数字字面量转成统一数值：带单位换算为毫米，纯数保持原值。
func lengthOf(raw string) float64 {
	return ParseRawLength(raw).ToMM()
}

// ResolveSettings 以 base 为基线应用文档 options 段的设置。未知键
// 保持忽略；渲染相关设置按书写单位记录，由输出端解析。
func ResolveSettings(doc *dsl.Document, base Settings) (Settings, error) {
	s := base
	if doc == nil {
		return s, nil
	}
	for _, section := range doc.Sections {
		if section.Options == nil || section.Options.Block == nil {
			continue
		}
		for _, a := range section.Options.Block.Statements {
			if err := applySetting(&s, a); err != nil {
				return Settings{}, err
			}
		}
	}
	return s, nil
}

func applySetting(s *Settings, a *dsl.Assignment) error {
	switch key := strings.ToLower(a.Key); key {
	case "width":
		w := ParseRawLength(valueString(a.Value)).ToMM()
		if w <= 0 {
			return fmt.Errorf("options.width 必须为正长度，当前为 %q", valueString(a.Value))
		}
		s.Width = w
	case "tolerance":
		v, err := settingFloat(key, a.Value)
		if err != nil {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("options.tolerance 必须为正数，当前为 %g", v)
		}
		s.Params.Tolerance = v
	case "line-penalty":
		v, err := settingFloat(key, a.Value)
		if err != nil {
			return err
		}
		s.Params.LinePenalty = v
	case "fitness-demerits":
		v, err := settingFloat(key, a.Value)
		if err != nil {
			return err
		}
		s.Params.FitnessDemerits = v
	case "flagged-demerits":
		v, err := settingFloat(key, a.Value)
		if err != nil {
			return err
		}
		s.Params.FlaggedDemerits = v
	case "looseness":
		n, err := strconv.Atoi(valueString(a.Value))
		if err != nil {
			return fmt.Errorf("options.looseness 需要整数，当前为 %q", valueString(a.Value))
		}
		s.Params.Looseness = n
	case "hyphen-penalty":
		v, err := settingFloat(key, a.Value)
		if err != nil {
			return err
		}
		s.Compose.HyphenPenalty = v
	case "hyphen-width":
		s.Compose.HyphenWidth = ParseRawLength(valueString(a.Value)).ToMM()
	case "finish-stretch":
		v, err := settingFloat(key, a.Value)
		if err != nil {
			return err
		}
		s.Compose.FinishStretch = v
	case "font":
		s.Style.Font = valueString(a.Value)
	case "font-size":
		l := ParseRawLength(valueString(a.Value))
		if l.Value <= 0 {
			return fmt.Errorf("options.font-size 必须为正长度，当前为 %q", valueString(a.Value))
		}
		s.Style.FontSize = l
	case "line-height":
		lh, err := ParseLineHeight(valueString(a.Value))
		if err != nil {
			return fmt.Errorf("options.line-height: %w", err)
		}
		s.Style.LineHeight = lh
	}
	return nil
}

// settingFloat 解析纯数值选项，拒绝带单位的字面量。
func settingFloat(key string, v *dsl.Value) (float64, error) {
	raw := valueString(v)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("options.%s 需要数值，当前为 %q", key, raw)
	}
	return f, nil
}

// valueString 取赋值右侧的字面量文本。
func valueString(v *dsl.Value) string {
	if v == nil {
		return ""
	}
	switch {
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	default:
		return ""
	}
}

// collectMeta 汇总 meta 段的文档元数据。
func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{Creator: "Galley"}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, a := range section.Meta.Block.Statements {
			switch strings.ToLower(a.Key) {
			case "title":
				meta.Title = valueString(a.Value)
			case "author":
				meta.Author = valueString(a.Value)
			case "subject":
				meta.Subject = valueString(a.Value)
			case "creator":
				meta.Creator = valueString(a.Value)
			case "keywords":
				meta.Keywords = splitKeywords(valueString(a.Value))
			}
		}
	}
	return meta
}

// splitKeywords 以逗号分隔关键字串并去除空项。
func splitKeywords(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
