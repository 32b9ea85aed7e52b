package layout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/galley/compose"
	"github.com/ByLCY/galley/dsl"
	"github.com/ByLCY/galley/linebreak"
)

func mustParse(t *testing.T, input string) *dsl.Document {
	t.Helper()
	doc, err := dsl.ParseString(input)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	return doc
}

func mustBuild(t *testing.T, input string, data any) *Result {
	t.Helper()
	res, err := Build(mustParse(t, input), data, BuildOptions{Measurer: compose.MonoMeasurer{}})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return res
}

// wantLines 逐行比对断行结果的区间、调整比与匀称度等级。
func wantLines(t *testing.T, got []linebreak.Line, want []linebreak.Line) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("行数 = %d，期望 %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Start != w.Start || g.End != w.End || !eq(g.Ratio, w.Ratio) || g.Fitness != w.Fitness {
			t.Fatalf("第 %d 行 = %+v，期望 %+v", i, g, w)
		}
	}
}

func eq(a, b float64) bool { return abs(a-b) < 1e-9 }

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// TestBuildParagraphPipeline 验证段落从文本到断行结果的完整链路：
// 等宽度量下 "alpha beta gamma" 在行宽 12 处组排为 7 个 token，
// 最优解两行，首行伸展比 2，末行吸入收尾胶水后几乎自然。
func TestBuildParagraphPipeline(t *testing.T) {
	res := mustBuild(t, `doc Demo v1 {
  options { width: 12 }
  paragraph Body { "alpha beta gamma" }
}`, nil)

	if res.Doc != "Demo" {
		t.Fatalf("文档名 = %q，期望 Demo", res.Doc)
	}
	if !eq(res.Settings.Width, 12) {
		t.Fatalf("行宽 = %g，期望 12", res.Settings.Width)
	}
	if len(res.Blocks) != 1 {
		t.Fatalf("块数 = %d，期望 1", len(res.Blocks))
	}
	blk := res.Blocks[0]
	if blk.Name != "Body" || blk.Kind != BlockParagraph {
		t.Fatalf("块标识异常: %s/%s", blk.Name, blk.Kind)
	}
	if len(blk.Tokens) != 7 {
		t.Fatalf("token 数 = %d，期望 7", len(blk.Tokens))
	}
	if blk.Tokens[0].Content != "alpha" || !eq(blk.Tokens[0].Width, 5) {
		t.Fatalf("首个盒子异常: %+v", blk.Tokens[0])
	}
	wantLines(t, blk.Breaks.Lines, []linebreak.Line{
		{Start: 0, End: 4, Ratio: 2, Fitness: linebreak.FitnessVeryLoose},
		{Start: 4, End: 7, Ratio: 0.0007, Fitness: linebreak.FitnessDecent},
	})
	if res.LineTotal() != 2 {
		t.Fatalf("总行数 = %d，期望 2", res.LineTotal())
	}
}

// TestBuildStreamPipeline 验证 stream 段直接驱动引擎，且 options 的
// 容差生效：行宽 185 在默认容差下不可行，放宽到 3 后得到两行。
func TestBuildStreamPipeline(t *testing.T) {
	res := mustBuild(t, `doc Bench v1 {
  options { width: 185; tolerance: 3 }
  stream Galley {
    box 80 "aa"
    glue 10 5 3
    box 80 "bb"
    glue 10 5 3
    box 80 "cc"
  }
}`, nil)

	if len(res.Blocks) != 1 {
		t.Fatalf("块数 = %d，期望 1", len(res.Blocks))
	}
	blk := res.Blocks[0]
	if blk.Kind != BlockStream || blk.Name != "Galley" {
		t.Fatalf("块标识异常: %s/%s", blk.Name, blk.Kind)
	}
	if blk.Tokens[0].Content != "aa" || blk.Tokens[2].Kind != linebreak.KindBox {
		t.Fatalf("token 翻译异常: %+v", blk.Tokens[:3])
	}
	wantLines(t, blk.Breaks.Lines, []linebreak.Line{
		{Start: 0, End: 4, Ratio: 3, Fitness: linebreak.FitnessVeryLoose},
		{Start: 4, End: 5, Ratio: 0, Fitness: linebreak.FitnessVeryLoose},
	})
}

// TestBuildStreamPenaltySteering 验证 penalty 语句（含负代价与 flagged）
// 以及 flagged-demerits 选项经由 DSL 生效：取消连续连字附加费后，
// 第二行选择连字断点。
func TestBuildStreamPenaltySteering(t *testing.T) {
	res := mustBuild(t, `doc Steer v1 {
  options { width: 24; flagged-demerits: 0 }
  stream Hyphen {
    box 20 "hy"
    penalty 4 0 flagged
    box 12 "phen"
    glue 4 4 2
    box 2 "a"
    penalty 4 0 flagged
    box 4 "te"
    glue 4 4 2
    box 16 "word"
    glue 0 10000 0
    penalty 0 -10000
  }
}`, nil)

	wantLines(t, res.Blocks[0].Breaks.Lines, []linebreak.Line{
		{Start: 0, End: 2, Ratio: 0, Fitness: linebreak.FitnessDecent},
		{Start: 2, End: 6, Ratio: 0.5, Fitness: linebreak.FitnessDecent},
		{Start: 6, End: 11, Ratio: 0, Fitness: linebreak.FitnessDecent},
	})
}

// TestResolveSettingsFull 覆盖 options 段全部键：引擎参数、组排选项与
// 渲染样式，宽度单位换算为毫米。
func TestResolveSettingsFull(t *testing.T) {
	doc := mustParse(t, `doc Opt v1 {
  options {
    width: 85mm
    tolerance: 100
    line-penalty: 20
    fitness-demerits: 3000
    flagged-demerits: 0
    looseness: -1
    hyphen-penalty: 120
    hyphen-width: 2
    finish-stretch: 500
    font: "lmroman10-bold"
    font-size: 12pt
    line-height: "1.2x"
  }
}`)
	s, err := ResolveSettings(doc, DefaultSettings())
	if err != nil {
		t.Fatalf("解析设置失败: %v", err)
	}
	if !eq(s.Width, 85) {
		t.Fatalf("宽度 = %g，期望 85", s.Width)
	}
	wantParams := linebreak.Parameters{Tolerance: 100, LinePenalty: 20, FitnessDemerits: 3000, FlaggedDemerits: 0, Looseness: -1}
	if s.Params != wantParams {
		t.Fatalf("引擎参数 = %+v，期望 %+v", s.Params, wantParams)
	}
	if !eq(s.Compose.HyphenPenalty, 120) || !eq(s.Compose.HyphenWidth, 2) || !eq(s.Compose.FinishStretch, 500) {
		t.Fatalf("组排选项 = %+v", s.Compose)
	}
	if s.Style.Font != "lmroman10-bold" {
		t.Fatalf("字体 = %q", s.Style.Font)
	}
	if s.Style.FontSize != (Length{Value: 12, Unit: UnitPT}) {
		t.Fatalf("字号 = %+v", s.Style.FontSize)
	}
	if s.Style.LineHeight.Kind != LineHeightFactor || !eq(s.Style.LineHeight.Factor, 1.2) {
		t.Fatalf("行高 = %+v", s.Style.LineHeight)
	}
}

// TestResolveSettingsUnits 验证宽度字面量的单位换算与缺省基线。
func TestResolveSettingsUnits(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"180", 180},
		{"10cm", 100},
		{"2in", 50.8},
		{"120pt", 120 * PtToMm},
	}
	for _, c := range cases {
		doc := mustParse(t, `doc U v1 { options { width: `+c.raw+` } }`)
		s, err := ResolveSettings(doc, DefaultSettings())
		if err != nil {
			t.Fatalf("width %q 解析失败: %v", c.raw, err)
		}
		if !eq(s.Width, c.want) {
			t.Fatalf("width %q = %g，期望 %g", c.raw, s.Width, c.want)
		}
	}

	s, err := ResolveSettings(mustParse(t, `doc U v1 { paragraph P { "x" } }`), DefaultSettings())
	if err != nil {
		t.Fatalf("无 options 解析失败: %v", err)
	}
	if s.Width != 180 || s.Params != linebreak.DefaultParameters() {
		t.Fatalf("缺省基线被改动: %+v", s)
	}
}

// TestResolveSettingsRejects 验证非法选项值逐一报错。
func TestResolveSettingsRejects(t *testing.T) {
	bad := []string{
		`width: 0`,
		`width: -5`,
		`tolerance: 0`,
		`tolerance: 10pt`,
		`looseness: 1.5`,
		`font-size: 0pt`,
		`line-height: 0`,
		`line-height: "x"`,
	}
	for _, b := range bad {
		doc := mustParse(t, `doc Bad v1 { options { `+b+` } }`)
		if _, err := ResolveSettings(doc, DefaultSettings()); err == nil {
			t.Fatalf("%q 应解析失败", b)
		}
	}
}

// TestCollectMeta 验证 meta 段汇总以及 Creator 缺省值与关键字拆分。
func TestCollectMeta(t *testing.T) {
	res := mustBuild(t, `doc M v1 {
  meta {
    title: "Specimen"
    author: "DEK"
    keywords: "tex, layout , "
  }
  paragraph P { "hello" }
}`, nil)
	m := res.Meta
	if m.Title != "Specimen" || m.Author != "DEK" || m.Creator != "Galley" {
		t.Fatalf("元数据异常: %+v", m)
	}
	if len(m.Keywords) != 2 || m.Keywords[0] != "tex" || m.Keywords[1] != "layout" {
		t.Fatalf("关键字拆分异常: %v", m.Keywords)
	}

	res = mustBuild(t, `doc M v1 { meta { creator: "Other" } }`, nil)
	if res.Meta.Creator != "Other" {
		t.Fatalf("Creator 覆盖失败: %+v", res.Meta)
	}
}

// TestBuildBindsData 验证段落文本先经数据插值再组排；严格模式下
// 未解析路径报错并带上段落名。
func TestBuildBindsData(t *testing.T) {
	data := map[string]any{"user": map[string]any{"name": "Ada"}}
	res := mustBuild(t, `doc B v1 {
  options { width: 30 }
  paragraph Body { "${user.name} says hi" }
}`, data)
	if got := res.Blocks[0].Tokens[0].Content; got != "Ada" {
		t.Fatalf("插值结果 = %q，期望 Ada", got)
	}

	doc := mustParse(t, `doc B v1 { paragraph Body { "${missing.key}" } }`)
	if _, err := Build(doc, data, BuildOptions{Measurer: compose.MonoMeasurer{}, Strict: true}); err == nil {
		t.Fatalf("严格模式下未解析路径应报错")
	} else if !strings.Contains(err.Error(), "Body") {
		t.Fatalf("错误应带段落名: %v", err)
	}

	res, err := Build(doc, data, BuildOptions{Measurer: compose.MonoMeasurer{}})
	if err != nil {
		t.Fatalf("宽松模式不应报错: %v", err)
	}
	if got := res.Blocks[0].Tokens[0].Content; got != "${missing.key}" {
		t.Fatalf("宽松模式应保留占位符，实际 %q", got)
	}
}

// TestBuildEmptyParagraph 验证空白段落生成零 token 块与零行结果。
func TestBuildEmptyParagraph(t *testing.T) {
	res := mustBuild(t, `doc E v1 { paragraph Blank { "" } }`, nil)
	blk := res.Blocks[0]
	if len(blk.Tokens) != 0 || blk.Breaks == nil || blk.Breaks.LineCount() != 0 {
		t.Fatalf("空段落结果异常: %+v", blk)
	}
	if res.LineTotal() != 0 {
		t.Fatalf("总行数 = %d，期望 0", res.LineTotal())
	}
}

// TestBuildErrors 验证入参校验与断行失败的错误链。
func TestBuildErrors(t *testing.T) {
	if _, err := Build(nil, nil, BuildOptions{Measurer: compose.MonoMeasurer{}}); err == nil {
		t.Fatalf("nil 文档应报错")
	}
	doc := mustParse(t, `doc X v1 { paragraph P { "hi" } }`)
	if _, err := Build(doc, nil, BuildOptions{}); err == nil {
		t.Fatalf("缺少度量器应报错")
	}

	wide := mustParse(t, `doc W v1 {
  options { width: 100 }
  stream S {
    box 500 "wide"
    glue 10 5 5
  }
}`)
	_, err := Build(wide, nil, BuildOptions{Measurer: compose.MonoMeasurer{}})
	if !errors.Is(err, linebreak.ErrNoFeasibleBreak) {
		t.Fatalf("期望 ErrNoFeasibleBreak，实际 %v", err)
	}
}

// TestBuildContextCancelled 验证取消信号沿错误链透传。
func TestBuildContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := mustParse(t, `doc C v1 { paragraph P { "alpha beta gamma" } }`)
	_, err := BuildContext(ctx, doc, nil, BuildOptions{Measurer: compose.MonoMeasurer{}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("期望 context.Canceled，实际 %v", err)
	}
}
