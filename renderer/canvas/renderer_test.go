package canvasrenderer

import (
	"bytes"
	"math"
	"testing"

	"github.com/ByLCY/galley/layout"
	"github.com/ByLCY/galley/linebreak"
)

// sampleResult 手工构造一个两行的排版结果，覆盖行内胶水伸缩、
// 断点连字符与段末收尾三类走位路径。
func sampleResult() *layout.Result {
	tokens := []linebreak.Token{
		linebreak.Box(30, "alpha"),
		linebreak.Glue(4, 2, 1),
		linebreak.Box(28, "bet"),
		linebreak.Penalty(3, 50, true),
		linebreak.Box(20, "a"),
		linebreak.Glue(0, 10000, 0),
		linebreak.Penalty(0, linebreak.PenaltyForce, false),
	}
	breaks := &linebreak.Result{
		Width: 66,
		Lines: []linebreak.Line{
			{Start: 0, End: 4, Ratio: 0.5, Fitness: linebreak.FitnessDecent},
			{Start: 4, End: 7, Ratio: 0, Fitness: linebreak.FitnessDecent},
		},
	}
	return &layout.Result{
		Doc: "Sample",
		Settings: layout.Settings{
			Width:  66,
			Params: linebreak.DefaultParameters(),
		},
		Meta: layout.DocumentMeta{Title: "Sample", Author: "galley", Creator: "Galley"},
		Blocks: []layout.Block{
			{Name: "Body", Kind: layout.BlockParagraph, Tokens: tokens, Breaks: breaks},
		},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(Options{})
	out, err := r.Render(sampleResult())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with PDF header")
	}
	if len(out) < 500 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestRenderNilResult(t *testing.T) {
	r := NewRenderer(Options{})
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
}

func TestRenderUnknownFont(t *testing.T) {
	r := NewRenderer(Options{})
	res := sampleResult()
	res.Settings.Style.Font = "no-such-face"
	if _, err := r.Render(res); err == nil {
		t.Fatalf("expected error for unknown font")
	}
}

// 断点连字符带宽度：盒子紧邻排布，连字符落在最后一个盒子之后。
func TestPlaceLineHyphenBreak(t *testing.T) {
	res := sampleResult()
	got := placeLine(res.Blocks[0].Tokens, res.Blocks[0].Breaks.Lines[0])

	// 胶水在 ratio=0.5 下展宽为 4+0.5*2=5。
	want := []placed{
		{text: "alpha", x: 0},
		{text: "bet", x: 35},
		{text: "-", x: 63},
	}
	assertPlaced(t, got, want)
}

// 末行：行首罚分不占位，收尾胶水与强制罚分不产生落墨。
func TestPlaceLineFinish(t *testing.T) {
	res := sampleResult()
	got := placeLine(res.Blocks[0].Tokens, res.Blocks[0].Breaks.Lines[1])

	want := []placed{{text: "a", x: 0}}
	assertPlaced(t, got, want)
}

// 断在胶水上时该胶水整体丢弃，行首胶水同样不占位。
func TestPlaceLineGlueBreak(t *testing.T) {
	tokens := []linebreak.Token{
		linebreak.Box(10, "one"),
		linebreak.Glue(2, 1, 1),
		linebreak.Box(10, "two"),
		linebreak.Glue(2, 1, 1),
		linebreak.Box(10, "three"),
		linebreak.Glue(0, 10000, 0),
		linebreak.Penalty(0, linebreak.PenaltyForce, false),
	}
	first := placeLine(tokens, linebreak.Line{Start: 0, End: 4, Ratio: -0.5})
	// 行内胶水收缩为 2-0.5*1=1.5，断点胶水不出现。
	assertPlaced(t, first, []placed{
		{text: "one", x: 0},
		{text: "two", x: 11.5},
	})

	second := placeLine(tokens, linebreak.Line{Start: 4, End: 7, Ratio: 0})
	assertPlaced(t, second, []placed{{text: "three", x: 0}})
}

// 空内容盒子占位但不落墨。
func TestPlaceLineBlankBox(t *testing.T) {
	tokens := []linebreak.Token{
		linebreak.Box(5, ""),
		linebreak.Glue(2, 1, 0),
		linebreak.Box(5, "x"),
		linebreak.Penalty(0, linebreak.PenaltyForce, false),
	}
	got := placeLine(tokens, linebreak.Line{Start: 0, End: 4, Ratio: 1})
	assertPlaced(t, got, []placed{{text: "x", x: 8}})
}

// 区间内没有盒子时走位为空。
func TestPlaceLineNoBox(t *testing.T) {
	tokens := []linebreak.Token{
		linebreak.Box(5, "x"),
		linebreak.Glue(2, 1, 0),
		linebreak.Penalty(0, linebreak.PenaltyForce, false),
	}
	got := placeLine(tokens, linebreak.Line{Start: 1, End: 3, Ratio: 0})
	if len(got) != 0 {
		t.Fatalf("期望空走位，得到 %v", got)
	}
}

func assertPlaced(t *testing.T, got, want []placed) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("落墨段数不符：got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i].text != want[i].text {
			t.Fatalf("第 %d 段文本不符：got=%q want=%q", i, got[i].text, want[i].text)
		}
		if math.Abs(got[i].x-want[i].x) > 1e-9 {
			t.Fatalf("第 %d 段偏移不符：got=%g want=%g", i, got[i].x, want[i].x)
		}
	}
}
