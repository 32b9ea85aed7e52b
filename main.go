package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ByLCY/galley/compose"
	"github.com/ByLCY/galley/config"
	"github.com/ByLCY/galley/dsl"
	"github.com/ByLCY/galley/layout"
	"github.com/ByLCY/galley/renderer"
	canvasrenderer "github.com/ByLCY/galley/renderer/canvas"
	textrenderer "github.com/ByLCY/galley/renderer/text"
)

func main() {
	input := flag.String("in", "examples/demo.galley", "DSL 文件路径")
	output := flag.String("out", "", "输出路径，缺省为 output/<doc> 加格式后缀")
	format := flag.String("format", "", "输出格式（text 或 pdf），覆盖配置")
	dataJSON := flag.String("data", "", "绑定到文档占位符的 JSON 数据")
	strict := flag.Bool("strict", false, "占位符缺数据时报错而非原样保留")
	debugPath := flag.String("debug", "", "排版调试 JSON 输出路径")
	configPath := flag.String("config", "", "配置文件路径，缺省查找 galley.yaml")
	verbose := flag.Bool("v", false, "输出调试级日志")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}
	if *verbose || cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	outPath, err := run(cliOptions{
		input:  *input,
		output: *output,
		format: *format,
		data:   *dataJSON,
		strict: *strict,
		debug:  *debugPath,
	}, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("排版失败")
	}
	fmt.Printf("已生成：%s\n", outPath)
}

type cliOptions struct {
	input  string
	output string
	format string
	data   string
	strict bool
	debug  string
}

// run 串联配置、解析、排版与渲染，返回实际写出的路径。
func run(opts cliOptions, cfg config.Config) (string, error) {
	base, err := cfg.Settings()
	if err != nil {
		return "", fmt.Errorf("配置无效: %w", err)
	}

	file, err := os.Open(opts.input)
	if err != nil {
		return "", fmt.Errorf("无法打开 DSL 文件 %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return "", fmt.Errorf("解析 DSL 失败: %w", err)
	}

	settings, err := layout.ResolveSettings(doc, base)
	if err != nil {
		return "", fmt.Errorf("解析文档选项失败: %w", err)
	}

	format := strings.ToLower(opts.format)
	if format == "" {
		format = strings.ToLower(cfg.Format)
	}

	var data any
	if opts.data != "" {
		if err := json.Unmarshal([]byte(opts.data), &data); err != nil {
			return "", fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	measurer, rend, ext, err := newPipeline(format, settings.Style)
	if err != nil {
		return "", err
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{
		Measurer: measurer,
		Settings: &settings,
		Strict:   opts.strict,
	})
	if err != nil {
		return "", fmt.Errorf("排版计算失败: %w", err)
	}
	logResult(result)

	if opts.debug != "" {
		if err := writeDebug(result, opts.debug); err != nil {
			return "", err
		}
	}

	out, err := rend.Render(result)
	if err != nil {
		return "", fmt.Errorf("渲染失败: %w", err)
	}

	outPath := opts.output
	if outPath == "" {
		outPath = filepath.Join("output", result.Doc+ext)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return "", fmt.Errorf("写入输出文件失败: %w", err)
	}
	return outPath, nil
}

// newPipeline 按输出格式选择度量器与渲染器：text 与 json 用等宽单元格，
// pdf 用真实字体，使断行与落墨共用同一套宽度。
func newPipeline(format string, style layout.Style) (compose.Measurer, renderer.Renderer, string, error) {
	switch format {
	case "text":
		return compose.MonoMeasurer{}, textrenderer.NewRenderer(), ".txt", nil
	case "json":
		return compose.MonoMeasurer{}, jsonRenderer{}, ".json", nil
	case "pdf":
		m, err := canvasrenderer.NewFaceMeasurer(style.Font, style.FontSize)
		if err != nil {
			return nil, nil, "", fmt.Errorf("构造字体度量器失败: %w", err)
		}
		return m, canvasrenderer.NewRenderer(canvasrenderer.Options{}), ".pdf", nil
	default:
		return nil, nil, "", fmt.Errorf("未知输出格式 %q（支持 text、pdf、json）", format)
	}
}

// jsonRenderer 直接序列化排版结果，便于检查断行方案或接入下游工具。
type jsonRenderer struct{}

func (jsonRenderer) Render(res *layout.Result) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}

func logResult(res *layout.Result) {
	log.Info().
		Str("doc", res.Doc).
		Int("blocks", len(res.Blocks)).
		Int("lines", res.LineTotal()).
		Float64("width", res.Settings.Width).
		Msg("排版完成")
	for _, block := range res.Blocks {
		if block.Breaks == nil {
			continue
		}
		st := block.Breaks.Stats
		log.Debug().
			Str("block", block.Name).
			Int("lines", block.Breaks.LineCount()).
			Int("nodesCreated", st.NodesCreated).
			Int("nodesDeactivated", st.NodesDeactivated).
			Int("maxActive", st.MaxActive).
			Msg("断行统计")
	}
}

func writeDebug(res *layout.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	if err := layout.WriteDebugJSON(res, path); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
