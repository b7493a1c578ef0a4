package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/ByLCY/text2pdf/convert"
	"github.com/ByLCY/text2pdf/layout"
	"github.com/ByLCY/text2pdf/preset"
	"github.com/ByLCY/text2pdf/source"
)

const usage = `用法:
  text2pdf [convert] --in notes.txt [--out notes.pdf] [options]
  text2pdf serve [--config text2pdf.yaml]
`

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	args := os.Args[1:]
	cmd := "convert"
	if len(args) > 0 {
		switch args[0] {
		case "convert", "serve", "help":
			cmd, args = args[0], args[1:]
		}
	}

	var err error
	switch cmd {
	case "convert":
		err = runConvert(args, os.Stdin, os.Stdout, os.Stderr)
	case "serve":
		err = runServe(args, os.Stderr)
	case "help":
		fmt.Fprint(os.Stdout, usage)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// convertFlags holds the flags of the convert command.
type convertFlags struct {
	input         string
	output        string
	plan          string
	template      string
	templates     string
	data          string
	stripMarkdown bool
	verbose       bool
	maxChars      int

	opts convert.Options
}

func parseConvertFlags(args []string, stderr io.Writer) (convertFlags, error) {
	var f convertFlags
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&f.input, "in", "i", "-", "输入文件路径（- 表示标准输入）")
	fs.StringVarP(&f.output, "out", "o", "", "PDF 输出路径（默认按首行生成文件名）")
	fs.StringVar(&f.plan, "plan", "", "排版计划 JSON 输出路径")
	fs.StringVarP(&f.template, "template", "t", "", "模板 ID")
	fs.StringVar(&f.templates, "templates", "", "自定义模板文件")
	fs.StringVar(&f.data, "data", "", "用于 ${path} 占位符的 JSON 数据")
	fs.BoolVar(&f.stripMarkdown, "strip-markdown", false, "将 Markdown 转为纯文本")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "输出调试日志")
	fs.IntVar(&f.maxChars, "max-chars", convert.DefaultMaxTextLength, "最大字符数（0 表示不限制）")

	pageSize := fs.String("page-size", "", "页面尺寸：A4, Letter, Legal")
	orientation := fs.String("orientation", "", "方向：portrait, landscape")
	font := fs.String("font", "", "字体：serif, sans-serif, monospace")
	fontSize := fs.Float64("font-size", convert.DefaultFontSize, "字号（pt，8-18）")
	lineSpacing := fs.Float64("line-spacing", convert.DefaultLineSpacing, "行距倍数（1-2.5）")
	margin := fs.String("margin", "", "页边距：normal, narrow, wide")
	pageNumbers := fs.Bool("page-numbers", false, "在页脚显示页码")
	header := fs.String("header", "", "页眉标题")

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		if fs.NArg() > 1 || fs.Changed("in") {
			return f, fmt.Errorf("多余的参数: %v", fs.Args())
		}
		f.input = fs.Arg(0)
	}

	f.opts = convert.Options{
		PageSize:     *pageSize,
		Orientation:  *orientation,
		FontFamily:   *font,
		MarginPreset: *margin,
		HeaderTitle:  *header,
	}
	// 只有显式设置的数值才覆盖模板
	if fs.Changed("font-size") {
		f.opts.FontSize = convert.Float(*fontSize)
	}
	if fs.Changed("line-spacing") {
		f.opts.LineSpacing = convert.Float(*lineSpacing)
	}
	if fs.Changed("page-numbers") {
		f.opts.ShowPageNumbers = convert.Bool(*pageNumbers)
	}
	return f, nil
}

func runConvert(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, err := parseConvertFlags(args, stderr)
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	conv := convert.New(convert.WithLogger(log), convert.WithMaxTextLength(f.maxChars))
	out, err := run(f, stdin, conv)
	if err != nil {
		return fmt.Errorf("生成 PDF 失败: %w", err)
	}
	log.Info("已生成 PDF", "path", out)
	fmt.Fprintln(stdout, out)
	return nil
}

// run 串联读取、排版与渲染，返回写入的 PDF 路径。
func run(f convertFlags, stdin io.Reader, conv *convert.Converter) (string, error) {
	text, err := readInput(f.input, stdin, source.Options{StripMarkdown: f.stripMarkdown})
	if err != nil {
		return "", err
	}

	set := preset.Default()
	if f.templates != "" {
		if set, err = preset.Load(f.templates); err != nil {
			return "", err
		}
	}
	opts, err := set.Resolve(f.template, f.opts)
	if err != nil {
		return "", err
	}

	var data any
	if f.data != "" {
		if err := json.Unmarshal([]byte(f.data), &data); err != nil {
			return "", fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	req := convert.Request{Text: text, Options: opts, Data: data}
	if f.input != "-" {
		req.Filename = strings.TrimSuffix(filepath.Base(f.input), filepath.Ext(f.input))
	}
	res, err := conv.Convert(context.Background(), req)
	if err != nil {
		return "", err
	}

	if f.plan != "" {
		if err := writePlan(res.Plan, f.plan); err != nil {
			return "", err
		}
	}

	outputPath := f.output
	if outputPath == "" {
		outputPath = res.Filename
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, res.PDF, 0o644); err != nil {
		return "", fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return outputPath, nil
}

func readInput(path string, stdin io.Reader, opts source.Options) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(data), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("无法打开输入文件 %s: %w", path, err)
	}
	defer file.Close()
	return source.ExtractFile(path, file, opts)
}

func writePlan(plan *layout.Plan, planPath string) error {
	if dir := filepath.Dir(planPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	if err := layout.WriteDebugJSON(plan, planPath); err != nil {
		return fmt.Errorf("输出排版计划失败: %w", err)
	}
	return nil
}
