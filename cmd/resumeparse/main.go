// resumeparse 在本地解析简历文件并输出 JSON
//
//	resumeparse [--pretty] [--workers N] <file|->...
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/extractor"
	"resume-parser-go/internal/logger"
	"resume-parser-go/pkg/parser"
	"resume-parser-go/pkg/types"
)

// fileResult 多个输入时每个文件的输出
type fileResult struct {
	Source string              `json:"source"`
	Resume *types.ParsedResume `json:"resume,omitempty"`
	Error  string              `json:"error,omitempty"`
}

type options struct {
	pretty    bool
	workers   int
	pdfEngine string
	tikaURL   string
	fallback  bool
	logLevel  string
}

func main() {
	var opts options
	pflag.BoolVar(&opts.pretty, "pretty", false, "缩进输出 JSON")
	pflag.IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "并发解析的文件数")
	pflag.StringVar(&opts.pdfEngine, "pdf-engine", "eino", "PDF 引擎: eino、ledongthuc 或 tika")
	pflag.StringVar(&opts.tikaURL, "tika-url", "", "Tika 服务地址，DOC 文件需要")
	pflag.BoolVar(&opts.fallback, "fallback", true, "主引擎失败时尝试备用引擎")
	pflag.StringVar(&opts.logLevel, "log-level", "warn", "日志级别，输出到标准错误")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: resumeparse [flags] <file|->...\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}
	logger.InitWithWriter(logger.Config{Level: opts.logLevel, Format: "pretty"}, os.Stderr)

	if err := run(context.Background(), opts, pflag.Args(), os.Stdin, os.Stdout); err != nil {
		logger.Error().Err(err).Msg("解析失败")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, inputs []string, stdin io.Reader, stdout io.Writer) error {
	docExtractor, err := extractor.Build(ctx, config.ExtractorConfig{
		PDFEngine:      opts.pdfEngine,
		EnableFallback: opts.fallback,
		TikaURL:        opts.tikaURL,
	})
	if err != nil {
		return fmt.Errorf("初始化文档提取器失败: %w", err)
	}
	p := parser.NewResumeParser()

	results := make([]fileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if opts.workers > 0 {
		g.SetLimit(opts.workers)
	}
	for i, input := range inputs {
		results[i].Source = input
		g.Go(func() error {
			resume, err := parseInput(gctx, docExtractor, p, input, stdin)
			if err != nil {
				// 单个文件失败不影响其他文件
				results[i].Error = err.Error()
				logger.Warn().Err(err).Str("source", input).Msg("文件解析失败")
				return nil
			}
			results[i].Resume = resume
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	if len(results) == 1 {
		if results[0].Error != "" {
			return fmt.Errorf("%s: %s", results[0].Source, results[0].Error)
		}
		return enc.Encode(results[0].Resume)
	}
	if err := enc.Encode(results); err != nil {
		return err
	}
	for _, r := range results {
		if r.Error != "" {
			return fmt.Errorf("部分文件解析失败")
		}
	}
	return nil
}

// parseInput "-" 表示从标准输入读取纯文本
func parseInput(ctx context.Context, docExtractor *extractor.Router, p *parser.ResumeParser, input string, stdin io.Reader) (*types.ParsedResume, error) {
	if input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("读取标准输入失败: %w", err)
		}
		return p.Parse(string(data)), nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	doc, err := docExtractor.ExtractFile(ctx, data, "", input)
	if err != nil {
		return nil, err
	}
	return p.Parse(doc.Text), nil
}
