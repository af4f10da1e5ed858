package parser

import (
	"strings"

	"github.com/rs/zerolog/log"

	"resume-parser-go/pkg/types"
)

// DefaultMaxInputBytes 默认的输入文本上限（1 MiB）
const DefaultMaxInputBytes = 1 << 20

// Options 解析器配置
type Options struct {
	// MaxInputBytes 超出部分在行边界处截断，<=0 表示不限制
	MaxInputBytes int
	// DisableNormalization 关闭 NFKC 归一化
	DisableNormalization bool
}

// Option 解析器的函数式选项
type Option func(*Options)

// WithMaxInputBytes 设置输入文本上限
func WithMaxInputBytes(n int) Option {
	return func(o *Options) {
		o.MaxInputBytes = n
	}
}

// WithoutNormalization 跳过 Unicode 归一化，直接按原文解析
func WithoutNormalization() Option {
	return func(o *Options) {
		o.DisableNormalization = true
	}
}

// ResumeParser 启发式简历文本解析器，无状态，可并发使用
type ResumeParser struct {
	opts Options
}

// NewResumeParser 创建解析器
func NewResumeParser(opts ...Option) *ResumeParser {
	o := Options{MaxInputBytes: DefaultMaxInputBytes}
	for _, opt := range opts {
		opt(&o)
	}
	return &ResumeParser{opts: o}
}

var defaultParser = NewResumeParser()

// Parse 使用默认配置解析简历文本
func Parse(text string) *types.ParsedResume {
	return defaultParser.Parse(text)
}

// Parse 将简历文本解析为结构化结果，任何输入都不会返回错误
func (p *ResumeParser) Parse(text string) *types.ParsedResume {
	result := types.NewParsedResume()

	text = p.prepare(text)
	if strings.TrimSpace(text) == "" {
		return result
	}

	seg := Segment(SplitLines(text))
	if len(seg.PersonalLines) > 0 {
		fillMissing(result, ExtractPersonalInfo(seg.PersonalLines))
	}
	for _, block := range seg.Sections {
		if s, ok := ParseSection(block); ok {
			result.Sections = append(result.Sections, s)
		}
	}

	if len(result.Sections) == 0 {
		p.parseBlocks(text, result)
	}

	result.Sections = FilterRecognized(MergeSections(result.Sections))
	applyGlobalFallbacks(text, result)

	log.Debug().
		Int("sections", len(result.Sections)).
		Bool("has_name", result.Name != nil).
		Bool("has_email", result.Email != nil).
		Bool("has_phone", result.Phone != nil).
		Msg("简历文本解析完成")
	return result
}

func (p *ResumeParser) prepare(text string) string {
	if !p.opts.DisableNormalization {
		text = NormalizeText(text)
	}
	if p.opts.MaxInputBytes > 0 && len(text) > p.opts.MaxInputBytes {
		log.Debug().Int("size", len(text)).Int("limit", p.opts.MaxInputBytes).Msg("简历文本超出上限，按行截断")
		text = truncateAtLine(text, p.opts.MaxInputBytes)
	}
	return text
}

// parseBlocks 没有识别到标题时按空行切块：第一块只补全缺失的个人信息，其余每块以首行为标题
func (p *ResumeParser) parseBlocks(text string, result *types.ParsedResume) {
	blocks := SplitBlocks(text)
	for i, block := range blocks {
		if i == 0 {
			fillMissing(result, ExtractPersonalInfo(block))
			continue
		}
		if s, ok := ParseSection(block); ok {
			result.Sections = append(result.Sections, s)
		}
	}
}

// fillMissing 只填充结果中仍为空的字段
func fillMissing(result *types.ParsedResume, info PersonalInfo) {
	setIfNil(&result.Name, info.Name)
	setIfNil(&result.Location, info.Location)
	setIfNil(&result.Phone, info.Phone)
	setIfNil(&result.Email, info.Email)
	setIfNil(&result.LinkedIn, info.LinkedIn)
}

// applyGlobalFallbacks 对仍为空的字段做全文扫描
func applyGlobalFallbacks(text string, result *types.ParsedResume) {
	if result.Phone == nil {
		result.Phone = FindPhone(text)
	}
	if result.Email == nil {
		result.Email = FindEmail(text)
	}
	if result.Location == nil {
		result.Location = FindLocation(text)
	}
	if result.LinkedIn == nil {
		result.LinkedIn = FindLinkedIn(text)
	}
	if result.Name == nil {
		result.Name = FindName(text)
	}
}

func setIfNil(dst **string, v *string) {
	if *dst == nil && v != nil {
		*dst = v
	}
}
