package extractor

import (
	"context"
	"time"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
)

// Build 根据配置组装按格式路由的提取器
// 配置了 Tika 地址时 DOC 交给 Tika，否则 DOC 不受支持
func Build(ctx context.Context, cfg config.ExtractorConfig) (*Router, error) {
	var tika *TikaExtractor
	if cfg.TikaURL != "" {
		tika = NewTikaExtractor(cfg.TikaURL,
			WithTikaTimeout(config.GetDuration(cfg.TikaTimeout, 60*time.Second)))
	}

	var pdfEngines []Extractor
	switch {
	case cfg.PDFEngine == "tika" && tika != nil:
		pdfEngines = append(pdfEngines, tika)
	case cfg.PDFEngine == "ledongthuc":
		pdfEngines = append(pdfEngines, NewLedongthucPDFExtractor())
	default:
		eino, err := NewEinoPDFExtractor(ctx)
		if err != nil {
			return nil, err
		}
		pdfEngines = append(pdfEngines, eino)
	}

	if cfg.EnableFallback {
		if cfg.PDFEngine != "ledongthuc" {
			pdfEngines = append(pdfEngines, NewLedongthucPDFExtractor())
		} else {
			eino, err := NewEinoPDFExtractor(ctx)
			if err != nil {
				return nil, err
			}
			pdfEngines = append(pdfEngines, eino)
		}
		if cfg.PDFEngine != "tika" && tika != nil {
			pdfEngines = append(pdfEngines, tika)
		}
	}

	r := NewRouter().
		Handle(FormatPDF, single(pdfEngines...)).
		Handle(FormatTXT, NewTextExtractor())

	docx := []Extractor{NewDocxExtractor()}
	if cfg.EnableFallback && tika != nil {
		docx = append(docx, tika)
	}
	r.Handle(FormatDOCX, single(docx...))

	if tika != nil {
		r.Handle(FormatDOC, tika)
	}

	logger.Info().
		Str("pdf_engine", r.routes[FormatPDF].Name()).
		Str("docx_engine", r.routes[FormatDOCX].Name()).
		Bool("doc_supported", r.Supports(FormatDOC)).
		Msg("文档提取器初始化完成")
	return r, nil
}

// single 只有一个引擎时不包一层 Chain
func single(extractors ...Extractor) Extractor {
	if len(extractors) == 1 {
		return extractors[0]
	}
	return NewChain(extractors...)
}
