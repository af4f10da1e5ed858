package extractor

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format 支持的简历文档格式
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatDOC     Format = "doc"
	FormatTXT     Format = "txt"
	FormatUnknown Format = "unknown"
)

// 各格式对应的标准 MIME 类型
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEDOC  = "application/msword"
	MIMETXT  = "text/plain"
)

var formatByExt = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".doc":  FormatDOC,
	".txt":  FormatTXT,
}

var formatByMIME = map[string]Format{
	MIMEPDF:                     FormatPDF,
	"application/x-pdf":         FormatPDF,
	MIMEDOCX:                    FormatDOCX,
	MIMEDOC:                     FormatDOC,
	"application/x-ole-storage": FormatDOC,
	MIMETXT:                     FormatTXT,
}

// MIME 返回格式的标准 MIME 类型
func (f Format) MIME() string {
	switch f {
	case FormatPDF:
		return MIMEPDF
	case FormatDOCX:
		return MIMEDOCX
	case FormatDOC:
		return MIMEDOC
	case FormatTXT:
		return MIMETXT
	default:
		return "application/octet-stream"
	}
}

// Ext 返回带点的扩展名
func (f Format) Ext() string {
	if f == FormatUnknown || f == "" {
		return ".bin"
	}
	return "." + string(f)
}

// FormatFromMIME 忽略参数部分（如 charset）后查表
func FormatFromMIME(mime string) Format {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mime)), ";")
	if f, ok := formatByMIME[strings.TrimSpace(base)]; ok {
		return f
	}
	return FormatUnknown
}

// FormatFromFilename 根据扩展名判断格式
func FormatFromFilename(name string) Format {
	if f, ok := formatByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	return FormatUnknown
}

// Detection 格式识别结果
type Detection struct {
	Format       Format
	SniffedMIME  string // 内容嗅探得到的类型
	DeclaredMIME string // 客户端声明的类型
}

// DetectFormat 结合内容嗅探、声明的 MIME 和扩展名判断格式
// 嗅探结果和扩展名都必须落在允许的格式内，且两者一致；纯文本只能靠扩展名或声明类型确认
func DetectFormat(data []byte, declaredMIME, filename string) (Detection, error) {
	sniffed := mimetype.Detect(data)
	d := Detection{
		Format:       FormatUnknown,
		SniffedMIME:  sniffed.String(),
		DeclaredMIME: declaredMIME,
	}

	byExt := FormatFromFilename(filename)
	byContent := sniffedFormat(sniffed)
	if byExt == FormatUnknown {
		byExt = FormatFromMIME(declaredMIME)
	}

	switch {
	case byExt == FormatUnknown:
		return d, unsupported("detect", byContent, "扩展名或声明的类型不在允许范围内: "+describe(filename, declaredMIME))
	case byContent == FormatUnknown:
		return d, unsupported("detect", byExt, "文件内容类型不在允许范围内: "+d.SniffedMIME)
	case byContent == FormatTXT && byExt != FormatTXT:
		// 声明为二进制文档但内容是纯文本
		return d, unsupported("detect", byExt, "文件内容与扩展名不符: "+d.SniffedMIME)
	case byContent != FormatTXT && byContent != byExt:
		return d, unsupported("detect", byExt, "文件内容与扩展名不符: "+d.SniffedMIME)
	}
	d.Format = byContent
	return d, nil
}

// sniffedFormat 沿着 mimetype 的父类型链查找允许的格式
func sniffedFormat(m *mimetype.MIME) Format {
	for ; m != nil; m = m.Parent() {
		if f := FormatFromMIME(m.String()); f != FormatUnknown {
			return f
		}
	}
	return FormatUnknown
}

func describe(filename, mime string) string {
	switch {
	case filename != "" && mime != "":
		return filename + " (" + mime + ")"
	case filename != "":
		return filename
	case mime != "":
		return mime
	default:
		return "<空>"
	}
}
