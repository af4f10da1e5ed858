package logger // 全局日志组件：zerolog 为唯一出口，Hertz 的 hlog 通过适配器写入同一个 sink

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// Logger 默认的全局日志实例
	Logger = log.Logger
)

// Config 日志配置
type Config struct {
	Level        string `json:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal disabled"` // 日志级别
	Format       string `json:"format" yaml:"format" validate:"omitempty,oneof=json pretty console"`                       // json 或 pretty（console 为别名）
	Output       string `json:"output" yaml:"output"`                                                                      // stdout、stderr 或文件路径
	TimeFormat   string `json:"time_format" yaml:"time_format"`                                                            // 时间戳格式
	ReportCaller bool   `json:"report_caller" yaml:"report_caller"`                                                        // 是否输出调用位置
}

// Init 根据配置初始化全局日志，并把 Hertz 的日志桥接过来
// 日志文件打开失败时退回标准输出
func Init(config Config) {
	out, err := openOutput(config.Output)
	if err != nil {
		InitWithWriter(config, os.Stdout)
		Logger.Warn().Err(err).Str("output", config.Output).Msg("打开日志文件失败，改用标准输出")
		return
	}
	InitWithWriter(config, out)
}

// InitWithWriter 使用给定的 writer 初始化全局日志
func InitWithWriter(config Config, out io.Writer) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	var output = out
	if config.Format == "pretty" || config.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: config.TimeFormat,
			NoColor:    out != os.Stdout && out != os.Stderr,
		}
	}

	ctxLogger := zerolog.New(output).Level(level).With().Timestamp()
	if config.ReportCaller {
		ctxLogger = ctxLogger.Caller()
	}

	Logger = ctxLogger.Logger()
	log.Logger = Logger

	hlog.SetLogger(hertzadapter.From(Logger))
	hlog.SetLevel(hertzLevel(level))
}

func openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	}
}

func hertzLevel(level zerolog.Level) hlog.Level {
	switch level {
	case zerolog.TraceLevel:
		return hlog.LevelTrace
	case zerolog.DebugLevel:
		return hlog.LevelDebug
	case zerolog.WarnLevel:
		return hlog.LevelWarn
	case zerolog.ErrorLevel:
		return hlog.LevelError
	case zerolog.FatalLevel, zerolog.PanicLevel, zerolog.Disabled:
		return hlog.LevelFatal
	default:
		return hlog.LevelInfo
	}
}

// Debug 开始一条调试级别的日志事件
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info 开始一条信息级别的日志事件
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn 开始一条警告级别的日志事件
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error 开始一条错误级别的日志事件
func Error() *zerolog.Event {
	return Logger.Error()
}

// Fatal 记录后程序退出
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// Ctx 从上下文中获取日志记录器，没有时返回全局实例
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

// WithContext 将全局日志记录器放入上下文
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}

// WithRequestID 返回携带请求 ID 字段的上下文日志
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := Ctx(ctx).With().Str("request_id", requestID).Logger()
	return l.WithContext(ctx)
}
