package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/pflag"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/api/router"
	"resume-parser-go/internal/config"
	"resume-parser-go/internal/extractor"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/tracing"
	"resume-parser-go/pkg/parser"
	"resume-parser-go/pkg/ratelimit"
)

var version = "1.0.0" //nolint:gochecknoglobals

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径，默认读取当前目录的 config.yaml")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		// 日志尚未初始化，使用默认输出
		logger.Fatal().Err(err).Msg("加载配置失败")
	}
	logger.Init(cfg.Logger)
	glog.Infof("配置加载成功，版本 %s", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		glog.Warnf("初始化链路追踪失败，继续运行: %v", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()

	docExtractor, err := extractor.Build(ctx, cfg.Extractor)
	if err != nil {
		glog.Fatalf("初始化文档提取器失败: %v", err)
	}

	var parserOpts []parser.Option
	if cfg.Parser.MaxInputBytes > 0 {
		parserOpts = append(parserOpts, parser.WithMaxInputBytes(cfg.Parser.MaxInputBytes))
	}

	service, err := processor.NewResumeService(
		[]processor.ComponentOpt{
			processor.WithExtractor(docExtractor),
			processor.WithParser(parser.NewResumeParser(parserOpts...)),
			processor.WithStorage(storageManager),
		},
		[]processor.SettingOpt{
			processor.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		},
	)
	if err != nil {
		glog.Fatalf("初始化简历服务失败: %v", err)
	}

	var limiter *ratelimit.KeyedLimiter
	if rl := cfg.Server.RateLimit; rl.Enabled {
		limiter = ratelimit.NewKeyedLimiter(rl.RequestsPerSecond, rl.Burst).WithIdleTTL(10 * time.Minute)
		limiter.StartJanitor(ctx, time.Minute)
		glog.Infof("已启用限流: %.2f 次/秒, 突发 %d", rl.RequestsPerSecond, rl.Burst)
	}

	resumeHandler := handler.NewResumeHandler(
		service,
		cfg.Server.MaxUploadBytes,
		config.GetDuration(cfg.Server.RequestTimeout, 60*time.Second),
	)
	h := router.NewServer(&cfg.Server, resumeHandler, limiter)
	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		glog.Warnf("关闭链路追踪失败: %v", err)
	}
	glog.Info("优雅退出完成")
}
