package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/tracing"
	"resume-parser-go/pkg/types"
)

// ErrNotFound 缓存未命中
var ErrNotFound = redis.Nil

// 为Redis操作定义专用tracer
var redisTracer = otel.Tracer("resume-parser-go/storage/redis")

// ResultCache 解析结果缓存，按内容 MD5 索引
type ResultCache interface {
	GetParsed(ctx context.Context, key string) (*types.ParsedResume, error)
	SetParsed(ctx context.Context, key string, resume *types.ParsedResume) error
	FileKey(md5Hex string) string
	TextKey(md5Hex string) string
	TTL() time.Duration
	Ping(ctx context.Context) error
}

var _ ResultCache = (*Redis)(nil)

// Redis 封装 Redis 客户端
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
	ttl    time.Duration
}

// NewRedis 创建 Redis 连接并校验可用性
func NewRedis(ctx context.Context, cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Address,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: config.GetDuration(cfg.DialTimeout, 5*time.Second),
	})

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if cfg.EnableTraces {
		if err := redisotel.InstrumentTracing(client); err != nil {
			return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return NewRedisWithClient(client, cfg), nil
}

// NewRedisWithClient 使用已有客户端
func NewRedisWithClient(client *redis.Client, cfg *config.RedisConfig) *Redis {
	return &Redis{
		Client: client,
		config: cfg,
		ttl:    config.GetDuration(cfg.CacheTTL, constants.DefaultCacheTTL),
	}
}

// FileKey 上传文件的缓存键
func (r *Redis) FileKey(md5Hex string) string {
	return r.config.KeyPrefix + fmt.Sprintf(constants.KeyParsedByFileMD5, md5Hex)
}

// TextKey 纯文本输入的缓存键
func (r *Redis) TextKey(md5Hex string) string {
	return r.config.KeyPrefix + fmt.Sprintf(constants.KeyParsedByTextMD5, md5Hex)
}

// TTL 缓存有效期，不大于 0 表示不缓存解析结果
func (r *Redis) TTL() time.Duration {
	return r.ttl
}

// GetParsed 读取缓存的解析结果，未命中时返回 ErrNotFound
func (r *Redis) GetParsed(ctx context.Context, key string) (*types.ParsedResume, error) {
	ctx, span := r.startSpan(ctx, "Redis.GetParsed", "GET", key)
	defer span.End()

	val, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return nil, ErrNotFound
	}
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return nil, fmt.Errorf("读取缓存失败: %w", err)
	}

	var resume types.ParsedResume
	if err := json.Unmarshal(val, &resume); err != nil {
		// 旧格式或损坏的条目当作未命中
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		_ = r.Client.Del(ctx, key).Err()
		return nil, ErrNotFound
	}
	span.SetAttributes(attribute.Bool("cache.hit", true))
	return &resume, nil
}

// SetParsed 写入解析结果
func (r *Redis) SetParsed(ctx context.Context, key string, resume *types.ParsedResume) error {
	if r.ttl <= 0 {
		return nil
	}
	ctx, span := r.startSpan(ctx, "Redis.SetParsed", "SET", key)
	defer span.End()

	data, err := json.Marshal(resume)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return fmt.Errorf("序列化解析结果失败: %w", err)
	}
	if err := r.Client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("写入缓存失败: %w", err)
	}
	return nil
}

func (r *Redis) startSpan(ctx context.Context, name, op, key string) (context.Context, trace.Span) {
	return redisTracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemRedis,
			attribute.String("db.redis.database", fmt.Sprintf("%d", r.config.DB)),
			attribute.String("net.peer.name", r.config.Address),
			attribute.String("db.operation", op),
			attribute.String("db.redis.key", tracing.SafeRedisKey(key)),
		))
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
