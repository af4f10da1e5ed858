package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"resume-parser-go/internal/logger"
)

// 环境变量覆盖使用的前缀
const envPrefix = "RESUME_"

// Config 应用程序配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logger    logger.Config   `yaml:"logger"`
	Parser    ParserConfig    `yaml:"parser"`
	Extractor ExtractorConfig `yaml:"extractor"`
	MinIO     MinIOConfig     `yaml:"minio"`
	Redis     RedisConfig     `yaml:"redis"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Address        string          `yaml:"address" validate:"required"`
	MaxUploadBytes int64           `yaml:"max_upload_bytes" validate:"gt=0"`
	RequestTimeout string          `yaml:"request_timeout"`
	CORSOrigins    []string        `yaml:"cors_origins"`
	APIKeys        []string        `yaml:"api_keys"` // 为空时不启用鉴权
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig 按客户端 IP 的令牌桶限流
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"required_if=Enabled true,gte=0"`
	Burst             int     `yaml:"burst" validate:"gte=0"`
}

// ParserConfig 文本解析配置
type ParserConfig struct {
	MaxInputBytes int `yaml:"max_input_bytes" validate:"gte=0"`
}

// ExtractorConfig 文档文本提取配置
type ExtractorConfig struct {
	PDFEngine      string `yaml:"pdf_engine" validate:"oneof=eino ledongthuc tika"` // PDF 主引擎
	EnableFallback bool   `yaml:"enable_fallback"`                                  // 主引擎失败时尝试备用引擎
	TikaURL        string `yaml:"tika_url" validate:"required_if=PDFEngine tika"`
	TikaTimeout    string `yaml:"tika_timeout"`
}

// MinIOConfig 原始简历对象存储
type MinIOConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint" validate:"required_if=Enabled true"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	Bucket          string `yaml:"bucket" validate:"required_if=Enabled true"`
	Location        string `yaml:"location"`
}

// RedisConfig 解析结果缓存
type RedisConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Address      string `yaml:"address" validate:"required_if=Enabled true"`
	Password     string `yaml:"password"`
	DB           int    `yaml:"db" validate:"gte=0"`
	PoolSize     int    `yaml:"pool_size" validate:"gte=0"`
	DialTimeout  string `yaml:"dial_timeout"`
	CacheTTL     string `yaml:"cache_ttl"`
	KeyPrefix    string `yaml:"key_prefix"` // 追加在所有键之前
	EnableTraces bool   `yaml:"enable_traces"`
}

// RabbitMQConfig 解析完成事件
type RabbitMQConfig struct {
	Enabled           bool   `yaml:"enabled"`
	URL               string `yaml:"url" validate:"required_if=Enabled true"`
	Exchange          string `yaml:"exchange" validate:"required_if=Enabled true"`
	ParsedRoutingKey  string `yaml:"parsed_routing_key"`
	PublishTimeout    string `yaml:"publish_timeout"`
	ReconnectInterval string `yaml:"reconnect_interval"`
}

// MySQLConfig 上传记录元数据
type MySQLConfig struct {
	Enabled                bool   `yaml:"enabled"`
	Host                   string `yaml:"host" validate:"required_if=Enabled true"`
	Port                   int    `yaml:"port" validate:"gte=0,lte=65535"`
	Username               string `yaml:"username"`
	Password               string `yaml:"password"`
	Database               string `yaml:"database" validate:"required_if=Enabled true"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	AutoMigrate            bool   `yaml:"auto_migrate"`
	LogLevel               int    `yaml:"log_level" validate:"gte=0,lte=4"` // gorm 日志级别(1-4)
}

// TracingConfig OpenTelemetry 链路追踪
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint" validate:"required_if=Enabled true"` // OTLP gRPC 地址
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

// DSN 返回 gorm mysql 驱动使用的连接串
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// Default 返回内置默认配置，外部组件全部关闭
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        ":8080",
			MaxUploadBytes: 10 << 20,
			RequestTimeout: "30s",
			CORSOrigins:    []string{"*"},
			RateLimit:      RateLimitConfig{RequestsPerSecond: 5, Burst: 10},
		},
		Logger: logger.Config{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			TimeFormat: time.RFC3339,
		},
		Parser: ParserConfig{MaxInputBytes: 1 << 20},
		Extractor: ExtractorConfig{
			PDFEngine:      "eino",
			EnableFallback: true,
			TikaTimeout:    "60s",
		},
		MinIO: MinIOConfig{Bucket: "resumes"},
		Redis: RedisConfig{
			Address:   "localhost:6379",
			PoolSize:  10,
			CacheTTL:  "24h",
			KeyPrefix: "",
		},
		RabbitMQ: RabbitMQConfig{
			Exchange:          "resume.events",
			ParsedRoutingKey:  "resume.parsed",
			PublishTimeout:    "5s",
			ReconnectInterval: "5s",
		},
		MySQL: MySQLConfig{
			Host:                   "localhost",
			Port:                   3306,
			Database:               "resume_parser",
			MaxIdleConns:           10,
			MaxOpenConns:           50,
			ConnMaxLifetimeMinutes: 60,
			LogLevel:               1,
		},
		Tracing: TracingConfig{
			ServiceName: "resume-parser",
			Endpoint:    "localhost:4317",
			Insecure:    true,
			SampleRatio: 1,
		},
	}
}

// LoadConfig 加载配置：.env → 默认值 → YAML 文件 → RESUME_* 环境变量 → 校验
// configPath 为空时尝试当前目录的 config.yaml，不存在则只使用默认值
func LoadConfig(configPath string) (*Config, error) {
	// .env 不存在不是错误
	_ = godotenv.Load()

	cfg := Default()

	path := configPath
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && configPath == "":
		// 没有配置文件时使用默认值
	default:
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFromFileOnly 只从文件加载，不读取 .env 和环境变量
func LoadConfigFromFileOnly(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("必须提供配置文件路径")
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate 校验配置字段
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("配置校验失败: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("配置校验失败: %w", err)
	}
	return nil
}

// applyEnvOverrides 使用 RESUME_* 环境变量覆盖配置
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Address, "SERVER_ADDRESS")
	setInt64(&cfg.Server.MaxUploadBytes, "MAX_UPLOAD_BYTES")
	setList(&cfg.Server.APIKeys, "API_KEYS")
	setList(&cfg.Server.CORSOrigins, "CORS_ORIGINS")

	setString(&cfg.Logger.Level, "LOG_LEVEL")
	setString(&cfg.Logger.Format, "LOG_FORMAT")

	setString(&cfg.Extractor.PDFEngine, "PDF_ENGINE")
	setString(&cfg.Extractor.TikaURL, "TIKA_URL")

	setBool(&cfg.MinIO.Enabled, "MINIO_ENABLED")
	setString(&cfg.MinIO.Endpoint, "MINIO_ENDPOINT")
	setString(&cfg.MinIO.AccessKeyID, "MINIO_ACCESS_KEY")
	setString(&cfg.MinIO.SecretAccessKey, "MINIO_SECRET_KEY")

	setBool(&cfg.Redis.Enabled, "REDIS_ENABLED")
	setString(&cfg.Redis.Address, "REDIS_ADDRESS")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setBool(&cfg.RabbitMQ.Enabled, "RABBITMQ_ENABLED")
	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")

	setBool(&cfg.MySQL.Enabled, "MYSQL_ENABLED")
	setString(&cfg.MySQL.Host, "MYSQL_HOST")
	setString(&cfg.MySQL.Username, "MYSQL_USERNAME")
	setString(&cfg.MySQL.Password, "MYSQL_PASSWORD")
	setString(&cfg.MySQL.Database, "MYSQL_DATABASE")

	setBool(&cfg.Tracing.Enabled, "TRACING_ENABLED")
	setString(&cfg.Tracing.Endpoint, "OTLP_ENDPOINT")
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
}

func setString(dst *string, key string) {
	if v, ok := lookupEnv(key); ok {
		*dst = v
	}
}

func setInt64(dst *int64, key string) {
	if v, ok := lookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := lookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setList(dst *[]string, key string) {
	if v, ok := lookupEnv(key); ok {
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*dst = out
	}
}

// GetDuration 解析配置中的时长字符串，空值或非法值返回默认值
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
