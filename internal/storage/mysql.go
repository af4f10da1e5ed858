package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/storage/models"
)

var mysqlTracer = otel.Tracer("resume-parser-go/storage/mysql")

type spanContextKey struct{}

// GormTracingPlugin 是一个GORM插件，用于向OpenTelemetry中添加数据库操作的追踪点
type GormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

// NewGormTracingPlugin 创建一个新的GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{tracer: mysqlTracer, dbName: dbName}
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	steps := []struct {
		op       string
		register func(before, after func(*gorm.DB)) error
	}{
		{op: "CREATE", register: func(b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register("otel:before_create", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("otel:after_create", a)
		}},
		{op: "SELECT", register: func(b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register("otel:before_query", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("otel:after_query", a)
		}},
		{op: "UPDATE", register: func(b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register("otel:before_update", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("otel:after_update", a)
		}},
		{op: "DELETE", register: func(b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("otel:after_delete", a)
		}},
	}
	for _, s := range steps {
		if err := s.register(p.before(s.op), p.after()); err != nil {
			return err
		}
	}
	return nil
}

// before 返回在GORM操作之前执行的回调函数
func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		newCtx, span := p.tracer.Start(ctx, operation+" "+tableName,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			))
		db.Statement.Context = context.WithValue(newCtx, spanContextKey{}, span)
	}
}

// after 返回在GORM操作之后执行的回调函数
func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value(spanContextKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		switch {
		case db.Error == nil:
			span.SetStatus(codes.Ok, "")
		case errors.Is(db.Error, gorm.ErrRecordNotFound):
			// 查不到记录是正常业务分支
			span.SetAttributes(attribute.String("error.type", "record_not_found"))
		default:
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}
}

// SubmissionStore 上传记录的持久化接口
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, s *models.ResumeSubmission) error
	GetSubmission(ctx context.Context, submissionUUID string) (*models.ResumeSubmission, error)
	Ping(ctx context.Context) error
}

var _ SubmissionStore = (*MySQL)(nil)

// ErrSubmissionNotFound 提交记录不存在
var ErrSubmissionNotFound = errors.New("提交记录不存在")

// MySQL 提供关系数据库功能
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}
	return newMySQLWithDB(db, cfg)
}

func newMySQLWithDB(db *gorm.DB, cfg *config.MySQLConfig) (*MySQL, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	m := &MySQL{db: db, cfg: cfg}
	if cfg.AutoMigrate {
		if err := m.db.Session(&gorm.Session{Logger: gormlogger.Discard}).AutoMigrate(&models.ResumeSubmission{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("GORM自动迁移失败: %w", err)
		}
		logger.Info().Msg("GORM数据库结构迁移成功")
	}
	logger.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("成功连接到MySQL")
	return m, nil
}

func gormLogLevel(level int) gormlogger.LogLevel {
	switch level {
	case 1:
		return gormlogger.Silent
	case 2:
		return gormlogger.Error
	case 3:
		return gormlogger.Warn
	case 4:
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// CreateSubmission 插入上传记录，主键冲突时保持幂等
func (m *MySQL) CreateSubmission(ctx context.Context, s *models.ResumeSubmission) error {
	err := m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submission_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"processing_status", "updated_at"}),
	}).Create(s).Error
	if err != nil {
		return fmt.Errorf("保存提交记录失败: %w", err)
	}
	return nil
}

// GetSubmission 按提交ID查询
func (m *MySQL) GetSubmission(ctx context.Context, submissionUUID string) (*models.ResumeSubmission, error) {
	var s models.ResumeSubmission
	err := m.db.WithContext(ctx).First(&s, "submission_uuid = ?", submissionUUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询提交记录失败: %w", err)
	}
	return &s, nil
}

// Ping 检查数据库连接
func (m *MySQL) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}
