package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/tracing"
)

var minioTracer = otel.Tracer("resume-parser-go/storage/minio")

// ObjectStorage 原始简历文件的对象存储
type ObjectStorage interface {
	// UploadResume 上传原始文件，返回对象键
	UploadResume(ctx context.Context, submissionUUID, fileExt string, data []byte, contentType string) (string, error)
	// GetResume 下载原始文件
	GetResume(ctx context.Context, objectKey string) ([]byte, error)
	// DeleteResume 删除原始文件，用于后续步骤失败时回滚
	DeleteResume(ctx context.Context, objectKey string) error
	Ping(ctx context.Context) error
}

// 确保MinIO实现了ObjectStorage接口
var _ ObjectStorage = (*MinIO)(nil)

// MinIO 提供对象存储功能
type MinIO struct {
	client *minio.Client
	bucket string
	cfg    *config.MinIOConfig
	now    func() time.Time
}

// NewMinIO 创建MinIO客户端并确保存储桶存在
func NewMinIO(ctx context.Context, cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{
		client: client,
		bucket: cfg.Bucket,
		cfg:    cfg,
		now:    time.Now,
	}
	if err := m.ensureBucketExists(ctx); err != nil {
		return nil, err
	}

	logger.Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("MinIO客户端初始化成功")
	return m, nil
}

// ensureBucketExists 确保存储桶存在
func (m *MinIO) ensureBucketExists(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.cfg.Location}); err != nil {
		// 并发启动的实例可能已经创建
		if exists, errExists := m.client.BucketExists(ctx, m.bucket); errExists == nil && exists {
			return nil
		}
		return fmt.Errorf("创建存储桶 %s 失败: %w", m.bucket, err)
	}
	logger.Info().Str("bucket", m.bucket).Msg("已创建存储桶")
	return nil
}

// ResumeObjectKey 按上传月份分目录: resumes/2024/05/{uuid}.pdf
func ResumeObjectKey(submissionUUID, fileExt string, t time.Time) string {
	if fileExt != "" && !strings.HasPrefix(fileExt, ".") {
		fileExt = "." + fileExt
	}
	return fmt.Sprintf(constants.ResumeObjectKeyFormat, t.Year(), int(t.Month()), submissionUUID, strings.ToLower(fileExt))
}

// UploadResume 上传原始简历文件
func (m *MinIO) UploadResume(ctx context.Context, submissionUUID, fileExt string, data []byte, contentType string) (string, error) {
	objectKey := ResumeObjectKey(submissionUUID, fileExt, m.now().UTC())

	ctx, span := minioTracer.Start(ctx, "MinIO.UploadResume",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("minio.bucket", m.bucket),
			attribute.String("minio.object_key", objectKey),
			attribute.Int("minio.object_size", len(data)),
		))
	defer span.End()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, m.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"submission-uuid": submissionUUID,
		},
	})
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStore)
		return "", fmt.Errorf("上传简历文件 %s 失败: %w", objectKey, err)
	}

	logger.Ctx(ctx).Debug().Str("object_key", objectKey).Int("size", len(data)).Msg("原始简历已上传")
	return objectKey, nil
}

// GetResume 下载原始简历文件
func (m *MinIO) GetResume(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取对象 %s 失败: %w", objectKey, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取对象 %s 失败: %w", objectKey, err)
	}
	return data, nil
}

// DeleteResume 删除原始简历文件
func (m *MinIO) DeleteResume(ctx context.Context, objectKey string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除对象 %s 失败: %w", objectKey, err)
	}
	return nil
}

// Ping 通过检查存储桶确认服务可用
func (m *MinIO) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}
