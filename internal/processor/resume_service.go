package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/extractor"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/storage/models"
	"resume-parser-go/internal/tracing"
	"resume-parser-go/pkg/types"
	"resume-parser-go/pkg/utils"
)

const (
	sourceUpload = "upload"
	sourceText   = "text"

	defaultHealthTimeout = 3 * time.Second
)

// ResumeService 简历解析流程的门面：提取 -> 解析 -> 存档 -> 事件 -> 缓存
type ResumeService struct {
	components Components
	settings   Settings
	now        func() time.Time
}

// NewResumeService 创建服务，解析器为必需组件
func NewResumeService(componentOpts []ComponentOpt, settingOpts []SettingOpt) (*ResumeService, error) {
	s := &ResumeService{
		settings: Settings{HealthTimeout: defaultHealthTimeout},
		now:      time.Now,
	}
	for _, opt := range componentOpts {
		opt(&s.components)
	}
	for _, opt := range settingOpts {
		opt(&s.settings)
	}
	if s.components.Parser == nil {
		return nil, errors.New("简历解析器不能为空")
	}
	return s, nil
}

// ProcessUpload 处理一次文件上传
// 存档步骤任一失败则整体失败，事件与缓存失败只记录日志
func (s *ResumeService) ProcessUpload(ctx context.Context, up Upload) (*Result, error) {
	submissionUUID := resolveSubmissionUUID(up.SubmissionUUID)
	ctx, span := tracing.StartSpan(ctx, "ResumeService.ProcessUpload",
		attribute.String("submission.uuid", submissionUUID),
		attribute.String("file.name", tracing.SafeFilename(up.Filename)),
		attribute.Int("file.size", len(up.Data)),
	)
	defer span.End()
	log := logger.Ctx(ctx).With().Str("submission_uuid", submissionUUID).Logger()

	if len(up.Data) == 0 {
		err := NewInvalidInputError(submissionUUID, "上传文件为空")
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	if limit := s.settings.MaxUploadBytes; limit > 0 && int64(len(up.Data)) > limit {
		err := NewFileTooLargeError(submissionUUID, int64(len(up.Data)), limit)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	if s.components.Extractor == nil {
		err := NewExtractError(submissionUUID, fmt.Errorf("%w: 未配置文档提取器", extractor.ErrUnsupportedFormat))
		tracing.RecordError(span, err, tracing.ErrorTypeExtraction)
		return nil, err
	}

	fileMD5 := utils.CalculateMD5(up.Data)
	span.SetAttributes(attribute.String("file.md5", fileMD5))

	var cacheKey string
	if cache := s.cache(); cache != nil {
		cacheKey = cache.FileKey(fileMD5)
		if cached := s.lookupCache(ctx, cacheKey); cached != nil {
			log.Info().Str("md5", fileMD5).Msg("命中解析缓存")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			s.publish(ctx, span, s.buildEvent(submissionUUID, sourceUpload, "", "", cached, true))
			return &Result{SubmissionUUID: submissionUUID, Resume: cached, Cached: true}, nil
		}
	}

	doc, err := s.extract(ctx, up)
	if err != nil {
		perr := NewExtractError(submissionUUID, err)
		tracing.RecordError(span, perr, tracing.ErrorTypeExtraction)
		log.Warn().Err(err).Str("filename", tracing.SafeFilename(up.Filename)).Msg("文档文本提取失败")
		return nil, perr
	}

	resume := s.parse(ctx, doc.Text)

	objectKey, err := s.archive(ctx, submissionUUID, fileMD5, up, doc, resume)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		log.Error().Err(err).Msg("保存上传记录失败")
		return nil, err
	}

	s.publish(ctx, span, s.buildEvent(submissionUUID, sourceUpload, string(doc.Format), objectKey, resume, false))
	if cacheKey != "" {
		s.storeCache(ctx, cacheKey, resume)
	}

	log.Info().
		Str("format", string(doc.Format)).
		Str("engine", doc.Engine).
		Int("sections", len(resume.Sections)).
		Msg("简历解析完成")
	return &Result{
		SubmissionUUID: submissionUUID,
		Resume:         resume,
		Format:         doc.Format,
		ObjectKey:      objectKey,
	}, nil
}

// ParseText 直接解析纯文本，不落盘
func (s *ResumeService) ParseText(ctx context.Context, text string) (*Result, error) {
	submissionUUID := resolveSubmissionUUID("")
	ctx, span := tracing.StartSpan(ctx, "ResumeService.ParseText",
		attribute.String("submission.uuid", submissionUUID),
		attribute.Int("text.length", len(text)),
	)
	defer span.End()

	if strings.TrimSpace(text) == "" {
		err := NewInvalidInputError(submissionUUID, "文本为空")
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	if limit := s.settings.MaxUploadBytes; limit > 0 && int64(len(text)) > limit {
		err := NewFileTooLargeError(submissionUUID, int64(len(text)), limit)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	var cacheKey string
	if cache := s.cache(); cache != nil {
		cacheKey = cache.TextKey(utils.CalculateMD5String(text))
		if cached := s.lookupCache(ctx, cacheKey); cached != nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			s.publish(ctx, span, s.buildEvent(submissionUUID, sourceText, string(extractor.FormatTXT), "", cached, true))
			return &Result{SubmissionUUID: submissionUUID, Resume: cached, Cached: true}, nil
		}
	}

	resume := s.parse(ctx, text)
	s.publish(ctx, span, s.buildEvent(submissionUUID, sourceText, string(extractor.FormatTXT), "", resume, false))
	if cacheKey != "" {
		s.storeCache(ctx, cacheKey, resume)
	}
	return &Result{SubmissionUUID: submissionUUID, Resume: resume, Format: extractor.FormatTXT}, nil
}

// Health 检查各组件状态，未启用的组件标记为 disabled
func (s *ResumeService) Health(ctx context.Context) (map[string]string, bool) {
	checks := map[string]Pinger{}
	if s.components.Objects != nil {
		checks["minio"] = s.components.Objects
	}
	if s.components.Cache != nil {
		checks["redis"] = s.components.Cache
	}
	if s.components.Store != nil {
		checks["mysql"] = s.components.Store
	}
	if s.components.Publisher != nil {
		checks["rabbitmq"] = s.components.Publisher
	}
	if p, ok := s.components.Extractor.(Pinger); ok {
		checks["extractor"] = p
	}

	status := map[string]string{
		"minio":    "disabled",
		"redis":    "disabled",
		"mysql":    "disabled",
		"rabbitmq": "disabled",
	}
	healthy := true
	for name, p := range checks {
		pingCtx, cancel := context.WithTimeout(ctx, s.settings.HealthTimeout)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			healthy = false
			status[name] = "error: " + err.Error()
			continue
		}
		status[name] = "ok"
	}
	return status, healthy
}

func (s *ResumeService) extract(ctx context.Context, up Upload) (*extractor.Document, error) {
	ctx, span := tracing.StartSpan(ctx, "ResumeService.extract",
		attribute.String("file.content_type", up.ContentType),
	)
	defer span.End()

	doc, err := s.components.Extractor.ExtractFile(ctx, up.Data, up.ContentType, up.Filename)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeExtraction)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("document.format", string(doc.Format)),
		attribute.String("document.engine", doc.Engine),
		attribute.Int("document.text_length", len(doc.Text)),
	)
	return doc, nil
}

func (s *ResumeService) parse(ctx context.Context, text string) *types.ParsedResume {
	_, span := tracing.StartSpan(ctx, "ResumeService.parse")
	defer span.End()

	resume := s.components.Parser.Parse(text)
	span.SetAttributes(attribute.Int("resume.sections", len(resume.Sections)))
	return resume
}

// archive 上传原始文件并写入提交记录，记录写入失败时删除已上传的对象
func (s *ResumeService) archive(ctx context.Context, submissionUUID, fileMD5 string, up Upload, doc *extractor.Document, resume *types.ParsedResume) (string, error) {
	var objectKey string
	if objects := s.components.Objects; objects != nil {
		key, err := objects.UploadResume(ctx, submissionUUID, doc.Format.Ext(), up.Data, doc.Format.MIME())
		if err != nil {
			return "", NewStorageError(submissionUUID, "upload", err.Error())
		}
		objectKey = key
	}

	store := s.components.Store
	if store == nil {
		return objectKey, nil
	}

	submission := &models.ResumeSubmission{
		SubmissionUUID:   submissionUUID,
		OriginalFilename: utils.SanitizeFilename(filepath.Base(up.Filename)),
		ContentType:      up.ContentType,
		Format:           string(doc.Format),
		FileSize:         int64(len(up.Data)),
		RawFileMD5:       fileMD5,
		ObjectKey:        objectKey,
		Extractor:        doc.Engine,
		ProcessingStatus: constants.StatusParsed,
		ParserVersion:    constants.ParserVersion,
	}
	if err := submission.SetExtractorMeta(doc.Metadata); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("提取器元数据无法序列化，已忽略")
		_ = submission.SetExtractorMeta(nil)
	}
	if err := submission.SetSectionTypes(sectionTypes(resume)); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("章节类型无法序列化，已忽略")
		_ = submission.SetSectionTypes(nil)
	}

	if err := store.CreateSubmission(ctx, submission); err != nil {
		s.rollbackObject(ctx, objectKey)
		return "", NewStorageError(submissionUUID, "record", err.Error())
	}
	return objectKey, nil
}

func (s *ResumeService) rollbackObject(ctx context.Context, objectKey string) {
	if objectKey == "" || s.components.Objects == nil {
		return
	}
	// 请求上下文可能已被取消，回滚使用独立的超时
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.components.Objects.DeleteResume(rbCtx, objectKey); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("object_key", objectKey).Msg("回滚原始文件失败")
	}
}

// cache 返回可用的结果缓存；TTL 不大于 0 时不读写缓存，解析结果不在 Redis 留存
func (s *ResumeService) cache() storage.ResultCache {
	if c := s.components.Cache; c != nil && c.TTL() > 0 {
		return c
	}
	return nil
}

func (s *ResumeService) lookupCache(ctx context.Context, key string) *types.ParsedResume {
	resume, err := s.components.Cache.GetParsed(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Ctx(ctx).Warn().Err(err).Str("key", tracing.SafeRedisKey(key)).Msg("读取解析缓存失败")
		}
		return nil
	}
	return resume
}

func (s *ResumeService) storeCache(ctx context.Context, key string, resume *types.ParsedResume) {
	if err := s.components.Cache.SetParsed(ctx, key, resume); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", tracing.SafeRedisKey(key)).Msg("写入解析缓存失败")
	}
}

func (s *ResumeService) publish(ctx context.Context, span trace.Span, event *storage.ResumeParsedEvent) {
	if s.components.Publisher == nil {
		return
	}
	if err := s.components.Publisher.PublishParsed(ctx, event); err != nil {
		span.AddEvent("event_publish_failed", trace.WithAttributes(attribute.String("error", err.Error())))
		logger.Ctx(ctx).Warn().Err(err).Str("event_id", event.EventID).Msg("发布解析完成事件失败")
	}
}

func (s *ResumeService) buildEvent(submissionUUID, source, format, objectKey string, resume *types.ParsedResume, cached bool) *storage.ResumeParsedEvent {
	event := &storage.ResumeParsedEvent{
		EventID:        resolveSubmissionUUID(""),
		EventType:      constants.EventResumeParsed,
		SubmissionUUID: submissionUUID,
		OccurredAt:     s.now().UTC(),
		Source:         source,
		Format:         format,
		ObjectKey:      objectKey,
		SectionTypes:   sectionTypes(resume),
		EntryCounts:    make(map[string]int, len(resume.Sections)),
		HasName:        resume.Name != nil,
		HasEmail:       resume.Email != nil,
		HasPhone:       resume.Phone != nil,
		Cached:         cached,
		ParserVersion:  constants.ParserVersion,
	}
	for _, sec := range resume.Sections {
		if sec.Content != nil {
			event.EntryCounts[string(sec.Type)] += sec.Content.Len()
		}
	}
	return event
}

func sectionTypes(resume *types.ParsedResume) []string {
	out := make([]string, 0, len(resume.Sections))
	for _, sec := range resume.Sections {
		out = append(out, string(sec.Type))
	}
	return out
}

// resolveSubmissionUUID 沿用调用方给出的合法 UUID，否则生成 V7
func resolveSubmissionUUID(candidate string) string {
	if candidate != "" {
		if id, err := uuid.FromString(candidate); err == nil && !id.IsNil() {
			return id.String()
		}
	}
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Must(uuid.NewV4()).String()
	}
	return id.String()
}
