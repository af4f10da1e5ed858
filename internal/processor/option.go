package processor

import (
	"time"

	"resume-parser-go/internal/storage"
)

// Components 服务依赖的组件，除解析器外均可为 nil
type Components struct {
	Extractor DocumentExtractor
	Parser    ResumeParser
	Objects   storage.ObjectStorage
	Cache     storage.ResultCache
	Store     storage.SubmissionStore
	Publisher storage.EventPublisher
}

// Settings 服务设置
type Settings struct {
	MaxUploadBytes int64
	// HealthTimeout 单个组件健康检查的超时
	HealthTimeout time.Duration
}

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// ----- 组件选项 -----

// WithExtractor 设置文档提取器
func WithExtractor(e DocumentExtractor) ComponentOpt {
	return func(c *Components) {
		c.Extractor = e
	}
}

// WithParser 设置简历解析器
func WithParser(p ResumeParser) ComponentOpt {
	return func(c *Components) {
		c.Parser = p
	}
}

// WithStorage 从存储管理器中取出所有已初始化的组件
func WithStorage(s *storage.Storage) ComponentOpt {
	return func(c *Components) {
		c.Objects = s.ObjectStorage()
		c.Cache = s.ResultCache()
		c.Store = s.SubmissionStore()
		c.Publisher = s.EventPublisher()
	}
}

// WithObjectStorage 设置原始文件存储
func WithObjectStorage(o storage.ObjectStorage) ComponentOpt {
	return func(c *Components) {
		c.Objects = o
	}
}

// WithCache 设置解析结果缓存
func WithCache(cache storage.ResultCache) ComponentOpt {
	return func(c *Components) {
		c.Cache = cache
	}
}

// WithSubmissionStore 设置上传记录存储
func WithSubmissionStore(s storage.SubmissionStore) ComponentOpt {
	return func(c *Components) {
		c.Store = s
	}
}

// WithPublisher 设置事件发布器
func WithPublisher(p storage.EventPublisher) ComponentOpt {
	return func(c *Components) {
		c.Publisher = p
	}
}

// ----- 设置选项 -----

// WithMaxUploadBytes 设置上传大小上限，<=0 表示不限制
func WithMaxUploadBytes(n int64) SettingOpt {
	return func(s *Settings) {
		s.MaxUploadBytes = n
	}
}

// WithHealthTimeout 设置健康检查超时
func WithHealthTimeout(d time.Duration) SettingOpt {
	return func(s *Settings) {
		if d > 0 {
			s.HealthTimeout = d
		}
	}
}
