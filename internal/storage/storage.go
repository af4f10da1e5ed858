package storage

import (
	"context"
	"fmt"
	"strings"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
)

// Storage 存储管理器，聚合所有可选的存储相关依赖
// 未启用或初始化失败的组件为 nil
type Storage struct {
	// 对象存储
	MinIO *MinIO

	// 消息队列
	RabbitMQ *RabbitMQ

	// 关系型数据库
	MySQL *MySQL

	// 键值存储
	Redis *Redis
}

// NewStorage 按配置初始化已启用的组件
// 单个组件失败只记录警告，服务仍可在缺少该组件时运行
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	s := &Storage{}
	var initErrors []string
	var err error

	if cfg.MinIO.Enabled {
		if s.MinIO, err = NewMinIO(ctx, &cfg.MinIO); err != nil {
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		}
	}
	if cfg.RabbitMQ.Enabled {
		if s.RabbitMQ, err = NewRabbitMQ(&cfg.RabbitMQ); err != nil {
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
		}
	}
	if cfg.MySQL.Enabled {
		if s.MySQL, err = NewMySQL(&cfg.MySQL); err != nil {
			initErrors = append(initErrors, fmt.Sprintf("MySQL: %v", err))
		}
	}
	if cfg.Redis.Enabled {
		if s.Redis, err = NewRedis(ctx, &cfg.Redis); err != nil {
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		}
	}

	if len(initErrors) > 0 {
		logger.Warn().Str("errors", strings.Join(initErrors, "; ")).Msg("以下存储组件初始化失败，将在缺少它们的情况下运行")
	}
	return s, nil
}

// ObjectStorage 返回接口形式的组件，nil 组件返回 nil 接口
func (s *Storage) ObjectStorage() ObjectStorage {
	if s == nil || s.MinIO == nil {
		return nil
	}
	return s.MinIO
}

func (s *Storage) ResultCache() ResultCache {
	if s == nil || s.Redis == nil {
		return nil
	}
	return s.Redis
}

func (s *Storage) SubmissionStore() SubmissionStore {
	if s == nil || s.MySQL == nil {
		return nil
	}
	return s.MySQL
}

func (s *Storage) EventPublisher() EventPublisher {
	if s == nil || s.RabbitMQ == nil {
		return nil
	}
	return s.RabbitMQ
}

// Close 关闭所有连接
func (s *Storage) Close() {
	if s == nil {
		return
	}
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭MySQL连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭Redis连接失败")
		}
	}
}
