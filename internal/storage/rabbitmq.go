package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/tracing"
)

var rabbitTracer = otel.Tracer("resume-parser-go/storage/rabbitmq")

// EventPublisher 事件发布接口
type EventPublisher interface {
	PublishParsed(ctx context.Context, event *ResumeParsedEvent) error
	Ping(ctx context.Context) error
}

var _ EventPublisher = (*RabbitMQ)(nil)

// RabbitMQ 以 publisher confirm 模式向 topic exchange 发布事件
type RabbitMQ struct {
	cfg            *config.RabbitMQConfig
	publishTimeout time.Duration
	retryInterval  time.Duration

	mu       sync.Mutex // 保护连接与通道
	conn     *amqp.Connection
	ch       *amqp.Channel
	lastDial time.Time
}

// NewRabbitMQ 建立连接并声明 exchange
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ URL配置不能为空")
	}

	r := &RabbitMQ{
		cfg:            cfg,
		publishTimeout: config.GetDuration(cfg.PublishTimeout, 5*time.Second),
		retryInterval:  config.GetDuration(cfg.ReconnectInterval, 5*time.Second),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.connectLocked(); err != nil {
		return nil, err
	}
	logger.Info().Str("exchange", cfg.Exchange).Msg("成功连接到RabbitMQ服务器")
	return r, nil
}

// connectLocked 建立连接、开启 confirm 模式并声明 exchange，调用方持有锁
func (r *RabbitMQ) connectLocked() error {
	r.lastDial = time.Now()
	conn, err := amqp.Dial(r.cfg.URL)
	if err != nil {
		return fmt.Errorf("无法连接到RabbitMQ服务器: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("创建RabbitMQ通道失败: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return fmt.Errorf("开启publisher confirm失败: %w", err)
	}
	err = ch.ExchangeDeclare(
		r.cfg.Exchange, // exchange名称
		"topic",        // exchange类型
		true,           // 持久化
		false,          // 自动删除
		false,          // 内部专用
		false,          // 非阻塞
		nil,            // 参数
	)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("声明exchange失败: %w", err)
	}
	r.conn, r.ch = conn, ch
	return nil
}

// channel 返回可用通道，断开后按重连间隔重新建立
func (r *RabbitMQ) channel() (*amqp.Channel, error) {
	if r.ch != nil && !r.ch.IsClosed() {
		return r.ch, nil
	}
	if time.Since(r.lastDial) < r.retryInterval {
		return nil, errors.New("RabbitMQ连接已断开，等待重连")
	}
	if r.conn != nil && !r.conn.IsClosed() {
		_ = r.conn.Close()
	}
	logger.Warn().Msg("RabbitMQ连接已断开，尝试重连")
	if err := r.connectLocked(); err != nil {
		return nil, err
	}
	return r.ch, nil
}

// PublishParsed 发布解析完成事件并等待 broker 确认
func (r *RabbitMQ) PublishParsed(ctx context.Context, event *ResumeParsedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("JSON序列化失败: %w", err)
	}
	return r.publish(ctx, r.cfg.ParsedRoutingKey, event.EventID, body)
}

func (r *RabbitMQ) publish(ctx context.Context, routingKey, messageID string, body []byte) error {
	ctx, span := rabbitTracer.Start(ctx, "RabbitMQ.Publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination.name", r.cfg.Exchange),
			attribute.String("messaging.rabbitmq.destination.routing_key", routingKey),
			attribute.String("messaging.message_id", messageID),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.publishTimeout)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	ch, err := r.channel()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		return err
	}

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx,
		r.cfg.Exchange, // exchange名
		routingKey,     // 路由键
		false,          // 强制
		false,          // 立即
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    messageID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		return fmt.Errorf("发布消息失败: %w", err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		tracing.RecordPublishFailure(span, messageID, "confirm timeout after "+r.publishTimeout.String())
		return fmt.Errorf("等待broker确认失败: %w", err)
	}
	if !acked {
		tracing.RecordPublishFailure(span, messageID, "")
		return fmt.Errorf("消息 %s 被broker拒绝", messageID)
	}
	return nil
}

// Ping 检查连接状态
func (r *RabbitMQ) Ping(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil || r.conn.IsClosed() {
		return errors.New("RabbitMQ连接已关闭")
	}
	return nil
}

// Close 关闭连接
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil || r.conn.IsClosed() {
		return nil
	}
	return r.conn.Close()
}
