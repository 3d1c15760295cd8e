package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/models"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/service"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SubmissionConsumer 评分提交事件消费者
// 从 Redis Streams 读取 SubmissionEvent 并驱动审计服务
type SubmissionConsumer struct {
	redisClient  *redis.Client
	audit        service.AuditService
	logger       *zap.Logger
	stream       string
	groupName    string
	consumerName string
	batchSize    int64
}

// NewSubmissionConsumer 创建提交事件消费者
func NewSubmissionConsumer(
	redisClient *redis.Client,
	audit service.AuditService,
	logger *zap.Logger,
	stream string,
	groupName string,
	consumerName string,
	batchSize int64,
) *SubmissionConsumer {
	return &SubmissionConsumer{
		redisClient:  redisClient,
		audit:        audit,
		logger:       logger,
		stream:       stream,
		groupName:    groupName,
		consumerName: consumerName,
		batchSize:    batchSize,
	}
}

// Start 启动消费循环（阻塞直到 ctx 取消），错误时指数退避
func (c *SubmissionConsumer) Start(ctx context.Context) error {
	if err := store.CreateConsumerGroup(ctx, c.redisClient, c.stream, c.groupName); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	c.logger.Info("Submission consumer started",
		zap.String("stream", c.stream),
		zap.String("consumer_group", c.groupName),
		zap.String("consumer_name", c.consumerName),
	)

	backoffDuration := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.consumeOnce(ctx); err != nil {
				c.logger.Error("Failed to consume submissions",
					zap.Error(err),
					zap.Duration("backoff", backoffDuration),
				)

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(backoffDuration):
					backoffDuration *= 2
					if backoffDuration > maxBackoff {
						backoffDuration = maxBackoff
					}
				}
			} else {
				backoffDuration = time.Second
			}
		}
	}
}

// consumeOnce 读取一批消息并逐条处理
func (c *SubmissionConsumer) consumeOnce(ctx context.Context) error {
	messages, err := store.ReadFromStream(ctx, c.redisClient, c.stream, c.groupName, c.consumerName, c.batchSize)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if err := c.handleMessage(ctx, msg); err != nil {
			// 处理失败不 ACK，留在 pending 列表等待重试
			c.logger.Error("Failed to handle submission message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
			continue
		}
		if err := store.AckMessage(ctx, c.redisClient, c.stream, c.groupName, msg.ID); err != nil {
			c.logger.Warn("Failed to ack message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (c *SubmissionConsumer) handleMessage(ctx context.Context, msg store.StreamMessage) error {
	raw, ok := msg.Values["data"].(string)
	if !ok {
		return fmt.Errorf("message %s has no data field", msg.ID)
	}

	var event models.SubmissionEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return fmt.Errorf("failed to decode submission event: %w", err)
	}
	if event.StructureID == "" || event.FloorID == "" || event.UnitID == "" {
		return fmt.Errorf("submission event %s is missing identifiers", msg.ID)
	}

	rollup, violations, err := c.audit.SubmitRatings(ctx, event.StructureID, event.FloorID, event.UnitID, event.Ratings)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		// 证据不足是业务结果而非处理失败：记录后 ACK，不重试
		c.logger.Info("Submission rejected by evidence policy",
			zap.String("structure_id", event.StructureID),
			zap.String("unit_id", event.UnitID),
			zap.Int("violations", len(violations)),
		)
		return nil
	}

	c.logger.Debug("Submission applied",
		zap.String("structure_id", event.StructureID),
		zap.String("unit_id", event.UnitID),
		zap.Int("ratings", len(event.Ratings)),
		zap.Any("unit_rollup", rollup),
	)
	return nil
}
