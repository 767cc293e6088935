package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"MazalTov/internal/cache"
	"MazalTov/internal/model"
	"MazalTov/pkg/logger"
	"MazalTov/storage/mq"
)

// DeliveryService worker 侧的任务处理入口
type DeliveryService interface {
	DeliverTask(ctx context.Context, task *model.DeliveryTaskMessage) error
}

var deliveryService DeliveryService

// SetDeliveryService 设置投递服务（在 worker 启动时调用）
func SetDeliveryService(s DeliveryService) {
	deliveryService = s
}

// StartDeliveryTaskConsumer 启动投递任务消费者
// 通道发送失败已由账本记录终态，handler 返回 nil 直接 Ack；
// 只有存储层错误才返回 error 触发 Nack 重新入队。
func StartDeliveryTaskConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.DeliveryTaskMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			logger.Logger.Error("Failed to unmarshal delivery task, dropping",
				zap.Error(err),
			)
			// 消息格式坏了重试也没用，Ack 丢弃
			return nil
		}

		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，账本占位仍能兜底去重
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
				zap.String("ledger_key", msg.LedgerKey),
			)
			return nil
		}

		logger.Logger.Info("Processing delivery task",
			zap.String("message_id", msg.MessageID),
			zap.String("ledger_key", msg.LedgerKey),
			zap.String("channel", string(msg.Channel)),
		)

		if deliveryService == nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("delivery service not initialized")
		}

		if err := deliveryService.DeliverTask(ctx, &msg); err != nil {
			// 存储层错误：取消标记，允许重新入队后重试
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to deliver task: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.QueueDelivery,
		ConsumerTag:   "delivery_task_consumer",
		PrefetchCount: 20,
		Handler:       handler,
	})
}

// StartAllConsumers 启动所有消费者（在 worker 启动时调用）
func StartAllConsumers(ctx context.Context) {
	var wg sync.WaitGroup

	consumers := []struct {
		name     string
		consumer func(context.Context) error
	}{
		{"delivery_task", StartDeliveryTaskConsumer},
	}

	for _, c := range consumers {
		wg.Add(1)
		go func(name string, consumer func(context.Context) error) {
			defer wg.Done()

			logger.Logger.Info("Starting consumer",
				zap.String("consumer_name", name),
			)

			if err := consumer(ctx); err != nil {
				logger.Logger.Error("Consumer exited with error",
					zap.String("consumer_name", name),
					zap.Error(err),
				)
			}
		}(c.name, c.consumer)
	}

	wg.Wait()

	logger.Logger.Info("All consumers stopped")
}
