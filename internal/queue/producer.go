package queue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"MazalTov/internal/model"
	"MazalTov/pkg/logger"
	"MazalTov/pkg/snowflake"
	"MazalTov/storage/mq"
)

// Producer 把投递任务发到消息队列，实现调度器的任务出口
type Producer struct{}

func NewProducer() *Producer {
	return &Producer{}
}

func (p *Producer) Dispatch(ctx context.Context, task *model.DeliveryTaskMessage) error {
	return PublishDeliveryTask(task)
}

// PublishDeliveryTask 发布投递任务消息，按通道路由
func PublishDeliveryTask(msg *model.DeliveryTaskMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.String("ledger_key", msg.LedgerKey),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("dlv_%d", id)
	}

	if msg.TaskCode == 0 {
		code, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate task code: %w", err)
		}
		msg.TaskCode = code
	}

	routingKey := mq.RoutingKeyForChannel(string(msg.Channel))

	err := mq.PublishMessage(
		mq.ExchangeReminder,
		routingKey,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish delivery task",
			zap.String("message_id", msg.MessageID),
			zap.String("ledger_key", msg.LedgerKey),
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published delivery task",
		zap.String("message_id", msg.MessageID),
		zap.String("ledger_key", msg.LedgerKey),
		zap.String("channel", string(msg.Channel)),
		zap.String("routing_key", routingKey),
	)

	return nil
}
