package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"MazalTov/internal/model"
	"MazalTov/internal/repository"
	"MazalTov/pkg/chat"
	"MazalTov/pkg/email"
	"MazalTov/pkg/errors"
	"MazalTov/pkg/metrics"
	"MazalTov/pkg/sms"
)

// NotifyService 通知分发服务
// 三个通道客户端按配置注入，未配置的通道为 nil，发送时报配置错误。
type NotifyService struct {
	chatClient  chat.Client
	smsClient   sms.Client
	emailClient email.Client
	ledger      repository.DeliveryLedger
	logger      *zap.Logger
}

func NewNotifyService(
	chatClient chat.Client,
	smsClient sms.Client,
	emailClient email.Client,
	ledger repository.DeliveryLedger,
	logger *zap.Logger,
) *NotifyService {
	return &NotifyService{
		chatClient:  chatClient,
		smsClient:   smsClient,
		emailClient: emailClient,
		ledger:      ledger,
		logger:      logger,
	}
}

// SendDirect 绕过幂等账本直接发送一条消息，手动测试入口使用
func (s *NotifyService) SendDirect(ctx context.Context, channel model.Channel, destination, subject, body string) (string, error) {
	return s.sendViaChannel(ctx, channel, destination, subject, body)
}

// sendViaChannel 通道分发：每个通道一个适配器，无共享重试逻辑
func (s *NotifyService) sendViaChannel(ctx context.Context, channel model.Channel, destination, subject, body string) (string, error) {
	switch channel {
	case model.ChannelChat:
		if s.chatClient == nil {
			return "", errors.ChannelNotConfigured
		}
		resultID, err := s.chatClient.Send(ctx, destination, body)
		if err != nil {
			return "", fmt.Errorf("%w: %s", errors.ChannelSendFailed, err.Error())
		}
		return resultID, nil

	case model.ChannelSMS:
		if s.smsClient == nil {
			return "", errors.ChannelNotConfigured
		}
		resultID, err := s.smsClient.Send(ctx, destination, body)
		if err != nil {
			return "", fmt.Errorf("%w: %s", errors.ChannelSendFailed, err.Error())
		}
		return resultID, nil

	case model.ChannelEmail:
		if s.emailClient == nil {
			return "", errors.ChannelNotConfigured
		}
		resultID, err := s.emailClient.Send(ctx, destination, subject, "", body)
		if err != nil {
			return "", fmt.Errorf("%w: %s", errors.ChannelSendFailed, err.Error())
		}
		return resultID, nil
	}

	return "", errors.ChannelInvalid
}

// DeliverTask 处理一条投递任务：占位 -> 发送 -> 落终态
// 占位失败（键已存在）说明另一次运行已处理，直接丢弃任务。
// 发送失败记为 failed 终态并返回 nil，当天不再重试；
// 只有存储层错误会向上返回，让消费者 Nack 重新入队。
func (s *NotifyService) DeliverTask(ctx context.Context, task *model.DeliveryTaskMessage) error {
	entry := &model.DeliveryLog{
		LedgerKey:  task.LedgerKey,
		EventID:    task.EventID,
		OwnerID:    task.OwnerID,
		OffsetDays: task.OffsetDays,
		TimeSlot:   task.TimeSlot,
		Channel:    task.Channel,
		RunDate:    task.RunDate,
		Message:    task.Body,
	}

	claimed, err := s.ledger.Claim(ctx, entry)
	if err != nil {
		s.logger.Error("Failed to claim ledger entry",
			zap.String("ledger_key", task.LedgerKey),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s", errors.StoreUnavailable, err.Error())
	}
	if !claimed {
		s.logger.Info("Ledger entry already claimed, dropping task",
			zap.String("ledger_key", task.LedgerKey),
			zap.String("message_id", task.MessageID),
		)
		metrics.RecordDeliverySkipped(string(task.Channel), "claim_lost")
		return nil
	}

	metrics.AddActiveTask(string(task.Channel))
	defer metrics.SubtractActiveTask(string(task.Channel))

	startTime := time.Now()
	resultID, sendErr := s.sendViaChannel(ctx, task.Channel, task.Destination, task.Subject, task.Body)
	duration := time.Since(startTime).Seconds()

	if sendErr != nil {
		metrics.RecordDelivery(string(task.Channel), "failed", duration)
		s.logger.Warn("Delivery failed, recording failed ledger entry",
			zap.String("ledger_key", task.LedgerKey),
			zap.String("channel", string(task.Channel)),
			zap.Error(sendErr),
		)

		if err := s.ledger.Finalize(ctx, task.LedgerKey, model.DeliveryStatusFailed, "", sendErr.Error()); err != nil {
			s.logger.Error("Failed to finalize failed delivery",
				zap.String("ledger_key", task.LedgerKey),
				zap.Error(err),
			)
		}
		// 通道失败已入账，当天不重试
		return nil
	}

	metrics.RecordDelivery(string(task.Channel), "sent", duration)

	if err := s.ledger.Finalize(ctx, task.LedgerKey, model.DeliveryStatusSent, resultID, ""); err != nil {
		s.logger.Error("Failed to finalize sent delivery",
			zap.String("ledger_key", task.LedgerKey),
			zap.Error(err),
		)
	}

	s.logger.Info("Delivery completed",
		zap.String("ledger_key", task.LedgerKey),
		zap.String("channel", string(task.Channel)),
		zap.String("result_id", resultID),
	)

	return nil
}

// Dispatch 同步投递出口：不经过消息队列，调度即发送
// 生产环境用 MQ 生产者替代，这里主要服务于单进程部署和测试。
func (s *NotifyService) Dispatch(ctx context.Context, task *model.DeliveryTaskMessage) error {
	return s.DeliverTask(ctx, task)
}
