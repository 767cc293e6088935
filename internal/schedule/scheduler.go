package schedule

// 提醒调度器：每个槽位扫描启用提醒的事件，命中规则后生成投递任务

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"MazalTov/internal/model"
	"MazalTov/internal/occurrence"
	"MazalTov/internal/repository"
	"MazalTov/internal/service"
	"MazalTov/pkg/errors"
	"MazalTov/pkg/metrics"

	stderrors "errors"
)

// TaskSink 投递任务出口，生产环境发 MQ，测试里可以直接同步发送
type TaskSink interface {
	Dispatch(ctx context.Context, task *model.DeliveryTaskMessage) error
}

// AttemptMarker 账本键的缓存快查，可为 nil（直接查库）
type AttemptMarker interface {
	IsAttempted(ctx context.Context, ledgerKey string) (bool, error)
	MarkAttempted(ctx context.Context, ledgerKey string) error
}

type ReminderScheduler struct {
	events repository.EventRepository
	users  repository.UserRepository
	ledger repository.DeliveryLedger
	marker AttemptMarker
	sink   TaskSink
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewReminderScheduler(
	events repository.EventRepository,
	users repository.UserRepository,
	ledger repository.DeliveryLedger,
	marker AttemptMarker,
	sink TaskSink,
	loc *time.Location,
	now func() time.Time,
	logger *zap.Logger,
) *ReminderScheduler {
	if now == nil {
		now = time.Now
	}
	return &ReminderScheduler{
		events: events,
		users:  users,
		ledger: ledger,
		marker: marker,
		sink:   sink,
		loc:    loc,
		now:    now,
		logger: logger,
	}
}

// RunSlot 执行一个槽位的完整扫描
// 单个事件或通道的失败只影响自身，不会中断整次运行。
func (s *ReminderScheduler) RunSlot(ctx context.Context, slot model.TimeSlot) error {
	startTime := s.now()
	today := startOfDay(startTime.In(s.loc))
	runDate := today.Format("2006-01-02")

	s.logger.Info("Starting reminder slot run",
		zap.String("slot", string(slot)),
		zap.String("run_date", runDate),
	)

	events, err := s.events.ListEnabled(ctx)
	if err != nil {
		s.logger.Error("Failed to list events", zap.Error(err))
		return fmt.Errorf("failed to list events: %w", err)
	}

	var dispatched, skipped, failed int
	for _, event := range events {
		d, sk, err := s.processEvent(ctx, event, slot, today, runDate)
		dispatched += d
		skipped += sk
		if err != nil {
			failed++
		}
	}

	duration := time.Since(startTime)
	metrics.RecordSchedulerRun(string(slot), int64(len(events)), duration.Seconds())

	s.logger.Info("Reminder slot run completed",
		zap.String("slot", string(slot)),
		zap.Int("event_count", len(events)),
		zap.Int("dispatched", dispatched),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Duration("duration", duration),
	)

	return nil
}

func (s *ReminderScheduler) processEvent(
	ctx context.Context,
	event *model.Event,
	slot model.TimeSlot,
	today time.Time,
	runDate string,
) (dispatched, skipped int, err error) {
	owner, err := s.users.GetByID(ctx, event.OwnerID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			// 找不到归属用户不是错误，静默跳过
			return 0, 1, nil
		}
		s.logger.Error("Failed to load event owner",
			zap.Int64("event_id", event.PublicID),
			zap.Int64("owner_id", event.OwnerID),
			zap.Error(err),
		)
		return 0, 0, err
	}

	daysUntil, err := occurrence.DaysUntil(event, today)
	if err != nil {
		// 数据不合法：告警后跳过该事件，不影响整批
		s.logger.Warn("Skipping malformed event",
			zap.Int64("event_id", event.PublicID),
			zap.Error(err),
		)
		return 0, 1, err
	}

	fallback := FallbackOffsets(slot, owner.DefaultOffsetDays)
	due := DueOffsets(event.ReminderRules, slot, fallback)
	if !containsOffset(due, daysUntil) {
		return 0, 1, nil
	}

	if len(owner.NotificationChannels) == 0 {
		return 0, 1, nil
	}

	body := service.ComposeMessage(event.Title, daysUntil, slot)
	subject := service.ComposeSubject(event.Title, daysUntil)

	for _, channel := range owner.NotificationChannels {
		if !channel.Valid() {
			continue
		}

		destination := owner.DestinationFor(channel)
		if destination == "" {
			// 无可用地址的通道直接略过，不占账本
			continue
		}

		sent, err := s.dispatchChannel(ctx, event, owner, channel, destination,
			daysUntil, slot, runDate, subject, body)
		if err != nil {
			s.logger.Error("Failed to dispatch delivery task",
				zap.Int64("event_id", event.PublicID),
				zap.String("channel", string(channel)),
				zap.Error(err),
			)
			continue
		}
		if sent {
			dispatched++
		} else {
			skipped++
		}
	}

	return dispatched, skipped, nil
}

// dispatchChannel 为单个 (event, channel) 单元做幂等检查并投递任务
// 账本存储不可用时跳过本次尝试：绝不在检查失败的情况下发送。
func (s *ReminderScheduler) dispatchChannel(
	ctx context.Context,
	event *model.Event,
	owner *model.User,
	channel model.Channel,
	destination string,
	daysUntil int,
	slot model.TimeSlot,
	runDate string,
	subject, body string,
) (bool, error) {
	key := repository.LedgerKey(event.PublicID, daysUntil, slot, channel, runDate)

	if s.marker != nil {
		attempted, err := s.marker.IsAttempted(ctx, key)
		if err == nil && attempted {
			metrics.RecordDeliverySkipped(string(channel), "cache_hit")
			return false, nil
		}
		// 缓存失败只是降级，继续查库
	}

	exists, err := s.ledger.Exists(ctx, key)
	if err != nil {
		metrics.RecordDeliverySkipped(string(channel), "store_error")
		return false, fmt.Errorf("%w: %s", errors.StoreUnavailable, err.Error())
	}
	if exists {
		metrics.RecordDeliverySkipped(string(channel), "already_attempted")
		if s.marker != nil {
			if err := s.marker.MarkAttempted(ctx, key); err != nil {
				s.logger.Warn("Failed to mark attempt in cache", zap.Error(err))
			}
		}
		return false, nil
	}

	task := &model.DeliveryTaskMessage{
		MessageID:   fmt.Sprintf("dlv_%s", uuid.NewString()),
		LedgerKey:   key,
		EventID:     event.PublicID,
		OwnerID:     owner.PublicID,
		EventTitle:  event.Title,
		Channel:     channel,
		Destination: destination,
		Subject:     subject,
		Body:        body,
		OffsetDays:  daysUntil,
		TimeSlot:    slot,
		RunDate:     runDate,
		ScheduledAt: s.now().Format(time.RFC3339),
	}

	if err := s.sink.Dispatch(ctx, task); err != nil {
		return false, err
	}

	if s.marker != nil {
		if err := s.marker.MarkAttempted(ctx, key); err != nil {
			s.logger.Warn("Failed to mark attempt in cache", zap.Error(err))
		}
	}

	return true, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
