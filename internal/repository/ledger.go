package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MazalTov/internal/model"
)

// LedgerKey 构造幂等账本键，五元组的纯函数
// 格式：<eventId>_<offsetDays>_<timeSlot>_<channel>_<YYYY-MM-DD>
func LedgerKey(eventID int64, offsetDays int, slot model.TimeSlot, channel model.Channel, runDate string) string {
	return fmt.Sprintf("%d_%d_%s_%s_%s", eventID, offsetDays, slot, channel, runDate)
}

// DeliveryLedger 幂等账本接口
// Claim 用唯一索引上的条件插入占位，关闭 check-then-act 的双发窗口。
type DeliveryLedger interface {
	// Exists 账本键是否已存在（任意状态都算已尝试）
	Exists(ctx context.Context, key string) (bool, error)
	// Claim 原子占位：插入 pending 记录，键已存在时返回 claimed=false
	Claim(ctx context.Context, entry *model.DeliveryLog) (claimed bool, err error)
	// Finalize 将占位记录置为终态 sent/failed
	Finalize(ctx context.Context, key string, status model.DeliveryStatus, resultID, errorText string) error
	ListByEvent(ctx context.Context, eventID int64, limit int) ([]*model.DeliveryLog, error)
}

type deliveryLedger struct {
	db *gorm.DB
}

func NewDeliveryLedger(db *gorm.DB) DeliveryLedger {
	return &deliveryLedger{db: db}
}

func (l *deliveryLedger) Exists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&model.DeliveryLog{}).
		Where("ledger_key = ?", key).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (l *deliveryLedger) Claim(ctx context.Context, entry *model.DeliveryLog) (bool, error) {
	entry.Status = model.DeliveryStatusPending

	result := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ledger_key"}},
			DoNothing: true,
		}).
		Create(entry)
	if result.Error != nil {
		return false, result.Error
	}

	// RowsAffected == 0 说明键已存在，占位被并发的另一次运行抢走
	return result.RowsAffected > 0, nil
}

func (l *deliveryLedger) Finalize(ctx context.Context, key string, status model.DeliveryStatus, resultID, errorText string) error {
	updates := map[string]interface{}{
		"status":     status,
		"result_id":  resultID,
		"error_text": errorText,
	}
	if status == model.DeliveryStatusSent {
		now := time.Now()
		updates["sent_at"] = &now
	}

	return l.db.WithContext(ctx).
		Model(&model.DeliveryLog{}).
		Where("ledger_key = ?", key).
		Updates(updates).Error
}

func (l *deliveryLedger) ListByEvent(ctx context.Context, eventID int64, limit int) ([]*model.DeliveryLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var logs []*model.DeliveryLog
	err := l.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
