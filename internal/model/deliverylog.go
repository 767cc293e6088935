package model

import "time"

// DeliveryStatus 投递账本状态枚举
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending" // 已占位，发送中
	DeliveryStatusSent    DeliveryStatus = "sent"    // 发送成功
	DeliveryStatusFailed  DeliveryStatus = "failed"  // 发送失败，当天不再重试
)

// DeliveryLog 幂等账本记录
// LedgerKey 唯一索引保证同一 (event, offset, slot, channel, day) 至多占位一次，
// 占位后只做 pending -> sent/failed 的终态更新，不删除，留作审计。
type DeliveryLog struct {
	BaseModel
	LedgerKey  string         `gorm:"uniqueIndex;type:varchar(128);not null" json:"ledger_key"`
	EventID    int64          `gorm:"not null;index:idx_delivery_logs_event" json:"event_id"`
	OwnerID    int64          `gorm:"not null" json:"owner_id"`
	OffsetDays int            `gorm:"type:smallint;not null" json:"offset_days"`
	TimeSlot   TimeSlot       `gorm:"type:varchar(16);not null" json:"time_slot"`
	Channel    Channel        `gorm:"type:varchar(16);not null" json:"channel"`
	RunDate    string         `gorm:"type:char(10);not null;index:idx_delivery_logs_run_date" json:"run_date"`
	Status     DeliveryStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	Message    string         `gorm:"type:varchar(512);not null;default:''" json:"message"`
	ResultID   string         `gorm:"type:varchar(128);not null;default:''" json:"result_id"`
	ErrorText  string         `gorm:"type:varchar(512);not null;default:''" json:"error_text,omitempty"`
	SentAt     *time.Time     `gorm:"type:timestamptz" json:"sent_at,omitempty"`
}

// TableName 指定表名
func (DeliveryLog) TableName() string {
	return "delivery_logs"
}
