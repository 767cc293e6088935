package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"MazalTov/pkg/hebcal"
)

// TimeSlot 每日三个固定调度槽位
type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "morning"
	TimeSlotAfternoon TimeSlot = "afternoon"
	TimeSlotEvening   TimeSlot = "evening"
)

// Valid 槽位是否合法
func (s TimeSlot) Valid() bool {
	switch s {
	case TimeSlotMorning, TimeSlotAfternoon, TimeSlotEvening:
		return true
	}
	return false
}

// Channel 通知渠道枚举
type Channel string

const (
	ChannelChat  Channel = "chat"
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Valid 渠道是否合法
func (c Channel) Valid() bool {
	switch c {
	case ChannelChat, ChannelSMS, ChannelEmail:
		return true
	}
	return false
}

// ReminderRule 单条提醒规则：提前 offset_days 天、在 time_slot 槽位提醒
type ReminderRule struct {
	OffsetDays int      `json:"offset_days"`
	TimeSlot   TimeSlot `json:"time_slot"`
}

// ReminderRules 提醒规则数组（JSONB）
type ReminderRules []ReminderRule

func (r ReminderRules) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func (r *ReminderRules) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal ReminderRules value")
	}
	return json.Unmarshal(bytes, r)
}

// HebrewDate 事件上存储的希伯来历日期（JSONB）
// 为空时事件按公历 reference_date 年度循环。
type HebrewDate struct {
	hebcal.Date
}

func (d HebrewDate) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *HebrewDate) Scan(value interface{}) error {
	if value == nil {
		*d = HebrewDate{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal HebrewDate value")
	}
	return json.Unmarshal(bytes, d)
}

// Event 提醒事件模型
type Event struct {
	BaseModel
	PublicID         int64         `gorm:"uniqueIndex;not null" json:"public_id"`
	OwnerID          int64         `gorm:"not null;index:idx_events_owner" json:"owner_id"`
	Title            string        `gorm:"type:varchar(128);not null" json:"title"`
	Notes            string        `gorm:"type:varchar(512);not null;default:''" json:"notes"`
	ReferenceDate    time.Time     `gorm:"type:date;not null" json:"reference_date"`
	UsesHebrewCal    bool          `gorm:"not null;default:false" json:"uses_hebrew_calendar"`
	HebrewDate       *HebrewDate   `gorm:"type:jsonb" json:"hebrew_date,omitempty"`
	IsRecurring      bool          `gorm:"not null;default:true" json:"is_recurring"`
	RemindersEnabled bool          `gorm:"not null;default:true;index:idx_events_enabled" json:"reminders_enabled"`
	ReminderRules    ReminderRules `gorm:"type:jsonb;default:'[]'" json:"reminder_rules"`
}

// TableName 指定表名
func (Event) TableName() string {
	return "events"
}
