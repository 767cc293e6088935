package dto

// ========== Event 相关 DTO ==========

// HebrewDateDTO 希伯来历日期
type HebrewDateDTO struct {
	Day   int `json:"day" binding:"required"`
	Month int `json:"month" binding:"required"`
	Year  int `json:"year"`
}

// ReminderRuleDTO 提醒规则
type ReminderRuleDTO struct {
	OffsetDays int    `json:"offset_days"`
	TimeSlot   string `json:"time_slot" binding:"required"`
}

// CreateEventRequest 创建事件请求
type CreateEventRequest struct {
	Title            string            `json:"title" binding:"required"`
	Notes            string            `json:"notes"`
	ReferenceDate    string            `json:"reference_date"` // YYYY-MM-DD
	UsesHebrewCal    bool              `json:"uses_hebrew_calendar"`
	HebrewDate       *HebrewDateDTO    `json:"hebrew_date,omitempty"`
	IsRecurring      *bool             `json:"is_recurring"`
	RemindersEnabled *bool             `json:"reminders_enabled"`
	ReminderRules    []ReminderRuleDTO `json:"reminder_rules"`
}

// UpdateEventRequest 更新事件请求，nil 字段不更新
type UpdateEventRequest struct {
	Title            *string            `json:"title"`
	Notes            *string            `json:"notes"`
	ReferenceDate    *string            `json:"reference_date"`
	UsesHebrewCal    *bool              `json:"uses_hebrew_calendar"`
	HebrewDate       *HebrewDateDTO     `json:"hebrew_date"`
	IsRecurring      *bool              `json:"is_recurring"`
	RemindersEnabled *bool              `json:"reminders_enabled"`
	ReminderRules    *[]ReminderRuleDTO `json:"reminder_rules"`
}

// EventItem 事件列表项
type EventItem struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Notes            string            `json:"notes,omitempty"`
	ReferenceDate    string            `json:"reference_date"`
	UsesHebrewCal    bool              `json:"uses_hebrew_calendar"`
	HebrewDate       *HebrewDateView   `json:"hebrew_date,omitempty"`
	IsRecurring      bool              `json:"is_recurring"`
	RemindersEnabled bool              `json:"reminders_enabled"`
	ReminderRules    []ReminderRuleDTO `json:"reminder_rules"`
	NextOccurrence   string            `json:"next_occurrence,omitempty"`
	DaysUntil        int               `json:"days_until"`
}

// HebrewDateView 希伯来历日期展示
type HebrewDateView struct {
	Day        int    `json:"day"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	MonthName  string `json:"month_name"`
	IsLeapYear bool   `json:"is_leap_year"`
}

// EventListData 事件列表响应
type EventListData struct {
	Events []EventItem `json:"events"`
	Total  int         `json:"total"`
}

// DeliveryItem 事件的投递账本项
type DeliveryItem struct {
	LedgerKey  string `json:"ledger_key"`
	OffsetDays int    `json:"offset_days"`
	TimeSlot   string `json:"time_slot"`
	Channel    string `json:"channel"`
	RunDate    string `json:"run_date"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	ResultID   string `json:"result_id,omitempty"`
	ErrorText  string `json:"error_text,omitempty"`
	SentAt     string `json:"sent_at,omitempty"`
}

// DeliveryListData 投递账本响应
type DeliveryListData struct {
	Deliveries []DeliveryItem `json:"deliveries"`
	Total      int            `json:"total"`
}
