package model

// DeliveryTaskMessage 投递任务消息
// 调度器扫描后投入队列，worker 消费并实际发送。
type DeliveryTaskMessage struct {
	MessageID   string   `json:"message_id"` // 消息唯一ID，用于幂等性检查
	TaskCode    int64    `json:"task_code"`  // 业务ID，用于查询任务记录
	LedgerKey   string   `json:"ledger_key"`
	EventID     int64    `json:"event_id"`
	OwnerID     int64    `json:"owner_id"`
	EventTitle  string   `json:"event_title"`
	Channel     Channel  `json:"channel"`
	Destination string   `json:"destination"`
	Subject     string   `json:"subject,omitempty"` // 仅 email 渠道使用
	Body        string   `json:"body"`
	OffsetDays  int      `json:"offset_days"`
	TimeSlot    TimeSlot `json:"time_slot"`
	RunDate     string   `json:"run_date"` // YYYY-MM-DD，调度器时区的当天
	ScheduledAt string   `json:"scheduled_at"`
}
