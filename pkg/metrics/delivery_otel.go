package metrics

import (
	"context"
)

// RecordDelivery 记录一次投递结果
func RecordDelivery(channel, status string, duration float64) {
	ctx := context.Background()
	m := GetMetrics()
	if m != nil {
		m.RecordDelivery(ctx, channel, status, duration)
	}
}

// RecordDeliverySkipped 记录被账本去重跳过的投递
func RecordDeliverySkipped(channel, reason string) {
	ctx := context.Background()
	m := GetMetrics()
	if m != nil {
		m.RecordDeliverySkipped(ctx, channel, reason)
	}
}

// RecordSchedulerRun 记录一次调度槽位执行
func RecordSchedulerRun(slot string, eventsScanned int64, duration float64) {
	ctx := context.Background()
	m := GetMetrics()
	if m != nil {
		m.RecordSchedulerRun(ctx, slot, eventsScanned, duration)
	}
}

// AddActiveTask 增加在途投递任务
func AddActiveTask(channel string) {
	ctx := context.Background()
	m := GetMetrics()
	if m != nil {
		m.AddActiveTask(ctx, channel)
	}
}

// SubtractActiveTask 减少在途投递任务
func SubtractActiveTask(channel string) {
	ctx := context.Background()
	m := GetMetrics()
	if m != nil {
		m.SubtractActiveTask(ctx, channel)
	}
}
