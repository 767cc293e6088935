package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 提醒投递相关指标
	DeliveriesTotal    metric.Int64Counter
	DeliveryDuration   metric.Float64Histogram
	DeliverySkipsTotal metric.Int64Counter
	ActiveTasks        metric.Int64UpDownCounter

	// 调度相关指标
	SchedulerRunsTotal   metric.Int64Counter
	SchedulerRunDuration metric.Float64Histogram
	EventsScanned        metric.Int64Counter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("mazaltov")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.DeliveriesTotal, err = meter.Int64Counter(
		"deliveries_total",
		metric.WithDescription("Total number of reminder deliveries attempted"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return err
	}

	metrics.DeliveryDuration, err = meter.Float64Histogram(
		"delivery_duration_seconds",
		metric.WithDescription("Time spent delivering a reminder in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.DeliverySkipsTotal, err = meter.Int64Counter(
		"delivery_skips_total",
		metric.WithDescription("Total number of deliveries skipped by the idempotency ledger"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return err
	}

	metrics.ActiveTasks, err = meter.Int64UpDownCounter(
		"delivery_active_tasks",
		metric.WithDescription("Number of delivery tasks currently in flight"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return err
	}

	metrics.SchedulerRunsTotal, err = meter.Int64Counter(
		"scheduler_runs_total",
		metric.WithDescription("Total number of scheduler slot runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	metrics.SchedulerRunDuration, err = meter.Float64Histogram(
		"scheduler_run_duration_seconds",
		metric.WithDescription("Time spent evaluating one scheduler slot in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.EventsScanned, err = meter.Int64Counter(
		"scheduler_events_scanned_total",
		metric.WithDescription("Total number of events evaluated by the scheduler"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordDelivery 记录一次投递结果
func (m *OTelMetrics) RecordDelivery(ctx context.Context, channel, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("channel", channel),
		attribute.String("status", status),
	}

	m.DeliveriesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.DeliveryDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("channel", channel),
	))
}

// RecordDeliverySkipped 记录被账本去重跳过的投递
func (m *OTelMetrics) RecordDeliverySkipped(ctx context.Context, channel, reason string) {
	m.DeliverySkipsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("reason", reason),
	))
}

// RecordSchedulerRun 记录一次调度槽位执行
func (m *OTelMetrics) RecordSchedulerRun(ctx context.Context, slot string, eventsScanned int64, duration float64) {
	m.SchedulerRunsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("slot", slot),
	))
	m.SchedulerRunDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("slot", slot),
	))
	m.EventsScanned.Add(ctx, eventsScanned, metric.WithAttributes(
		attribute.String("slot", slot),
	))
}

// AddActiveTask 增加在途投递任务
func (m *OTelMetrics) AddActiveTask(ctx context.Context, channel string) {
	m.ActiveTasks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
	))
}

// SubtractActiveTask 减少在途投递任务
func (m *OTelMetrics) SubtractActiveTask(ctx context.Context, channel string) {
	m.ActiveTasks.Add(ctx, -1, metric.WithAttributes(
		attribute.String("channel", channel),
	))
}
