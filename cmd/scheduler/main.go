package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"MazalTov/config"
	"MazalTov/internal/cache"
	"MazalTov/internal/queue"
	"MazalTov/internal/repository"
	"MazalTov/internal/schedule"
	"MazalTov/pkg/logger"
	"MazalTov/pkg/metrics"
	"MazalTov/pkg/otel"
	"MazalTov/pkg/snowflake"
	"MazalTov/storage"
	"MazalTov/storage/database"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	// 与 server 和 worker 区分 machineID，避免雪花 ID 冲突
	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	otelShutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
		ServiceName:    config.Cfg.ServiceName + "-scheduler",
		ServiceVersion: "1.0.0",
		Environment:    config.Cfg.Environment,
		OTLPEndpoint:   config.Cfg.OTLPEndpoint,
		SampleRatio:    config.Cfg.TracingSampler,
	})
	if err != nil {
		logger.Logger.Warn("Failed to initialize OpenTelemetry, telemetry disabled", zap.Error(err))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				logger.Logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
			}
		}()
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize delivery metrics", zap.Error(err))
	}

	loc, err := time.LoadLocation(config.Cfg.SchedulerTimezone)
	if err != nil {
		logger.Logger.Fatal("Invalid scheduler timezone",
			zap.String("timezone", config.Cfg.SchedulerTimezone),
			zap.Error(err),
		)
	}

	db := database.DB()
	scheduler := schedule.NewReminderScheduler(
		repository.NewEventRepository(db),
		repository.NewUserRepository(db),
		repository.NewDeliveryLedger(db),
		cache.DeliveryMarker{},
		queue.NewProducer(),
		loc,
		nil,
		logger.Logger,
	)

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", config.Cfg.ServiceName+"-scheduler"),
		zap.String("environment", config.Cfg.Environment),
		zap.String("timezone", config.Cfg.SchedulerTimezone),
	)

	runSlotLoop(ctx, scheduler, loc)

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runSlotLoop 按三个每日槽位循环触发扫描
// 每个槽位触发前先抢占 redis 锁，保证多副本部署时同一槽位只跑一次。
func runSlotLoop(ctx context.Context, scheduler *schedule.ReminderScheduler, loc *time.Location) {
	slots := schedule.DefaultSlots(&config.Cfg)

	// development 环境下每分钟触发一次最近的槽位，方便本地调试
	if config.Cfg.Environment == "development" {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Slot loop running in development mode with 1m interval")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				slot, _ := schedule.NextRun(slots, time.Now().In(loc))
				runOneSlot(ctx, scheduler, slot, loc)
			}
		}
	}

	for {
		now := time.Now().In(loc)
		slot, at := schedule.NextRun(slots, now)

		delay := time.Until(at)
		logger.Logger.Info("Scheduled next slot run",
			zap.String("slot", string(slot.Name)),
			zap.Time("next_run", at),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			runOneSlot(ctx, scheduler, slot, loc)
		}
	}
}

func runOneSlot(ctx context.Context, scheduler *schedule.ReminderScheduler, slot schedule.Slot, loc *time.Location) {
	runDate := time.Now().In(loc).Format("2006-01-02")
	lockKey := fmt.Sprintf("scheduler:%s:%s", slot.Name, runDate)

	locked, err := cache.TryLock(ctx, lockKey, 10*time.Minute)
	if err != nil {
		logger.Logger.Error("Failed to acquire slot lock",
			zap.String("slot", string(slot.Name)),
			zap.Error(err),
		)
		return
	}
	if !locked {
		logger.Logger.Info("Slot already taken by another instance, skipping",
			zap.String("slot", string(slot.Name)),
			zap.String("run_date", runDate),
		)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := scheduler.RunSlot(runCtx, slot.Name); err != nil {
		logger.Logger.Error("Slot run failed",
			zap.String("slot", string(slot.Name)),
			zap.Error(err),
		)
	}
}
