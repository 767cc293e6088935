package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	otelapi "go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"MazalTov/config"
	"MazalTov/internal/handler"
	"MazalTov/internal/middleware"
	"MazalTov/internal/repository"
	"MazalTov/internal/router"
	"MazalTov/internal/service"
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

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	// 初始化存储层，记得关闭外部连接
	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// OpenTelemetry 初始化
	otelShutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
		ServiceName:    config.Cfg.ServiceName,
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
	if err := middleware.InitMetrics(otelapi.Meter("mazaltov")); err != nil {
		logger.Logger.Warn("Failed to initialize HTTP metrics", zap.Error(err))
	}

	loc, err := time.LoadLocation(config.Cfg.SchedulerTimezone)
	if err != nil {
		logger.Logger.Warn("Invalid scheduler timezone, falling back to UTC",
			zap.String("timezone", config.Cfg.SchedulerTimezone),
		)
		loc = time.UTC
	}

	// 组合根：仓储 -> 服务 -> 处理器
	db := database.DB()
	eventRepo := repository.NewEventRepository(db)
	userRepo := repository.NewUserRepository(db)
	ledger := repository.NewDeliveryLedger(db)

	userService := service.NewUserService(userRepo, logger.Logger)
	eventService := service.NewEventService(eventRepo, ledger, loc, logger.Logger)

	chatClient, smsClient, emailClient := service.BuildChannelClients(logger.Logger)
	notifyService := service.NewNotifyService(chatClient, smsClient, emailClient, ledger, logger.Logger)

	middleware.InitAuth(userService)

	logger.Logger.Info("Server starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	addr := net.JoinHostPort(config.Cfg.ServerHost, config.Cfg.ServerPort)

	tracerOpt, tracerMW := middleware.NewServerTracerConfig()
	h := server.Default(tracerOpt, server.WithHostPorts(addr))
	h.Use(tracerMW)

	router.Register(h, &router.Handlers{
		Event:        handler.NewEventHandler(eventService),
		Preference:   handler.NewPreferenceHandler(userService),
		Notification: handler.NewNotificationHandler(notifyService),
	})

	// 优雅关闭：在单独的 goroutine 中监听关闭信号并调用 Shutdown
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}
