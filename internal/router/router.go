package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"MazalTov/config"
	"MazalTov/internal/handler"
	"MazalTov/internal/middleware"
)

// Handlers 汇总所有 HTTP 处理器，由组合根构造后注入
type Handlers struct {
	Event        *handler.EventHandler
	Preference   *handler.PreferenceHandler
	Notification *handler.NotificationHandler
}

func Register(h *server.Hertz, handlers *Handlers) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")
	v1.Use(middleware.AuthMiddleware())
	if config.Cfg.RateLimitEnabled {
		v1.Use(middleware.GeneralRateLimitMiddleware())
	}

	// 事件路由
	events := v1.Group("/events")
	{
		events.GET("", handlers.Event.List)
		events.POST("", handlers.Event.Create)
		events.GET("/:event_id", handlers.Event.Get)
		events.PUT("/:event_id", handlers.Event.Update)
		events.DELETE("/:event_id", handlers.Event.Delete)
		events.GET("/:event_id/deliveries", handlers.Event.ListDeliveries)
	}

	// 偏好设置路由
	preferences := v1.Group("/preferences")
	{
		preferences.GET("", handlers.Preference.GetProfile)
		preferences.PUT("", handlers.Preference.UpdatePreferences)
	}

	// 通知路由（手动测试发送，带独立限流）
	notifications := v1.Group("/notifications")
	{
		notifications.POST("/test", middleware.TestSendRateLimitMiddleware(), handlers.Notification.TestSend)
	}
}
