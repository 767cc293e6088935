package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"MazalTov/internal/middleware"
	"MazalTov/internal/model/dto"
	"MazalTov/internal/service"
	"MazalTov/pkg/errors"
	"MazalTov/pkg/response"
)

// EventHandler 事件相关接口
type EventHandler struct {
	events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// Create 创建事件
// POST /v1/events
func (h *EventHandler) Create(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.CreateEventRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := h.events.Create(ctx, user, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// List 查询当前用户的事件列表
// GET /v1/events
func (h *EventHandler) List(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	result, err := h.events.List(ctx, user)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// Get 查询事件详情
// GET /v1/events/:event_id
func (h *EventHandler) Get(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	eventID, ok := parseEventID(c)
	if !ok {
		response.Error(ctx, c, errors.EventNotFound)
		return
	}

	result, err := h.events.Get(ctx, user, eventID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// Update 更新事件，未提交的字段保持不变
// PUT /v1/events/:event_id
func (h *EventHandler) Update(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	eventID, ok := parseEventID(c)
	if !ok {
		response.Error(ctx, c, errors.EventNotFound)
		return
	}

	var req dto.UpdateEventRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := h.events.Update(ctx, user, eventID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// Delete 删除事件
// DELETE /v1/events/:event_id
func (h *EventHandler) Delete(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	eventID, ok := parseEventID(c)
	if !ok {
		response.Error(ctx, c, errors.EventNotFound)
		return
	}

	if err := h.events.Delete(ctx, user, eventID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

// ListDeliveries 查询事件的投递账本
// GET /v1/events/:event_id/deliveries
func (h *EventHandler) ListDeliveries(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	eventID, ok := parseEventID(c)
	if !ok {
		response.Error(ctx, c, errors.EventNotFound)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	result, err := h.events.ListDeliveries(ctx, user, eventID, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

func parseEventID(c *app.RequestContext) (int64, bool) {
	raw := c.Param("event_id")
	if raw == "" {
		return 0, false
	}

	eventID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || eventID <= 0 {
		return 0, false
	}
	return eventID, true
}
