package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MazalTov/internal/middleware"
	"MazalTov/internal/model/dto"
	"MazalTov/internal/service"
	"MazalTov/pkg/errors"
	"MazalTov/pkg/response"
)

// PreferenceHandler 用户资料与通知偏好接口
type PreferenceHandler struct {
	users *service.UserService
}

func NewPreferenceHandler(users *service.UserService) *PreferenceHandler {
	return &PreferenceHandler{users: users}
}

// GetProfile 查询当前用户资料与通知偏好
// GET /v1/preferences
func (h *PreferenceHandler) GetProfile(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	response.Success(ctx, c, h.users.Profile(user))
}

// UpdatePreferences 更新通知偏好，nil 字段保持不变
// PUT /v1/preferences
func (h *PreferenceHandler) UpdatePreferences(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := h.users.UpdatePreferences(ctx, user, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
