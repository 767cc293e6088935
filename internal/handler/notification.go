package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"MazalTov/internal/middleware"
	"MazalTov/internal/model"
	"MazalTov/internal/model/dto"
	"MazalTov/internal/policy"
	"MazalTov/internal/service"
	"MazalTov/pkg/errors"
	"MazalTov/pkg/logger"
	"MazalTov/pkg/response"
)

// NotificationHandler 通知相关接口
type NotificationHandler struct {
	notify *service.NotifyService
}

func NewNotificationHandler(notify *service.NotifyService) *NotificationHandler {
	return &NotificationHandler{notify: notify}
}

// TestSend 手动测试发送一条通知，绕过幂等账本
// 仅管理员角色可用。
// POST /v1/notifications/test
func (h *NotificationHandler) TestSend(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	if !policy.Allow(user, policy.ActionTestSend) {
		response.Error(ctx, c, errors.Forbidden)
		return
	}

	var req dto.TestSendRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	channel := model.Channel(req.Channel)
	if req.Channel == "" {
		channel = model.ChannelChat
	}
	if !channel.Valid() {
		response.Error(ctx, c, errors.ChannelInvalid)
		return
	}

	resultID, err := h.notify.SendDirect(ctx, channel, req.Destination, req.Subject, req.Message)
	if err != nil {
		logger.Logger.Warn("Test send failed",
			zap.Int64("user_id", user.PublicID),
			zap.String("channel", string(channel)),
			zap.Error(err),
		)
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, &dto.TestSendData{
		Success:  true,
		Channel:  string(channel),
		ResultID: resultID,
	})
}
