package middleware

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"MazalTov/config"
	"MazalTov/internal/model"
	"MazalTov/internal/service"
	"MazalTov/pkg/errors"
	"MazalTov/pkg/logger"
	"MazalTov/pkg/response"
)

// 身份与会话管理在上游网关完成，这里只消费网关注入的身份头。

const (
	IdentityKey = "current_user"
)

var userService *service.UserService

// InitAuth 注入用户服务（组合根调用）
func InitAuth(s *service.UserService) {
	userService = s
}

// AuthMiddleware 从网关身份头解析用户，首次出现时自动建档
func AuthMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		externalID := string(c.GetHeader(config.Cfg.GatewayIdentityHeader))
		if externalID == "" {
			response.Error(ctx, c, errors.Unauthorized)
			c.Abort()
			return
		}

		if userService == nil {
			panic("AuthMiddleware not initialized, call InitAuth() first")
		}

		user, err := userService.GetOrCreate(ctx, externalID)
		if err != nil {
			logger.Logger.Error("Failed to resolve user identity",
				zap.String("external_id", externalID),
				zap.Error(err),
			)
			response.Error(ctx, c, errors.Unauthorized)
			c.Abort()
			return
		}

		c.Set(IdentityKey, user)
		c.Next(ctx)
	}
}

// GetCurrentUser 从请求上下文中取当前用户
func GetCurrentUser(c *app.RequestContext) (*model.User, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}

	user, ok := value.(*model.User)
	if !ok {
		return nil, false
	}

	return user, true
}

// GetUserID 从请求上下文中获取用户ID（public_id，字符串格式）
func GetUserID(ctx context.Context, c *app.RequestContext) (string, bool) {
	user, ok := GetCurrentUser(c)
	if !ok {
		return "", false
	}
	return strconv.FormatInt(user.PublicID, 10), true
}
