package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"MazalTov/internal/model"
	"MazalTov/internal/model/dto"
	"MazalTov/internal/repository"
	"MazalTov/pkg/errors"
	"MazalTov/pkg/snowflake"
)

// UserService 用户与通知偏好服务
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// GetOrCreate 按网关身份标识取用户，首次出现时创建
func (s *UserService) GetOrCreate(ctx context.Context, externalID string) (*model.User, error) {
	if externalID == "" {
		return nil, errors.InvalidUserID
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}

	return s.users.GetOrCreateByExternalID(ctx, externalID, publicID)
}

// Profile 组装用户资料响应
func (s *UserService) Profile(user *model.User) *dto.UserProfileData {
	channels := make([]string, 0, len(user.NotificationChannels))
	for _, c := range user.NotificationChannels {
		channels = append(channels, string(c))
	}

	return &dto.UserProfileData{
		ID:         strconv.FormatInt(user.PublicID, 10),
		ExternalID: user.ExternalID,
		Nickname:   user.Nickname,
		Role:       string(user.Role),
		Preferences: dto.PreferencesData{
			Email:                user.Email,
			Phone:                user.Phone,
			ChatHandle:           user.ChatHandle,
			NotificationChannels: channels,
			DefaultOffsetDays:    user.DefaultOffsetDays,
		},
	}
}

// UpdatePreferences 更新通知偏好，nil 字段保持不变
func (s *UserService) UpdatePreferences(ctx context.Context, user *model.User, req *dto.UpdatePreferencesRequest) (*dto.UserProfileData, error) {
	if req.Nickname != nil {
		user.Nickname = *req.Nickname
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.ChatHandle != nil {
		user.ChatHandle = *req.ChatHandle
	}
	if req.NotificationChannels != nil {
		channels := make(model.NotificationChannels, 0, len(*req.NotificationChannels))
		for _, raw := range *req.NotificationChannels {
			channel := model.Channel(raw)
			if !channel.Valid() {
				return nil, errors.ChannelInvalid
			}
			channels = append(channels, channel)
		}
		user.NotificationChannels = channels
	}
	if req.DefaultOffsetDays != nil {
		if *req.DefaultOffsetDays < 0 {
			return nil, errors.OffsetInvalid
		}
		user.DefaultOffsetDays = *req.DefaultOffsetDays
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user preferences",
			zap.Int64("user_id", user.PublicID),
			zap.Error(err),
		)
		return nil, err
	}

	return s.Profile(user), nil
}
