package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// UserRole 用户角色枚举，测试发送等管理操作只对 admin 开放
type UserRole string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"
)

// NotificationChannels 用户偏好的通知渠道有序数组（JSONB）
type NotificationChannels []Channel

func (c NotificationChannels) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *NotificationChannels) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal NotificationChannels value")
	}
	return json.Unmarshal(bytes, c)
}

// User 用户模型
// ExternalID 为上游网关注入的身份标识，身份与会话管理不在本服务内。
type User struct {
	BaseModel
	PublicID   int64    `gorm:"uniqueIndex;not null" json:"public_id"`
	ExternalID string   `gorm:"uniqueIndex;type:varchar(64);not null" json:"external_id"`
	Nickname   string   `gorm:"type:varchar(64);not null;default:''" json:"nickname"`
	Role       UserRole `gorm:"type:varchar(16);not null;default:'member'" json:"role"`

	// 通知偏好
	Email                string               `gorm:"type:varchar(254);not null;default:''" json:"email"`
	Phone                string               `gorm:"type:varchar(32);not null;default:''" json:"phone"`
	ChatHandle           string               `gorm:"type:varchar(64);not null;default:''" json:"chat_handle"`
	NotificationChannels NotificationChannels `gorm:"type:jsonb;default:'[]'" json:"notification_channels"`
	DefaultOffsetDays    int                  `gorm:"not null;default:0" json:"default_offset_days"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// DestinationFor 返回渠道对应的投递地址，空串表示未配置
func (u *User) DestinationFor(channel Channel) string {
	switch channel {
	case ChannelEmail:
		return u.Email
	case ChannelSMS:
		return u.Phone
	case ChannelChat:
		return u.ChatHandle
	}
	return ""
}
