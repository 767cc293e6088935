package dto

// ========== User 相关 DTO ==========

// UserProfileData 用户资料数据
type UserProfileData struct {
	ID          string          `json:"id"`
	ExternalID  string          `json:"external_id"`
	Nickname    string          `json:"nickname"`
	Role        string          `json:"role"`
	Preferences PreferencesData `json:"preferences"`
}

// PreferencesData 通知偏好
type PreferencesData struct {
	Email                string   `json:"email"`
	Phone                string   `json:"phone"`
	ChatHandle           string   `json:"chat_handle"`
	NotificationChannels []string `json:"notification_channels"`
	DefaultOffsetDays    int      `json:"default_offset_days"`
}

// UpdatePreferencesRequest 更新通知偏好请求，nil 字段不更新
type UpdatePreferencesRequest struct {
	Nickname             *string   `json:"nickname"`
	Email                *string   `json:"email"`
	Phone                *string   `json:"phone"`
	ChatHandle           *string   `json:"chat_handle"`
	NotificationChannels *[]string `json:"notification_channels"`
	DefaultOffsetDays    *int      `json:"default_offset_days"`
}
