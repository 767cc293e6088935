package policy

import "MazalTov/internal/model"

// Action 需要授权判定的操作
type Action string

const (
	// ActionTestSend 手动测试发送，管理员专用
	ActionTestSend Action = "notification:test_send"
)

// Allow 基于用户记录上的角色属性做授权判定
// 角色存储在用户记录里，不使用硬编码的身份白名单。
func Allow(user *model.User, action Action) bool {
	if user == nil {
		return false
	}

	switch action {
	case ActionTestSend:
		return user.Role == model.UserRoleAdmin
	}

	return false
}
