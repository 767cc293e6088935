package sms

import "context"

// Client SMS 客户端接口
// 所有实现语义一致：发送成功返回提供商侧的消息 ID，失败返回错误。
// 客户端由组合根显式构造并注入，不再使用包级单例。
type Client interface {
	// Send 发送单条提醒短信
	// phone: 手机号
	// body: 提醒正文（作为模板参数注入）
	Send(ctx context.Context, phone, body string) (string, error)
}
