package chat

import "context"

// Client 聊天通道客户端接口
// recipient 为通道侧的会话标识（Telegram 场景下是 chat id）。
// 成功返回通道侧消息 ID。由组合根显式构造并注入。
type Client interface {
	Send(ctx context.Context, recipient, body string) (string, error)
}
