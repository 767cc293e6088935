package email

import "context"

// Client 邮件通道客户端接口
// 成功返回 Message-ID，失败返回错误。由组合根显式构造并注入。
type Client interface {
	// Send 发送一封提醒邮件，htmlBody 与 textBody 互为备选格式
	Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error)
}
