package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type SMTPClient struct {
	client *mail.Client
	logger *zap.Logger
	from   string
}

// NewSMTPClient 创建 SMTP 邮件客户端
func NewSMTPClient(host string, port int, username, password, from string, logger *zap.Logger) (*SMTPClient, error) {
	if host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if from == "" {
		return nil, fmt.Errorf("from address is required")
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPClient{
		client: client,
		logger: logger,
		from:   from,
	}, nil
}

// Send 发送邮件并返回生成的 Message-ID
func (c *SMTPClient) Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	msg := mail.NewMsg()
	if err := msg.From(c.from); err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return "", fmt.Errorf("invalid to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	if htmlBody != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)
	}
	// SMTP 本身不回传 ID，这里以我们生成的 Message-ID 作为投递凭据
	msg.SetMessageID()
	messageID := msg.GetMessageID()

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		c.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info("Email sent successfully",
		zap.String("to", to),
		zap.String("message_id", messageID),
	)

	return messageID, nil
}
