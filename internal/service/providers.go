package service

import (
	"go.uber.org/zap"

	"MazalTov/config"
	"MazalTov/pkg/chat"
	"MazalTov/pkg/email"
	"MazalTov/pkg/sms"
)

// BuildChannelClients 按配置构造三个通道客户端
// 构造失败或未配置的通道返回 nil，对应通道的投递会记为配置错误，
// 不影响其他通道和服务启动。
func BuildChannelClients(logger *zap.Logger) (chat.Client, sms.Client, email.Client) {
	var chatClient chat.Client
	var smsClient sms.Client
	var emailClient email.Client

	switch config.Cfg.ChatProvider {
	case "telegram":
		client, err := chat.NewTelegramClient(config.Cfg.TelegramBotToken, logger)
		if err != nil {
			logger.Warn("Chat channel disabled", zap.Error(err))
		} else {
			chatClient = client
		}
	case "mock":
		chatClient = chat.NewMockClient()
	default:
		logger.Warn("Unknown chat provider, chat channel disabled",
			zap.String("provider", config.Cfg.ChatProvider),
		)
	}

	switch config.Cfg.SMSProvider {
	case "aliyun":
		client, err := sms.NewAliyunClient(config.Cfg.SMSSignName, config.Cfg.SMSTemplateCode, logger)
		if err != nil {
			logger.Warn("SMS channel disabled", zap.Error(err))
		} else {
			smsClient = client
		}
	case "mock":
		smsClient = sms.NewMockClient()
	default:
		logger.Warn("Unknown SMS provider, SMS channel disabled",
			zap.String("provider", config.Cfg.SMSProvider),
		)
	}

	switch config.Cfg.EmailProvider {
	case "smtp":
		client, err := email.NewSMTPClient(
			config.Cfg.SMTPHost,
			config.Cfg.SMTPPort,
			config.Cfg.SMTPUsername,
			config.Cfg.SMTPPassword,
			config.Cfg.EmailFrom,
			logger,
		)
		if err != nil {
			logger.Warn("Email channel disabled", zap.Error(err))
		} else {
			emailClient = client
		}
	case "mock":
		emailClient = email.NewMockClient()
	default:
		logger.Warn("Unknown email provider, email channel disabled",
			zap.String("provider", config.Cfg.EmailProvider),
		)
	}

	return chatClient, smsClient, emailClient
}
