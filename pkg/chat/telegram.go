package chat

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

type TelegramClient struct {
	bot    *tele.Bot
	logger *zap.Logger
}

// NewTelegramClient 创建 Telegram 聊天客户端（仅发送，不启动 poller）
func NewTelegramClient(token string, logger *zap.Logger) (*TelegramClient, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	bot, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramClient{
		bot:    bot,
		logger: logger,
	}, nil
}

// Send 向指定会话发送消息，recipient 为十进制 chat id
func (c *TelegramClient) Send(ctx context.Context, recipient, body string) (string, error) {
	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid telegram chat id %q: %w", recipient, err)
	}

	msg, err := c.bot.Send(tele.ChatID(chatID), body)
	if err != nil {
		c.logger.Error("Failed to send telegram message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to send telegram message: %w", err)
	}

	c.logger.Info("Telegram message sent successfully",
		zap.Int64("chat_id", chatID),
		zap.Int("message_id", msg.ID),
	)

	return strconv.Itoa(msg.ID), nil
}
