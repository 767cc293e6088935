package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeReminder 提醒投递 topic exchange
	ExchangeReminder = "reminder.topic"
	// QueueDelivery 投递任务队列
	QueueDelivery = "reminder.delivery"
	// BindingDelivery 投递任务绑定键，按通道路由：reminder.delivery.<channel>
	BindingDelivery = "reminder.delivery.*"
)

// RoutingKeyForChannel 构造按通道的路由键
func RoutingKeyForChannel(channel string) string {
	return fmt.Sprintf("reminder.delivery.%s", channel)
}

// declareTopology 声明 exchange / queue / binding，幂等
func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		ExchangeReminder,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		QueueDelivery,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(
		QueueDelivery,
		BindingDelivery,
		ExchangeReminder,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}
