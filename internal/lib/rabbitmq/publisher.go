// Package rabbitmq содержит подключение к RabbitMQ, публикацию сообщений
// и описание очередей уведомлений панели.
package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Connect устанавливает соединение и открывает канал.
func Connect(url string) (*amqp.Connection, *amqp.Channel, error) {
	const op = "rabbitmq.Connect"
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return conn, ch, nil
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ChannelPublisher адаптер канала AMQP под интерфейсы сервисов.
type ChannelPublisher struct {
	Ch *amqp.Channel
}

// Publish публикует сообщение в обменник уведомлений.
func (p ChannelPublisher) Publish(routingkey string, message any) error {
	return PublishMessage(p.Ch, NotificationsExchange, routingkey, message)
}
