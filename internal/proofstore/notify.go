package proofstore

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPNotifyPublisher implements NotifyPublisher over a single
// pre-declared exchange/routing key, mirroring pkg-common/rabbitmq's
// RabbitmqPublisher.Publish shape.
type AMQPNotifyPublisher struct {
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

func NewAMQPNotifyPublisher(channel *amqp.Channel, exchange, routingKey string) *AMQPNotifyPublisher {
	return &AMQPNotifyPublisher{channel: channel, exchange: exchange, routingKey: routingKey}
}

func (p *AMQPNotifyPublisher) Publish(event JobEvent) error {
	body, err := event.Serialize()
	if err != nil {
		return err
	}

	return p.channel.Publish(
		p.exchange,
		p.routingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	)
}
