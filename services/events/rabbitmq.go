package eventsvc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/simtahfidz/backend/core"
)

// RabbitPublisher publishes JSON events to a durable topic exchange.
type RabbitPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	appName  string
	logger   core.Logger
}

var _ core.EventPublisher = (*RabbitPublisher)(nil) // interface compliance check

func NewRabbitPublisher(conf *core.Config, logger core.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(conf.AMQP.URL)
	if err != nil {
		return nil, errors.Wrap(err, "dialing rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "opening channel")
	}
	err = ch.ExchangeDeclare(
		conf.AMQP.Exchange, // name
		"topic",            // kind
		true,               // durable
		false,              // autoDelete
		false,              // internal
		false,              // noWait
		nil,                // args
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declaring exchange %s", conf.AMQP.Exchange)
	}

	return &RabbitPublisher{
		conn:     conn,
		ch:       ch,
		exchange: conf.AMQP.Exchange,
		appName:  conf.AppName,
		logger:   logger,
	}, nil
}

// Publish sends `payload` as a persistent message routed by `routingKey`.
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "encoding %s event", routingKey)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		AppId:        p.appName,
		Type:         routingKey,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return errors.Wrapf(err, "publishing %s event", routingKey)
	}
	p.logger.Debug("published " + routingKey)
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return errors.Wrap(err, "closing channel")
	}
	if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return errors.Wrap(err, "closing connection")
	}
	return nil
}
