package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	PublishCartCheckedOut(ctx context.Context, ev CartCheckedOut) error
	Close() error
}

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	conn *amqp.Connection
	ch   amqpChannel
}

// DialRabbit connects and declares the events exchange.
func DialRabbit(url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	p, err := newRabbitPublisher(ch)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newRabbitPublisher(ch amqpChannel) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return nil, errors.Wrapf(err, "declare %s", EventsExchange)
	}
	return &RabbitPublisher{ch: ch}, nil
}

func (p *RabbitPublisher) PublishCartCheckedOut(ctx context.Context, ev CartCheckedOut) error {
	if err := ev.Validate(CartCheckedOutEventName, CartCheckedOutEventVersion); err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal CartCheckedOut")
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(pubCtx, EventsExchange, CartCheckedOutRoutingKey, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     ev.EventID,
		CorrelationId: ev.CorrelationID,
		Timestamp:     ev.OccurredAt,
		Type:          ev.EventName,
		Body:          body,
	})
	return errors.Wrap(err, "publish CartCheckedOut")
}

func (p *RabbitPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishCartCheckedOut(context.Context, CartCheckedOut) error { return nil }
func (NopPublisher) Close() error                                               { return nil }
