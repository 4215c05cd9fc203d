package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	publishTimeout = 3 * time.Second
	appID          = "algojourney-api"
)

var errNacked = errors.New("broker nacked message")

// RabbitPublisher publishes persistent JSON messages on a confirm-mode
// channel. Publish returns only after the broker acknowledged the message.
type RabbitPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbit(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbit: %w", err)
	}
	p := &RabbitPublisher{conn: conn}
	if p.ch, err = conn.Channel(); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := p.ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if err := p.ch.Confirm(false); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	return p, nil
}

func (p *RabbitPublisher) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil && !p.conn.IsClosed() {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

func (p *RabbitPublisher) Publish(ctx context.Context, exchange, key string, event any, reqID string) error {
	if p == nil || p.ch == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishTimeout)
		defer cancel()
	}

	conf, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         key,
		AppId:        appID,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
		Headers:      amqp.Table{"X-Request-ID": reqID},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("confirm %s: %w", key, err)
	}
	if !acked {
		return fmt.Errorf("publish %s: %w", key, errNacked)
	}
	return nil
}
