package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/tazhibayda/algojourney/internal/log"
)

// ErrPoison marks a message that will never succeed; it is dropped instead
// of requeued.
var ErrPoison = errors.New("poison message")

type Consumer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	q    string
}

func NewConsumer(url, exchange, queue, key string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbit: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	fail := func(step string, err error) (*Consumer, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", step, err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fail("declare exchange", err)
	}
	qd, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fail("declare queue", err)
	}
	if err := ch.QueueBind(qd.Name, key, exchange, false, nil); err != nil {
		return fail("bind queue", err)
	}
	return &Consumer{conn: conn, ch: ch, q: qd.Name}, nil
}

func (c *Consumer) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Consume runs workers until ctx is done. Failed messages are requeued
// unless handle returns an error wrapping ErrPoison.
func (c *Consumer) Consume(ctx context.Context, workers int, handle func(context.Context, []byte) error) error {
	if c == nil || c.ch == nil {
		return fmt.Errorf("consumer is not initialized")
	}
	if workers <= 0 {
		workers = 1
	}
	if err := c.ch.Qos(workers*4, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	msgs, err := c.ch.Consume(c.q, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	return runWorkers(ctx, workers, msgs, handle)
}

// acker is the subset of amqp.Delivery the workers need.
type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type delivery struct {
	body  []byte
	msgID string
	ack   acker
}

func runWorkers(ctx context.Context, workers int, msgs <-chan amqp.Delivery, handle func(context.Context, []byte) error) error {
	in := make(chan delivery)
	go func() {
		defer close(in)
		for {
			select {
			case d, ok := <-msgs:
				if !ok {
					return
				}
				d := d
				select {
				case in <- delivery{body: d.Body, msgID: d.MessageId, ack: &d}:
				case <-ctx.Done():
					_ = d.Nack(false, true)
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return dispatch(ctx, workers, in, handle)
}

func dispatch(ctx context.Context, workers int, in <-chan delivery, handle func(context.Context, []byte) error) error {
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for d := range in {
				err := handle(ctx, d.body)
				switch {
				case err == nil:
					_ = d.ack.Ack(false)
				case errors.Is(err, ErrPoison):
					log.L().Warn("drop message", zap.String("msg_id", d.msgID), zap.Error(err))
					_ = d.ack.Nack(false, false)
				default:
					log.L().Warn("requeue message", zap.String("msg_id", d.msgID), zap.Error(err))
					_ = d.ack.Nack(false, true)
				}
			}
		}()
	}
	wg.Wait()
	return nil
}
