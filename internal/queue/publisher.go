package queue

import "context"

// Publisher sends JSON events to a topic exchange. reqID travels in the
// X-Request-ID header so consumers can correlate logs.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, event any, reqID string) error
	Close() error
}

// NoopPub drops everything; used when RABBIT_URL is unset.
type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(context.Context, string, string, any, string) error { return nil }

func (NoopPub) Close() error { return nil }
