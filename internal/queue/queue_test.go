package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazhibayda/algojourney/internal/mail"
)

type sentEvent struct {
	exchange, key, reqID string
	event                any
}

type fakePub struct {
	mu   sync.Mutex
	sent []sentEvent
	err  error
}

func (f *fakePub) Publish(_ context.Context, exchange, key string, event any, reqID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEvent{exchange, key, reqID, event})
	return nil
}
func (f *fakePub) Close() error { return nil }

func TestMailPublisher_PublishesOTP(t *testing.T) {
	pub := &fakePub{}
	mp := NewMailPublisher(pub, "aj", func(context.Context) string { return "req-1" })

	msg := mail.OTPMessage{To: "ann@x.com", Name: "Ann", Code: "123456", TTL: 5 * time.Minute}
	require.NoError(t, mp.SendOTP(context.Background(), msg))

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "aj", pub.sent[0].exchange)
	assert.Equal(t, KeyMailOTP, pub.sent[0].key)
	assert.Equal(t, "req-1", pub.sent[0].reqID)
	assert.Equal(t, msg, pub.sent[0].event)
}

func TestMailPublisher_BrokerFailure(t *testing.T) {
	mp := NewMailPublisher(&fakePub{err: errors.New("channel closed")}, "aj", nil)
	err := mp.SendOTP(context.Background(), mail.OTPMessage{To: "ann@x.com"})
	assert.ErrorIs(t, err, mail.ErrSend)
}

type fakeAck struct {
	mu                  sync.Mutex
	acked, nacked, requ int
}

func (a *fakeAck) Ack(bool) error {
	a.mu.Lock()
	a.acked++
	a.mu.Unlock()
	return nil
}

func (a *fakeAck) Nack(_ bool, requeue bool) error {
	a.mu.Lock()
	a.nacked++
	if requeue {
		a.requ++
	}
	a.mu.Unlock()
	return nil
}

func TestDispatch_AckNackPoison(t *testing.T) {
	ack := &fakeAck{}
	in := make(chan delivery, 3)
	in <- delivery{body: []byte("ok"), ack: ack}
	in <- delivery{body: []byte("retry"), ack: ack}
	in <- delivery{body: []byte("poison"), ack: ack}
	close(in)

	err := dispatch(context.Background(), 2, in, func(_ context.Context, b []byte) error {
		switch string(b) {
		case "retry":
			return errors.New("smtp down")
		case "poison":
			return ErrPoison
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, 2, ack.nacked)
	assert.Equal(t, 1, ack.requ)
}

func TestNoop(t *testing.T) {
	p := NewNoop()
	assert.NoError(t, p.Publish(context.Background(), "x", "y", struct{}{}, ""))
	assert.NoError(t, p.Close())
}
