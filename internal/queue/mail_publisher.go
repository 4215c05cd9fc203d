package queue

import (
	"context"
	"fmt"

	"github.com/tazhibayda/algojourney/internal/mail"
)

// MailPublisher implements mail.Mailer by handing the message to the
// notifier over the broker. A broker ack counts as delivery.
type MailPublisher struct {
	pub      Publisher
	exchange string
	reqID    func(context.Context) string
}

func NewMailPublisher(pub Publisher, exchange string, reqID func(context.Context) string) *MailPublisher {
	if reqID == nil {
		reqID = func(context.Context) string { return "" }
	}
	return &MailPublisher{pub: pub, exchange: exchange, reqID: reqID}
}

func (m *MailPublisher) SendOTP(ctx context.Context, msg mail.OTPMessage) error {
	if err := m.pub.Publish(ctx, m.exchange, KeyMailOTP, msg, m.reqID(ctx)); err != nil {
		return fmt.Errorf("%w: enqueue: %v", mail.ErrSend, err)
	}
	return nil
}
