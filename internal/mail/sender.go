package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/tazhibayda/algojourney/internal/helper"
	"github.com/tazhibayda/algojourney/internal/log"
)

// LogSender writes messages to the log instead of sending them.
// Development only: the code ends up in the log output.
type LogSender struct{}

func (LogSender) SendOTP(ctx context.Context, m OTPMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, _, err := Render(m)
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info("[MAIL]",
		zap.String("to", helper.Hash8(m.To)),
		zap.String("subject", subject),
		zap.String("code", m.Code),
	)
	return nil
}
