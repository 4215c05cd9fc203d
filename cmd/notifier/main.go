package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tazhibayda/algojourney/internal/config"
	"github.com/tazhibayda/algojourney/internal/helper"
	"github.com/tazhibayda/algojourney/internal/log"
	"github.com/tazhibayda/algojourney/internal/mail"
	"github.com/tazhibayda/algojourney/internal/queue"
)

// notifier drains queued OTP mails and delivers them over SMTP.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := log.Init(cfg.Production())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.RabbitURL == "" {
		logger.Fatal("RABBIT_URL is required")
	}
	cons, err := queue.NewConsumer(cfg.RabbitURL, cfg.RabbitExchange, cfg.MailQueue, queue.KeyMailOTP)
	if err != nil {
		logger.Fatal("rabbit consumer init failed", zap.Error(err))
	}
	defer cons.Close()

	var sender mail.Mailer = mail.LogSender{}
	if cfg.SMTPUser != "" {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort,
			User: cfg.SMTPUser, Password: cfg.SMTPPass, From: cfg.MailFrom,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("notifier up",
		zap.String("exchange", cfg.RabbitExchange),
		zap.String("queue", cfg.MailQueue),
		zap.Int("workers", cfg.Concurrency),
	)
	err = cons.Consume(ctx, cfg.Concurrency, func(ctx context.Context, body []byte) error {
		var msg mail.OTPMessage
		if err := json.Unmarshal(body, &msg); err != nil || msg.To == "" {
			return fmt.Errorf("%w: undecodable mail job", queue.ErrPoison)
		}
		sctx, cancel := context.WithTimeout(ctx, cfg.MailTimeout)
		defer cancel()
		if err := sender.SendOTP(sctx, msg); err != nil {
			return err
		}
		log.Ctx(ctx).Info("otp mail delivered", zap.String("to", helper.Hash8(msg.To)))
		return nil
	})
	if err != nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
}
