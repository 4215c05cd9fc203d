package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/tazhibayda/algojourney/docs"
	"github.com/tazhibayda/algojourney/internal/codeforces"
	"github.com/tazhibayda/algojourney/internal/config"
	api "github.com/tazhibayda/algojourney/internal/http"
	"github.com/tazhibayda/algojourney/internal/log"
	"github.com/tazhibayda/algojourney/internal/mail"
	"github.com/tazhibayda/algojourney/internal/queue"
	"github.com/tazhibayda/algojourney/internal/repo"
	"github.com/tazhibayda/algojourney/internal/security"
	"github.com/tazhibayda/algojourney/internal/service"
)

const serviceName = "algojourney-api"

type userStore interface {
	service.UserRepository
	api.Pinger
}

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

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}
	if cfg.DDEnabled {
		tracer.Start(tracer.WithService(serviceName), tracer.WithEnv(cfg.Env))
		defer tracer.Stop()
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	var rds *repo.Redis
	if cfg.RedisAddr != "" {
		rds = repo.NewRedis(cfg.RedisAddr)
		defer rds.Close()
		if err := rds.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, continuing", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
	}

	events := queue.NewNoop()
	if cfg.RabbitURL != "" {
		rp, err := queue.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			events = rp
		case cfg.MailTransport == "queue":
			logger.Fatal("rabbit init failed", zap.Error(err))
		default:
			logger.Warn("rabbit unavailable, events disabled", zap.Error(err))
		}
	}
	defer events.Close()

	tokens := security.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	var cache codeforces.Cache
	if rds != nil {
		cache = rds
	}
	cf := codeforces.New(cfg.CodeforcesURL, cache, cfg.PotdCacheTTL)

	auth := service.NewAuthService(store, newMailer(cfg, events), events, tokens, service.AuthConfig{
		OTPTTL:          cfg.OTPTTL,
		MailTimeout:     cfg.MailTimeout,
		UnverifiedGrace: cfg.UnverifiedGrace,
		Exchange:        cfg.RabbitExchange,
		Transport:       cfg.MailTransport,
	})
	h := api.NewHandler(auth, service.NewProfileService(store, cf, tokens), service.NewPotdService(cf), tokens)
	h.Health["store"] = store

	var limiter api.Limiter = api.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
	if rds != nil {
		h.Health["redis"] = rds
		limiter = api.NewRedisLimiter(rds, cfg.RateLimitPerMin, time.Minute)
	}

	docs.SwaggerInfo.BasePath = "/"
	r := api.NewRouter(h, api.RouterOptions{
		ServiceName:       serviceName,
		Limiter:           limiter,
		KanbanRequireAuth: cfg.KanbanRequireAuth,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.WithCORS(r, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go auth.RunSweeper(ctx, cfg.SweepInterval)

	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()
	logger.Info("listening",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.Store),
		zap.String("mail", cfg.MailTransport),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-srvErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.Config) (userStore, func()) {
	if cfg.Store == "memory" {
		log.L().Warn("using in-memory store; data is lost on restart")
		return repo.NewMemoryStore(), func() {}
	}
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	store, err := repo.NewStore(cctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.L().Fatal("mongo connect", zap.Error(err))
	}
	if err := store.EnsureIndexes(cctx, cfg.UnverifiedGrace); err != nil {
		log.L().Fatal("mongo indexes", zap.Error(err))
	}
	return store, func() { _ = store.Close(context.Background()) }
}

func newMailer(cfg config.Config, events queue.Publisher) mail.Mailer {
	switch cfg.MailTransport {
	case "smtp":
		return mail.NewSMTPSender(mail.SMTPConfig{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort,
			User: cfg.SMTPUser, Password: cfg.SMTPPass, From: cfg.MailFrom,
		})
	case "queue":
		return queue.NewMailPublisher(events, cfg.RabbitExchange, log.RequestID)
	}
	if cfg.Production() {
		log.L().Warn("MAIL_TRANSPORT=log in production: codes are only written to the log")
	}
	return mail.LogSender{}
}
