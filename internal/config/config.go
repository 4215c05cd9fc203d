package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env             string
	Port            string
	Store           string
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	TokenTTL        time.Duration
	OTPTTL          time.Duration
	RedisAddr       string
	RateLimitPerMin int
	RabbitURL       string
	RabbitExchange  string
	CORSOrigins     []string

	MailTransport string
	MailFrom      string
	MailTimeout   time.Duration
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string

	SweepInterval     time.Duration
	UnverifiedGrace   time.Duration
	KanbanRequireAuth bool

	CodeforcesURL string
	PotdCacheTTL  time.Duration

	DDEnabled bool

	// notifier
	MailQueue   string
	Concurrency int
}

func (c Config) Production() bool { return c.Env == "production" }

func Load() (Config, error) {
	_ = godotenv.Load() // optional .env, real env wins

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("STORE", "mongo")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "algojourney")
	v.SetDefault("JWT", "")
	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("OTP_TTL", "5m")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("RATE_LIMIT_PER_MIN", 5)
	v.SetDefault("RABBIT_URL", "")
	v.SetDefault("RABBIT_EXCHANGE", "algojourney.events")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("MAIL_TRANSPORT", "log")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("MAIL_TIMEOUT", "10s")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("SWEEP_INTERVAL", "1m")
	v.SetDefault("UNVERIFIED_GRACE", "24h")
	v.SetDefault("KANBAN_REQUIRE_AUTH", false)
	v.SetDefault("CODEFORCES_URL", "https://codeforces.com/api")
	v.SetDefault("POTD_CACHE_TTL", "1h")
	v.SetDefault("DD_ENABLED", false)
	v.SetDefault("MAIL_QUEUE", "mail.otp")
	v.SetDefault("RABBIT_CONCURRENCY", 4)

	cfg := Config{
		Env:               v.GetString("APP_ENV"),
		Port:              v.GetString("APP_PORT"),
		Store:             strings.ToLower(v.GetString("STORE")),
		MongoURI:          v.GetString("MONGO_URI"),
		MongoDB:           v.GetString("MONGO_DB"),
		JWTSecret:         v.GetString("JWT"),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		OTPTTL:            v.GetDuration("OTP_TTL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RateLimitPerMin:   v.GetInt("RATE_LIMIT_PER_MIN"),
		RabbitURL:         v.GetString("RABBIT_URL"),
		RabbitExchange:    v.GetString("RABBIT_EXCHANGE"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		MailTransport:     strings.ToLower(v.GetString("MAIL_TRANSPORT")),
		MailFrom:          v.GetString("MAIL_FROM"),
		MailTimeout:       v.GetDuration("MAIL_TIMEOUT"),
		SMTPHost:          v.GetString("SMTP_HOST"),
		SMTPPort:          v.GetInt("SMTP_PORT"),
		SMTPUser:          v.GetString("SMTP_USER"),
		SMTPPass:          v.GetString("SMTP_PASS"),
		SweepInterval:     v.GetDuration("SWEEP_INTERVAL"),
		UnverifiedGrace:   v.GetDuration("UNVERIFIED_GRACE"),
		KanbanRequireAuth: v.GetBool("KANBAN_REQUIRE_AUTH"),
		CodeforcesURL:     strings.TrimRight(v.GetString("CODEFORCES_URL"), "/"),
		PotdCacheTTL:      v.GetDuration("POTD_CACHE_TTL"),
		DDEnabled:         v.GetBool("DD_ENABLED"),
		MailQueue:         v.GetString("MAIL_QUEUE"),
		Concurrency:       v.GetInt("RABBIT_CONCURRENCY"),
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}
	return cfg, nil
}

// Validate checks the settings the API server cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT signing secret is required")
	}
	if c.TokenTTL <= 0 || c.OTPTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL and OTP_TTL must be positive")
	}
	if c.UnverifiedGrace <= 0 {
		return fmt.Errorf("UNVERIFIED_GRACE must be positive")
	}
	switch c.Store {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	switch c.MailTransport {
	case "log":
	case "smtp":
		if c.SMTPUser == "" || c.SMTPPass == "" {
			return fmt.Errorf("SMTP_USER and SMTP_PASS are required for smtp transport")
		}
	case "queue":
		if c.RabbitURL == "" {
			return fmt.Errorf("RABBIT_URL is required for queue transport")
		}
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.MailTransport)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
