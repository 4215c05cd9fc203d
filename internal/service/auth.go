package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tazhibayda/algojourney/internal/domain"
	"github.com/tazhibayda/algojourney/internal/helper"
	"github.com/tazhibayda/algojourney/internal/log"
	"github.com/tazhibayda/algojourney/internal/mail"
	"github.com/tazhibayda/algojourney/internal/metrics"
	"github.com/tazhibayda/algojourney/internal/queue"
	"github.com/tazhibayda/algojourney/internal/repo"
	"github.com/tazhibayda/algojourney/internal/security"
)

const MinPasswordLen = 8

// DefaultUnverifiedGrace is how long a lapsed pending account stays around
// so the owner can still be told the code expired and ask for a new one.
const DefaultUnverifiedGrace = 24 * time.Hour

type AuthConfig struct {
	OTPTTL          time.Duration
	MailTimeout     time.Duration
	UnverifiedGrace time.Duration
	Exchange        string
	Transport       string // metrics label only
}

type AuthService struct {
	users  UserRepository
	mailer mail.Mailer
	events queue.Publisher
	tokens *security.Issuer
	cfg    AuthConfig
	now    func() time.Time
}

func NewAuthService(users UserRepository, mailer mail.Mailer, events queue.Publisher, tokens *security.Issuer, cfg AuthConfig) *AuthService {
	if events == nil {
		events = queue.NewNoop()
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = 10 * time.Second
	}
	if cfg.UnverifiedGrace <= 0 {
		cfg.UnverifiedGrace = DefaultUnverifiedGrace
	}
	return &AuthService{users: users, mailer: mailer, events: events, tokens: tokens, cfg: cfg, now: time.Now}
}

// WithClock is for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register reserves the email with a pending account and mails an OTP.
// If the mail cannot be sent the reservation is released.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (err error) {
	defer func() { metrics.Registrations.WithLabelValues(outcome(err)).Inc() }()

	name := strings.TrimSpace(in.Name)
	email := helper.NormalizeEmail(in.Email)
	switch {
	case name == "":
		return invalid("name is required")
	case !helper.ValidEmail(email):
		return invalid("invalid email")
	case len(in.Password) < MinPasswordLen:
		return invalid(fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
	}

	now := s.now().UTC()
	existing, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.Pending() || !existing.OTPExpired(now) {
			return ErrConflict
		}
		// stale reservation: the code lapsed without verification
		released, err := s.users.DeletePendingUser(ctx, email, *existing.OTP)
		if err != nil {
			return fmt.Errorf("release stale user: %w", err)
		}
		if !released {
			return ErrConflict
		}
	case errors.Is(err, repo.ErrNotFound):
	default:
		return fmt.Errorf("find user: %w", err)
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	code, err := security.NewOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	exp := now.Add(s.cfg.OTPTTL)
	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		OTP:          &code,
		OTPExpiry:    &exp,
		Kanban:       domain.Kanban{}.Normalize(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}

	if err := s.sendOTP(ctx, u, code); err != nil {
		// the request may already be cancelled; rollback must still run
		if _, derr := s.users.DeletePendingUser(context.WithoutCancel(ctx), email, code); derr != nil {
			log.Ctx(ctx).Error("rollback pending user", zap.String("email", helper.Hash8(email)), zap.Error(derr))
		}
		return fmt.Errorf("%w: %v", ErrMail, err)
	}

	s.publish(ctx, queue.KeyUserRegistered, queue.UserRegistered{
		UserID: u.ID.Hex(), Email: email, Name: name, At: now,
	})
	log.Ctx(ctx).Info("user registered", zap.String("email", helper.Hash8(email)))
	return nil
}

// VerifyOtp confirms a pending account. Checks run in order: existence,
// already verified, code match, expiry.
func (s *AuthService) VerifyOtp(ctx context.Context, email, code string) (err error) {
	defer func() { metrics.OTPVerifications.WithLabelValues(outcome(err)).Inc() }()

	email = helper.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return invalid("email and otp are required")
	}
	u, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if u.Verified {
		return ErrAlreadyVerified
	}
	if u.OTP == nil || !security.EqualOTP(*u.OTP, code) {
		return ErrBadCode
	}
	if u.OTPExpired(s.now()) {
		return ErrExpired
	}
	ok, err := s.users.MarkVerified(ctx, email, code)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if !ok {
		// a concurrent request verified first
		return ErrAlreadyVerified
	}
	s.publish(ctx, queue.KeyUserVerified, queue.UserVerified{
		UserID: u.ID.Hex(), Email: email, At: s.now().UTC(),
	})
	return nil
}

// ResendOtp issues a fresh code and expiry for a pending account.
func (s *AuthService) ResendOtp(ctx context.Context, email string) error {
	email = helper.NormalizeEmail(email)
	if !helper.ValidEmail(email) {
		return invalid("invalid email")
	}
	u, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if u.Verified {
		return ErrAlreadyVerified
	}
	code, err := security.NewOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	ok, err := s.users.SetOTP(ctx, email, code, s.now().UTC().Add(s.cfg.OTPTTL))
	if err != nil {
		return fmt.Errorf("set otp: %w", err)
	}
	if !ok {
		return ErrAlreadyVerified
	}
	if err := s.sendOTP(ctx, u, code); err != nil {
		return fmt.Errorf("%w: %v", ErrMail, err)
	}
	return nil
}

// Login checks credentials and returns a signed session token.
// Verification is checked only after the password matches.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, err error) {
	defer func() { metrics.Logins.WithLabelValues(outcome(err)).Inc() }()

	email = helper.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", invalid("email and password are required")
	}
	u, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if !security.CheckPassword(u.PasswordHash, password) {
		return "", ErrBadCredentials
	}
	if !u.Verified {
		return "", ErrUnverified
	}
	token, err = s.tokens.Issue(IdentityOf(u))
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	s.publish(ctx, queue.KeyUserLoggedIn, queue.UserLoggedIn{
		UserID: u.ID.Hex(), Email: email, At: s.now().UTC(),
	})
	return token, nil
}

// SweepUnverified removes pending accounts whose code expired before
// now minus the configured grace.
func (s *AuthService) SweepUnverified(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.users.DeleteExpiredUnverified(ctx, now.UTC().Add(-s.cfg.UnverifiedGrace))
	if err != nil {
		return 0, fmt.Errorf("sweep unverified: %w", err)
	}
	if n > 0 {
		metrics.UnverifiedSwept.Add(float64(n))
		log.Ctx(ctx).Info("swept unverified users", zap.Int64("count", n))
	}
	return n, nil
}

// RunSweeper calls SweepUnverified every interval until ctx is done.
func (s *AuthService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.SweepUnverified(ctx, s.now()); err != nil {
				log.L().Warn("sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *AuthService) sendOTP(ctx context.Context, u *domain.User, code string) (err error) {
	defer func() { metrics.MailSent.WithLabelValues(s.cfg.Transport, metrics.Result(err)).Inc() }()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.MailTimeout)
	defer cancel()
	return s.mailer.SendOTP(ctx, mail.OTPMessage{
		To: u.Email, Name: u.Name, Code: code, TTL: s.cfg.OTPTTL,
	})
}

func (s *AuthService) publish(ctx context.Context, key string, event any) {
	if err := s.events.Publish(ctx, s.cfg.Exchange, key, event, log.RequestID(ctx)); err != nil {
		log.Ctx(ctx).Warn("publish event", zap.String("key", key), zap.Error(err))
	}
}

// IdentityOf is the token identity for u.
func IdentityOf(u *domain.User) security.Identity {
	return security.Identity{UID: u.ID.Hex(), Name: u.Name, Email: u.Email, CFAcc: u.CFHandle}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrBadCredentials), errors.Is(err, ErrBadCode):
		return "rejected"
	case errors.Is(err, ErrUnverified):
		return "unverified"
	case errors.Is(err, ErrAlreadyVerified):
		return "already_verified"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrMail):
		return "mail_error"
	}
	return "error"
}
