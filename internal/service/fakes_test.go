package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tazhibayda/algojourney/internal/codeforces"
	"github.com/tazhibayda/algojourney/internal/mail"
	"github.com/tazhibayda/algojourney/internal/repo"
	"github.com/tazhibayda/algojourney/internal/security"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.OTPMessage
	err  error
}

func (m *captureMailer) SendOTP(ctx context.Context, msg mail.OTPMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) last() mail.OTPMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type recordPub struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordPub) Publish(_ context.Context, _, key string, _ any, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}
func (p *recordPub) Close() error { return nil }

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeCF struct {
	ratings  map[string]int
	problems []codeforces.Problem
	err      error
}

func (f *fakeCF) UserRating(_ context.Context, handle string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	r, ok := f.ratings[handle]
	if !ok {
		return 0, codeforces.ErrHandleNotFound
	}
	return r, nil
}

func (f *fakeCF) Problems(context.Context) ([]codeforces.Problem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.problems, nil
}

var errSMTP = errors.New("smtp: 421 service not available")

const testSecret = "test-secret"

type authFixture struct {
	store  *repo.MemoryStore
	mailer *captureMailer
	pub    *recordPub
	clock  *clock
	issuer *security.Issuer
	svc    *AuthService
}

func newAuth() *authFixture {
	f := &authFixture{
		store:  repo.NewMemoryStore(),
		mailer: &captureMailer{},
		pub:    &recordPub{},
		clock:  &clock{t: time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)},
	}
	f.issuer = security.NewIssuer(testSecret, time.Hour).WithClock(f.clock.Now)
	f.svc = NewAuthService(f.store, f.mailer, f.pub, f.issuer, AuthConfig{
		OTPTTL:      5 * time.Minute,
		MailTimeout: time.Second,
		Exchange:    "test",
		Transport:   "capture",
	}).WithClock(f.clock.Now)
	return f
}

// registerAndVerify returns the uid of a verified user.
func (f *authFixture) registerAndVerify(name, email, password string) string {
	ctx := context.Background()
	if err := f.svc.Register(ctx, RegisterInput{Name: name, Email: email, Password: password}); err != nil {
		panic(err)
	}
	if err := f.svc.VerifyOtp(ctx, email, f.mailer.last().Code); err != nil {
		panic(err)
	}
	u, err := f.store.FindUserByEmail(ctx, email)
	if err != nil {
		panic(err)
	}
	return u.ID.Hex()
}
