package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazhibayda/algojourney/internal/queue"
	"github.com/tazhibayda/algojourney/internal/repo"
)

func TestRegister_SendsSixDigitCode(t *testing.T) {
	f := newAuth()
	ctx := context.Background()

	err := f.svc.Register(ctx, RegisterInput{Name: "Ann", Email: " Ann@X.com ", Password: "pw123456"})
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.last()
	assert.Equal(t, "ann@x.com", msg.To)
	assert.Len(t, msg.Code, 6)
	n, err := strconv.Atoi(msg.Code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)

	u, err := f.store.FindUserByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.False(t, u.Verified)
	assert.NotEqual(t, "pw123456", u.PasswordHash)
	require.NotNil(t, u.OTPExpiry)
	assert.Equal(t, f.clock.Now().Add(5*time.Minute), *u.OTPExpiry)
	assert.Equal(t, []string{queue.KeyUserRegistered}, f.pub.keys)
}

func TestRegister_Validation(t *testing.T) {
	f := newAuth()
	cases := []RegisterInput{
		{Name: "", Email: "ann@x.com", Password: "pw123456"},
		{Name: "Ann", Email: "not-an-email", Password: "pw123456"},
		{Name: "Ann", Email: "ann@x.com", Password: "short"},
	}
	for _, in := range cases {
		assert.ErrorIs(t, f.svc.Register(context.Background(), in), ErrInvalidInput, "%+v", in)
	}
	assert.Empty(t, f.mailer.sent)
}

func TestRegister_Conflict(t *testing.T) {
	f := newAuth()
	ctx := context.Background()
	in := RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw123456"}

	require.NoError(t, f.svc.Register(ctx, in))
	assert.ErrorIs(t, f.svc.Register(ctx, in), ErrConflict)

	require.NoError(t, f.svc.VerifyOtp(ctx, in.Email, f.mailer.last().Code))
	f.clock.Advance(time.Hour)
	assert.ErrorIs(t, f.svc.Register(ctx, in), ErrConflict)
}

func TestRegister_ReclaimsExpiredPendingEmail(t *testing.T) {
	f := newAuth()
	ctx := context.Background()
	in := RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw123456"}

	require.NoError(t, f.svc.Register(ctx, in))
	f.clock.Advance(6 * time.Minute)

	in.Name = "Ann Again"
	require.NoError(t, f.svc.Register(ctx, in))
	u, err := f.store.FindUserByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann Again", u.Name)
	assert.Len(t, f.mailer.sent, 2)
	assert.NoError(t, f.svc.VerifyOtp(ctx, in.Email, f.mailer.last().Code))
}

func TestRegister_MailFailureRollsBack(t *testing.T) {
	f := newAuth()
	f.mailer.err = errSMTP
	ctx := context.Background()
	in := RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw123456"}

	assert.ErrorIs(t, f.svc.Register(ctx, in), ErrMail)
	_, err := f.store.FindUserByEmail(ctx, "ann@x.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.Empty(t, f.pub.keys)

	f.mailer.err = nil
	assert.NoError(t, f.svc.Register(ctx, in))
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	f := newAuth()
	in := RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw123456"}

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.Register(context.Background(), in)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, ok)
}

func TestVerifyOtp(t *testing.T) {
	f := newAuth()
	ctx := context.Background()
	require.NoError(t, f.svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw123456"}))
	code := f.mailer.last().Code

	assert.ErrorIs(t, f.svc.VerifyOtp(ctx, "bob@x.com", code), ErrNotFound)
	assert.ErrorIs(t, f.svc.VerifyOtp(ctx, "ann@x.com", wrongCode(code)), ErrBadCode)

	require.NoError(t, f.svc.VerifyOtp(ctx, "ANN@x.com", code))
	u, err := f.store.FindUserByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.True(t, u.Verified)
	assert.Nil(t, u.OTP)
	assert.Nil(t, u.OTPExpiry)

	assert.ErrorIs(t, f.svc.VerifyOtp(ctx, "ann@x.com", code), ErrAlreadyVerified)
	assert.Contains(t, f.pub.keys, queue.KeyUserVerified)
}

func TestVerifyOtp_Expired(t *testing.T) {
	f := newAuth()
	ctx := context.Background()
	require.NoError(t, f.svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw123456"}))
	code := f.mailer.last().Code

	f.clock.Advance(5*time.Minute + time.Second)
	assert.ErrorIs(t, f.svc.VerifyOtp(ctx, "ann@x.com", wrongCode(code)), ErrBadCode)
	assert.ErrorIs(t, f.svc.VerifyOtp(ctx, "ann@x.com", code), ErrExpired)
}

func TestVerifyOtp_ConcurrentSingleWinner(t *testing.T) {
	f := newAuth()
	ctx := context.Background()
	require.NoError(t, f.svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw123456"}))
	code := f.mailer.last().Code

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.VerifyOtp(ctx, "ann@x.com", code)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyVerified)
	}
	assert.Equal(t, 1, ok)
}

func TestResendOtp(t *testing.T) {
	f := newAuth()
	ctx := context.Background()
	require.NoError(t, f.svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw123456"}))

	f.clock.Advance(10 * time.Minute)
	require.NoError(t, f.svc.ResendOtp(ctx, "ann@x.com"))
	require.Len(t, f.mailer.sent, 2)
	require.NoError(t, f.svc.VerifyOtp(ctx, "ann@x.com", f.mailer.last().Code))

	assert.ErrorIs(t, f.svc.ResendOtp(ctx, "ann@x.com"), ErrAlreadyVerified)
	assert.ErrorIs(t, f.svc.ResendOtp(ctx, "bob@x.com"), ErrNotFound)
}

func TestLogin(t *testing.T) {
	f := newAuth()
	ctx := context.Background()
	require.NoError(t, f.svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw123456"}))

	_, err := f.svc.Login(ctx, "ann@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = f.svc.Login(ctx, "ann@x.com", "pw123456")
	assert.ErrorIs(t, err, ErrUnverified)
	_, err = f.svc.Login(ctx, "bob@x.com", "pw123456")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.svc.VerifyOtp(ctx, "ann@x.com", f.mailer.last().Code))
	tok, err := f.svc.Login(ctx, "ann@x.com", "pw123456")
	require.NoError(t, err)

	c, err := f.issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "ann@x.com", c.Email)
	assert.False(t, c.Profile)
	assert.Equal(t, time.Hour, c.ExpiresAt.Sub(c.IssuedAt.Time))
	assert.Contains(t, f.pub.keys, queue.KeyUserLoggedIn)

	_, err = f.svc.Login(ctx, "ann@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestSweepUnverified(t *testing.T) {
	f := newAuth()
	ctx := context.Background()
	f.registerAndVerify("Ann", "ann@x.com", "pw123456")
	require.NoError(t, f.svc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@x.com", Password: "pw123456"}))

	n, err := f.svc.SweepUnverified(ctx, f.clock.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.svc.SweepUnverified(ctx, f.clock.Now().Add(6*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, n, "lapsed accounts are kept for the grace window")

	n, err = f.svc.SweepUnverified(ctx, f.clock.Now().Add(5*time.Minute+DefaultUnverifiedGrace+time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.store.FindUserByEmail(ctx, "bob@x.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = f.store.FindUserByEmail(ctx, "ann@x.com")
	assert.NoError(t, err)
}

func TestSweepUnverified_KeepsLapsedCodeReportable(t *testing.T) {
	f := newAuth()
	ctx := context.Background()
	require.NoError(t, f.svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw123456"}))
	code := f.mailer.last().Code

	f.clock.Advance(5*time.Minute + time.Minute)
	n, err := f.svc.SweepUnverified(ctx, f.clock.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, f.svc.VerifyOtp(ctx, "ann@x.com", code), ErrExpired)
	require.NoError(t, f.svc.ResendOtp(ctx, "ann@x.com"))
	assert.NoError(t, f.svc.VerifyOtp(ctx, "ann@x.com", f.mailer.last().Code))
}

func wrongCode(code string) string {
	if code == "123456" {
		return "654321"
	}
	return "123456"
}
