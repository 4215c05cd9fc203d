package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/tazhibayda/algojourney/internal/domain"
)

// userStore is the method set shared by Store and MemoryStore.
type userStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	DeletePendingUser(ctx context.Context, email, otp string) (bool, error)
	MarkVerified(ctx context.Context, email, otp string) (bool, error)
	SetOTP(ctx context.Context, email, otp string, expiry time.Time) (bool, error)
	DeleteExpiredUnverified(ctx context.Context, before time.Time) (int64, error)
	ReplaceKanban(ctx context.Context, email string, k domain.Kanban) error
	SetTemplate(ctx context.Context, id, language, code string) error
	SetHandle(ctx context.Context, id, handle string) (*domain.User, error)
	EnsurePomodoro(ctx context.Context, id string) error
	ResetPomodoro(ctx context.Context, id string, last time.Time, weekly, daily bool, now time.Time) (bool, error)
	IncPomodoro(ctx context.Context, id string, week, day, minutes int, now time.Time) error
}

func pending(email, otp string, exp time.Time) *domain.User {
	return &domain.User{Name: "Ann", Email: email, PasswordHash: "h", OTP: &otp, OTPExpiry: &exp}
}

// exerciseStore checks the behaviour both stores must share.
func exerciseStore(t *testing.T, s userStore) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	u := pending("ann@x.com", "111111", now.Add(5*time.Minute))
	require.NoError(t, s.CreateUser(ctx, u))
	require.False(t, u.ID.IsZero())
	assert.ErrorIs(t, s.CreateUser(ctx, pending("ann@x.com", "222222", now)), ErrDuplicate)

	_, err := s.FindUserByEmail(ctx, "bob@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindUserByID(ctx, "not-hex")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.MarkVerified(ctx, "ann@x.com", "999999")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.SetOTP(ctx, "ann@x.com", "333333", now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.MarkVerified(ctx, "ann@x.com", "333333")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.MarkVerified(ctx, "ann@x.com", "333333")
	require.NoError(t, err)
	assert.False(t, ok, "second verification must lose")

	got, err := s.FindUserByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Nil(t, got.OTP)
	assert.Nil(t, got.OTPExpiry)

	// pending users: release and sweep
	require.NoError(t, s.CreateUser(ctx, pending("bob@x.com", "444444", now.Add(-time.Minute))))
	require.NoError(t, s.CreateUser(ctx, pending("cid@x.com", "555555", now.Add(time.Hour))))
	ok, err = s.DeletePendingUser(ctx, "cid@x.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := s.DeleteExpiredUnverified(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	ok, err = s.DeletePendingUser(ctx, "cid@x.com", "555555")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.DeletePendingUser(ctx, "ann@x.com", "333333")
	require.NoError(t, err)
	assert.False(t, ok, "verified users are never released")

	// profile fields
	id := u.ID.Hex()
	require.NoError(t, s.ReplaceKanban(ctx, "ann@x.com", domain.Kanban{Pending: []string{"b", "a"}}))
	assert.ErrorIs(t, s.ReplaceKanban(ctx, "zed@x.com", domain.Kanban{}), ErrNotFound)
	require.NoError(t, s.SetTemplate(ctx, id, "cpp", "int main(){}"))
	require.NoError(t, s.SetTemplate(ctx, id, "go", "package main"))
	hu, err := s.SetHandle(ctx, id, "tourist")
	require.NoError(t, err)
	assert.Equal(t, "tourist", hu.CFHandle)

	got, err = s.FindUserByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, got.Kanban.Pending)
	assert.Equal(t, map[string]string{"cpp": "int main(){}", "go": "package main"}, got.Templates)

	// pomodoro
	require.NoError(t, s.EnsurePomodoro(ctx, id))
	require.NoError(t, s.IncPomodoro(ctx, id, 3, 1, 25, now))
	require.NoError(t, s.EnsurePomodoro(ctx, id))
	require.NoError(t, s.IncPomodoro(ctx, id, 3, 1, 5, now))
	got, err = s.FindUserByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Pomodoro.Weekly, domain.WeeksPerYear)
	assert.Equal(t, 30, got.Pomodoro.Weekly[3])
	assert.Equal(t, 30, got.Pomodoro.Daily[1])

	last := *got.Pomodoro.UpdatedAt
	later := now.Add(7 * 24 * time.Hour)
	ok, err = s.ResetPomodoro(ctx, id, last, false, true, later)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.ResetPomodoro(ctx, id, last, false, true, later)
	require.NoError(t, err)
	assert.False(t, ok, "reset is applied once per observed timestamp")
	got, err = s.FindUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Pomodoro.Weekly[3])
	assert.Equal(t, 0, got.Pomodoro.Daily[1])

	// a late increment stamped before the reset keeps the newer timestamp
	require.NoError(t, s.IncPomodoro(ctx, id, 3, 1, 10, later.Add(-time.Minute)))
	got, err = s.FindUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Pomodoro.Daily[1])
	require.NotNil(t, got.Pomodoro.UpdatedAt)
	assert.True(t, got.Pomodoro.UpdatedAt.Equal(later), "updated_at moved back to %v", got.Pomodoro.UpdatedAt)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMongoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()
	mc, err := mongodb.RunContainer(ctx, testcontainers.WithImage("mongo:6"))
	if err != nil {
		t.Fatalf("mongo container: %v", err)
	}
	t.Cleanup(func() { _ = mc.Terminate(ctx) })
	uri, err := mc.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := NewStore(ctx, uri, "algojourney_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })
	require.NoError(t, store.EnsureIndexes(ctx, time.Hour)) // keep the TTL monitor out of the sweep assertions

	exerciseStore(t, store)
}
