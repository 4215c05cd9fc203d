package service

import (
	"context"
	"time"

	"github.com/tazhibayda/algojourney/internal/domain"
	"github.com/tazhibayda/algojourney/internal/repo"
)

// UserRepository is the credential store. Conditional operations report
// ok=false when their precondition no longer holds.
type UserRepository interface {
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

var (
	_ UserRepository = (*repo.Store)(nil)
	_ UserRepository = (*repo.MemoryStore)(nil)
)
