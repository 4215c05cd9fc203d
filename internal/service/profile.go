package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tazhibayda/algojourney/internal/codeforces"
	"github.com/tazhibayda/algojourney/internal/domain"
	"github.com/tazhibayda/algojourney/internal/helper"
	"github.com/tazhibayda/algojourney/internal/repo"
	"github.com/tazhibayda/algojourney/internal/security"
)

const (
	MaxTemplateLen    = 5000
	MaxPomodoroMinute = 24 * 60
)

var (
	languageRe = regexp.MustCompile(`^[a-z0-9_+#-]{1,24}$`)
	handleRe   = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,24}$`)
)

// RatingSource resolves a Codeforces handle to its rating.
type RatingSource interface {
	UserRating(ctx context.Context, handle string) (int, error)
}

type ProfileService struct {
	users  UserRepository
	cf     RatingSource
	tokens *security.Issuer
}

func NewProfileService(users UserRepository, cf RatingSource, tokens *security.Issuer) *ProfileService {
	return &ProfileService{users: users, cf: cf, tokens: tokens}
}

// Kanban returns the board of email. Unknown users get an empty board.
func (s *ProfileService) Kanban(ctx context.Context, email string) (domain.Kanban, error) {
	u, err := s.users.FindUserByEmail(ctx, helper.NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return domain.Kanban{}.Normalize(), nil
	}
	if err != nil {
		return domain.Kanban{}, fmt.Errorf("find user: %w", err)
	}
	return u.Kanban.Normalize(), nil
}

// ReplaceKanban overwrites all three lists.
func (s *ProfileService) ReplaceKanban(ctx context.Context, email string, k domain.Kanban) error {
	email = helper.NormalizeEmail(email)
	if email == "" {
		return invalid("email is required")
	}
	err := s.users.ReplaceKanban(ctx, email, k.Normalize())
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("replace kanban: %w", err)
	}
	return nil
}

func (s *ProfileService) Templates(ctx context.Context, uid string) (map[string]string, error) {
	u, err := s.find(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u.Templates == nil {
		return map[string]string{}, nil
	}
	return u.Templates, nil
}

// SaveTemplate replaces the code for one language.
func (s *ProfileService) SaveTemplate(ctx context.Context, uid, language, code string) error {
	language = strings.ToLower(strings.TrimSpace(language))
	if !languageRe.MatchString(language) {
		return invalid("invalid language")
	}
	if utf8.RuneCountInString(code) > MaxTemplateLen {
		return invalid(fmt.Sprintf("template exceeds %d characters", MaxTemplateLen))
	}
	err := s.users.SetTemplate(ctx, uid, language, code)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("set template: %w", err)
	}
	return nil
}

// Pomodoro returns the counters padded to their nominal lengths.
func (s *ProfileService) Pomodoro(ctx context.Context, uid string) (domain.Pomodoro, error) {
	u, err := s.find(ctx, uid)
	if err != nil {
		return domain.Pomodoro{}, err
	}
	return u.Pomodoro.Filled(), nil
}

type PomodoroInput struct {
	Minutes   int
	WeekIndex int
	DayIndex  int
}

// AddPomodoro applies pending rollovers and then adds the minutes to the
// given week and day buckets.
func (s *ProfileService) AddPomodoro(ctx context.Context, uid string, in PomodoroInput, now time.Time) error {
	switch {
	case in.WeekIndex < 0 || in.WeekIndex >= domain.WeeksPerYear:
		return invalid(fmt.Sprintf("weekIndex must be in [0,%d)", domain.WeeksPerYear))
	case in.DayIndex < 0 || in.DayIndex >= domain.DaysPerWeek:
		return invalid(fmt.Sprintf("dayIndex must be in [0,%d)", domain.DaysPerWeek))
	case in.Minutes < 1 || in.Minutes > MaxPomodoroMinute:
		return invalid(fmt.Sprintf("minutes must be in [1,%d]", MaxPomodoroMinute))
	}

	if err := s.users.EnsurePomodoro(ctx, uid); err != nil {
		return notFoundOr(err, "ensure pomodoro")
	}
	u, err := s.find(ctx, uid)
	if err != nil {
		return err
	}
	if last := u.Pomodoro.UpdatedAt; last != nil {
		weekly, daily := Rollover(*last, now)
		if weekly || daily {
			// ok=false means another request already rolled over
			if _, err := s.users.ResetPomodoro(ctx, uid, *last, weekly, daily, now); err != nil {
				return notFoundOr(err, "reset pomodoro")
			}
		}
	}
	if err := s.users.IncPomodoro(ctx, uid, in.WeekIndex, in.DayIndex, in.Minutes, now); err != nil {
		return notFoundOr(err, "inc pomodoro")
	}
	return nil
}

// Rollover reports which counters must be zeroed before recording at now,
// given the last update. Weekly counters reset on a new calendar year; daily
// counters reset when now falls in a later Monday-based week. Both in UTC.
func Rollover(last, now time.Time) (weekly, daily bool) {
	last, now = last.UTC(), now.UTC()
	weekly = now.Year() > last.Year()
	daily = weekStart(now).After(weekStart(last))
	return weekly, daily
}

func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}

// LinkHandle stores a Codeforces handle after checking it exists and returns
// a fresh token carrying it.
func (s *ProfileService) LinkHandle(ctx context.Context, uid, handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if !handleRe.MatchString(handle) {
		return "", invalid("invalid handle")
	}
	if _, err := s.cf.UserRating(ctx, handle); err != nil {
		return "", cfError(err)
	}
	u, err := s.users.SetHandle(ctx, uid, handle)
	if err != nil {
		return "", notFoundOr(err, "set handle")
	}
	token, err := s.tokens.Issue(IdentityOf(u))
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *ProfileService) find(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.users.FindUserByID(ctx, uid)
	if err != nil {
		return nil, notFoundOr(err, "find user")
	}
	return u, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func cfError(err error) error {
	switch {
	case errors.Is(err, codeforces.ErrHandleNotFound):
		return ErrHandleNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
