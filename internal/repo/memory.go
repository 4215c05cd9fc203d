package repo

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/algojourney/internal/domain"
)

// MemoryStore keeps users in process memory. It mirrors the mongo Store's
// conditional-update semantics and backs STORE=memory and the tests.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[primitive.ObjectID]*domain.User
	byEmail map[string]primitive.ObjectID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[primitive.ObjectID]*domain.User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.byID[u.ID] = clone(u)
	m.byEmail[u.Email] = u.ID
	return nil
}

func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmailLocked(email)
	if u == nil {
		return nil, ErrNotFound
	}
	return clone(u), nil
}

func (m *MemoryStore) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byIDLocked(id)
	if u == nil {
		return nil, ErrNotFound
	}
	return clone(u), nil
}

func (m *MemoryStore) DeletePendingUser(_ context.Context, email, otp string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmailLocked(email)
	if u == nil || u.Verified || u.OTP == nil || *u.OTP != otp {
		return false, nil
	}
	m.deleteLocked(u)
	return true, nil
}

func (m *MemoryStore) MarkVerified(_ context.Context, email, otp string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmailLocked(email)
	if u == nil || u.Verified || u.OTP == nil || *u.OTP != otp {
		return false, nil
	}
	u.Verified = true
	u.OTP, u.OTPExpiry = nil, nil
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MemoryStore) SetOTP(_ context.Context, email, otp string, expiry time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmailLocked(email)
	if u == nil || u.Verified {
		return false, nil
	}
	exp := expiry.UTC()
	u.OTP, u.OTPExpiry = &otp, &exp
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MemoryStore) DeleteExpiredUnverified(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.byID {
		if !u.Verified && u.OTPExpiry != nil && u.OTPExpiry.Before(before) {
			m.deleteLocked(u)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) ReplaceKanban(_ context.Context, email string, k domain.Kanban) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmailLocked(email)
	if u == nil {
		return ErrNotFound
	}
	k = k.Normalize()
	u.Kanban = domain.Kanban{
		Pending:   append([]string{}, k.Pending...),
		Progress:  append([]string{}, k.Progress...),
		Completed: append([]string{}, k.Completed...),
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) SetTemplate(_ context.Context, id, language, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byIDLocked(id)
	if u == nil {
		return ErrNotFound
	}
	if u.Templates == nil {
		u.Templates = make(map[string]string)
	}
	u.Templates[language] = code
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) SetHandle(_ context.Context, id, handle string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byIDLocked(id)
	if u == nil {
		return nil, ErrNotFound
	}
	u.CFHandle = handle
	u.UpdatedAt = time.Now().UTC()
	return clone(u), nil
}

func (m *MemoryStore) EnsurePomodoro(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byIDLocked(id)
	if u == nil {
		return ErrNotFound
	}
	if u.Pomodoro.Weekly == nil {
		u.Pomodoro.Weekly = make([]int, domain.WeeksPerYear)
	}
	if u.Pomodoro.Daily == nil {
		u.Pomodoro.Daily = make([]int, domain.DaysPerWeek)
	}
	return nil
}

func (m *MemoryStore) ResetPomodoro(_ context.Context, id string, last time.Time, weekly, daily bool, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byIDLocked(id)
	if u == nil {
		return false, ErrNotFound
	}
	if u.Pomodoro.UpdatedAt == nil || !u.Pomodoro.UpdatedAt.Equal(last) {
		return false, nil
	}
	if weekly {
		u.Pomodoro.Weekly = make([]int, domain.WeeksPerYear)
	}
	if daily {
		u.Pomodoro.Daily = make([]int, domain.DaysPerWeek)
	}
	ts := now.UTC()
	u.Pomodoro.UpdatedAt = &ts
	return true, nil
}

func (m *MemoryStore) IncPomodoro(_ context.Context, id string, week, day, minutes int, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byIDLocked(id)
	if u == nil {
		return ErrNotFound
	}
	u.Pomodoro.Weekly[week] += minutes
	u.Pomodoro.Daily[day] += minutes
	ts := now.UTC()
	if u.Pomodoro.UpdatedAt == nil || ts.After(*u.Pomodoro.UpdatedAt) {
		u.Pomodoro.UpdatedAt = &ts
	}
	u.UpdatedAt = ts
	return nil
}

func (m *MemoryStore) byEmailLocked(email string) *domain.User {
	id, ok := m.byEmail[email]
	if !ok {
		return nil
	}
	return m.byID[id]
}

func (m *MemoryStore) byIDLocked(id string) *domain.User {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	return m.byID[oid]
}

func (m *MemoryStore) deleteLocked(u *domain.User) {
	delete(m.byEmail, u.Email)
	delete(m.byID, u.ID)
}

func clone(u *domain.User) *domain.User {
	cp := *u
	if u.OTP != nil {
		v := *u.OTP
		cp.OTP = &v
	}
	if u.OTPExpiry != nil {
		v := *u.OTPExpiry
		cp.OTPExpiry = &v
	}
	cp.Kanban = domain.Kanban{
		Pending:   append([]string(nil), u.Kanban.Pending...),
		Progress:  append([]string(nil), u.Kanban.Progress...),
		Completed: append([]string(nil), u.Kanban.Completed...),
	}
	if u.Templates != nil {
		cp.Templates = make(map[string]string, len(u.Templates))
		for k, v := range u.Templates {
			cp.Templates[k] = v
		}
	}
	cp.Pomodoro.Weekly = append([]int(nil), u.Pomodoro.Weekly...)
	cp.Pomodoro.Daily = append([]int(nil), u.Pomodoro.Daily...)
	if u.Pomodoro.UpdatedAt != nil {
		v := *u.Pomodoro.UpdatedAt
		cp.Pomodoro.UpdatedAt = &v
	}
	return &cp
}
