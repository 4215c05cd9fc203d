package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nominal lengths of the pomodoro counter arrays.
const (
	WeeksPerYear = 52
	DaysPerWeek  = 7
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"        json:"id"`
	Name         string             `bson:"name"                 json:"name"`
	Email        string             `bson:"email"                json:"email"`
	PasswordHash string             `bson:"password_hash"        json:"-"`
	Verified     bool               `bson:"verified"             json:"verified"`
	OTP          *string            `bson:"otp,omitempty"        json:"-"`
	OTPExpiry    *time.Time         `bson:"otp_expiry,omitempty" json:"-"`
	CFHandle     string             `bson:"cf_handle"            json:"cfAcc"`
	Kanban       Kanban             `bson:"kanban"               json:"kanban"`
	Templates    map[string]string  `bson:"templates,omitempty"  json:"templates,omitempty"`
	Pomodoro     Pomodoro           `bson:"pomodoro"             json:"pomodoro"`
	CreatedAt    time.Time          `bson:"created_at"           json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"           json:"updated_at"`
}

// Pending reports whether the user still waits for OTP confirmation.
func (u *User) Pending() bool {
	return !u.Verified && u.OTP != nil
}

// OTPExpired reports whether the pending code is past its expiry at now.
func (u *User) OTPExpired(now time.Time) bool {
	return u.OTPExpiry == nil || now.After(*u.OTPExpiry)
}

// Kanban holds the three ordered task lists of a board.
type Kanban struct {
	Pending   []string `bson:"pending"   json:"pending"`
	Progress  []string `bson:"progress"  json:"progress"`
	Completed []string `bson:"completed" json:"completed"`
}

// Normalize replaces nil lists with empty ones so JSON never carries null.
func (k Kanban) Normalize() Kanban {
	if k.Pending == nil {
		k.Pending = []string{}
	}
	if k.Progress == nil {
		k.Progress = []string{}
	}
	if k.Completed == nil {
		k.Completed = []string{}
	}
	return k
}

type Pomodoro struct {
	Weekly    []int      `bson:"weekly,omitempty"     json:"weekly"`
	Daily     []int      `bson:"daily,omitempty"      json:"daily"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Filled returns the counters padded to their nominal lengths.
func (p Pomodoro) Filled() Pomodoro {
	p.Weekly = pad(p.Weekly, WeeksPerYear)
	p.Daily = pad(p.Daily, DaysPerWeek)
	return p
}

func pad(in []int, n int) []int {
	out := make([]int, n)
	copy(out, in)
	return out
}
