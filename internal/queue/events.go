package queue

import "time"

// Routing keys on the events exchange.
const (
	KeyUserRegistered = "user.registered"
	KeyUserVerified   = "user.verified"
	KeyUserLoggedIn   = "user.loggedin"
	KeyMailOTP        = "mail.otp"
)

type UserRegistered struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	At     time.Time `json:"at"`
}

type UserVerified struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

type UserLoggedIn struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}
