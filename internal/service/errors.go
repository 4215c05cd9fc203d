package service

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("user not found")
	ErrConflict          = errors.New("email already registered")
	ErrBadCredentials    = errors.New("invalid credentials")
	ErrUnverified        = errors.New("email not verified")
	ErrAlreadyVerified   = errors.New("already verified")
	ErrBadCode           = errors.New("invalid code")
	ErrExpired           = errors.New("code expired")
	ErrMail              = errors.New("could not send verification email")
	ErrHandleNotFound    = errors.New("codeforces handle not found")
	ErrNotEnoughProblems = errors.New("not enough problems in rating range")
	ErrUpstream          = errors.New("codeforces unavailable")
)

func invalid(msg string) error {
	return &inputError{msg: msg}
}

// inputError carries a client-facing reason and matches ErrInvalidInput.
type inputError struct{ msg string }

func (e *inputError) Error() string        { return e.msg }
func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }
