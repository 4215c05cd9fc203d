package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrSend = errors.New("mail dispatch failed")

// OTPMessage is a one-time passcode addressed to a registering user.
type OTPMessage struct {
	To   string        `json:"to"`
	Name string        `json:"name"`
	Code string        `json:"code"`
	TTL  time.Duration `json:"ttl"`
}

// Mailer delivers OTP messages. Implementations must honour ctx.
type Mailer interface {
	SendOTP(ctx context.Context, m OTPMessage) error
}

const otpSubject = "Your Algorithmic Journey verification code"

var otpBody = template.Must(template.New("otp").Parse(
	`Hi {{.Name}},

Your verification code is {{.Code}}.
It expires in {{.Minutes}} minutes.

If you did not sign up for Algorithmic Journey, ignore this email.
`))

// Render returns the subject and plain-text body for m.
func Render(m OTPMessage) (subject, body string, err error) {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		name = "there"
	} else {
		name = cases.Title(language.English).String(name)
	}
	var buf bytes.Buffer
	err = otpBody.Execute(&buf, struct {
		Name, Code string
		Minutes    int
	}{name, m.Code, int(m.TTL.Minutes())})
	if err != nil {
		return "", "", err
	}
	return otpSubject, buf.String(), nil
}
