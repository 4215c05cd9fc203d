package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if e, ok := err.(*APIError); ok {
		return e.Status
	}
	return 0
}

// API is a typed client for the REST surface. Authenticated calls read the
// token from the store; 401 and 403 answers clear it, which ends the
// session through any subscribed SessionManager.
type API struct {
	base  string
	http  *http.Client
	store TokenStore
}

func NewAPI(base string, store TokenStore, hc *http.Client) *API {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &API{base: strings.TrimRight(base, "/"), http: hc, store: store}
}

type Kanban struct {
	Pending   []string `json:"pending"`
	Progress  []string `json:"progress"`
	Completed []string `json:"completed"`
}

type Pomodoro struct {
	Weekly []int `json:"weekly"`
	Daily  []int `json:"daily"`
}

type Problem struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Rating int      `json:"rating"`
	Tags   []string `json:"tags"`
	Link   string   `json:"link"`
}

type Potd struct {
	Handle    string    `json:"handle"`
	Rating    int       `json:"rating"`
	Normal    []Problem `json:"normal"`
	Challenge []Problem `json:"challenge"`
}

type HomeUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	CFAcc   string `json:"cfAcc"`
	Profile bool   `json:"profile"`
}

func (a *API) Register(ctx context.Context, name, email, password string) error {
	return a.do(ctx, http.MethodPost, "/register", false,
		map[string]string{"name": name, "email": email, "password": password}, nil)
}

func (a *API) VerifyOTP(ctx context.Context, email, code string) error {
	return a.do(ctx, http.MethodPost, "/verify-otp", false,
		map[string]string{"email": email, "otp": code}, nil)
}

func (a *API) ResendOTP(ctx context.Context, email string) error {
	return a.do(ctx, http.MethodPost, "/resend-otp", false, map[string]string{"email": email}, nil)
}

// Login stores the returned token.
func (a *API) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := a.do(ctx, http.MethodPost, "/login", false,
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return "", err
	}
	a.store.Set(out.Token)
	return out.Token, nil
}

func (a *API) Logout() { a.store.Clear() }

func (a *API) Home(ctx context.Context) (HomeUser, error) {
	var out struct {
		User HomeUser `json:"user"`
	}
	err := a.do(ctx, http.MethodGet, "/home", true, nil, &out)
	return out.User, err
}

func (a *API) Kanban(ctx context.Context, email string) (Kanban, error) {
	var out Kanban
	err := a.do(ctx, http.MethodGet, "/kanban?"+url.Values{"email": {email}}.Encode(), true, nil, &out)
	return out, err
}

func (a *API) PutKanban(ctx context.Context, email string, k Kanban) error {
	body := struct {
		Email string `json:"email"`
		Kanban
	}{email, k}
	return a.do(ctx, http.MethodPut, "/kanban", true, body, nil)
}

func (a *API) Templates(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	err := a.do(ctx, http.MethodGet, "/template", true, nil, &out)
	return out, err
}

func (a *API) SaveTemplate(ctx context.Context, language, code string) error {
	return a.do(ctx, http.MethodPut, "/template", true,
		map[string]string{"language": language, "code": code}, nil)
}

func (a *API) Pomodoro(ctx context.Context) (Pomodoro, error) {
	var out Pomodoro
	err := a.do(ctx, http.MethodGet, "/pomodoro", true, nil, &out)
	return out, err
}

func (a *API) AddPomodoro(ctx context.Context, minutes, weekIndex, dayIndex int) error {
	return a.do(ctx, http.MethodPut, "/pomodoro", true,
		map[string]int{"minutes": minutes, "weekIndex": weekIndex, "dayIndex": dayIndex}, nil)
}

// LinkHandle stores the refreshed token the server returns.
func (a *API) LinkHandle(ctx context.Context, handle string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := a.do(ctx, http.MethodPut, "/profile/handle", true, map[string]string{"handle": handle}, &out); err != nil {
		return err
	}
	a.store.Set(out.Token)
	return nil
}

// Potd asks for today's problems; an empty handle uses the linked one.
func (a *API) Potd(ctx context.Context, handle string) (Potd, error) {
	path := "/potd"
	if handle != "" {
		path += "?" + url.Values{"handle": {handle}}.Encode()
	}
	var out Potd
	err := a.do(ctx, http.MethodGet, path, true, nil, &out)
	return out, err
}

func (a *API) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if tok, ok := a.store.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			a.store.Clear()
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
