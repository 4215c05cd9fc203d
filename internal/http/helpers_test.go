package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/algojourney/internal/codeforces"
	api "github.com/tazhibayda/algojourney/internal/http"
	"github.com/tazhibayda/algojourney/internal/log"
	"github.com/tazhibayda/algojourney/internal/mail"
	"github.com/tazhibayda/algojourney/internal/queue"
	"github.com/tazhibayda/algojourney/internal/repo"
	"github.com/tazhibayda/algojourney/internal/security"
	"github.com/tazhibayda/algojourney/internal/service"
)

const testSecret = "test-secret"

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.OTPMessage
	err  error
}

func (m *captureMailer) SendOTP(_ context.Context, msg mail.OTPMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) codeFor(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].To == email {
			return m.sent[i].Code
		}
	}
	return ""
}

func (m *captureMailer) fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	T      *testing.T
	Router *gin.Engine
	Store  *repo.MemoryStore
	Mail   *captureMailer
	Clock  *clock
	Tokens *security.Issuer
}

type envOptions struct {
	rateLimit         int
	kanbanRequireAuth bool
}

func newCodeforces(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user.info", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("handles") == "ann_cf" {
			_, _ = w.Write([]byte(`{"status":"OK","result":[{"handle":"ann_cf","rating":1200}]}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"FAILED","comment":"handles: User with handle not found"}`))
	})
	mux.HandleFunc("/problemset.problems", func(w http.ResponseWriter, r *http.Request) {
		var ps []codeforces.Problem
		for rating := 800; rating <= 1600; rating += 100 {
			for i := 0; i < 4; i++ {
				ps = append(ps, codeforces.Problem{
					ContestID: rating + i, Index: "B", Name: fmt.Sprintf("P%d", rating+i),
					Rating: rating, Tags: []string{"greedy"},
				})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "OK", "result": map[string]any{"problems": ps}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestEnv(t *testing.T, opt envOptions) *testEnv {
	t.Helper()
	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}
	gin.SetMode(gin.TestMode)

	store := repo.NewMemoryStore()
	mailer := &captureMailer{}
	clk := &clock{t: time.Now().UTC().Truncate(time.Second)}
	tokens := security.NewIssuer(testSecret, time.Hour).WithClock(clk.Now)
	cf := codeforces.New(newCodeforces(t).URL, nil, time.Hour)

	auth := service.NewAuthService(store, mailer, queue.NewNoop(), tokens, service.AuthConfig{
		OTPTTL: 5 * time.Minute, MailTimeout: time.Second, Transport: "capture",
	}).WithClock(clk.Now)
	h := api.NewHandler(auth,
		service.NewProfileService(store, cf, tokens),
		service.NewPotdService(cf),
		tokens,
	)
	h.Now = clk.Now
	h.Health["store"] = store

	ro := api.RouterOptions{KanbanRequireAuth: opt.kanbanRequireAuth}
	if opt.rateLimit > 0 {
		ro.Limiter = api.NewRateLimiter(opt.rateLimit, time.Minute)
	}
	return &testEnv{T: t, Router: api.NewRouter(h, ro), Store: store, Mail: mailer, Clock: clk, Tokens: tokens}
}

func (e *testEnv) do(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

// signup registers and verifies a user and returns a session token.
func (e *testEnv) signup(name, email, password string) string {
	e.T.Helper()
	w := e.do("POST", "/register", fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, name, email, password), nil)
	if w.Code != http.StatusCreated {
		e.T.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	w = e.do("POST", "/verify-otp", fmt.Sprintf(`{"email":%q,"otp":%q}`, email, e.Mail.codeFor(strings.ToLower(email))), nil)
	if w.Code != http.StatusOK {
		e.T.Fatalf("verify: %d %s", w.Code, w.Body.String())
	}
	return e.login(email, password)
}

func (e *testEnv) login(email, password string) string {
	e.T.Helper()
	w := e.do("POST", "/login", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), nil)
	if w.Code != http.StatusOK {
		e.T.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var lr struct{ Token string }
	if err := json.Unmarshal(w.Body.Bytes(), &lr); err != nil || lr.Token == "" {
		e.T.Fatalf("login resp parse: %v; body=%s", err, w.Body.String())
	}
	return lr.Token
}

func errorOf(w *httptest.ResponseRecorder) string {
	var body struct{ Error string }
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Error
}
