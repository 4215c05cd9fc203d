package codeforces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/ext"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/tazhibayda/algojourney/internal/log"
)

const (
	DefaultRating   = 900
	problemsetKey   = "potd:problemset"
	requestTimeout  = 10 * time.Second
	maxResponseSize = 32 << 20
)

var (
	ErrHandleNotFound = errors.New("handle not found")
	ErrUpstream       = errors.New("codeforces request failed")
)

type Problem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating"`
	Tags      []string `json:"tags"`
}

// Cache stores the serialized problemset. *repo.Redis implements it.
type Cache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

type Client struct {
	base  string
	http  *http.Client
	cache Cache
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	local   []Problem
	localAt time.Time
}

// New returns a client for the API at base. A nil cache keeps the
// problemset in process memory for ttl.
func New(base string, cache Cache, ttl time.Duration) *Client {
	return &Client{
		base:  strings.TrimRight(base, "/"),
		http:  &http.Client{Timeout: requestTimeout},
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

// UserRating returns the current rating of handle; unrated users get
// DefaultRating.
func (c *Client) UserRating(ctx context.Context, handle string) (int, error) {
	var users []struct {
		Handle string `json:"handle"`
		Rating *int   `json:"rating"`
	}
	err := c.call(ctx, "user.info", url.Values{"handles": {handle}}, &users)
	if err != nil {
		return 0, err
	}
	if len(users) == 0 {
		return 0, ErrHandleNotFound
	}
	if users[0].Rating == nil || *users[0].Rating == 0 {
		return DefaultRating, nil
	}
	return *users[0].Rating, nil
}

// Problems returns the full problemset, cached for the configured ttl.
func (c *Client) Problems(ctx context.Context) ([]Problem, error) {
	if ps, ok := c.cached(ctx); ok {
		return ps, nil
	}
	var res struct {
		Problems []Problem `json:"problems"`
	}
	if err := c.call(ctx, "problemset.problems", nil, &res); err != nil {
		return nil, err
	}
	c.store(ctx, res.Problems)
	return res.Problems, nil
}

func (c *Client) cached(ctx context.Context) ([]Problem, bool) {
	if c.cache == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.local != nil && c.now().Sub(c.localAt) < c.ttl {
			return c.local, true
		}
		return nil, false
	}
	b, ok, err := c.cache.GetBytes(ctx, problemsetKey)
	if err != nil {
		log.Ctx(ctx).Warn("problemset cache read", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var ps []Problem
	if err := json.Unmarshal(b, &ps); err != nil {
		return nil, false
	}
	return ps, true
}

func (c *Client) store(ctx context.Context, ps []Problem) {
	if c.cache == nil {
		c.mu.Lock()
		c.local, c.localAt = ps, c.now()
		c.mu.Unlock()
		return
	}
	b, err := json.Marshal(ps)
	if err != nil {
		return
	}
	if err := c.cache.SetBytes(ctx, problemsetKey, b, c.ttl); err != nil {
		log.Ctx(ctx).Warn("problemset cache write", zap.Error(err))
	}
}

func (c *Client) call(ctx context.Context, method string, q url.Values, out any) (err error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "codeforces.request",
		tracer.SpanType(ext.SpanTypeHTTP),
		tracer.ResourceName(method),
	)
	defer func() { sp.Finish(tracer.WithError(err)) }()

	u := c.base + "/" + method
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	sp.SetTag(ext.HTTPCode, resp.StatusCode)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: %s returned %d", ErrUpstream, method, resp.StatusCode)
	}
	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&env); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, method, err)
	}
	if env.Status != "OK" {
		if strings.Contains(env.Comment, "not found") {
			return fmt.Errorf("%w: %s", ErrHandleNotFound, env.Comment)
		}
		return fmt.Errorf("%w: %s: %s", ErrUpstream, method, env.Comment)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: decode %s result: %v", ErrUpstream, method, err)
	}
	return nil
}

// ProblemLink is the public page of a problem.
func ProblemLink(p Problem) string {
	return fmt.Sprintf("https://codeforces.com/problemset/problem/%d/%s", p.ContestID, p.Index)
}
