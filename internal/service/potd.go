package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/tazhibayda/algojourney/internal/codeforces"
)

const PotdSetSize = 9

// ProblemSource is the Codeforces API as seen by the picker.
type ProblemSource interface {
	RatingSource
	Problems(ctx context.Context) ([]codeforces.Problem, error)
}

type PotdItem struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Rating int      `json:"rating"`
	Tags   []string `json:"tags"`
	Link   string   `json:"link"`
}

type Potd struct {
	Handle    string     `json:"handle"`
	Rating    int        `json:"rating"`
	Normal    []PotdItem `json:"normal"`
	Challenge []PotdItem `json:"challenge"`
}

type PotdService struct {
	src ProblemSource

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPotdService(src ProblemSource) *PotdService {
	return &PotdService{src: src, rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// WithRand is for tests.
func (s *PotdService) WithRand(r *rand.Rand) *PotdService {
	s.rnd = r
	return s
}

// Pick draws a normal set around the user's rating and a harder challenge
// set above it.
func (s *PotdService) Pick(ctx context.Context, handle string) (*Potd, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, invalid("handle is required")
	}
	rating, err := s.src.UserRating(ctx, handle)
	if err != nil {
		return nil, cfError(err)
	}
	problems, err := s.src.Problems(ctx)
	if err != nil {
		return nil, cfError(err)
	}
	normal, err := s.sample(problems, rating-100, rating+200)
	if err != nil {
		return nil, err
	}
	challenge, err := s.sample(problems, rating+100, rating+300)
	if err != nil {
		return nil, err
	}
	return &Potd{Handle: handle, Rating: rating, Normal: normal, Challenge: challenge}, nil
}

func (s *PotdService) sample(problems []codeforces.Problem, lo, hi int) ([]PotdItem, error) {
	var pool []codeforces.Problem
	for _, p := range problems {
		if p.ContestID == 0 || p.Index == "" || p.Rating == 0 {
			continue
		}
		if p.Rating >= lo && p.Rating <= hi {
			pool = append(pool, p)
		}
	}
	if len(pool) < PotdSetSize {
		return nil, fmt.Errorf("%w: %d in [%d,%d]", ErrNotEnoughProblems, len(pool), lo, hi)
	}
	s.mu.Lock()
	s.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	s.mu.Unlock()

	out := make([]PotdItem, 0, PotdSetSize)
	for _, p := range pool[:PotdSetSize] {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, PotdItem{
			ID:     fmt.Sprintf("%d-%s", p.ContestID, p.Index),
			Name:   p.Name,
			Rating: p.Rating,
			Tags:   tags,
			Link:   codeforces.ProblemLink(p),
		})
	}
	return out, nil
}
