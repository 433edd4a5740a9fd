package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"go.uber.org/zap"
)

// Question is one entry of InterviewQuestionList.json
type Question struct {
	ID        int    `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Keyword   string `json:"keyword"`
	Frequency int    `json:"frequency"`
	Top       bool   `json:"top"`
}

// Filter narrows List. The zero value matches everything.
type Filter struct {
	Keyword string // exact, case-insensitive match on Question.Keyword
	TopOnly bool
	// Sorted orders top questions first, then by keyword, then by id
	Sorted bool
}

// Repository serves the question file, re-reading it when it changes on disk
type Repository struct {
	path   string
	logger *zap.Logger

	mu        sync.RWMutex
	modTime   time.Time
	size      int64
	questions []Question
}

func NewRepository(path string, logger *zap.Logger) *Repository {
	return &Repository{
		path:   path,
		logger: logger.Named("questions"),
	}
}

// Path returns the backing file
func (r *Repository) Path() string {
	return r.path
}

// List returns the questions matching f. The returned slice is a copy.
func (r *Repository) List(ctx context.Context, f Filter) ([]Question, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var res []Question
	if f.Keyword != "" || f.TopOnly {
		res = slice.FindAll(all, func(q Question) bool {
			if f.TopOnly && !q.Top {
				return false
			}
			return f.Keyword == "" || strings.EqualFold(q.Keyword, f.Keyword)
		})
	} else {
		res = append([]Question(nil), all...)
	}

	if f.Sorted {
		sortByTopAndKeyword(res)
	}
	return res, nil
}

// Keywords returns the distinct keywords in ascending order
func (r *Repository) Keywords(ctx context.Context) ([]string, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(all))
	keywords := slice.FilterMap(all, func(idx int, q Question) (string, bool) {
		if _, ok := seen[q.Keyword]; ok || q.Keyword == "" {
			return "", false
		}
		seen[q.Keyword] = struct{}{}
		return q.Keyword, true
	})
	sort.Strings(keywords)
	return keywords, nil
}

func (r *Repository) load(ctx context.Context) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat question file: %w", err)
	}

	r.mu.RLock()
	if r.questions != nil && info.ModTime().Equal(r.modTime) && info.Size() == r.size {
		qs := r.questions
		r.mu.RUnlock()
		return qs, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// another caller may have reloaded while we waited
	if r.questions != nil && info.ModTime().Equal(r.modTime) && info.Size() == r.size {
		return r.questions, nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question file: %w", err)
	}
	var qs []Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("failed to parse question file %s: %w", r.path, err)
	}
	if qs == nil {
		qs = []Question{}
	}

	r.questions = qs
	r.modTime = info.ModTime()
	r.size = info.Size()
	r.logger.Info("question list loaded",
		zap.String("path", r.path),
		zap.Int("count", len(qs)))
	return qs, nil
}

func sortByTopAndKeyword(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		if qs[i].Top != qs[j].Top {
			return qs[i].Top
		}
		if qs[i].Keyword != qs[j].Keyword {
			return qs[i].Keyword < qs[j].Keyword
		}
		return qs[i].ID < qs[j].ID
	})
}
