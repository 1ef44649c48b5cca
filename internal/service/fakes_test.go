package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stemsi/quiz-backend/internal/cache"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/repository"
)

var nopLog = zerolog.Nop()

type memQuizStore struct {
	mu      sync.Mutex
	quizzes map[uuid.UUID]model.Quiz
	order   []uuid.UUID
}

func newMemQuizStore() *memQuizStore {
	return &memQuizStore{quizzes: map[uuid.UUID]model.Quiz{}}
}

func (m *memQuizStore) Create(_ context.Context, q *model.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q.Clone()
	m.order = append(m.order, q.ID)
	return nil
}

func (m *memQuizStore) GetByID(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := q.Clone()
	return &c, nil
}

func (m *memQuizStore) Update(_ context.Context, q *model.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[q.ID]; !ok {
		return repository.ErrNotFound
	}
	m.quizzes[q.ID] = q.Clone()
	return nil
}

func (m *memQuizStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.quizzes, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memQuizStore) List(_ context.Context, offset, limit int) ([]model.Quiz, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := len(m.order)
	out := []model.Quiz{}
	for i := offset; i < total && i < offset+limit; i++ {
		out = append(out, m.quizzes[m.order[i]].Clone())
	}
	return out, total, nil
}

type memCompletionStore struct {
	mu          sync.Mutex
	completions []model.Completion
	failCreate  error
}

func (m *memCompletionStore) Create(_ context.Context, c *model.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	m.completions = append(m.completions, *c)
	return nil
}

func (m *memCompletionStore) CreateBatch(_ context.Context, batch []model.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions = append(m.completions, batch...)
	return nil
}

func (m *memCompletionStore) ListByQuiz(_ context.Context, quizID uuid.UUID) ([]model.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Completion
	for _, c := range m.completions {
		if c.QuizID == quizID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func (m *memCompletionStore) CountByQuiz(ctx context.Context, quizID uuid.UUID) (int, error) {
	list, _ := m.ListByQuiz(ctx, quizID)
	return len(list), nil
}

func (m *memCompletionStore) CountByQuizzes(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := map[uuid.UUID]int{}
	for _, id := range ids {
		if n, _ := m.CountByQuiz(ctx, id); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

type memRunnerCache struct {
	mu       sync.Mutex
	payloads map[uuid.UUID]model.RunnerPayload
	gets     int
}

func newMemRunnerCache() *memRunnerCache {
	return &memRunnerCache{payloads: map[uuid.UUID]model.RunnerPayload{}}
}

func (m *memRunnerCache) Set(_ context.Context, p *model.RunnerPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[p.QuizID] = *p
	return nil
}

func (m *memRunnerCache) Get(_ context.Context, id uuid.UUID) (*model.RunnerPayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	p, ok := m.payloads[id]
	if !ok {
		return nil, cache.ErrMiss
	}
	return &p, nil
}

func (m *memRunnerCache) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payloads, id)
	return nil
}

type memDraftStore struct {
	mu     sync.Mutex
	drafts map[uuid.UUID][]byte
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{drafts: map[uuid.UUID][]byte{}}
}

// Drafts go through JSON like the Redis store does.
func (m *memDraftStore) Get(_ context.Context, id uuid.UUID) (*model.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.drafts[id]
	if !ok {
		return nil, cache.ErrMiss
	}
	var d model.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *memDraftStore) Save(_ context.Context, d *model.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[d.ID] = raw
	return nil
}

func (m *memDraftStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[id]; !ok {
		return cache.ErrMiss
	}
	delete(m.drafts, id)
	return nil
}

type memQueue struct {
	mu    sync.Mutex
	items []model.Completion
	err   error
}

func (m *memQueue) Enqueue(_ context.Context, c *model.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, *c)
	return nil
}

type memPublisher struct {
	mu     sync.Mutex
	events map[uuid.UUID]int
}

func (m *memPublisher) Publish(_ context.Context, quizID uuid.UUID, added int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.events == nil {
		m.events = map[uuid.UUID]int{}
	}
	m.events[quizID] += added
	return nil
}

var errQueueDown = errors.New("queue down")
