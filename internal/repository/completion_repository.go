package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quiz-backend/internal/model"
)

// CompletionRepository handles completion data access. Responses are kept
// verbatim in a jsonb column; nothing derived from grading is stored.
type CompletionRepository struct {
	pool *pgxpool.Pool
}

// NewCompletionRepository creates a new CompletionRepository.
func NewCompletionRepository(pool *pgxpool.Pool) *CompletionRepository {
	return &CompletionRepository{pool: pool}
}

// Create inserts a single completion. Re-inserting the same id is a no-op.
func (r *CompletionRepository) Create(ctx context.Context, c *model.Completion) error {
	responses, err := encodeResponses(c.Responses)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO quiz_completions (id, quiz_id, responses, time_taken, completed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		c.ID, c.QuizID, responses, c.TimeTaken, c.CompletedAt)
	return err
}

// CreateBatch inserts many completions in one statement using UNNEST.
// Rows whose id already exists are skipped, so a replayed batch is harmless.
func (r *CompletionRepository) CreateBatch(ctx context.Context, batch []model.Completion) error {
	if len(batch) == 0 {
		return nil
	}

	n := len(batch)
	ids := make([]uuid.UUID, n)
	quizIDs := make([]uuid.UUID, n)
	responses := make([]string, n)
	timeTaken := make([]int, n)
	completedAt := make([]time.Time, n)

	for i, c := range batch {
		raw, err := encodeResponses(c.Responses)
		if err != nil {
			return err
		}
		ids[i] = c.ID
		quizIDs[i] = c.QuizID
		responses[i] = string(raw)
		timeTaken[i] = c.TimeTaken
		completedAt[i] = c.CompletedAt
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO quiz_completions (id, quiz_id, responses, time_taken, completed_at)
		SELECT u.id, u.quiz_id, u.responses, u.time_taken, u.completed_at
		FROM UNNEST(
			$1::uuid[],
			$2::uuid[],
			$3::jsonb[],
			$4::int[],
			$5::timestamptz[]
		) AS u (id, quiz_id, responses, time_taken, completed_at)
		ON CONFLICT (id) DO NOTHING`,
		ids, quizIDs, responses, timeTaken, completedAt)
	return err
}

// ListByQuiz returns every completion of a quiz in submission order.
func (r *CompletionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Completion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, responses, time_taken, completed_at
		 FROM quiz_completions
		 WHERE quiz_id = $1
		 ORDER BY completed_at, id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := make([]model.Completion, 0)
	for rows.Next() {
		var (
			c         model.Completion
			responses []byte
		)
		if err := rows.Scan(&c.ID, &c.QuizID, &responses, &c.TimeTaken, &c.CompletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(responses, &c.Responses); err != nil {
			return nil, fmt.Errorf("decode responses of completion %s: %w", c.ID, err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// CountByQuiz returns how many completions a quiz has.
func (r *CompletionRepository) CountByQuiz(ctx context.Context, quizID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_completions WHERE quiz_id = $1`, quizID,
	).Scan(&n)
	return n, err
}

// CountByQuizzes returns completion counts keyed by quiz id. Quizzes without
// completions are absent from the map.
func (r *CompletionRepository) CountByQuizzes(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(quizIDs))
	if len(quizIDs) == 0 {
		return counts, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT quiz_id, COUNT(*)
		 FROM quiz_completions
		 WHERE quiz_id = ANY($1)
		 GROUP BY quiz_id`, quizIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id uuid.UUID
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func encodeResponses(responses []model.Response) ([]byte, error) {
	if responses == nil {
		responses = []model.Response{}
	}
	raw, err := json.Marshal(responses)
	if err != nil {
		return nil, fmt.Errorf("encode responses: %w", err)
	}
	return raw, nil
}
