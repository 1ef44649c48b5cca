package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quiz-backend/internal/model"
)

// QuizRepository handles quiz data access. Questions are stored as a single
// jsonb document in their wire shape.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

const quizColumns = `id, name, description, questions, created_at, updated_at`

// Create inserts a new quiz. The caller assigns q.ID.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (id, name, description, questions)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		q.ID, q.Name, q.Description, questions,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
}

// GetByID retrieves a quiz by its UUID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id)

	q, err := scanQuiz(row)
	if err != nil {
		return nil, notFound(err)
	}
	return q, nil
}

// Update replaces the name, description and questions of an existing quiz.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`UPDATE quizzes
		 SET name = $1, description = $2, questions = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING created_at, updated_at`,
		q.Name, q.Description, questions, q.ID,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	return notFound(err)
}

// Delete removes a quiz. Its completions are left in place.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of quizzes, in creation order, and the total count.
func (r *QuizRepository) List(ctx context.Context, offset, limit int) ([]model.Quiz, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quizzes`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+`
		 FROM quizzes
		 ORDER BY created_at, id
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	quizzes := make([]model.Quiz, 0, limit)
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, total, rows.Err()
}

func scanQuiz(row pgx.Row) (*model.Quiz, error) {
	var (
		q         model.Quiz
		questions []byte
	)
	if err := row.Scan(&q.ID, &q.Name, &q.Description, &questions, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return nil, fmt.Errorf("decode questions of quiz %s: %w", q.ID, err)
	}
	return &q, nil
}
