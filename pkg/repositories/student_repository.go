package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/database"
	"github.com/supervisormatch/supervisormatch/pkg/models"
)

// StudentRepository defines the interface for student data access.
type StudentRepository interface {
	// Upsert overwrites the student's latest submission. The chosen model is left untouched.
	Upsert(ctx context.Context, student *models.Student) error
	// GetModel returns the student's embedding model, models.DefaultModel when unset.
	GetModel(ctx context.Context, studentID string) (string, error)
	SetModel(ctx context.Context, studentID, model string) error
}

// studentRepository implements StudentRepository using PostgreSQL.
type studentRepository struct {
	db database.Querier
}

var _ StudentRepository = (*studentRepository)(nil)

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db database.Querier) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Upsert(ctx context.Context, student *models.Student) error {
	topics := student.Topics
	if topics == nil {
		topics = []models.TopicRef{}
	}
	topicsJSON, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("failed to marshal topics: %w", err)
	}

	query := `
		INSERT INTO student (id, text, topics, project_type, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE
		SET text = EXCLUDED.text,
		    topics = EXCLUDED.topics,
		    project_type = EXCLUDED.project_type,
		    updated_at = EXCLUDED.updated_at
		RETURNING model, updated_at`

	err = r.db.QueryRow(ctx, query,
		student.ID,
		student.Text,
		topicsJSON,
		string(student.ProjectType),
	).Scan(&student.Model, &student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert student: %w", apperrors.ErrStorage, err)
	}

	return nil
}

func (r *studentRepository) GetModel(ctx context.Context, studentID string) (string, error) {
	var model string
	err := r.db.QueryRow(ctx, `SELECT model FROM student WHERE id = $1`, studentID).Scan(&model)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DefaultModel, nil
		}
		return "", fmt.Errorf("%w: failed to get model: %w", apperrors.ErrStorage, err)
	}
	if model == "" {
		return models.DefaultModel, nil
	}
	return model, nil
}

func (r *studentRepository) SetModel(ctx context.Context, studentID, model string) error {
	query := `
		INSERT INTO student (id, model)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET model = EXCLUDED.model`

	if _, err := r.db.Exec(ctx, query, studentID, model); err != nil {
		return fmt.Errorf("%w: failed to set model: %w", apperrors.ErrStorage, err)
	}
	return nil
}
