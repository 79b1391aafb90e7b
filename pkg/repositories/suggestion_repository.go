package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/database"
	"github.com/supervisormatch/supervisormatch/pkg/models"
)

// SuggestionRepository stores the ranked (student, supervisor) pairings.
// Every method is a single round trip; failures wrap apperrors.ErrStorage.
type SuggestionRepository interface {
	// DeleteByStudent removes all suggestions of a student and reports how many were removed.
	DeleteByStudent(ctx context.Context, studentID string) (int64, error)
	// Upsert writes one suggestion; an existing row for the pair is overwritten
	// except for its contacted flag.
	Upsert(ctx context.Context, suggestion *models.Suggestion) error
	// SetContacted marks a suggestion as contacted. Returns apperrors.ErrNotFound
	// when the pair has no row.
	SetContacted(ctx context.Context, studentID, supervisorID string) error
	ListByStudent(ctx context.Context, studentID string) ([]*models.Suggestion, error)
}

// suggestionRepository implements SuggestionRepository using PostgreSQL.
type suggestionRepository struct {
	db database.Querier
}

var _ SuggestionRepository = (*suggestionRepository)(nil)

// NewSuggestionRepository creates a new suggestion repository.
func NewSuggestionRepository(db database.Querier) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *suggestionRepository) DeleteByStudent(ctx context.Context, studentID string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM student_supervisor WHERE student_id = $1`, studentID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to delete suggestions: %w", apperrors.ErrStorage, err)
	}
	return result.RowsAffected(), nil
}

func (r *suggestionRepository) Upsert(ctx context.Context, s *models.Suggestion) error {
	var detail []byte
	if s.TopPaper != nil {
		var err error
		detail, err = json.Marshal(s.TopPaper)
		if err != nil {
			return fmt.Errorf("failed to marshal top paper: %w", err)
		}
	}

	query := `
		INSERT INTO student_supervisor (student_id, supervisor_id, similarity, top_paper, top_paper_detail)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, supervisor_id) DO UPDATE
		SET similarity = EXCLUDED.similarity,
		    top_paper = EXCLUDED.top_paper,
		    top_paper_detail = EXCLUDED.top_paper_detail
		RETURNING contacted, created_at`

	err := r.db.QueryRow(ctx, query,
		s.StudentID,
		s.SupervisorID,
		s.Similarity,
		s.TopPaperID,
		detail,
	).Scan(&s.Contacted, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert suggestion: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (r *suggestionRepository) SetContacted(ctx context.Context, studentID, supervisorID string) error {
	query := `
		UPDATE student_supervisor
		SET contacted = true
		WHERE student_id = $1 AND supervisor_id = $2`

	result, err := r.db.Exec(ctx, query, studentID, supervisorID)
	if err != nil {
		return fmt.Errorf("%w: failed to set contacted: %w", apperrors.ErrStorage, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("suggestion for supervisor %s: %w", supervisorID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *suggestionRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Suggestion, error) {
	query := `
		SELECT student_id, supervisor_id, similarity, contacted, top_paper, top_paper_detail, created_at
		FROM student_supervisor
		WHERE student_id = $1
		ORDER BY similarity DESC, created_at, supervisor_id`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list suggestions: %w", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	var suggestions []*models.Suggestion
	for rows.Next() {
		var s models.Suggestion
		var detail []byte
		err := rows.Scan(
			&s.StudentID,
			&s.SupervisorID,
			&s.Similarity,
			&s.Contacted,
			&s.TopPaperID,
			&detail,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan suggestion: %w", apperrors.ErrStorage, err)
		}
		if len(detail) > 0 {
			var paper models.TopPaper
			if err := json.Unmarshal(detail, &paper); err != nil {
				return nil, fmt.Errorf("%w: failed to decode top paper: %w", apperrors.ErrStorage, err)
			}
			s.TopPaper = &paper
		}
		suggestions = append(suggestions, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating suggestions: %w", apperrors.ErrStorage, err)
	}

	return suggestions, nil
}
