package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/database"
	"github.com/supervisormatch/supervisormatch/pkg/models"
)

// SupervisorRepository reads and updates locally stored supervisor rows.
// Supervisors sign in with the email registered in the directory, so lookups are by email.
type SupervisorRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Supervisor, error)
	// SetAvailability returns apperrors.ErrNotFound when no supervisor has the email.
	SetAvailability(ctx context.Context, email string, available bool) error
}

type supervisorRepository struct {
	db database.Querier
}

var _ SupervisorRepository = (*supervisorRepository)(nil)

// NewSupervisorRepository creates a new supervisor repository.
func NewSupervisorRepository(db database.Querier) SupervisorRepository {
	return &supervisorRepository{db: db}
}

func (r *supervisorRepository) GetByEmail(ctx context.Context, email string) (*models.Supervisor, error) {
	query := `
		SELECT uuid, name, email, available
		FROM supervisor
		WHERE lower(email) = lower($1)
		LIMIT 1`

	var s models.Supervisor
	err := r.db.QueryRow(ctx, query, email).Scan(&s.ID, &s.Name, &s.Email, &s.Available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supervisor %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to get supervisor: %w", apperrors.ErrStorage, err)
	}
	return &s, nil
}

func (r *supervisorRepository) SetAvailability(ctx context.Context, email string, available bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE supervisor SET available = $2 WHERE lower(email) = lower($1)`,
		email, available)
	if err != nil {
		return fmt.Errorf("%w: failed to set availability: %w", apperrors.ErrStorage, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("supervisor %s: %w", email, apperrors.ErrNotFound)
	}
	return nil
}
