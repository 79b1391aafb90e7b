package repositories

import (
	"context"
	"fmt"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/database"
	"github.com/supervisormatch/supervisormatch/pkg/models"
)

// TopicRepository provides access to topic reference data.
type TopicRepository interface {
	List(ctx context.Context) ([]*models.Topic, error)
	Upsert(ctx context.Context, topic *models.Topic) error
}

type topicRepository struct {
	db database.Querier
}

var _ TopicRepository = (*topicRepository)(nil)

// NewTopicRepository creates a new topic repository.
func NewTopicRepository(db database.Querier) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) List(ctx context.Context) ([]*models.Topic, error) {
	rows, err := r.db.Query(ctx, `SELECT id, label, keywords FROM topic ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list topics: %w", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Label, &t.Keywords); err != nil {
			return nil, fmt.Errorf("%w: failed to scan topic: %w", apperrors.ErrStorage, err)
		}
		topics = append(topics, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating topics: %w", apperrors.ErrStorage, err)
	}

	return topics, nil
}

func (r *topicRepository) Upsert(ctx context.Context, topic *models.Topic) error {
	keywords := topic.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	query := `
		INSERT INTO topic (id, label, keywords)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET label = EXCLUDED.label,
		    keywords = EXCLUDED.keywords`

	if _, err := r.db.Exec(ctx, query, topic.ID, topic.Label, keywords); err != nil {
		return fmt.Errorf("%w: failed to upsert topic %d: %w", apperrors.ErrStorage, topic.ID, err)
	}
	return nil
}
