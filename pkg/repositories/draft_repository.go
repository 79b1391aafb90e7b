package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
)

// DraftTTL bounds how long an unsent interest description is remembered.
const DraftTTL = 30 * 24 * time.Hour

const draftKeyPrefix = "supervisormatch:draft:"

// DraftRepository keeps the last interest text a student submitted so the form
// can be prefilled. Backed by Redis; without a client every call is a no-op.
type DraftRepository interface {
	Save(ctx context.Context, studentID, text string) error
	// Get returns "" when no draft is stored.
	Get(ctx context.Context, studentID string) (string, error)
}

type draftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ DraftRepository = (*draftRepository)(nil)

// NewDraftRepository creates a draft store. client may be nil.
func NewDraftRepository(client *redis.Client) DraftRepository {
	return &draftRepository{client: client, ttl: DraftTTL}
}

func draftKey(studentID string) string {
	return draftKeyPrefix + studentID
}

func (r *draftRepository) Save(ctx context.Context, studentID, text string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, draftKey(studentID), text, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to save draft: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (r *draftRepository) Get(ctx context.Context, studentID string) (string, error) {
	if r.client == nil {
		return "", nil
	}
	text, err := r.client.Get(ctx, draftKey(studentID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("%w: failed to get draft: %w", apperrors.ErrStorage, err)
	}
	return text, nil
}
