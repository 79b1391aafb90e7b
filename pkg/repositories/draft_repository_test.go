package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftRepository_NilClientIsNoop(t *testing.T) {
	repo := NewDraftRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "user_1", "distributed systems"))

	text, err := repo.Get(ctx, "user_1")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "supervisormatch:draft:user_1", draftKey("user_1"))
}
