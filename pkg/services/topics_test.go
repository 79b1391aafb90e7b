package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/models"
)

func TestTopicService_ListSortsAndPrettifies(t *testing.T) {
	repo := &mockTopicRepository{topics: []*models.Topic{
		{ID: 1, Label: "robotics", Keywords: []string{"motion planning"}},
		{ID: 2, Label: "applied ml", Keywords: []string{"llm", "deep learning"}},
		{ID: 3, Label: "Human computer interaction"},
	}}
	service := NewTopicService(repo, zap.NewNop())

	topics, err := service.List(context.Background())
	require.NoError(t, err)

	require.Len(t, topics, 3)
	assert.Equal(t, "Applied ML", topics[0].Label)
	assert.Equal(t, []string{"LLM", "Deep Learning"}, topics[0].Keywords)
	assert.Equal(t, "Human Computer Interaction", topics[1].Label)
	assert.Equal(t, "Robotics", topics[2].Label)
	assert.Equal(t, "robotics", repo.topics[0].Label, "stored topics are not mutated")
}

func TestTopicService_Seed(t *testing.T) {
	repo := &mockTopicRepository{}
	service := NewTopicService(repo, zap.NewNop())

	doc := `
topics:
  - id: 1
    label: " natural language processing "
    keywords: [nlp, text mining]
  - id: 2
    label: robotics
`
	n, err := service.Seed(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, repo.upserted, 2)
	assert.Equal(t, "natural language processing", repo.upserted[0].Label)
	assert.Equal(t, []string{"nlp", "text mining"}, repo.upserted[0].Keywords)
	assert.Equal(t, int64(2), repo.upserted[1].ID)
}

func TestTopicService_SeedRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing id", doc: "topics:\n  - label: x\n"},
		{name: "missing label", doc: "topics:\n  - id: 1\n"},
		{name: "duplicate id", doc: "topics:\n  - id: 1\n    label: a\n  - id: 1\n    label: b\n"},
		{name: "not yaml", doc: "topics: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTopicRepository{}
			service := NewTopicService(repo, zap.NewNop())

			_, err := service.Seed(context.Background(), strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Empty(t, repo.upserted, "nothing is written when validation fails")
		})
	}
}

func TestTopicService_SeedEmptyDocument(t *testing.T) {
	service := NewTopicService(&mockTopicRepository{}, zap.NewNop())

	n, err := service.Seed(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTopicService_SeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("topics:\n  - id: 9\n    label: security\n"), 0644))

	repo := &mockTopicRepository{}
	service := NewTopicService(repo, zap.NewNop())

	n, err := service.SeedFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = service.SeedFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
