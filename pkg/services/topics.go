package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/models"
	"github.com/supervisormatch/supervisormatch/pkg/repositories"
)

// TopicService serves the topic picker and loads topic reference data.
type TopicService interface {
	// List returns all topics sorted by label with labels and keywords prettified.
	List(ctx context.Context) ([]*models.Topic, error)
	// Seed upserts the topics of a YAML document and returns how many were written.
	Seed(ctx context.Context, r io.Reader) (int, error)
	// SeedFile is Seed over the file at path.
	SeedFile(ctx context.Context, path string) (int, error)
}

type topicService struct {
	topicRepo repositories.TopicRepository
	logger    *zap.Logger
}

var _ TopicService = (*topicService)(nil)

// NewTopicService creates a new topic service.
func NewTopicService(topicRepo repositories.TopicRepository, logger *zap.Logger) TopicService {
	return &topicService{
		topicRepo: topicRepo,
		logger:    logger.Named("topics"),
	}
}

func (s *topicService) List(ctx context.Context) ([]*models.Topic, error) {
	stored, err := s.topicRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	topics := make([]*models.Topic, 0, len(stored))
	for _, t := range stored {
		keywords := make([]string, len(t.Keywords))
		for i, k := range t.Keywords {
			keywords[i] = PrettifyLabel(k)
		}
		topics = append(topics, &models.Topic{
			ID:       t.ID,
			Label:    PrettifyLabel(t.Label),
			Keywords: keywords,
		})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return strings.ToLower(topics[i].Label) < strings.ToLower(topics[j].Label)
	})

	return topics, nil
}

// topicFile is the YAML layout accepted by Seed.
//
//	topics:
//	  - id: 1
//	    label: natural language processing
//	    keywords: [nlp, text mining]
type topicFile struct {
	Topics []models.Topic `yaml:"topics"`
}

func (s *topicService) Seed(ctx context.Context, r io.Reader) (int, error) {
	var file topicFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: failed to parse topics: %w", apperrors.ErrInvalidInput, err)
	}

	seen := make(map[int64]bool, len(file.Topics))
	for i, t := range file.Topics {
		if t.ID <= 0 {
			return 0, fmt.Errorf("%w: topic %d has no positive id", apperrors.ErrInvalidInput, i)
		}
		if strings.TrimSpace(t.Label) == "" {
			return 0, fmt.Errorf("%w: topic %d has no label", apperrors.ErrInvalidInput, t.ID)
		}
		if seen[t.ID] {
			return 0, fmt.Errorf("%w: duplicate topic id %d", apperrors.ErrInvalidInput, t.ID)
		}
		seen[t.ID] = true
	}

	for i := range file.Topics {
		t := file.Topics[i]
		t.Label = strings.TrimSpace(t.Label)
		if err := s.topicRepo.Upsert(ctx, &t); err != nil {
			return i, err
		}
	}

	s.logger.Info("Seeded topics", zap.Int("count", len(file.Topics)))
	return len(file.Topics), nil
}

func (s *topicService) SeedFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open topics file: %w", err)
	}
	defer f.Close()

	return s.Seed(ctx, f)
}
