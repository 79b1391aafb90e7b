package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/models"
	"github.com/supervisormatch/supervisormatch/pkg/repositories"
	"github.com/supervisormatch/supervisormatch/pkg/scoring"
)

// DefaultTopN is how many scored supervisors are kept per submission.
const DefaultTopN = 5

// SubmitRequest is a student's interest form.
type SubmitRequest struct {
	Text        *string            `json:"text,omitempty"`
	Topics      []models.TopicRef  `json:"topics,omitempty"`
	ProjectType models.ProjectType `json:"projectType"`
}

// Validate checks the form before anything is deleted or sent.
// Specific projects need a description, general projects need topics.
func (r *SubmitRequest) Validate() error {
	if !r.ProjectType.IsValid() {
		return fmt.Errorf("%w: unknown project type %q", apperrors.ErrInvalidInput, r.ProjectType)
	}

	switch r.ProjectType {
	case models.ProjectTypeSpecific:
		if r.Text == nil {
			return fmt.Errorf("%w: a specific project needs a description", apperrors.ErrInvalidInput)
		}
		if utf8.RuneCountInString(strings.TrimSpace(*r.Text)) < models.MinInterestTextLength {
			return fmt.Errorf("%w: description must be at least %d characters",
				apperrors.ErrInvalidInput, models.MinInterestTextLength)
		}
	case models.ProjectTypeGeneral:
		if len(r.Topics) == 0 {
			return fmt.Errorf("%w: a general project needs at least one topic", apperrors.ErrInvalidInput)
		}
		for _, t := range r.Topics {
			if t.TopicID <= 0 {
				return fmt.Errorf("%w: invalid topic id %d", apperrors.ErrInvalidInput, t.TopicID)
			}
		}
	}
	return nil
}

// SuggestionRequestService turns a submitted interest form into stored suggestions.
type SuggestionRequestService interface {
	// Submit replaces the student's suggestions with the top scored supervisors.
	// The replacement is not transactional: a failed scoring call leaves the
	// student with no suggestions.
	Submit(ctx context.Context, studentID string, req *SubmitRequest) ([]*models.Suggestion, error)
	// Draft returns the last description the student submitted, "" when none.
	Draft(ctx context.Context, studentID string) (string, error)
}

type suggestionRequestService struct {
	suggestionRepo repositories.SuggestionRepository
	studentRepo    repositories.StudentRepository
	draftRepo      repositories.DraftRepository
	scorer         scoring.Client
	topN           int
	logger         *zap.Logger
}

var _ SuggestionRequestService = (*suggestionRequestService)(nil)

// NewSuggestionRequestService creates the orchestrator. topN <= 0 uses DefaultTopN.
func NewSuggestionRequestService(
	suggestionRepo repositories.SuggestionRepository,
	studentRepo repositories.StudentRepository,
	draftRepo repositories.DraftRepository,
	scorer scoring.Client,
	topN int,
	logger *zap.Logger,
) SuggestionRequestService {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &suggestionRequestService{
		suggestionRepo: suggestionRepo,
		studentRepo:    studentRepo,
		draftRepo:      draftRepo,
		scorer:         scorer,
		topN:           topN,
		logger:         logger.Named("suggestion-request"),
	}
}

func (s *suggestionRequestService) Submit(ctx context.Context, studentID string, req *SubmitRequest) ([]*models.Suggestion, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: missing student id", apperrors.ErrInvalidInput)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", apperrors.ErrInvalidInput)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var text *string
	if req.Text != nil {
		trimmed := strings.TrimSpace(*req.Text)
		if trimmed != "" {
			text = &trimmed
		}
	}

	model, err := s.studentRepo.GetModel(ctx, studentID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.suggestionRepo.DeleteByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if text != nil {
		if err := s.draftRepo.Save(ctx, studentID, *text); err != nil {
			s.logger.Warn("Failed to save draft", zap.String("student_id", studentID), zap.Error(err))
		}
	}

	scored, err := s.scorer.Score(ctx, &scoring.Request{
		Text:        text,
		Topics:      req.Topics,
		ProjectType: req.ProjectType,
		Model:       model,
	})
	if err != nil {
		return nil, err
	}

	top := topScored(scored, s.topN)

	student := &models.Student{
		ID:          studentID,
		Text:        text,
		Topics:      req.Topics,
		ProjectType: req.ProjectType,
	}
	if err := s.studentRepo.Upsert(ctx, student); err != nil {
		return nil, err
	}

	stored := make([]*models.Suggestion, 0, len(top))
	for _, sc := range top {
		suggestion := &models.Suggestion{
			StudentID:    studentID,
			SupervisorID: sc.SupervisorID,
			Similarity:   sc.Similarity,
			TopPaperID:   sc.TopPaperID,
			TopPaper:     sc.TopPaper,
		}
		if err := s.suggestionRepo.Upsert(ctx, suggestion); err != nil {
			return nil, err
		}
		stored = append(stored, suggestion)
	}

	s.logger.Info("Stored suggestions",
		zap.String("student_id", studentID),
		zap.String("project_type", string(req.ProjectType)),
		zap.Int64("replaced", deleted),
		zap.Int("received", len(scored)),
		zap.Int("stored", len(stored)))

	return stored, nil
}

func (s *suggestionRequestService) Draft(ctx context.Context, studentID string) (string, error) {
	if studentID == "" {
		return "", fmt.Errorf("%w: missing student id", apperrors.ErrInvalidInput)
	}
	return s.draftRepo.Get(ctx, studentID)
}

// topScored orders by similarity descending, ties keeping service order, and
// keeps at most n entries.
func topScored(scored []models.ScoredSupervisor, n int) []models.ScoredSupervisor {
	sorted := make([]models.ScoredSupervisor, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity > sorted[j].Similarity
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
