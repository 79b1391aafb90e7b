package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/models"
	"github.com/supervisormatch/supervisormatch/pkg/pure"
	"github.com/supervisormatch/supervisormatch/pkg/repositories"
)

// DefaultMaxConcurrency bounds parallel directory lookups per aggregation.
const DefaultMaxConcurrency = 8

// SuggestionService assembles stored suggestions into renderable profiles.
type SuggestionService interface {
	// List resolves every stored suggestion of the student against the
	// directory, sorted by similarity descending. Any failed lookup fails the
	// whole call; no partial list is returned.
	List(ctx context.Context, studentID string) ([]*models.ResolvedSuggestion, error)
	// Contact marks the supervisor as contacted by the student.
	Contact(ctx context.Context, studentID, supervisorID string) error
}

type suggestionService struct {
	suggestionRepo repositories.SuggestionRepository
	directory      pure.Client
	maxConcurrency int
	logger         *zap.Logger
}

var _ SuggestionService = (*suggestionService)(nil)

// NewSuggestionService creates the aggregator. maxConcurrency <= 0 uses DefaultMaxConcurrency.
func NewSuggestionService(
	suggestionRepo repositories.SuggestionRepository,
	directory pure.Client,
	maxConcurrency int,
	logger *zap.Logger,
) SuggestionService {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &suggestionService{
		suggestionRepo: suggestionRepo,
		directory:      directory,
		maxConcurrency: maxConcurrency,
		logger:         logger.Named("suggestions"),
	}
}

func (s *suggestionService) List(ctx context.Context, studentID string) ([]*models.ResolvedSuggestion, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: missing student id", apperrors.ErrInvalidInput)
	}

	rows, err := s.suggestionRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resolved := make([]*models.ResolvedSuggestion, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, row := range rows {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			r, err := s.resolve(gctx, row)
			if err != nil {
				return fmt.Errorf("failed to resolve supervisor %s: %w", row.SupervisorID, err)
			}
			resolved[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to assemble suggestions",
			zap.String("student_id", studentID),
			zap.Int("rows", len(rows)),
			zap.Error(err))
		return nil, err
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Similarity > resolved[j].Similarity
	})

	return resolved, nil
}

func (s *suggestionService) Contact(ctx context.Context, studentID, supervisorID string) error {
	if studentID == "" {
		return fmt.Errorf("%w: missing student id", apperrors.ErrInvalidInput)
	}
	supervisorID = strings.TrimSpace(supervisorID)
	if supervisorID == "" {
		return fmt.Errorf("%w: missing supervisor id", apperrors.ErrInvalidInput)
	}
	if err := s.suggestionRepo.SetContacted(ctx, studentID, supervisorID); err != nil {
		return err
	}
	s.logger.Info("Student contacted supervisor",
		zap.String("student_id", studentID),
		zap.String("supervisor_id", supervisorID))
	return nil
}

// resolve builds one suggestion: the person first, then organisations, photo
// and top paper concurrently.
func (s *suggestionService) resolve(ctx context.Context, row *models.Suggestion) (*models.ResolvedSuggestion, error) {
	person, err := s.directory.GetPerson(ctx, row.SupervisorID)
	if err != nil {
		return nil, storedReferenceError("supervisor", row.SupervisorID, err)
	}

	var (
		units    []models.OrganisationalUnit
		imageURL string
		topPaper *models.TopPaper
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		units, err = s.organisationalUnits(gctx, person)
		return err
	})

	if photoURL := person.PhotoURL(); photoURL != "" {
		g.Go(func() error {
			var err error
			imageURL, err = s.directory.FetchImage(gctx, photoURL)
			if err != nil {
				return fmt.Errorf("failed to fetch profile photo: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		var err error
		topPaper, err = s.topPaper(gctx, row)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	email := ""
	if emails := person.Emails(); len(emails) > 0 {
		email = emails[0]
	}

	return &models.ResolvedSuggestion{
		SupervisorProfile: models.SupervisorProfile{
			ID:                  person.UUID,
			Name:                person.Name.Full(),
			FirstName:           strings.TrimSpace(person.Name.FirstName),
			Email:               email,
			ImageURL:            imageURL,
			OrganisationalUnits: units,
			Keywords:            NormalizeKeywords(person.FreeKeywords()),
		},
		Similarity: row.Similarity,
		Contacted:  row.Contacted,
		TopPaper:   topPaper,
	}, nil
}

// organisationalUnits fetches every distinct organisation of the person and
// keeps the first unit per name. Units with the same display name but
// different UUIDs collapse into one.
func (s *suggestionService) organisationalUnits(ctx context.Context, person *pure.Person) ([]models.OrganisationalUnit, error) {
	ids := person.OrganizationUUIDs()
	orgs := make([]*pure.Organization, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			org, err := s.directory.GetOrganization(gctx, id)
			if err != nil {
				return fmt.Errorf("failed to fetch organization %s: %w", id, storedReferenceError("organization", id, err))
			}
			orgs[i] = org
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dedupeUnits(orgs), nil
}

// dedupeUnits converts organisations to units in input order, dropping any
// whose name was already seen.
func dedupeUnits(orgs []*pure.Organization) []models.OrganisationalUnit {
	units := make([]models.OrganisationalUnit, 0, len(orgs))
	seen := make(map[string]bool, len(orgs))
	for _, org := range orgs {
		name := org.DisplayName()
		if seen[name] {
			continue
		}
		seen[name] = true
		units = append(units, models.OrganisationalUnit{Name: name, URL: org.PortalURL})
	}
	return units
}

// topPaper prefers the detail stored with the suggestion and otherwise looks
// up the referenced research output.
func (s *suggestionService) topPaper(ctx context.Context, row *models.Suggestion) (*models.TopPaper, error) {
	if row.TopPaper != nil {
		paper := *row.TopPaper
		return &paper, nil
	}
	if row.TopPaperID == nil || *row.TopPaperID == "" {
		return nil, nil
	}

	output, err := s.directory.GetResearchOutput(ctx, *row.TopPaperID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top paper %s: %w", *row.TopPaperID, storedReferenceError("research output", *row.TopPaperID, err))
	}
	return &models.TopPaper{
		Title: strings.TrimSpace(output.Title.Value),
		URL:   output.PortalURL,
	}, nil
}

// storedReferenceError reclassifies a rejected identifier as an invalid
// upstream response. Ids read back from suggestion rows or directory
// payloads are not caller input.
func storedReferenceError(kind, id string, err error) error {
	if errors.Is(err, apperrors.ErrInvalidInput) {
		return fmt.Errorf("%w: stored %s id %q: %w", apperrors.ErrInvalidResponse, kind, id, err)
	}
	return err
}
