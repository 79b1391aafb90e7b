package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/models"
	"github.com/supervisormatch/supervisormatch/pkg/pure"
	"github.com/supervisormatch/supervisormatch/pkg/scoring"
)

// mockSuggestionRepository is an in-memory SuggestionRepository keyed by student.
type mockSuggestionRepository struct {
	mu        sync.Mutex
	rows      map[string][]*models.Suggestion
	deleteErr error
	upsertErr error
	listErr   error

	// calls records method names in order
	calls []string
}

func newMockSuggestionRepository() *mockSuggestionRepository {
	return &mockSuggestionRepository{rows: make(map[string][]*models.Suggestion)}
}

func (m *mockSuggestionRepository) DeleteByStudent(ctx context.Context, studentID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "DeleteByStudent")
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	n := int64(len(m.rows[studentID]))
	delete(m.rows, studentID)
	return n, nil
}

func (m *mockSuggestionRepository) Upsert(ctx context.Context, s *models.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "Upsert")
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for i, existing := range m.rows[s.StudentID] {
		if existing.SupervisorID == s.SupervisorID {
			s.Contacted = existing.Contacted
			m.rows[s.StudentID][i] = s
			return nil
		}
	}
	m.rows[s.StudentID] = append(m.rows[s.StudentID], s)
	return nil
}

func (m *mockSuggestionRepository) SetContacted(ctx context.Context, studentID, supervisorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "SetContacted")
	for _, existing := range m.rows[studentID] {
		if existing.SupervisorID == supervisorID {
			existing.Contacted = true
			return nil
		}
	}
	return fmt.Errorf("suggestion for supervisor %s: %w", supervisorID, apperrors.ErrNotFound)
}

func (m *mockSuggestionRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "ListByStudent")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]*models.Suggestion(nil), m.rows[studentID]...), nil
}

func (m *mockSuggestionRepository) supervisorIDs(studentID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, r := range m.rows[studentID] {
		ids = append(ids, r.SupervisorID)
	}
	return ids
}

// mockStudentRepository captures the last upserted student.
type mockStudentRepository struct {
	model     string
	getErr    error
	upsertErr error
	setErr    error

	capturedStudent *models.Student
	capturedModel   string
}

func (m *mockStudentRepository) Upsert(ctx context.Context, student *models.Student) error {
	m.capturedStudent = student
	return m.upsertErr
}

func (m *mockStudentRepository) GetModel(ctx context.Context, studentID string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	if m.model == "" {
		return models.DefaultModel, nil
	}
	return m.model, nil
}

func (m *mockStudentRepository) SetModel(ctx context.Context, studentID, model string) error {
	m.capturedModel = model
	return m.setErr
}

// mockDraftRepository is an in-memory DraftRepository.
type mockDraftRepository struct {
	drafts  map[string]string
	saveErr error
}

func (m *mockDraftRepository) Save(ctx context.Context, studentID, text string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.drafts == nil {
		m.drafts = make(map[string]string)
	}
	m.drafts[studentID] = text
	return nil
}

func (m *mockDraftRepository) Get(ctx context.Context, studentID string) (string, error) {
	return m.drafts[studentID], nil
}

// mockScorer returns a fixed ranked list and captures the request.
type mockScorer struct {
	results []models.ScoredSupervisor
	err     error

	capturedRequest *scoring.Request
}

func (m *mockScorer) Score(ctx context.Context, req *scoring.Request) ([]models.ScoredSupervisor, error) {
	m.capturedRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockPureClient serves people, organisations and outputs from maps.
// Unknown identifiers answer with a 404 HTTPError.
type mockPureClient struct {
	people  map[string]*pure.Person
	orgs    map[string]*pure.Organization
	outputs map[string]*pure.ResearchOutput
	images  map[string]string

	mu        sync.Mutex
	orgCalls  int
	imageErr  error
	outputErr error
	personErr map[string]error
}

func (m *mockPureClient) GetPerson(ctx context.Context, id string) (*pure.Person, error) {
	if err := m.personErr[id]; err != nil {
		return nil, err
	}
	if p, ok := m.people[id]; ok {
		return p, nil
	}
	return nil, &apperrors.HTTPError{StatusCode: http.StatusNotFound, URL: "/persons/" + id}
}

func (m *mockPureClient) GetOrganization(ctx context.Context, id string) (*pure.Organization, error) {
	m.mu.Lock()
	m.orgCalls++
	m.mu.Unlock()
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, &apperrors.HTTPError{StatusCode: http.StatusNotFound, URL: "/organizations/" + id}
}

func (m *mockPureClient) GetResearchOutput(ctx context.Context, id string) (*pure.ResearchOutput, error) {
	if m.outputErr != nil {
		return nil, m.outputErr
	}
	if o, ok := m.outputs[id]; ok {
		return o, nil
	}
	return nil, &apperrors.HTTPError{StatusCode: http.StatusNotFound, URL: "/research-outputs/" + id}
}

func (m *mockPureClient) FetchImage(ctx context.Context, imageURL string) (string, error) {
	if m.imageErr != nil {
		return "", m.imageErr
	}
	return m.images[imageURL], nil
}

// mockTopicRepository is an in-memory TopicRepository.
type mockTopicRepository struct {
	topics    []*models.Topic
	listErr   error
	upsertErr error

	upserted []*models.Topic
}

func (m *mockTopicRepository) List(ctx context.Context) ([]*models.Topic, error) {
	return m.topics, m.listErr
}

func (m *mockTopicRepository) Upsert(ctx context.Context, topic *models.Topic) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, topic)
	return nil
}

// mockSupervisorRepository holds supervisors by email.
type mockSupervisorRepository struct {
	supervisors map[string]*models.Supervisor
	getErr      error
}

func (m *mockSupervisorRepository) GetByEmail(ctx context.Context, email string) (*models.Supervisor, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s, ok := m.supervisors[email]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("supervisor %s: %w", email, apperrors.ErrNotFound)
}

func (m *mockSupervisorRepository) SetAvailability(ctx context.Context, email string, available bool) error {
	s, ok := m.supervisors[email]
	if !ok {
		return fmt.Errorf("supervisor %s: %w", email, apperrors.ErrNotFound)
	}
	s.Available = available
	return nil
}
