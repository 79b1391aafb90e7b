package handlers

import (
	"context"
	"io"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/auth"
	"github.com/supervisormatch/supervisormatch/pkg/models"
	"github.com/supervisormatch/supervisormatch/pkg/services"
)

type mockTopicService struct {
	topics []*models.Topic
	err    error
}

func (m *mockTopicService) List(ctx context.Context) ([]*models.Topic, error) {
	return m.topics, m.err
}

func (m *mockTopicService) Seed(ctx context.Context, r io.Reader) (int, error) {
	return 0, nil
}

func (m *mockTopicService) SeedFile(ctx context.Context, path string) (int, error) {
	return 0, nil
}

type mockRequestService struct {
	stored []*models.Suggestion
	err    error
	draft  string

	gotStudentID string
	gotRequest   *services.SubmitRequest
}

func (m *mockRequestService) Submit(ctx context.Context, studentID string, req *services.SubmitRequest) ([]*models.Suggestion, error) {
	m.gotStudentID = studentID
	m.gotRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.stored, nil
}

func (m *mockRequestService) Draft(ctx context.Context, studentID string) (string, error) {
	m.gotStudentID = studentID
	return m.draft, m.err
}

type mockSuggestionService struct {
	resolved   []*models.ResolvedSuggestion
	listErr    error
	contactErr error

	gotStudentID    string
	gotSupervisorID string
}

func (m *mockSuggestionService) List(ctx context.Context, studentID string) ([]*models.ResolvedSuggestion, error) {
	m.gotStudentID = studentID
	return m.resolved, m.listErr
}

func (m *mockSuggestionService) Contact(ctx context.Context, studentID, supervisorID string) error {
	m.gotStudentID = studentID
	m.gotSupervisorID = supervisorID
	return m.contactErr
}

type mockSettingsService struct {
	model        string
	available    bool
	err          error
	gotModel     string
	gotEmail     string
	gotAvailable *bool
}

func (m *mockSettingsService) GetModel(ctx context.Context, studentID string) (string, error) {
	return m.model, m.err
}

func (m *mockSettingsService) SetModel(ctx context.Context, studentID, model string) error {
	m.gotModel = model
	return m.err
}

func (m *mockSettingsService) GetAvailability(ctx context.Context, email string) (bool, error) {
	m.gotEmail = email
	return m.available, m.err
}

func (m *mockSettingsService) SetAvailability(ctx context.Context, email string, available bool) error {
	m.gotEmail = email
	m.gotAvailable = &available
	return m.err
}

// registrar is satisfied by every handler taking the auth middleware.
type registrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware)
}

// newTestMux wires handlers behind the real auth middleware with signature
// verification disabled, so unsigned test tokens are accepted.
func newTestMux(t *testing.T, handlers ...registrar) *http.ServeMux {
	t.Helper()
	jwksClient, err := auth.NewJWKSClient(context.Background(), &auth.JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("failed to create JWKS client: %v", err)
	}
	authMiddleware := auth.NewMiddleware(auth.NewAuthService(jwksClient, "", zap.NewNop()), zap.NewNop())

	mux := http.NewServeMux()
	for _, h := range handlers {
		h.RegisterRoutes(mux, authMiddleware)
	}
	return mux
}
