package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/models"
	"github.com/supervisormatch/supervisormatch/pkg/repositories"
)

// SettingsService backs the settings page: a student's embedding model and a
// supervisor's availability.
type SettingsService interface {
	GetModel(ctx context.Context, studentID string) (string, error)
	SetModel(ctx context.Context, studentID, model string) error
	// GetAvailability reports false for emails that are not a known supervisor.
	GetAvailability(ctx context.Context, email string) (bool, error)
	SetAvailability(ctx context.Context, email string, available bool) error
}

type settingsService struct {
	studentRepo    repositories.StudentRepository
	supervisorRepo repositories.SupervisorRepository
	logger         *zap.Logger
}

var _ SettingsService = (*settingsService)(nil)

// NewSettingsService creates a new settings service.
func NewSettingsService(
	studentRepo repositories.StudentRepository,
	supervisorRepo repositories.SupervisorRepository,
	logger *zap.Logger,
) SettingsService {
	return &settingsService{
		studentRepo:    studentRepo,
		supervisorRepo: supervisorRepo,
		logger:         logger.Named("settings"),
	}
}

func (s *settingsService) GetModel(ctx context.Context, studentID string) (string, error) {
	if studentID == "" {
		return "", fmt.Errorf("%w: missing student id", apperrors.ErrInvalidInput)
	}
	return s.studentRepo.GetModel(ctx, studentID)
}

func (s *settingsService) SetModel(ctx context.Context, studentID, model string) error {
	if studentID == "" {
		return fmt.Errorf("%w: missing student id", apperrors.ErrInvalidInput)
	}
	if !models.IsValidModel(model) {
		return fmt.Errorf("%w: unknown model %q", apperrors.ErrInvalidInput, model)
	}
	if err := s.studentRepo.SetModel(ctx, studentID, model); err != nil {
		return err
	}
	s.logger.Info("Student changed embedding model",
		zap.String("student_id", studentID),
		zap.String("model", model))
	return nil
}

func (s *settingsService) GetAvailability(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, nil
	}
	supervisor, err := s.supervisorRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return supervisor.Available, nil
}

func (s *settingsService) SetAvailability(ctx context.Context, email string, available bool) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: session has no email", apperrors.ErrInvalidInput)
	}
	if err := s.supervisorRepo.SetAvailability(ctx, email, available); err != nil {
		return err
	}
	s.logger.Info("Supervisor changed availability", zap.Bool("available", available))
	return nil
}
