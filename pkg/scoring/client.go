// Package scoring calls the external similarity-scoring service that ranks
// supervisors against a student's interests.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/config"
	"github.com/supervisormatch/supervisormatch/pkg/jsonutil"
	"github.com/supervisormatch/supervisormatch/pkg/logging"
	"github.com/supervisormatch/supervisormatch/pkg/models"
)

// DefaultTimeout is used when the configuration does not set one.
const DefaultTimeout = 60 * time.Second

const maxResponseBytes = 5 << 20

// Request is the body POSTed to the scoring service.
type Request struct {
	Text        *string            `json:"text,omitempty"`
	Topics      []models.TopicRef  `json:"topics,omitempty"`
	ProjectType models.ProjectType `json:"projectType"`
	Model       string             `json:"model,omitempty"`
}

// Client ranks supervisors for a student request.
type Client interface {
	// Score returns the validated entries in the order the service sent them.
	Score(ctx context.Context, req *Request) ([]models.ScoredSupervisor, error)
}

type client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Client = (*client)(nil)

// NewClient creates a scoring client from configuration.
func NewClient(cfg *config.ScoringConfig, logger *zap.Logger) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &client{
		endpoint: cfg.BackendURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("scoring"),
	}
}

// wireEntry mirrors one element of the service's JSON array. Fields are kept
// raw so shape problems surface as validation errors instead of zero values.
type wireEntry struct {
	Supervisor json.RawMessage `json:"supervisor"`
	Similarity *float64        `json:"similarity"`
	TopPaper   json.RawMessage `json:"top_paper"`
}

type wireTopPaper struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Similarity *float64 `json:"similarity"`
}

func (c *client) Score(ctx context.Context, scoreReq *Request) ([]models.ScoredSupervisor, error) {
	payload, err := json.Marshal(scoreReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scoring request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", apperrors.ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Scoring service returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", logging.TruncateString(string(body), logging.MaxBodyLogLength)))
		return nil, fmt.Errorf("%w: scoring service returned status %d", apperrors.ErrRequestFailed, resp.StatusCode)
	}

	results, err := parseResponse(body)
	if err != nil {
		c.logger.Error("Scoring service returned malformed body",
			zap.Error(err),
			zap.String("body", logging.TruncateString(string(body), logging.MaxBodyLogLength)))
		return nil, err
	}

	c.logger.Debug("Scored supervisors",
		zap.String("project_type", string(scoreReq.ProjectType)),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)))

	return results, nil
}

// parseResponse decodes and validates the ranked list. Duplicate supervisors
// keep their first occurrence. A malformed body is a failed scoring request
// as well as an invalid response.
func parseResponse(body []byte) ([]models.ScoredSupervisor, error) {
	var entries []wireEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w: expected a JSON array: %w", apperrors.ErrRequestFailed, apperrors.ErrInvalidResponse, err)
	}

	results := make([]models.ScoredSupervisor, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		scored, err := entry.validate()
		if err != nil {
			return nil, fmt.Errorf("%w: %w: entry %d: %w", apperrors.ErrRequestFailed, apperrors.ErrInvalidResponse, i, err)
		}
		if seen[scored.SupervisorID] {
			continue
		}
		seen[scored.SupervisorID] = true
		results = append(results, scored)
	}
	return results, nil
}

func (e wireEntry) validate() (models.ScoredSupervisor, error) {
	supervisorID := strings.TrimSpace(jsonutil.FlexibleStringValue(e.Supervisor))
	if supervisorID == "" {
		return models.ScoredSupervisor{}, fmt.Errorf("missing supervisor")
	}
	if e.Similarity == nil {
		return models.ScoredSupervisor{}, fmt.Errorf("missing similarity for supervisor %s", supervisorID)
	}
	if math.IsNaN(*e.Similarity) || math.IsInf(*e.Similarity, 0) {
		return models.ScoredSupervisor{}, fmt.Errorf("non-finite similarity for supervisor %s", supervisorID)
	}

	scored := models.ScoredSupervisor{
		SupervisorID: supervisorID,
		Similarity:   *e.Similarity,
	}

	paperID, err := jsonutil.ReferenceID(e.TopPaper)
	if err != nil {
		return models.ScoredSupervisor{}, fmt.Errorf("top_paper: %w", err)
	}
	if paperID != "" {
		scored.TopPaperID = &paperID
	}

	// The service may inline the paper instead of (or as well as) referencing it.
	if trimmed := bytes.TrimSpace(e.TopPaper); len(trimmed) > 0 && trimmed[0] == '{' {
		var paper wireTopPaper
		if err := json.Unmarshal(trimmed, &paper); err != nil {
			return models.ScoredSupervisor{}, fmt.Errorf("top_paper: %w", err)
		}
		if title := strings.TrimSpace(paper.Title); title != "" {
			scored.TopPaper = &models.TopPaper{
				Title:      title,
				URL:        strings.TrimSpace(paper.URL),
				Similarity: paper.Similarity,
			}
		}
	}

	return scored, nil
}
