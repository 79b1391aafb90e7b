// Package pure provides a client for the Pure researcher directory API.
package pure

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/apperrors"
	"github.com/supervisormatch/supervisormatch/pkg/config"
	"github.com/supervisormatch/supervisormatch/pkg/logging"
)

// DefaultTimeout is used when the configuration does not set one.
const DefaultTimeout = 30 * time.Second

// APIKeyHeader carries the Pure API key on every request.
const APIKeyHeader = "api-key"

const (
	defaultImageContentType = "image/jpeg"
	maxImageBytes           = 5 << 20
	maxResponseBytes        = 10 << 20
)

// Client fetches people, organisations and research outputs from Pure.
type Client interface {
	GetPerson(ctx context.Context, id string) (*Person, error)
	GetOrganization(ctx context.Context, id string) (*Organization, error)
	GetResearchOutput(ctx context.Context, id string) (*ResearchOutput, error)
	// FetchImage downloads an image with the API key and returns it as a data URI.
	FetchImage(ctx context.Context, imageURL string) (string, error)
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Client = (*client)(nil)

// NewClient creates a Pure client from configuration.
func NewClient(cfg *config.PureConfig, logger *zap.Logger) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("pure"),
	}
}

// GetPerson fetches a person by UUID.
func (c *client) GetPerson(ctx context.Context, id string) (*Person, error) {
	var person Person
	if err := c.getJSON(ctx, "persons", id, &person); err != nil {
		return nil, err
	}
	if strings.TrimSpace(person.UUID) == "" {
		return nil, fmt.Errorf("%w: person %s has no uuid", apperrors.ErrInvalidResponse, id)
	}
	if person.Name.Full() == "" {
		return nil, fmt.Errorf("%w: person %s has no name", apperrors.ErrInvalidResponse, id)
	}
	return &person, nil
}

// GetOrganization fetches an organisational unit by UUID.
func (c *client) GetOrganization(ctx context.Context, id string) (*Organization, error) {
	var org Organization
	if err := c.getJSON(ctx, "organizations", id, &org); err != nil {
		return nil, err
	}
	if strings.TrimSpace(org.UUID) == "" {
		return nil, fmt.Errorf("%w: organization %s has no uuid", apperrors.ErrInvalidResponse, id)
	}
	if org.DisplayName() == "" {
		return nil, fmt.Errorf("%w: organization %s has no name", apperrors.ErrInvalidResponse, id)
	}
	return &org, nil
}

// GetResearchOutput fetches a research output (paper) by UUID.
func (c *client) GetResearchOutput(ctx context.Context, id string) (*ResearchOutput, error) {
	var output ResearchOutput
	if err := c.getJSON(ctx, "research-outputs", id, &output); err != nil {
		return nil, err
	}
	if strings.TrimSpace(output.UUID) == "" {
		return nil, fmt.Errorf("%w: research output %s has no uuid", apperrors.ErrInvalidResponse, id)
	}
	if strings.TrimSpace(output.Title.Value) == "" {
		return nil, fmt.Errorf("%w: research output %s has no title", apperrors.ErrInvalidResponse, id)
	}
	return &output, nil
}

// FetchImage downloads the image behind imageURL and returns it base64 encoded
// as a data URI, so the browser never needs the API key.
func (c *client) FetchImage(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(APIKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Pure image request failed",
			zap.String("url", imageURL),
			zap.Int("status", resp.StatusCode))
		return "", &apperrors.HTTPError{StatusCode: resp.StatusCode, URL: imageURL}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	return "data:" + imageContentType(resp.Header.Get("Content-Type")) + ";base64," +
		base64.StdEncoding.EncodeToString(data), nil
}

// getJSON performs GET {baseURL}/{resource}/{id} and decodes the body into out.
func (c *client) getJSON(ctx context.Context, resource, id string, out any) error {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "/?#") || id == "." || id == ".." {
		return fmt.Errorf("%w: invalid %s identifier %q", apperrors.ErrInvalidInput, resource, id)
	}

	endpoint, err := buildURL(c.baseURL, resource, id)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching from Pure",
		zap.String("resource", resource),
		zap.String("id", id))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Pure: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Pure returned error",
			zap.String("resource", resource),
			zap.String("id", id),
			zap.Int("status", resp.StatusCode),
			zap.String("body", logging.TruncateString(string(body), logging.MaxBodyLogLength)))
		return &apperrors.HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to parse %s response: %w", apperrors.ErrInvalidResponse, resource, err)
	}
	return nil
}

// imageContentType returns the media type of an image response, or image/jpeg
// when the header is missing or not an image type.
func imageContentType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return defaultImageContentType
	}
	return mediaType
}

// buildURL constructs a URL by parsing the base and joining path segments.
func buildURL(baseURL string, pathSegments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	segments := append([]string{u.Path}, pathSegments...)
	u.Path = path.Join(segments...)

	return u.String(), nil
}
