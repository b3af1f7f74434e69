// Package client is a typed HTTP client for the initiatives API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Itish41/InnovationTracker/lifecycle"
	"github.com/Itish41/InnovationTracker/models"
	"go.uber.org/zap"
)

// FieldError is one entry of a validation error response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int          `json:"-"`
	Code       string       `json:"error"`
	Message    string       `json:"message"`
	Details    []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
	userID  uint
	logger  *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserID sends X-User-ID on every request.
func WithUserID(id uint) Option {
	return func(c *Client) { c.userID = id }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a client for baseURL, e.g. http://localhost:3000/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListOptions filters ListInitiatives. Zero values are omitted.
type ListOptions struct {
	Stage    lifecycle.Stage
	Category models.Category
	OwnerID  uint
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Stage != "" {
		q.Set("stage", string(o.Stage))
	}
	if o.Category != "" {
		q.Set("category", string(o.Category))
	}
	if o.OwnerID != 0 {
		q.Set("owner", strconv.FormatUint(uint64(o.OwnerID), 10))
	}
	return q
}

func (c *Client) ListInitiatives(ctx context.Context, opts ListOptions) ([]models.Initiative, error) {
	path := "/initiatives"
	if q := opts.query(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out struct {
		Initiatives []models.Initiative `json:"initiatives"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Initiatives, nil
}

func (c *Client) GetInitiative(ctx context.Context, id uint) (*models.Initiative, error) {
	var out struct {
		Initiative *models.Initiative `json:"initiative"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/initiatives/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Initiative, nil
}

// Person identifies a submitter when no X-User-ID is configured.
type Person struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	Function   string `json:"function,omitempty"`
}

type CreateInitiativeRequest struct {
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	ProblemStatement    string          `json:"problem_statement"`
	DetailedDescription string          `json:"detailed_description,omitempty"`
	Category            models.Category `json:"category"`
	Priority            models.Priority `json:"priority,omitempty"`
	Submitter           *Person         `json:"submitter,omitempty"`
}

func (c *Client) CreateInitiative(ctx context.Context, req CreateInitiativeRequest) (*models.Initiative, error) {
	var out struct {
		Initiative *models.Initiative `json:"initiative"`
	}
	if err := c.do(ctx, http.MethodPost, "/initiatives", req, &out); err != nil {
		return nil, err
	}
	return out.Initiative, nil
}

type stageUpdate struct {
	CurrentStage      lifecycle.Stage `json:"current_stage"`
	TransitionComment *string         `json:"transition_comment"`
}

// UpdateStage moves an initiative. A nil comment is sent as JSON null.
func (c *Client) UpdateStage(ctx context.Context, id uint, to lifecycle.Stage, comment *string) error {
	path := fmt.Sprintf("/initiatives/%d", id)
	return c.do(ctx, http.MethodPatch, path, stageUpdate{CurrentStage: to, TransitionComment: comment}, nil)
}

func (c *Client) Transitions(ctx context.Context, id uint) ([]models.StageTransition, error) {
	var out struct {
		Transitions []models.StageTransition `json:"transitions"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/initiatives/%d/transitions", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Transitions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != 0 {
		req.Header.Set("X-User-ID", strconv.FormatUint(uint64(c.userID), 10))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if len(data) > 0 {
			_ = json.Unmarshal(data, apiErr)
		}
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
