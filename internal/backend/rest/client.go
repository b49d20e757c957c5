// Package rest implements the service.Service interface over the task
// backend's JSON REST API.
package rest

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

const (
	// APITimeout is the default timeout for API calls.
	APITimeout = 5 * time.Second

	// RequestIDHeader carries a per-request correlation ID.
	RequestIDHeader = "X-Request-ID"

	userAgent = "taskdeck/" + Version
)

// Version is reported in the User-Agent header.
const Version = "0.1.0"

// Client implements service.Service over HTTP.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a client for the configured API URL.
// When token.json exists, requests carry its bearer token; if
// oauth_client.json exists too, the token refreshes automatically.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if !cfg.HasToken() {
		return newConfigured(cfg, &http.Client{}, opts...)
	}
	token, err := ReadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}
	return NewWithToken(ctx, cfg, token, opts...)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url: %s", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		base:    base,
		http:    httpClient,
		timeout: APITimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTasks returns every task in backend order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var resp []taskResponse
	if err := c.do(ctx, "list tasks", http.MethodGet, "tasks", nil, nil, &resp); err != nil {
		return nil, err
	}

	result := make([]service.Task, 0, len(resp))
	for _, r := range resp {
		result = append(result, r.toTask())
	}
	return result, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, "create task", http.MethodPost, "tasks", nil, newTaskCreateRequest(draft), &resp); err != nil {
		return service.Task{}, err
	}
	return resp.toTask(), nil
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch service.TaskPatch) (service.Task, error) {
	var resp taskResponse
	path := "tasks/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "update task", http.MethodPut, path, nil, newTaskUpdateRequest(patch), &resp); err != nil {
		return service.Task{}, err
	}
	return resp.toTask(), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	path := "tasks/" + strconv.FormatInt(id, 10)
	return c.do(ctx, "delete task", http.MethodDelete, path, nil, nil, nil)
}

// ReorderTask persists a task's position.
// The parameters go both in the body and in the query string; the backend
// reads whichever it declares.
func (c *Client) ReorderTask(ctx context.Context, id int64, newPosition int) error {
	query := url.Values{}
	query.Set("task_id", strconv.FormatInt(id, 10))
	query.Set("new_position", strconv.Itoa(newPosition))
	body := reorderRequest{TaskID: id, NewPosition: newPosition}
	return c.do(ctx, "reorder task", http.MethodPost, "tasks/reorder", query, body, nil)
}

// ListArticles returns a page of articles.
func (c *Client) ListArticles(ctx context.Context, skip, limit int) ([]service.Article, error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))

	var resp []articleResponse
	if err := c.do(ctx, "list articles", http.MethodGet, "articles", query, nil, &resp); err != nil {
		return nil, err
	}

	result := make([]service.Article, 0, len(resp))
	for _, r := range resp {
		result = append(result, r.toArticle())
	}
	return result, nil
}

// GetArticle returns a single article.
func (c *Client) GetArticle(ctx context.Context, id int64) (service.Article, error) {
	var resp articleResponse
	path := "articles/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "get article", http.MethodGet, path, nil, nil, &resp); err != nil {
		return service.Article{}, err
	}
	return resp.toArticle(), nil
}

// CreateArticle creates an article.
func (c *Client) CreateArticle(ctx context.Context, draft service.ArticleDraft) (service.Article, error) {
	var resp articleResponse
	if err := c.do(ctx, "create article", http.MethodPost, "articles", nil, newArticleCreateRequest(draft), &resp); err != nil {
		return service.Article{}, err
	}
	return resp.toArticle(), nil
}

// UpdateArticle applies a partial update to an article.
func (c *Client) UpdateArticle(ctx context.Context, id int64, patch service.ArticlePatch) (service.Article, error) {
	var resp articleResponse
	path := "articles/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "update article", http.MethodPut, path, nil, newArticleUpdateRequest(patch), &resp); err != nil {
		return service.Article{}, err
	}
	return resp.toArticle(), nil
}

// DeleteArticle deletes an article.
func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	path := "articles/" + strconv.FormatInt(id, 10)
	return c.do(ctx, "delete article", http.MethodDelete, path, nil, nil, nil)
}

// do performs one API call bounded by the client timeout. body, when
// non-nil, is sent as JSON; out, when non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With().Str("request_id", requestID).Str("method", method).Str("url", u.String()).Logger()
	log.Debug().Msg("api request")
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("api request failed")
		return wrapError(op, err)
	}
	defer resp.Body.Close()

	log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("api response")

	if err := googleapi.CheckResponse(resp); err != nil {
		return wrapError(op, err)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &service.Error{Kind: service.KindStatus, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// wrapError classifies transport and API errors.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		kind := service.KindStatus
		switch apiErr.Code {
		case http.StatusNotFound:
			kind = service.KindNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = service.KindAuth
		}
		return &service.Error{Kind: kind, Op: op, Status: apiErr.Code, Err: errors.New(errorMessage(apiErr))}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &service.Error{Kind: service.KindTransport, Op: op, Err: errors.New("request timed out")}
	}
	if errors.Is(err, context.Canceled) {
		return &service.Error{Kind: service.KindTransport, Op: op, Err: errors.New("cancelled")}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &service.Error{Kind: service.KindAuth, Op: op, Err: errors.New("token expired or revoked (run: taskdeck login)")}
	}

	return &service.Error{Kind: service.KindTransport, Op: op, Err: err}
}

// errorMessage extracts a readable message from an API error body. The
// backend reports {"detail": "..."}.
func errorMessage(e *googleapi.Error) string {
	if e.Message != "" {
		return e.Message
	}
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err == nil && len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil && s != "" {
			return s
		}
		return string(body.Detail)
	}
	if text := http.StatusText(e.Code); text != "" {
		return strings.ToLower(text)
	}
	return fmt.Sprintf("status %d", e.Code)
}
