// Package backend is the REST client for the remote results service that
// durably stores completed assessments for signed-in learners.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrUnauthenticated is returned when the service answers 401. Callers
	// fall back to the local cache.
	ErrUnauthenticated = errors.New("backend: not authenticated")

	// ErrDisabled is returned by New when no base URL is configured.
	ErrDisabled = errors.New("backend: no base URL configured")
)

// StatusError is a non-2xx response other than 401.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

const (
	savePath    = "/users/assessment/save"
	resultsPath = "/users/assessment/results"
	latestPath  = "/users/assessment/latest"

	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Client talks to the results service. Payloads are opaque JSON documents so
// the client does not depend on the result model.
type Client interface {
	// Save stores one completed result.
	Save(ctx context.Context, result json.RawMessage) error

	// Results returns every stored result, newest first.
	Results(ctx context.Context) ([]json.RawMessage, error)

	// Latest returns the most recent result, or nil if there is none.
	Latest(ctx context.Context) (json.RawMessage, error)
}

// Config configures the client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// ConfigFromEnv reads CAREERPATH_BACKEND_URL, CAREERPATH_BACKEND_TOKEN and
// CAREERPATH_BACKEND_TIMEOUT (a Go duration).
func ConfigFromEnv() Config {
	cfg := Config{
		BaseURL: strings.TrimSpace(os.Getenv("CAREERPATH_BACKEND_URL")),
		Token:   strings.TrimSpace(os.Getenv("CAREERPATH_BACKEND_TOKEN")),
		Timeout: defaultTimeout,
	}
	if v := strings.TrimSpace(os.Getenv("CAREERPATH_BACKEND_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

// New builds a Client. It returns ErrDisabled when cfg.BaseURL is empty.
func New(cfg Config, logger *zap.Logger) (Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, ErrDisabled
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return nil, fmt.Errorf("backend: base URL %q must be http or https", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.Named("backend"),
	}, nil
}

type client struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.Logger
}

type resultsResponse struct {
	Results []json.RawMessage `json:"results"`
	Count   int               `json:"count"`
}

type latestResponse struct {
	Result json.RawMessage `json:"result"`
}

func (c *client) Save(ctx context.Context, result json.RawMessage) error {
	return c.do(ctx, http.MethodPost, savePath, result, nil)
}

func (c *client) Results(ctx context.Context) ([]json.RawMessage, error) {
	var out resultsResponse
	if err := c.do(ctx, http.MethodGet, resultsPath, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *client) Latest(ctx context.Context) (json.RawMessage, error) {
	var out latestResponse
	if err := c.do(ctx, http.MethodGet, latestPath, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Result) == 0 || string(out.Result) == "null" {
		return nil, nil
	}
	return out.Result, nil
}

func (c *client) do(ctx context.Context, method, path string, body json.RawMessage, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend %s %s: decode response: %w", method, path, err)
	}
	return nil
}
