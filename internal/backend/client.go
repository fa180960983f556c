// Package backend is the HTTP client for the assessment service. It
// speaks the service's REST/JSON contract and wraps transport faults
// in sentinel errors the UI can map to user-facing states.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/danielpatrickdp/govassess/internal/catalog"
)

// #region errors
var (
	// ErrCatalogUnavailable marks a failed catalog fetch; callers fall
	// back to the embedded catalog.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrSubmissionFailed marks a failed submission; the in-progress
	// session is untouched and the submit can be retried.
	ErrSubmissionFailed = errors.New("submission failed")
)
// #endregion errors

// #region client-struct
// Client wraps the HTTP connection to the assessment service.
type Client struct {
	baseURL string
	httpc   *http.Client
}
// #endregion client-struct

// #region constructor
// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a Client with an injected *http.Client.
// Used for testing against httptest servers.
func NewClientWithHTTP(baseURL string, httpc *http.Client) *Client {
	return &Client{baseURL: baseURL, httpc: httpc}
}
// #endregion constructor

// #region dimensions
// Dimensions fetches the dimension catalog from the service.
func (c *Client) Dimensions(ctx context.Context) ([]catalog.Dimension, error) {
	var dims []catalog.Dimension
	if err := c.getJSON(ctx, "/api/dimensions", &dims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return dims, nil
}
// #endregion dimensions

// #region assess
// Assess submits the full assessment and returns the canonical scored
// result. Any transport or HTTP fault surfaces as ErrSubmissionFailed.
func (c *Client) Assess(ctx context.Context, req AssessmentRequest) (*AssessmentResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/assess", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: http %d: %s", ErrSubmissionFailed, resp.StatusCode, snippet)
	}

	var result AssessmentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSubmissionFailed, err)
	}
	return &result, nil
}
// #endregion assess

// #region status
// Status reports whether the service's analysis features are available.
func (c *Client) Status(ctx context.Context) (*ServiceStatus, error) {
	var st ServiceStatus
	if err := c.getJSON(ctx, "/api/chat/status", &st); err != nil {
		return nil, fmt.Errorf("service status: %w", err)
	}
	return &st, nil
}
// #endregion status

// #region benchmarks
// Benchmarks fetches the reference scores for an industry; the service
// answers with its default set for unknown or empty industries.
func (c *Client) Benchmarks(ctx context.Context, industry string) (*BenchmarkResponse, error) {
	path := "/api/benchmarks"
	if industry != "" {
		path += "?industry=" + url.QueryEscape(industry)
	}
	var b BenchmarkResponse
	if err := c.getJSON(ctx, path, &b); err != nil {
		return nil, fmt.Errorf("benchmarks: %w", err)
	}
	return &b, nil
}
// #endregion benchmarks

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
