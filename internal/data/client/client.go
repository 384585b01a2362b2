package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/penwyp/go-efficia-monitor/internal/core/constants"
	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

var (
	// ErrTransport means the backend could not be reached or the body could not be read.
	ErrTransport = errors.New("backend unreachable")
	// ErrStatus means the backend answered with a non-success status code.
	ErrStatus = errors.New("unexpected status code")
	// ErrMalformedPayload means the body was not a JSON array of objects.
	ErrMalformedPayload = errors.New("malformed payload")
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 32 << 20

// Client talks to the activity backend over HTTP. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. A zero timeout falls back to the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultFetchTimeout
	}
	if baseURL == "" {
		baseURL = constants.DefaultAPIURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchActivity retrieves the raw activity log.
func (c *Client) FetchActivity(ctx context.Context) ([]model.ActivityEvent, error) {
	return getArray(ctx, c, constants.ActivityPath, func(e model.ActivityEvent) bool {
		return e.AppName != ""
	})
}

// FetchDailySummary retrieves the server-side daily totals and maps them
// onto summary records.
func (c *Client) FetchDailySummary(ctx context.Context) ([]model.SummaryRecord, error) {
	items, err := getArray(ctx, c, constants.DailySummaryPath, func(item model.DailySummaryItem) bool {
		return item.AppName != ""
	})
	if err != nil {
		return nil, err
	}

	records := make([]model.SummaryRecord, 0, len(items))
	for _, item := range items {
		records = append(records, item.Record())
	}
	return records, nil
}

// PostActivity submits one event to the backend.
func (c *Client) PostActivity(ctx context.Context, event model.ActivityEvent) error {
	payload, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, constants.ActivityPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	util.LogDebugf("Backend accepted activity: %s", strings.TrimSpace(string(body)))
	return nil
}

// getArray fetches path and decodes it as a JSON array of objects. Any
// element that is not an object, or that valid rejects, fails the whole
// payload.
func getArray[T any](ctx context.Context, c *Client, path string, valid func(T) bool) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %s did not return a JSON array", ErrMalformedPayload, path)
	}

	var raw []json.RawMessage
	if err := sonic.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrMalformedPayload, path, err)
	}

	out := make([]T, 0, len(raw))
	for i, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, fmt.Errorf("%w: %s element %d is not an object", ErrMalformedPayload, path, i)
		}
		var item T
		if err := sonic.Unmarshal(elem, &item); err != nil {
			return nil, fmt.Errorf("%w: decode %s element %d: %v", ErrMalformedPayload, path, i, err)
		}
		if !valid(item) {
			return nil, fmt.Errorf("%w: %s element %d has no app_name", ErrMalformedPayload, path, i)
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload io.Reader) ([]byte, error) {
	requestID := uuid.NewString()
	ctx = util.WithRequestID(ctx, requestID)
	logger := util.Log().WithContext(ctx)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("backend request failed", util.F("method", method), util.F("path", path), util.F("error", err.Error()))
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrTransport, path, err)
	}

	logger.Debug("backend request done",
		util.F("method", method),
		util.F("path", path),
		util.F("status", resp.StatusCode),
		util.F("bytes", len(body)),
		util.F("elapsed", time.Since(start).String()))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrStatus, method, path, resp.StatusCode)
	}
	return body, nil
}
