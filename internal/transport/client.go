// Package transport posts events to the MarketIn collection endpoint.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
)

// DefaultEndpoint is the production collection API.
const DefaultEndpoint = "https://api.marketin.now/api/v1"

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets the collection endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client. It is used as given, without
// additional instrumentation.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for dispatch results.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables logging of every request and response.
func WithDebug(debug bool) ClientOption {
	return func(c *Client) {
		c.debug = debug
	}
}

// Client is the HTTP transport for tracking events.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	debug      bool

	wg sync.WaitGroup
}

// NewClient creates a transport. Without WithHTTPClient requests go through
// an otelhttp instrumented client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultEndpoint,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return c
}

// URL returns the address an event kind is posted to.
func (c *Client) URL(kind domain.EventKind) string {
	return endpointURL(c.baseURL, kind)
}

func endpointURL(base string, kind domain.EventKind) string {
	return strings.TrimSuffix(base, "/") + "/" + string(kind) + "/"
}

// Send posts the envelope and returns the decoded response body.
func (c *Client) Send(ctx context.Context, env domain.Envelope) (map[string]any, error) {
	body, err := json.Marshal(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", env.Kind, err)
	}

	url := c.URL(env.Kind)
	if env.Endpoint != "" {
		url = endpointURL(env.Endpoint, env.Kind)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	setHeaders(httpReq, env)

	if c.debug {
		c.logger.Debug("sending event", slog.String("url", url), slog.String("kind", string(env.Kind)))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var result map[string]any
	if len(bytes.TrimSpace(respBody)) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return result, nil
}

// Dispatch sends the envelope on its own goroutine. The result is logged
// and otherwise dropped.
func (c *Client) Dispatch(env domain.Envelope) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		result, err := c.Send(context.Background(), env)
		if err != nil {
			c.logger.Warn("event delivery failed",
				slog.String("kind", string(env.Kind)),
				slog.String("error", err.Error()),
			)
			return
		}
		if c.debug {
			c.logger.Debug("event delivered",
				slog.String("kind", string(env.Kind)),
				slog.Any("response", result),
			)
		}
	}()
}

// Wait blocks until every dispatched event has finished or ctx is done.
func (c *Client) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func setHeaders(req *http.Request, env domain.Envelope) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Content-Type-Options", "nosniff")
	req.Header.Set("X-MarketIn-SDK", domain.SDKVersion)

	if !env.CampaignID.IsEmpty() {
		req.Header.Set("X-CAMPAIGN-ID", env.CampaignID.String())
	}
	if env.BrandID != "" {
		req.Header.Set("X-BRAND-ID", env.BrandID)
	}
	if env.Token != "" {
		req.Header.Set("Authorization", "Bearer "+env.Token)
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collector returned status %d: %s", e.Code, e.Body)
}
