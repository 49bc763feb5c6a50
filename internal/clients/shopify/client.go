// Package shopify implements the commerce-platform client used to locate
// orders and customers through the Shopify Admin REST API.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	shopifydomain "github.com/maxari-shop/service-returns/internal/domain/shopify"
)

const apiVersion = "2024-01"

// Client is the Shopify Admin API client with automatic retry on
// rate-limited and server-side failures.
type Client struct {
	domain      string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
	retryPolicy *shopifydomain.RetryPolicy
}

// ClientConfig holds configuration for the Shopify client.
type ClientConfig struct {
	// Domain is the myshopify shop domain, e.g. "example.myshopify.com".
	Domain         string
	AccessToken    string
	Logger         *zap.Logger
	RetryPolicy    *shopifydomain.RetryPolicy
	RequestTimeout time.Duration
}

// NewClient creates a new Shopify Admin API client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.Domain == "" {
		return nil, fmt.Errorf("shopify domain is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("shopify access token is required")
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	retryPolicy := cfg.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = shopifydomain.DefaultRetryPolicy()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		domain:      cfg.Domain,
		accessToken: cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:      logger,
		retryPolicy: retryPolicy,
	}, nil
}

// get performs a GET request against the Admin API with automatic retry,
// decoding the response into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	executor := shopifydomain.NewExecutor(c.retryPolicy)

	retryResult := executor.Execute(ctx, func() error {
		return c.doRequest(ctx, path, query, result)
	})

	if retryResult.LastError != nil {
		c.logger.Error("Shopify API request failed after retries",
			zap.String("path", path),
			zap.Int("attempts", retryResult.Attempts),
			zap.Duration("duration", retryResult.Duration),
			zap.Error(retryResult.LastError),
		)
		return retryResult.LastError
	}

	return nil
}

// doRequest performs a single HTTP request without retry.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values, result interface{}) error {
	requestURL := fmt.Sprintf("https://%s/admin/api/%s%s", c.domain, apiVersion, path)
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Shopify API request completed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(startTime)),
	)

	if resp.StatusCode >= 400 {
		apiErr := shopifydomain.NewAPIErrorWithRequestID(
			resp.StatusCode,
			extractErrorMessage(respBody),
			resp.Header.Get("X-Request-Id"),
		)

		c.logger.Warn("Shopify API error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
			zap.String("request_id", apiErr.RequestID),
		)

		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// extractErrorMessage pulls a human-readable message out of a Shopify error
// body, which is either {"errors": "..."} or {"errors": {...}}.
func extractErrorMessage(body []byte) string {
	var withString struct {
		Errors string `json:"errors"`
	}
	if err := json.Unmarshal(body, &withString); err == nil && withString.Errors != "" {
		return withString.Errors
	}

	var withObject struct {
		Errors map[string]interface{} `json:"errors"`
	}
	if err := json.Unmarshal(body, &withObject); err == nil && len(withObject.Errors) > 0 {
		return fmt.Sprintf("%v", withObject.Errors)
	}

	return truncateString(string(body), 200)
}

// truncateString truncates a string to the specified length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
