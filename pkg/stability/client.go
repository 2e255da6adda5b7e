package stability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adforgehq/adforge-backend/pkg/config"
)

const (
	defaultBaseURL = "https://api.stability.ai"
	defaultTimeout = 120 * time.Second

	// generatePath is the canonical text-to-image contract. Requests are
	// multipart form posts; successful responses carry raw image bytes.
	generatePath = "/v2beta/stable-image/generate/core"

	outputFormat = "png"
	aspectRatio  = "1:1"
	stylePreset  = "photographic"

	errorBodyReadLimit int64 = 4096
)

var errAPIKeyRequired = errors.New("stability api key is required")

// FailureKind classifies how a generation call failed.
type FailureKind string

const (
	FailureTimeout       FailureKind = "timeout"
	FailureConnection    FailureKind = "connection_failure"
	FailureAPIError      FailureKind = "api_error"
	FailureEmptyResponse FailureKind = "empty_response"
)

// RequestError is the typed outcome of an unsuccessful generation call. The
// Status and Body fields are populated for api_error kinds so callers can log
// the upstream diagnostics.
type RequestError struct {
	Kind   FailureKind
	Status int
	Body   string
	cause  error
}

func (e *RequestError) Error() string {
	if e.Kind == FailureAPIError {
		return fmt.Sprintf("stability: %s (status %d): %s", e.Kind, e.Status, e.Body)
	}
	if e.cause != nil {
		return fmt.Sprintf("stability: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("stability: %s", e.Kind)
}

func (e *RequestError) Unwrap() error {
	return e.cause
}

// AsRequestError extracts a typed request error when err carries one.
func AsRequestError(err error) *RequestError {
	var typed *RequestError
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// Client wraps the Stability AI image generation API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Stability client from configuration. The credential is
// mandatory; there is deliberately no built-in fallback key.
func NewClient(cfg config.StabilityConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	if cfg.BaseURL != "" {
		client.baseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Endpoint returns the full generation URL, recorded in every ad's
// generation-parameter snapshot.
func (c *Client) Endpoint() string {
	return strings.TrimRight(c.baseURL, "/") + generatePath
}

// NewSeed returns a fresh random seed in [0, 2^32-1].
func NewSeed() uint32 {
	return rand.Uint32()
}

// GenerateRequest carries the prompt pair and seed for one generation call.
type GenerateRequest struct {
	Prompt         string
	NegativePrompt string
	Seed           uint32
}

// GenerateImage issues one synchronous generation call and returns the raw
// image bytes. Failures come back as a *RequestError classifying the outcome;
// no retries are attempted.
func (c *Client) GenerateImage(ctx context.Context, req GenerateRequest) ([]byte, error) {
	if c == nil {
		return nil, &RequestError{Kind: FailureConnection, cause: errors.New("client not configured")}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"prompt":          req.Prompt,
		"output_format":   outputFormat,
		"aspect_ratio":    aspectRatio,
		"seed":            strconv.FormatUint(uint64(req.Seed), 10),
		"style_preset":    stylePreset,
		"negative_prompt": req.NegativePrompt,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, &RequestError{Kind: FailureConnection, cause: fmt.Errorf("encode field %s: %w", name, err)}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &RequestError{Kind: FailureConnection, cause: fmt.Errorf("finalize form: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return nil, &RequestError{Kind: FailureConnection, cause: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "image/*")
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, &RequestError{
			Kind:   FailureAPIError,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(msg)),
		}
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if len(image) == 0 {
		return nil, &RequestError{Kind: FailureEmptyResponse}
	}

	return image, nil
}

func classifyTransportError(err error) *RequestError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &RequestError{Kind: FailureTimeout, cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &RequestError{Kind: FailureTimeout, cause: err}
	}
	return &RequestError{Kind: FailureConnection, cause: err}
}
