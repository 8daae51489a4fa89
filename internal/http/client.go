// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wneessen/weatherfold/internal/logger"
)

const (
	// DefaultTimeout is the default timeout value for the HTTPClient
	DefaultTimeout = time.Second * 10

	breakerMaxRequests = 5
	breakerInterval    = time.Minute
	breakerTimeout     = time.Minute * 2
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; %s) weatherfold/%s (+https://github.com/wneessen/weatherfold/)",
		runtime.GOOS,
		runtime.GOARCH,
		version,
	)

	ErrNonPointerTarget = errors.New("target must be a non-nil pointer")
	// ErrCircuitOpen is returned when too many consecutive requests against an API failed.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// StatusError is returned for every API response with a non-2xx status code.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API %s returned non-positive response code: %d", e.Endpoint, e.StatusCode)
}

// Client is a type wrapper for the Go stdlib http.Client, a logger and a circuit breaker
type Client struct {
	*http.Client
	logger  *logger.Logger
	breaker *gobreaker.CircuitBreaker
}

// New returns a new HTTP client
func New(logger *logger.Logger) *Client {
	return NewNamed("http", logger)
}

// NewNamed returns a new HTTP client whose circuit breaker carries the given name
func NewNamed(name string, logger *logger.Logger) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	httpTransport := &http.Transport{TLSClientConfig: tlsConfig}
	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: httpTransport,
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
	})
	return &Client{httpClient, logger, breaker}
}

// Get performs a HTTP GET request for the given URL and json-unmarshals the response
// into target
func (h *Client) Get(ctx context.Context, endpoint string, target any, query url.Values, headers map[string]string) (int, error) {
	return h.GetWithTimeout(ctx, endpoint, target, query, headers, DefaultTimeout)
}

// GetWithTimeout performs a HTTP GET request for the given URL and timeout and JSON-unmarshals
// the response into target. Responses with a non-2xx status code are returned as *StatusError.
func (h *Client) GetWithTimeout(ctx context.Context, endpoint string, target any, query url.Values, headers map[string]string, timeout time.Duration) (int, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return 0, ErrNonPointerTarget
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Prepare URL and query parameters
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	// Prepare HTTP request
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)
	request.Header.Set("Accept", "application/json")
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	// Execute HTTP request through the circuit breaker. Rate limits and server errors
	// count as failures, any other status is handed back to the caller.
	result, err := h.breaker.Execute(func() (interface{}, error) {
		response, doErr := h.Do(request)
		if doErr != nil {
			return nil, doErr
		}
		if response == nil {
			return nil, errors.New("nil response received")
		}
		if response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500 {
			h.closeBody(response.Body)
			return nil, &StatusError{StatusCode: response.StatusCode, Endpoint: reqURL.Host + reqURL.Path}
		}
		return response, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, fmt.Errorf("%w: %s", ErrCircuitOpen, err)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return statusErr.StatusCode, err
		}
		return 0, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	response, ok := result.(*http.Response)
	if !ok {
		return 0, errors.New("unexpected result type from circuit breaker")
	}
	defer h.closeBody(response.Body)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return response.StatusCode, &StatusError{StatusCode: response.StatusCode, Endpoint: reqURL.Host + reqURL.Path}
	}

	// Unmarshal the JSON API response into target
	if err = json.NewDecoder(response.Body).Decode(target); err != nil {
		return response.StatusCode, fmt.Errorf("failed to decode JSON: %w", err)
	}

	return response.StatusCode, nil
}

func (h *Client) closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		h.logger.Error("failed to close HTTP request body", logger.Err(err))
	}
}
