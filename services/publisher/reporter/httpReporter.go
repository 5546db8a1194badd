package reporter

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

	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("reporter")

// ErrEmptyBaseURL signals that the reporter was created without a base URL
var ErrEmptyBaseURL = errors.New("empty base URL")

// BasicAuth holds the credentials sent with the HTTP basic authentication scheme
type BasicAuth struct {
	Username string
	Password string
}

// ArgsHTTPReporter is the DTO used to create a new HTTP reporter
type ArgsHTTPReporter struct {
	Name      string
	BaseURL   string
	Headers   map[string]string
	BasicAuth *BasicAuth
	Timeout   time.Duration
}

type httpReporter struct {
	name      string
	baseURL   string
	headers   map[string]string
	basicAuth *BasicAuth
	client    *http.Client
}

// NewHTTPReporter creates a new reporter that pushes JSON payloads to an analytics backend
func NewHTTPReporter(args ArgsHTTPReporter) (*httpReporter, error) {
	if len(args.BaseURL) == 0 {
		return nil, fmt.Errorf("%w for reporter %s", ErrEmptyBaseURL, args.Name)
	}

	headers := make(map[string]string, len(args.Headers))
	for k, v := range args.Headers {
		headers[k] = v
	}

	return &httpReporter{
		name:      args.Name,
		baseURL:   strings.TrimSuffix(args.BaseURL, "/"),
		headers:   headers,
		basicAuth: args.BasicAuth,
		client: &http.Client{
			Timeout: args.Timeout,
		},
	}, nil
}

// Post sends the payload, JSON encoded, to the endpoint relative to the base URL
func (r *httpReporter) Post(ctx context.Context, endpoint string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", r.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", r.name, err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.basicAuth != nil {
		req.SetBasicAuth(r.basicAuth.Username, r.basicAuth.Password)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error sending data to %s: %w", r.name, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s rejected %s with status code: %d", r.name, endpoint, resp.StatusCode)
	}

	log.Debug("successfully sent data", "backend", r.name, "endpoint", endpoint, "bytes", len(body))

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *httpReporter) IsInterfaceNil() bool {
	return r == nil
}
