package poller

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

var log = logger.GetOrCreate("poller")

// ArgsHTTPPoller is the DTO used to create a new HTTP poller
type ArgsHTTPPoller struct {
	BaseURL string
	Headers map[string]string
	Timeout time.Duration
}

type httpPoller struct {
	baseURL string
	headers map[string]string
	client  *http.Client
}

// NewHTTPPoller creates a new HTTP-based poller bound to the base URL of an upstream API
func NewHTTPPoller(args ArgsHTTPPoller) (*httpPoller, error) {
	if len(args.BaseURL) == 0 {
		return nil, ErrEmptyBaseURL
	}

	headers := make(map[string]string, len(args.Headers))
	for k, v := range args.Headers {
		headers[k] = v
	}

	return &httpPoller{
		baseURL: strings.TrimSuffix(args.BaseURL, "/"),
		headers: headers,
		client: &http.Client{
			Timeout: args.Timeout,
		},
	}, nil
}

// Get performs an HTTP GET on the endpoint (relative to the base URL) and returns the parsed JSON body.
// A non-2xx status or a body that is not valid JSON is returned as an error
func (p *httpPoller) Get(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error) {
	fullURL := p.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	log.Trace("polling", "endpoint", endpoint, "query", query.Encode())

	resp, err := p.client.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gjson.Result{}, &errStatusNotOK{
			endpoint:   endpoint,
			statusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errMalformedResponse(endpoint)
	}

	return gjson.ParseBytes(body), nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *httpPoller) IsInterfaceNil() bool {
	return p == nil
}
