// SPDX-License-Identifier: MPL-2.0

package cloudtruth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/resolve"
)

const (
	// DefaultServerURL is the hosted CloudTruth API.
	DefaultServerURL = "https://api.cloudtruth.io"

	// maxPages bounds pagination so a misbehaving server cannot loop forever.
	maxPages = 200

	// maxJSONResponseBytes is the upper bound on a single response body (10 MB).
	maxJSONResponseBytes = 10 << 20

	// maxErrorBodyBytes bounds how much of an error response is read for its detail.
	maxErrorBodyBytes = 64 << 10
)

type (
	// Client talks to the CloudTruth REST API.
	Client struct {
		httpClient *http.Client
		baseURL    string
		apiKey     string
		userAgent  string
		logger     *log.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)

	page[T any] struct {
		Count   int     `json:"count"`
		Next    *string `json:"next"`
		Results []T     `json:"results"`
	}

	namedResource struct {
		ID   string `json:"id"`
		URL  string `json:"url"`
		Name string `json:"name"`
	}

	parameterWire struct {
		ID     string                `json:"id"`
		Name   string                `json:"name"`
		Secret bool                  `json:"secret"`
		Values map[string]*valueWire `json:"values"`
	}

	valueWire struct {
		Environment   string  `json:"environment"`
		Value         *string `json:"value"`
		ExternalError *string `json:"external_error"`
	}

	errorBody struct {
		Detail string `json:"detail"`
	}
)

var (
	_ resolve.ConfigService    = (*Client)(nil)
	_ resolve.IdentityResolver = (*Client)(nil)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxies.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/")
	}
}

// WithAPIKey sets the key sent in the Authorization header.
func WithAPIKey(key string) ClientOption {
	return func(cl *Client) {
		cl.apiKey = key
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) ClientOption {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// NewClient creates a Client. Defaults: baseURL=DefaultServerURL,
// userAgent="cloudtruth-cli/dev", httpClient with a 60s timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    DefaultServerURL,
		userAgent:  "cloudtruth-cli/dev",
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProjectID returns the id of the project with exactly the given name.
func (c *Client) ProjectID(ctx context.Context, name string) (string, error) {
	return c.lookupID(ctx, "projects", "project", name)
}

// EnvironmentID returns the id of the environment with exactly the given name.
func (c *Client) EnvironmentID(ctx context.Context, name string) (string, error) {
	return c.lookupID(ctx, "environments", "environment", name)
}

func (c *Client) lookupID(ctx context.Context, collection, resource, name string) (string, error) {
	q := url.Values{"name": {name}}
	first := fmt.Sprintf("%s/api/v1/%s/?%s", c.baseURL, collection, q.Encode())

	items, err := listPages[namedResource](ctx, c, first)
	if err != nil {
		return "", fmt.Errorf("looking up %s %q: %w", resource, name, err)
	}
	// The name filter is not guaranteed to be exact.
	for _, it := range items {
		if it.Name == name {
			return it.ID, nil
		}
	}
	return "", &NotFoundError{Resource: resource, Name: name}
}

// ListParameterValues returns the effective value of every parameter of the
// project in the environment, in server order. Parameters without a value in
// the environment are omitted; failed external lookups are reported in
// ParameterRecord.Error.
func (c *Client) ListParameterValues(ctx context.Context, query resolve.ParameterQuery) ([]resolve.ParameterRecord, error) {
	q := url.Values{
		"environment":  {query.EnvironmentID},
		"mask_secrets": {"false"},
	}
	if query.AsOf != nil {
		q.Set("as_of", query.AsOf.UTC().Format(time.RFC3339))
	}
	if query.Tag != "" {
		q.Set("tag", query.Tag)
	}
	first := fmt.Sprintf("%s/api/v1/projects/%s/parameters/?%s",
		c.baseURL, url.PathEscape(query.ProjectID), q.Encode())

	params, err := listPages[parameterWire](ctx, c, first)
	if err != nil {
		return nil, fmt.Errorf("listing parameters: %w", err)
	}

	records := make([]resolve.ParameterRecord, 0, len(params))
	for _, p := range params {
		v := p.valueFor(query.EnvironmentID)
		if v == nil {
			continue
		}
		if v.ExternalError != nil && *v.ExternalError != "" {
			records = append(records, resolve.ParameterRecord{Name: p.Name, Error: *v.ExternalError})
			continue
		}
		if v.Value == nil {
			continue
		}
		records = append(records, resolve.ParameterRecord{Name: p.Name, Value: *v.Value})
	}
	c.logger.Debug("listed parameters", "project", query.ProjectID, "environment", query.EnvironmentID,
		"count", len(records))
	return records, nil
}

// valueFor picks the value entry for environment id. A single entry is taken
// as is, since the listing is already filtered by environment.
func (p parameterWire) valueFor(envID string) *valueWire {
	if len(p.Values) == 1 {
		for _, v := range p.Values {
			return v
		}
	}
	marker := "/environments/" + envID + "/"
	for key, v := range p.Values {
		if v == nil {
			continue
		}
		if strings.Contains(key, marker) || strings.Contains(v.Environment, marker) {
			return v
		}
	}
	return nil
}

// listPages fetches first and follows "next" links, concatenating results.
func listPages[T any](ctx context.Context, c *Client, first string) ([]T, error) {
	var all []T
	pageURL := first
	for range maxPages {
		var pg page[T]
		if err := c.getJSON(ctx, pageURL, &pg); err != nil {
			return nil, err
		}
		all = append(all, pg.Results...)
		if pg.Next == nil || *pg.Next == "" {
			return all, nil
		}
		pageURL = *pg.Next
	}
	return nil, ErrTooManyPages
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	resp, requestID, err := c.doRequest(ctx, http.MethodGet, reqURL)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, requestID)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// doRequest creates and executes a request with the common API headers. The
// API key is only attached when the request targets the configured host.
func (c *Client) doRequest(ctx context.Context, method, reqURL string) (*http.Response, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" && isAPIHost(req.URL, c.baseURL) {
		req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, requestID, fmt.Errorf("executing request: %w", err)
	}
	c.logger.Debug("api request", "method", method, "url", redactURL(reqURL), "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start).Round(time.Millisecond))
	return resp, requestID, nil
}

func newAPIError(resp *http.Response, requestID string) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, RequestID: requestID}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return apiErr
	}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Detail != "" {
		apiErr.Detail = eb.Detail
	} else {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	return apiErr
}

func isAPIHost(reqURL *url.URL, baseURL string) bool {
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(reqURL.Host, base.Host)
}

// redactURL strips the query string, which may carry project names.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// IsAuthError reports whether err stems from a rejected API key.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
