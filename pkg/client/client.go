// Package client talks to the remote retailer API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/retailers/pkg/logging"
	"tableflip.dev/retailers/pkg/retailer"
)

const (
	HeaderAcceptVersion  = "Accept-Version"
	HeaderXCorrelationID = "X-Correlation-ID"
	HeaderContentType    = "Content-Type"

	APIVersionV1    = "v1"
	ContentTypeJSON = "application/json"

	retailersPath = "/retailers"
)

// ErrNotFound matches a 404 from the API via errors.Is.
var ErrNotFound = errors.New("client: retailer not found")

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("retailers api: %d %s", e.Status, msg)
}

// Is maps a 404 onto ErrNotFound.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client implements the retailer data service against a base URL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.SugaredLogger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.Logger = l
		}
	}
}

// New validates baseURL and returns a client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported base url %q", baseURL)
	}
	c := &Client{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
		Logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetRetailer fetches GET /retailers/{name}.
func (c *Client) GetRetailer(ctx context.Context, name string) (*retailer.Retailer, error) {
	out := &retailer.Retailer{}
	if err := c.do(ctx, http.MethodGet, retailerPath(name), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRetailers fetches GET /retailers.
func (c *Client) ListRetailers(ctx context.Context) ([]*retailer.Retailer, error) {
	var out []*retailer.Retailer
	if err := c.do(ctx, http.MethodGet, retailersPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddRetailer sends POST /retailers.
func (c *Client) AddRetailer(ctx context.Context, r *retailer.Retailer) (*retailer.Retailer, error) {
	body := writable(r)
	out := &retailer.Retailer{}
	if err := c.do(ctx, http.MethodPost, retailersPath, body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRetailer sends PUT /retailers/{name}.
func (c *Client) UpdateRetailer(ctx context.Context, r *retailer.Retailer) (*retailer.Retailer, error) {
	body := writable(r)
	out := &retailer.Retailer{}
	if err := c.do(ctx, http.MethodPut, retailerPath(body.Name), body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRetailer sends DELETE /retailers/{name}.
func (c *Client) DeleteRetailer(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, retailerPath(name), nil, nil)
}

func retailerPath(name string) string {
	return retailersPath + "/" + url.PathEscape(strings.TrimSpace(name))
}

// writable copies r without backend-managed fields.
func writable(r *retailer.Retailer) *retailer.Retailer {
	if r == nil {
		return &retailer.Retailer{}
	}
	cp := r.Clone()
	cp.StripManaged()
	return cp
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	correlationID := uuid.NewString()
	req.Header.Set(HeaderAcceptVersion, APIVersionV1)
	req.Header.Set(HeaderXCorrelationID, correlationID)
	if in != nil {
		req.Header.Set(HeaderContentType, ContentTypeJSON)
	}

	logger := c.Logger.With(HeaderXCorrelationID, correlationID)
	logger.Debugf("%s %s", method, path)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Errorf("%s %s failed: %v", method, path, err)
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Message: errorMessage(data)}
		logger.Warnf("%s %s: %v", method, path, apiErr)
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

type errorBody struct {
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors"`
}

func errorMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return strings.TrimSpace(string(data))
	}
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if len(body.Errors) > 0 {
		msg = strings.TrimSpace(msg + ": " + strings.Join(body.Errors, ", "))
		msg = strings.TrimPrefix(msg, ": ")
	}
	return msg
}
