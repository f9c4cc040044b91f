package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

// Doer sends a request. *pipeline.Pipeline and *http.Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type requestOptions struct {
	query url.Values
}

type RequestOption func(*requestOptions)

// WithQuery adds a query parameter. Repeated keys accumulate.
func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) { o.query.Add(key, value) }
}

type HTTPClient struct {
	doer Doer
	log  logging.Logger
}

func NewHTTPClient(doer Doer, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Discard()
	}
	return &HTTPClient{doer: doer, log: log.With("component", "api")}
}

// Do sends body as JSON to path and decodes the response into out. A nil
// body sends no payload; a nil out discards the response.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	ro := requestOptions{query: url.Values{}}
	for _, o := range opts {
		o(&ro)
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %s %s: %v", ErrEncode, method, path, err)
		}
		payload = bytes.NewReader(b)
	}

	target := path
	if len(ro.query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + ro.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug(ctx, "api request", "method", method, "path", path)

	resp, err := c.doer.Do(req)
	if err != nil {
		c.log.Debug(ctx, "api request failed", "method", method, "path", path, "error", err)
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s %s: %w", method, path, err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrDecode, method, path, err)
	}

	c.log.Debug(ctx, "api request succeeded", "method", method, "path", path, "status", resp.StatusCode)
	return nil
}

func (c *HTTPClient) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, out, opts...)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out, opts...)
}
