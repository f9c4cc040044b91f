// Package pipeline is the outbound HTTP interceptor chain every backend call
// goes through.
//
// Interceptors wrap one another the way gRPC unary interceptors do: the
// first registered runs first on the way out and last on the way back.
// NewStandard assembles the fixed production order:
//
//	BaseURL -> Bearer -> Loading -> Classify -> network
//
// The terminal invoker reads the whole response body before returning, so
// by the time an interceptor sees the response the exchange is complete.
// Statuses >= 400 and transport failures surface as *StatusError.
package pipeline

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

// Invoker sends a request further down the chain.
type Invoker func(req *http.Request) (*http.Response, error)

// Interceptor observes or rewrites a request and decides how to call next.
type Interceptor func(req *http.Request, next Invoker) (*http.Response, error)

// maxBodySize caps how much of a response is buffered.
const maxBodySize = 10 << 20

type Pipeline struct {
	client *http.Client
	invoke Invoker
	log    logging.Logger
}

// New builds a pipeline over client with interceptors in the given order.
func New(client *http.Client, log logging.Logger, interceptors ...Interceptor) *Pipeline {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logging.Discard()
	}
	p := &Pipeline{client: client, log: log.With("component", "pipeline")}
	p.invoke = chain(interceptors, p.send)
	return p
}

// Do runs req through every interceptor. Implements the Doer used by the
// API client.
func (p *Pipeline) Do(req *http.Request) (*http.Response, error) {
	return p.invoke(req)
}

func chain(interceptors []Interceptor, final Invoker) Invoker {
	next := final
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, inner := interceptors[i], next
		next = func(req *http.Request) (*http.Response, error) {
			return ic(req, inner)
		}
	}
	return next
}

func (p *Pipeline) send(req *http.Request) (*http.Response, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		// Cancellation by the caller is not a connectivity failure.
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, err
		}
		return nil, &StatusError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if req.Context().Err() != nil {
			return nil, err
		}
		return nil, &StatusError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newStatusError(req, resp.StatusCode, body)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	p.log.Debug(req.Context(), "response", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode)
	return resp, nil
}

// StatusOf returns the HTTP status carried by err, 0 for transport
// failures, and false when err did not come from the pipeline.
func StatusOf(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}
