package pipeline

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/tidwall/gjson"
)

// StatusError is a failed exchange. Status 0 means no response arrived.
type StatusError struct {
	Status  int
	Method  string
	URL     string
	Body    []byte
	Message string
	Err     error
}

func newStatusError(req *http.Request, status int, body []byte) *StatusError {
	return &StatusError{
		Status:  status,
		Method:  req.Method,
		URL:     req.URL.String(),
		Body:    body,
		Message: extractMessage(body),
	}
}

// messagePaths are tried in order against JSON error bodies.
var messagePaths = []string{"message", "title", "error", "errors.0.message", "detail"}

func extractMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range messagePaths {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

func (e *StatusError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.Status, http.StatusText(e.Status), e.Message)
	default:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
	}
}

func (e *StatusError) Unwrap() error { return e.Err }

// Is lets callers match failure classes with errors.Is and the sentinels
// in package common.
func (e *StatusError) Is(target error) bool {
	switch target {
	case common.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case common.ErrForbidden:
		return e.Status == http.StatusForbidden
	case common.ErrServerFault:
		return e.Status >= http.StatusInternalServerError
	case common.ErrUnavailable:
		return e.Status == 0
	}
	return false
}
