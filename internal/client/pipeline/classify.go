package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

// Class is the failure category a response error falls into.
type Class string

const (
	ClassNone         Class = "none"
	ClassUnauthorized Class = "unauthorized"
	ClassForbidden    Class = "forbidden"
	ClassServer       Class = "server"
	ClassConnectivity Class = "connectivity"
	ClassCancelled    Class = "cancelled"
	ClassOther        Class = "other"
)

// ClassOf maps an error returned by the pipeline onto a Class.
func ClassOf(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ClassCancelled
	case errors.Is(err, common.ErrUnauthorized):
		return ClassUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return ClassForbidden
	case errors.Is(err, common.ErrServerFault):
		return ClassServer
	case errors.Is(err, common.ErrUnavailable):
		return ClassConnectivity
	default:
		return ClassOther
	}
}

// User-facing texts published for each failure class.
const (
	MsgSessionExpired = "Your session has expired. Please sign in again."
	MsgForbidden      = "You do not have permission to access this resource."
	MsgServerError    = "An internal error occurred, please try again later."
	MsgConnectivity   = "Connection error, check your network or try again later."
)

type Notifier interface {
	Warning(text string) string
	Error(text string) string
}

// SessionTerminator drops the current session.
type SessionTerminator interface {
	Clear(ctx context.Context)
}

// Navigator exposes the console's current location and lets the pipeline
// send the user elsewhere.
type Navigator interface {
	Current() string
	Redirect(path string, query url.Values)
}

// ErrorHandler holds what Classify needs to react to failures. Every field
// but LoginPath may be nil.
type ErrorHandler struct {
	Session   SessionTerminator
	Navigator Navigator
	Notifier  Notifier
	LoginPath string
	Log       logging.Logger
	Metrics   *Metrics
}

// Classify logs every failure and reacts by class: 401 ends the session and
// heads for the login screen, 403, 5xx and connectivity failures publish an
// error, cancellations stay silent. The original error is always returned.
func Classify(h ErrorHandler) Interceptor {
	if h.Log == nil {
		h.Log = logging.Discard()
	}
	if h.LoginPath == "" {
		h.LoginPath = "/login"
	}

	return func(req *http.Request, next Invoker) (*http.Response, error) {
		resp, err := next(req)
		if err == nil {
			h.Metrics.observe(req.Method, "ok")
			return resp, nil
		}

		ctx := req.Context()
		class := ClassOf(err)
		h.Metrics.observe(req.Method, "error")
		h.Metrics.fail(class)

		status, _ := StatusOf(err)
		h.Log.Error(ctx, "http request failed",
			"method", req.Method, "url", req.URL.String(), "status", status, "class", string(class), "error", err)

		switch class {
		case ClassUnauthorized:
			h.notifyWarning(MsgSessionExpired)
			if h.Session != nil {
				h.Session.Clear(context.WithoutCancel(ctx))
			}
			if h.Navigator != nil && !strings.HasPrefix(h.Navigator.Current(), h.LoginPath) {
				h.Navigator.Redirect(h.LoginPath, nil)
			}
		case ClassForbidden:
			h.notifyError(MsgForbidden)
		case ClassServer:
			h.notifyError(MsgServerError)
		case ClassConnectivity:
			h.notifyError(MsgConnectivity)
		}

		return nil, err
	}
}

func (h ErrorHandler) notifyWarning(text string) {
	if h.Notifier != nil {
		h.Notifier.Warning(text)
	}
}

func (h ErrorHandler) notifyError(text string) {
	if h.Notifier != nil {
		h.Notifier.Error(text)
	}
}
