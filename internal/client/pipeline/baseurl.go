package pipeline

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// JoinURL resolves path against base with exactly one "/" between them.
// Absolute http(s) URLs are returned unchanged.
func JoinURL(base, path string) string {
	if absoluteURL.MatchString(path) {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// BaseURL rewrites relative request URLs onto base. The query string is
// kept.
func BaseURL(base string) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		raw := req.URL.String()
		if absoluteURL.MatchString(raw) {
			return next(req)
		}

		u, err := url.Parse(JoinURL(base, raw))
		if err != nil {
			return nil, fmt.Errorf("resolve %q against %q: %w", raw, base, err)
		}

		req = req.Clone(req.Context())
		req.URL = u
		req.Host = u.Host
		return next(req)
	}
}
