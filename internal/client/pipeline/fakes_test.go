package pipeline

import (
	"context"
	"net/http"
	"net/url"
	"sync"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type fakeNotifier struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (n *fakeNotifier) Warning(text string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings = append(n.warnings, text)
	return "w"
}

func (n *fakeNotifier) Error(text string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, text)
	return "e"
}

type fakeSession struct {
	mu      sync.Mutex
	token   string
	cleared int
	ctxErr  error
}

func (s *fakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
	s.ctxErr = ctx.Err()
}

type fakeNavigator struct {
	current   string
	redirects []string
}

func (n *fakeNavigator) Current() string { return n.current }

func (n *fakeNavigator) Redirect(path string, query url.Values) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	n.redirects = append(n.redirects, path)
	n.current = path
}
