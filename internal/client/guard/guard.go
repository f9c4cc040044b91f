// Package guard decides whether the console may enter a location.
//
// A Gate inspects the current session and the requested Target and
// returns a Decision. Gates only read; publishing the Notice and following
// the Redirect is left to the navigation layer.
package guard

import (
	"net/url"

	"github.com/dmitrijs2005/gophadmin/internal/common"
)

// Session is the read-only view of session state gates rely on.
type Session interface {
	IsAuthenticated() bool
	HasAnyRole(roles ...string) bool
	CanAccessPath(path string) bool
}

// Target is the location being entered. Path is the route path, URL the
// full attempted URL including its query. Roles are the route's required
// roles, any one of which suffices.
type Target struct {
	Path  string
	URL   string
	Roles []string
}

type Decision struct {
	Allow    bool
	Redirect string
	Query    url.Values
	Notice   string
}

// Location renders the redirect with its query string.
func (d Decision) Location() string {
	if len(d.Query) == 0 {
		return d.Redirect
	}
	return d.Redirect + "?" + d.Query.Encode()
}

type Gate func(s Session, t Target) Decision

var allow = Decision{Allow: true}

// Notices shown when a role gate refuses entry.
const (
	NoticeMissingRole = "You do not have the role required to open this page."
	NoticeDeniedPath  = "Your account is not allowed to open this page."
)

// Policy holds the two destinations gates send the user to.
type Policy struct {
	LoginPath string
	HomePath  string
}

var DefaultPolicy = Policy{LoginPath: "/login", HomePath: "/home"}

// Authenticated admits authenticated sessions and sends everyone else to
// the login screen, remembering the attempted URL.
func (p Policy) Authenticated(s Session, t Target) Decision {
	if s.IsAuthenticated() {
		return allow
	}
	q := url.Values{}
	if t.URL != "" {
		q.Set(common.ReturnURLParam, t.URL)
	}
	return Decision{Redirect: p.LoginPath, Query: q}
}

// Roles admits a session holding any required role whose allow-list also
// covers the target path. Routes without required roles are open.
func (p Policy) Roles(s Session, t Target) Decision {
	if len(t.Roles) == 0 {
		return allow
	}

	if !s.HasAnyRole(t.Roles...) {
		return Decision{Redirect: p.HomePath, Notice: NoticeMissingRole}
	}
	if !s.CanAccessPath(t.Path) {
		return Decision{Redirect: p.HomePath, Notice: NoticeDeniedPath}
	}
	return allow
}

// Evaluate runs gates in order and returns the first denial.
func Evaluate(s Session, t Target, gates ...Gate) Decision {
	for _, g := range gates {
		if d := g(s, t); !d.Allow {
			return d
		}
	}
	return allow
}
