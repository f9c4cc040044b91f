package session

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
)

// Snapshot is an immutable view of the session pair. Both halves are set
// or both are nil.
type Snapshot struct {
	Credential *models.Credential
	Principal  *models.Principal
}

func (s Snapshot) IsAuthenticated() bool {
	return s.Credential != nil && s.Credential.Token != "" && s.Principal != nil
}

// Token returns the bearer token, or "" when signed out.
func (s Snapshot) Token() string {
	if s.Credential == nil {
		return ""
	}
	return s.Credential.Token
}

// HasRole matches role names exactly, case included.
func (s Snapshot) HasRole(role string) bool {
	if s.Principal == nil {
		return false
	}
	return slices.Contains(s.Principal.Roles, role)
}

// HasAnyRole reports whether any of roles is held. An empty list is false.
func (s Snapshot) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// CanAccessPath checks path against the principal's allow-list. Without an
// allow-list every path is accessible; with one, path must equal an entry
// or start with it.
func (s Snapshot) CanAccessPath(path string) bool {
	if s.Principal == nil {
		return false
	}
	if len(s.Principal.AllowedPaths) == 0 {
		return true
	}
	for _, allowed := range s.Principal.AllowedPaths {
		if path == allowed || strings.HasPrefix(path, allowed) {
			return true
		}
	}
	return false
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Credential: s.Credential.Clone(), Principal: s.Principal.Clone()}
}
