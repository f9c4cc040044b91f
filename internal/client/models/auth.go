// Package models holds the data shapes shared by the admin console layers:
// session halves, auth wire DTOs and the catalog records screens display.
package models

import (
	"slices"
	"time"
)

// Credential is the bearer token issued by the backend.
type Credential struct {
	Token     string
	ExpiresAt *time.Time
}

// Expired reports whether the credential has a known expiry at or before now.
func (c *Credential) Expired(now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// Principal is the authenticated user's profile. It is always replaced as a
// whole, never patched.
type Principal struct {
	ID           string   `json:"id"`
	UserName     string   `json:"userName,omitempty"`
	Email        string   `json:"email,omitempty"`
	Roles        []string `json:"roles"`
	AllowedPaths []string `json:"allowedPaths,omitempty"`
}

// Normalize collapses duplicate roles, keeping first-seen order.
func (p *Principal) Normalize() {
	seen := make(map[string]struct{}, len(p.Roles))
	roles := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	p.Roles = roles
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Roles = slices.Clone(p.Roles)
	cp.AllowedPaths = slices.Clone(p.AllowedPaths)
	return &cp
}

// Clone returns a copy with its own ExpiresAt.
func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}
	cp := *c
	if c.ExpiresAt != nil {
		t := *c.ExpiresAt
		cp.ExpiresAt = &t
	}
	return &cp
}

type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// LoginResponse is returned by the login endpoint. ExpiresAt is kept raw
// because backends disagree on the timestamp format.
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt string     `json:"expiresAt,omitempty"`
	User      *Principal `json:"user"`
}

type ForgotPasswordRequest struct {
	UserNameOrEmail string `json:"userNameOrEmail"`
}

type ForgotPasswordResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	MaskedEmail  string `json:"maskedEmail,omitempty"`
	MaskedPhone  string `json:"maskedPhone,omitempty"`
	ResetTokenID string `json:"resetTokenId,omitempty"`
}

type ResetPasswordRequest struct {
	ResetTokenID     string `json:"resetTokenId"`
	VerificationCode string `json:"verificationCode"`
	NewPassword      string `json:"newPassword"`
}

type ResetPasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
