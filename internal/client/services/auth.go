// Package services contains application services for the admin console.
// This file defines the authentication service: login against the backend,
// logout, and the password recovery round trip.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/timex"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService defines authentication operations for the console.
//
// Contract:
//   - Login: authenticate against the backend and establish the session.
//     On failure the session is left untouched.
//   - Logout: drop the session and head for the login screen. Idempotent.
//   - ForgotPassword: ask the backend to send a verification code.
//   - ResetPassword: set a new password with that code.
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Principal, error)
	Logout(ctx context.Context)
	ForgotPassword(ctx context.Context, userNameOrEmail string) (*models.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.ResetPasswordResponse, error)
}

// SessionWriter is the part of session state the service mutates.
type SessionWriter interface {
	Establish(ctx context.Context, cred models.Credential, principal models.Principal) error
	Clear(ctx context.Context)
}

type Navigator interface {
	Redirect(path string, query url.Values)
}

type authService struct {
	client    client.Client
	session   SessionWriter
	nav       Navigator
	loginPath string
	log       logging.Logger
}

// NewAuthService constructs an AuthService. nav may be nil, in which case
// Logout only clears the session.
func NewAuthService(c client.Client, sess SessionWriter, nav Navigator, loginPath string, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	if loginPath == "" {
		loginPath = "/login"
	}
	return &authService{
		client:    c,
		session:   sess,
		nav:       nav,
		loginPath: loginPath,
		log:       log.With("component", "auth"),
	}
}

func (a *authService) Login(ctx context.Context, req models.LoginRequest) (*models.Principal, error) {
	resp, err := a.client.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if resp == nil || resp.Token == "" || resp.User == nil || resp.User.ID == "" {
		return nil, fmt.Errorf("login error: %w", common.ErrInvalidLoginResponse)
	}

	cred := models.Credential{Token: resp.Token, ExpiresAt: a.expiry(ctx, resp)}
	if err := a.session.Establish(ctx, cred, *resp.User); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	a.log.Info(ctx, "logged in", "user", req.UserName)
	return resp.User.Clone(), nil
}

// expiry prefers the explicit expiresAt field and falls back to the exp
// claim of the token. Unknown expiry is nil.
func (a *authService) expiry(ctx context.Context, resp *models.LoginResponse) *time.Time {
	if resp.ExpiresAt != "" {
		t, err := timex.ParseTimestamp(resp.ExpiresAt)
		if err == nil {
			return &t
		}
		a.log.Warn(ctx, "unparsable expiresAt in login response", "value", resp.ExpiresAt, "error", err)
	}

	t, err := TokenExpiry(resp.Token)
	if err != nil {
		a.log.Debug(ctx, "token carries no usable expiry", "error", err)
		return nil
	}
	return t
}

// TokenExpiry reads the exp claim of a JWT without verifying its
// signature. The console never holds the signing key; the backend remains
// the authority. A token without exp yields nil and no error.
func TokenExpiry(token string) (*time.Time, error) {
	token = strings.TrimPrefix(token, common.BearerScheme)

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return nil, nil
	}
	t := claims.ExpiresAt.Time.UTC()
	return &t, nil
}

func (a *authService) Logout(ctx context.Context) {
	a.session.Clear(ctx)
	a.log.Info(ctx, "logged out")
	if a.nav != nil {
		a.nav.Redirect(a.loginPath, nil)
	}
}

func (a *authService) ForgotPassword(ctx context.Context, userNameOrEmail string) (*models.ForgotPasswordResponse, error) {
	resp, err := a.client.ForgotPassword(ctx, models.ForgotPasswordRequest{UserNameOrEmail: userNameOrEmail})
	if err != nil {
		return nil, fmt.Errorf("forgot password error: %w", err)
	}
	return resp, nil
}

func (a *authService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.ResetPasswordResponse, error) {
	resp, err := a.client.ResetPassword(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("reset password error: %w", err)
	}
	return resp, nil
}
