package client

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
)

const (
	PathLogin          = "Auth/admin/login"
	PathForgotPassword = "Auth/admin/forgot-password"
	PathResetPassword  = "Auth/admin/reset-password"
)

// Client is the auth surface of the backend API.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.ResetPasswordResponse, error)
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.Post(ctx, PathLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error) {
	var resp models.ForgotPasswordResponse
	if err := c.Post(ctx, PathForgotPassword, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.ResetPasswordResponse, error) {
	var resp models.ResetPasswordResponse
	if err := c.Post(ctx, PathResetPassword, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
