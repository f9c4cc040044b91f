package services

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/pipeline"
	"github.com/dmitrijs2005/gophadmin/internal/client/session"
	"github.com/dmitrijs2005/gophadmin/internal/client/storage"
	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client for AuthService unit tests.
type fakeClient struct {
	LoginRet *models.LoginResponse
	LoginErr error

	ForgotRet *models.ForgotPasswordResponse
	ForgotErr error

	ResetRet *models.ResetPasswordResponse
	ResetErr error

	LastLogin  models.LoginRequest
	LastForgot models.ForgotPasswordRequest
	LastReset  models.ResetPasswordRequest
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.LastLogin = req
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) ForgotPassword(_ context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error) {
	f.LastForgot = req
	return f.ForgotRet, f.ForgotErr
}

func (f *fakeClient) ResetPassword(_ context.Context, req models.ResetPasswordRequest) (*models.ResetPasswordResponse, error) {
	f.LastReset = req
	return f.ResetRet, f.ResetErr
}

type fakeNav struct {
	redirects []string
}

func (n *fakeNav) Redirect(path string, _ url.Values) { n.redirects = append(n.redirects, path) }

func newSession(t *testing.T) (*session.Session, *storage.Store) {
	t.Helper()
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "admin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := storage.New(db, "app_", nil)
	return session.New(ctx, store), store
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "u1"}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestLogin_EstablishesAndPersistsSession(t *testing.T) {
	ctx := context.Background()
	sess, store := newSession(t)
	fc := &fakeClient{LoginRet: &models.LoginResponse{
		Token: "T",
		User:  &models.Principal{ID: "u1", Roles: []string{"Admin"}},
	}}
	svc := NewAuthService(fc, sess, nil, "", nil)

	p, err := svc.Login(ctx, models.LoginRequest{UserName: "admin", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, models.LoginRequest{UserName: "admin", Password: "secret1"}, fc.LastLogin)

	assert.True(t, sess.IsAuthenticated())
	assert.True(t, sess.HasRole("Admin"))
	assert.False(t, sess.HasRole("Report"))

	token, ok := storage.Get[string](ctx, store, storage.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "T", token)

	user, ok := storage.Get[models.Principal](ctx, store, storage.KeyUserData)
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, []string{"Admin"}, user.Roles)
}

func TestLogin_ReturnedPrincipalIsACopy(t *testing.T) {
	sess, _ := newSession(t)
	fc := &fakeClient{LoginRet: &models.LoginResponse{
		Token: "T",
		User:  &models.Principal{ID: "u1", Roles: []string{"Admin"}},
	}}
	svc := NewAuthService(fc, sess, nil, "", nil)

	p, err := svc.Login(context.Background(), models.LoginRequest{UserName: "admin"})
	require.NoError(t, err)
	p.Roles[0] = "Report"
	assert.True(t, sess.HasRole("Admin"))
}

func TestLogin_Expiry(t *testing.T) {
	exp := time.Date(2031, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		token     string
		expiresAt string
		want      *time.Time
	}{
		{name: "explicit expiresAt", token: "opaque", expiresAt: "2031-03-01T10:00:00Z", want: &exp},
		{name: "jwt exp claim", token: signedToken(t, exp), want: &exp},
		{name: "explicit wins over claim", token: signedToken(t, exp.Add(time.Hour)), expiresAt: "2031-03-01T10:00:00Z", want: &exp},
		{name: "unparsable expiresAt falls back to claim", token: signedToken(t, exp), expiresAt: "soon", want: &exp},
		{name: "opaque token without expiresAt", token: "opaque"},
		{name: "jwt without exp", token: signedToken(t, time.Time{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, _ := newSession(t)
			fc := &fakeClient{LoginRet: &models.LoginResponse{
				Token:     tt.token,
				ExpiresAt: tt.expiresAt,
				User:      &models.Principal{ID: "u1"},
			}}
			_, err := NewAuthService(fc, sess, nil, "", nil).Login(context.Background(), models.LoginRequest{})
			require.NoError(t, err)

			got := sess.Snapshot().Credential.ExpiresAt
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v", got)
		})
	}
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	sess, _ := newSession(t)
	require.NoError(t, sess.Establish(ctx, models.Credential{Token: "old"}, models.Principal{ID: "u0"}))

	backendErr := &pipeline.StatusError{Status: 400, Message: "bad credentials"}
	fc := &fakeClient{LoginErr: backendErr}
	svc := NewAuthService(fc, sess, nil, "", nil)

	_, err := svc.Login(ctx, models.LoginRequest{UserName: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, backendErr)
	assert.Contains(t, err.Error(), "login error")

	assert.Equal(t, "old", sess.Token())
}

func TestLogin_InvalidResponse(t *testing.T) {
	for name, resp := range map[string]*models.LoginResponse{
		"nil response":    nil,
		"missing token":   {User: &models.Principal{ID: "u1"}},
		"missing user":    {Token: "T"},
		"user without id": {Token: "T", User: &models.Principal{UserName: "admin"}},
	} {
		t.Run(name, func(t *testing.T) {
			sess, _ := newSession(t)
			svc := NewAuthService(&fakeClient{LoginRet: resp}, sess, nil, "", nil)

			_, err := svc.Login(context.Background(), models.LoginRequest{})
			require.ErrorIs(t, err, common.ErrInvalidLoginResponse)
			assert.False(t, sess.IsAuthenticated())
		})
	}
}

func TestLogout_ClearsAndRedirects(t *testing.T) {
	ctx := context.Background()
	sess, store := newSession(t)
	nav := &fakeNav{}
	fc := &fakeClient{LoginRet: &models.LoginResponse{Token: "T", User: &models.Principal{ID: "u1"}}}
	svc := NewAuthService(fc, sess, nav, "/login", nil)

	_, err := svc.Login(ctx, models.LoginRequest{})
	require.NoError(t, err)

	svc.Logout(ctx)
	assert.False(t, sess.IsAuthenticated())
	assert.False(t, store.Has(ctx, storage.KeyAuthToken))
	assert.False(t, store.Has(ctx, storage.KeyUserData))

	svc.Logout(ctx)
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, []string{"/login", "/login"}, nav.redirects)
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	sess, _ := newSession(t)
	fc := &fakeClient{
		ForgotRet: &models.ForgotPasswordResponse{Success: true, ResetTokenID: "r1"},
		ResetRet:  &models.ResetPasswordResponse{Success: true},
	}
	svc := NewAuthService(fc, sess, nil, "", nil)

	fr, err := svc.ForgotPassword(ctx, "admin@example.org")
	require.NoError(t, err)
	assert.Equal(t, "r1", fr.ResetTokenID)
	assert.Equal(t, "admin@example.org", fc.LastForgot.UserNameOrEmail)

	req := models.ResetPasswordRequest{ResetTokenID: "r1", VerificationCode: "123456", NewPassword: "n3w"}
	rr, err := svc.ResetPassword(ctx, req)
	require.NoError(t, err)
	assert.True(t, rr.Success)
	assert.Equal(t, req, fc.LastReset)

	assert.False(t, sess.IsAuthenticated(), "recovery never signs in")
}

func TestForgotAndResetPassword_Errors(t *testing.T) {
	boom := errors.New("boom")
	sess, _ := newSession(t)
	svc := NewAuthService(&fakeClient{ForgotErr: boom, ResetErr: boom}, sess, nil, "", nil)

	_, err := svc.ForgotPassword(context.Background(), "x")
	require.ErrorIs(t, err, boom)
	_, err = svc.ResetPassword(context.Background(), models.ResetPasswordRequest{})
	require.ErrorIs(t, err, boom)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	got, err := TokenExpiry(signedToken(t, exp))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, exp.Equal(*got))

	got, err = TokenExpiry(common.BearerScheme + signedToken(t, exp))
	require.NoError(t, err)
	assert.True(t, exp.Equal(*got))

	_, err = TokenExpiry("not-a-jwt")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
