package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/pipeline"
	"github.com/dmitrijs2005/gophadmin/internal/common"
)

// getRequiredText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var (
	getRequiredText = GetRequiredText
	getPassword     = GetPassword
)

var errPasswordMismatch = errors.New("passwords do not match")

// Login prompts for credentials and signs in. On success the console
// resumes the location the login screen was reached from, or goes home.
// The password buffer is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getRequiredText(a.reader, "User name or email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.Login(ctx, models.LoginRequest{UserName: userName, Password: string(password)}); err != nil {
		if text := loginFailureText(err); text != "" {
			a.notifier.Error(text)
		}
		return err
	}

	a.notifier.Success("Welcome, " + a.displayName() + ".")
	return a.Open(ctx, a.resumeTarget())
}

// loginFailureText turns a login error into something a user can act on.
// Unauthorized responses already produce their own notice, so the result
// is empty for them.
func loginFailureText(err error) string {
	var se *pipeline.StatusError
	switch {
	case pipeline.ClassOf(err) == pipeline.ClassUnauthorized:
		return ""
	case errors.Is(err, common.ErrInvalidLoginResponse):
		return "The server returned an unexpected login response."
	case errors.As(err, &se) && se.Status == 400 && se.Message != "":
		return se.Message
	case errors.As(err, &se) && se.Status == 400:
		return "Invalid user name or password."
	default:
		return "Sign in failed."
	}
}

// resumeTarget reads returnUrl from the current login location. Only local
// paths outside the login screen are honored.
func (a *App) resumeTarget() string {
	path, rawQuery, _ := strings.Cut(a.router.Current(), "?")
	if path != PathLogin {
		return PathHome
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return PathHome
	}
	ret := q.Get(common.ReturnURLParam)
	if !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") || strings.HasPrefix(ret, PathLogin) {
		return PathHome
	}
	return ret
}

// Logout ends the session and shows the login screen.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	a.printPage()
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	snap := a.session.Snapshot()
	if !snap.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	p := snap.Principal
	rows := [][]string{
		{"ID", p.ID},
		{"User", p.UserName},
		{"Email", p.Email},
		{"Roles", strings.Join(p.Roles, ", ")},
	}
	if exp := snap.Credential.ExpiresAt; exp != nil {
		rows = append(rows, []string{"Session expires", exp.Local().Format(time.DateTime)})
	}
	if len(p.AllowedPaths) > 0 {
		rows = append(rows, []string{"Allowed paths", strings.Join(p.AllowedPaths, ", ")})
	}
	writeTable(a.out, []string{"Field", "Value"}, rows)
	return nil
}

// ForgotPassword requests a verification code for an account.
func (a *App) ForgotPassword(ctx context.Context) error {
	who, err := getRequiredText(a.reader, "User name or email", a.out)
	if err != nil {
		return err
	}

	resp, err := a.authService.ForgotPassword(ctx, who)
	if err != nil {
		a.notifier.Error("Could not start password recovery.")
		return err
	}
	if !resp.Success {
		a.notifier.Warning(orDefault(resp.Message, "Password recovery was refused."))
		return nil
	}

	a.resetTokenID = resp.ResetTokenID
	dest := resp.MaskedEmail
	if dest == "" {
		dest = resp.MaskedPhone
	}
	msg := orDefault(resp.Message, "A verification code was sent.")
	if dest != "" {
		msg += " (" + dest + ")"
	}
	a.notifier.Info(msg)
	return nil
}

// ResetPassword completes recovery with the verification code. The token
// from the last 'forgot' is reused when present.
func (a *App) ResetPassword(ctx context.Context) error {
	tokenID := a.resetTokenID
	if tokenID == "" {
		var err error
		if tokenID, err = getRequiredText(a.reader, "Reset token", a.out); err != nil {
			return err
		}
	}
	code, err := getRequiredText(a.reader, "Verification code", a.out)
	if err != nil {
		return err
	}

	pw, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := getPassword(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	if string(pw) != string(confirm) {
		a.notifier.Error("Passwords do not match.")
		return errPasswordMismatch
	}

	resp, err := a.authService.ResetPassword(ctx, models.ResetPasswordRequest{
		ResetTokenID:     tokenID,
		VerificationCode: code,
		NewPassword:      string(pw),
	})
	if err != nil {
		a.notifier.Error("Could not reset the password.")
		return err
	}
	if !resp.Success {
		a.notifier.Warning(orDefault(resp.Message, "Password reset was refused."))
		return nil
	}

	a.resetTokenID = ""
	a.notifier.Success(orDefault(resp.Message, "Password changed. You can sign in now."))
	return a.Open(ctx, PathLogin)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
