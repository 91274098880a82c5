package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/classpulse/classpulse/internal/client/api"
	"github.com/classpulse/classpulse/internal/client/auth"
	"github.com/classpulse/classpulse/internal/common"
)

// Login prompts for credentials, exchanges them for an access token and
// persists the resulting session. Failures are reported to the user and do
// not touch the current auth state.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			printlnFn("Server unavailable, please try again later.")
		} else {
			printlnFn("Login failed:", api.MessageOf(err))
		}
		return err
	}

	role := auth.ParseRole(res.Role)
	if role == auth.RoleNone {
		printlnFn("Login failed: unexpected role in response")
		return fmt.Errorf("unexpected role %q", res.Role)
	}

	if err := a.auth.Login(ctx, res.AccessToken, role); err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Logged in as %s", role))
	return nil
}

// Logout clears the stored session. The landing banner is printed by the
// auth state's logout hook.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	return nil
}
