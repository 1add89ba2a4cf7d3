package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/client/services"
	"github.com/dmitrijs2005/snappy/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and authenticates. On success the
// returned identity is stored and the main screen is requested; the guard
// sends a user without an avatar on to avatar provisioning.
//
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.authService.Login(ctx, userName, password)
	if err != nil {
		a.logger.Warn(ctx, "login unsuccessful", "username", userName, "error", err)
		a.Notify(ctx, fmt.Sprintf("Login failed: %v", err), common.KindOf(err).Severity())
		return err
	}

	printlnFn(fmt.Sprintf("Logged in as %s", id.Username))
	a.GoTo(services.RouteMain)
	return nil
}

// Logout clears the stored identity and the session's screen state, then
// returns to the login screen.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.Notify(ctx, "Logout failed", common.KindOf(err).Severity())
		return err
	}
	a.contacts.Reset()
	a.avatars.Leave()
	printlnFn("Logged out")
	a.GoTo(services.RouteLogin)
	return nil
}

// WhoAmI prints the current-user panel from a fresh guard evaluation.
func (a *App) WhoAmI(ctx context.Context) error {
	printlnFn(userPanel(a.guard.Check(ctx)))
	return nil
}

// userPanel renders the current user's name and avatar state.
func userPanel(d services.Decision) string {
	switch d.Status {
	case services.NeedsAvatar:
		return fmt.Sprintf("%s (no avatar yet)", d.Identity.Username)
	case services.Ready:
		return fmt.Sprintf("%s %s", d.Identity.Username, preview(models.DataURI(d.Identity.AvatarImage)))
	default:
		return "Not logged in"
	}
}
