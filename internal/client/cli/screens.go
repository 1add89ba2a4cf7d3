package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/client/services"
)

// enter leaves the current screen and opens route. The guard runs first; a
// redirected entry fetches nothing.
func (a *App) enter(ctx context.Context, route services.Route) {
	a.leave()

	a.mu.Lock()
	a.route = route
	a.mu.Unlock()

	d, proceed := a.guard.Enter(ctx, route)

	a.mu.Lock()
	a.userName = d.Identity.Username
	a.mu.Unlock()

	if !proceed {
		return
	}

	switch route {
	case services.RouteLogin:
		printlnFn("Please log in (type 'login')")
	case services.RouteMain:
		a.showMain(ctx, d)
	case services.RouteProvisionAvatar:
		a.showProvisioning(ctx, d)
	}
}

// leave deactivates the current screen so late results are dropped.
func (a *App) leave() {
	switch a.currentRoute() {
	case services.RouteMain:
		a.contacts.Leave()
	case services.RouteProvisionAvatar:
		a.avatars.Leave()
	}
}

func (a *App) showMain(ctx context.Context, d services.Decision) {
	printlnFn(fmt.Sprintf("Welcome, %s", d.Identity.Username))
	printlnFn(userPanel(d))

	if err := a.contacts.Load(ctx, d); err != nil {
		// Failures were already notified; the last roster is still shown.
		a.logger.Debug(ctx, "roster not refreshed", "error", err)
	}
	a.printRoster()
}

func (a *App) printRoster() {
	roster := a.contacts.Roster()
	if len(roster) == 0 {
		printlnFn("No contacts yet.")
		return
	}

	_, selected, _ := a.contacts.Selected()
	for i, c := range roster {
		marker := " "
		if i == selected {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s[%d] %s", marker, i, c.Username))
	}
}

func (a *App) showProvisioning(ctx context.Context, d services.Decision) {
	printlnFn(fmt.Sprintf("Pick an avatar as your profile picture, %s", d.Identity.Username))
	printlnFn("Loading avatars...")

	if err := a.avatars.Start(ctx, d); err != nil {
		if !services.IsStale(err) {
			printlnFn("Type 'avatars' to try again.")
		}
		return
	}
	a.printCandidates()
}

func (a *App) printCandidates() {
	set, ok := a.avatars.Candidates()
	if !ok {
		printlnFn("No avatars loaded.")
		return
	}

	selected, ok := a.avatars.Selected()
	if !ok {
		selected = -1
	}
	for i, payload := range set {
		marker := " "
		if i == selected {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s[%d] %s", marker, i, preview(models.DataURI(payload))))
	}
	printlnFn("Use 'pick <n>' and then 'submit'.")
}

// preview shortens a data URI for one terminal line.
func preview(uri string) string {
	const limit = 48
	if len(uri) <= limit {
		return uri
	}
	return fmt.Sprintf("%s... (%d bytes)", uri[:limit], len(uri))
}
