package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/client/services"
	"github.com/dmitrijs2005/snappy/internal/common"
)

var (
	_ services.Navigator        = (*App)(nil)
	_ services.Notifier         = (*App)(nil)
	_ services.ContactPublisher = (*App)(nil)
)

// GoTo queues a screen change. It is applied by settle once the running
// command returns, so services may call it while holding no UI state.
func (a *App) GoTo(route services.Route) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = route
}

// Notify prints a transient message.
func (a *App) Notify(ctx context.Context, message string, severity common.Severity) {
	printlnFn(fmt.Sprintf("[%s] %s", severity, message))
}

// PublishContact announces the contact chosen for conversation.
func (a *App) PublishContact(c models.Contact) {
	printlnFn(fmt.Sprintf("Chatting with %s", c.Username))
}

func (a *App) takePending() (services.Route, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	route := a.pending
	a.pending = ""
	return route, route != ""
}

// settle enters queued screens until no navigation is pending.
func (a *App) settle(ctx context.Context) {
	for range maxHops {
		route, ok := a.takePending()
		if !ok {
			return
		}
		a.enter(ctx, route)
	}
	a.logger.Warn(ctx, "navigation did not settle", "route", a.currentRoute())
}
