package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snappy/internal/client/services"
)

// Contacts re-enters the main screen, which runs the guard and refreshes
// the roster.
func (a *App) Contacts(ctx context.Context) error {
	a.GoTo(services.RouteMain)
	return nil
}

// Select picks the contact to chat with.
func (a *App) Select(ctx context.Context, args []string) error {
	i, err := ParseIndex(args)
	if err != nil {
		printlnFn("Usage: select <n>")
		return err
	}
	_, err = a.contacts.Select(ctx, i)
	return err
}

// Chat shows the contact currently selected for conversation.
func (a *App) Chat(ctx context.Context) error {
	c, _, ok := a.contacts.Selected()
	if !ok {
		printlnFn("No contact selected. Use 'select <n>'.")
		return nil
	}
	printlnFn(fmt.Sprintf("Current chat: %s", c.Username))
	return nil
}

// Avatars restarts avatar provisioning with a fresh set of candidates.
func (a *App) Avatars(ctx context.Context) error {
	a.GoTo(services.RouteProvisionAvatar)
	return nil
}

// Pick selects a candidate avatar.
func (a *App) Pick(ctx context.Context, args []string) error {
	i, err := ParseIndex(args)
	if err != nil {
		printlnFn("Usage: pick <n>")
		return err
	}
	if err := a.avatars.Pick(ctx, i); err != nil {
		if errors.Is(err, services.ErrNotReady) {
			printlnFn("No avatars loaded. Type 'avatars' to load them.")
		}
		return err
	}
	a.printCandidates()
	return nil
}

// Submit sends the picked avatar.
func (a *App) Submit(ctx context.Context) error {
	res, err := a.avatars.Submit(ctx)
	switch res {
	case services.SubmitIgnored:
		printlnFn("Submission already in progress")
	case services.SubmitCommitted:
		printlnFn("Avatar set")
	}
	if errors.Is(err, services.ErrNotReady) {
		printlnFn("No avatars loaded. Type 'avatars' to load them.")
	}
	return err
}
