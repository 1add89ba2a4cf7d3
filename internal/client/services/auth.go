package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snappy/internal/client/client"
	"github.com/dmitrijs2005/snappy/internal/client/identity"
	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/logging"
)

// AuthService establishes and ends the local session.
//
// Contract:
//   - Login: authenticate against the backend and store the returned identity.
//   - Logout: clear the identity slot; the next guard run yields Unauthenticated.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (models.Identity, error)
	Logout(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  identity.Writer
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// identity store.
func NewAuthService(c client.Client, store identity.Writer, logger logging.Logger) AuthService {
	return &authService{client: c, store: store, logger: logger.With("component", "auth")}
}

// Login authenticates and replaces the stored identity with the one returned
// by the backend. A record that is not well-formed is not stored.
func (a *authService) Login(ctx context.Context, username string, password []byte) (models.Identity, error) {
	id, err := a.client.Login(ctx, username, password)
	if err != nil {
		return models.Identity{}, fmt.Errorf("login error: %w", err)
	}
	if err := id.Validate(); err != nil {
		return models.Identity{}, fmt.Errorf("login error: %w: %w", client.ErrMalformedResponse, err)
	}

	if err := a.store.Set(ctx, id); err != nil {
		return models.Identity{}, fmt.Errorf("identity saving error: %w", err)
	}

	a.logger.Info(ctx, "logged in", "identity", id.ID, "avatar_set", id.AvatarImageSet)
	return id, nil
}

// Logout clears the identity slot.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("identity clearing error: %w", err)
	}
	a.logger.Info(ctx, "logged out")
	return nil
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
