package client

import (
	"context"

	"github.com/dmitrijs2005/snappy/internal/client/models"
)

// AvatarCommit is the backend's answer to an avatar submission. When
// Accepted is true, CanonicalPayload is the value the backend stored and is
// authoritative over what was submitted.
type AvatarCommit struct {
	Accepted         bool
	CanonicalPayload string
}

// Client is the chat backend API used by the session services.
type Client interface {
	Close() error
	Login(ctx context.Context, username string, password []byte) (models.Identity, error)
	GetContacts(ctx context.Context, identityID string) ([]models.Contact, error)
	SetAvatar(ctx context.Context, identityID string, payload string) (AvatarCommit, error)
}

// AvatarGenerator produces random candidate avatars. Each call returns one
// base64 encoded SVG derived from seed.
type AvatarGenerator interface {
	GetCandidate(ctx context.Context, seed int) (string, error)
}
