// Package services contains the application services of the Snappy client:
// the session guard, contact synchronization, avatar provisioning and the
// login collaborator. Services never render anything; they report through the
// Navigator and Notifier ports implemented by the presentation layer.
package services

import (
	"context"

	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/common"
)

// Route names a screen.
type Route string

const (
	RouteLogin           Route = "login"
	RouteProvisionAvatar Route = "provisionAvatar"
	RouteMain            Route = "main"
)

// Navigator switches the active screen. Fire-and-forget.
type Navigator interface {
	GoTo(route Route)
}

// Notifier is the user-visible error channel. Messages are transient and need
// no acknowledgement.
type Notifier interface {
	Notify(ctx context.Context, message string, severity common.Severity)
}

// ContactPublisher receives the contact chosen for conversation.
type ContactPublisher interface {
	PublishContact(contact models.Contact)
}
