package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/snappy/internal/client/identity"
	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/common"
	"github.com/dmitrijs2005/snappy/internal/logging"
)

// Status is the provisioning state of the local session.
type Status int

const (
	// Unauthenticated: no usable identity record.
	Unauthenticated Status = iota
	// NeedsAvatar: identity present, avatar not yet set.
	NeedsAvatar
	// Ready: identity present with an avatar.
	Ready
)

func (s Status) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case NeedsAvatar:
		return "needs_avatar"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Decision is the outcome of one guard evaluation. Identity is the zero
// value when Status is Unauthenticated.
type Decision struct {
	Status   Status
	Identity models.Identity
}

// Evaluate classifies a store snapshot. It is a pure function.
func Evaluate(snap identity.Snapshot) Decision {
	id, ok := snap.Identity()
	if !ok || id.Validate() != nil {
		return Decision{Status: Unauthenticated}
	}
	if !id.AvatarImageSet {
		return Decision{Status: NeedsAvatar, Identity: id}
	}
	return Decision{Status: Ready, Identity: id}
}

// Redirect returns where a user entering view must be sent instead, and false
// when the view may proceed. The login screen itself is never redirected.
func (d Decision) Redirect(view Route) (Route, bool) {
	if view == RouteLogin {
		return "", false
	}

	switch d.Status {
	case Unauthenticated:
		return RouteLogin, true
	case NeedsAvatar:
		if view == RouteProvisionAvatar {
			return "", false
		}
		return RouteProvisionAvatar, true
	case Ready:
		if view == RouteProvisionAvatar {
			return RouteMain, true
		}
		return "", false
	default:
		return RouteLogin, true
	}
}

// SessionGuard runs on every screen entry. It is never cached: each Enter
// reads the store again.
type SessionGuard struct {
	store     identity.Reader
	navigator Navigator
	logger    logging.Logger
}

func NewSessionGuard(store identity.Reader, navigator Navigator, logger logging.Logger) *SessionGuard {
	return &SessionGuard{store: store, navigator: navigator, logger: logger.With("component", "session-guard")}
}

// Check reads the store and evaluates it without navigating. Read failures,
// corrupt records included, degrade to Unauthenticated.
func (g *SessionGuard) Check(ctx context.Context) Decision {
	snap, err := g.store.Get(ctx)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrStorageCorrupt):
		g.logger.Warn(ctx, "identity record corrupt, treating as absent", "error", err)
		snap = identity.Snapshot{}
	default:
		g.logger.Error(ctx, "identity store read failed, treating as absent", "error", err)
		snap = identity.Snapshot{}
	}
	return Evaluate(snap)
}

// Enter evaluates the guard for view. When a redirect applies, it navigates
// before returning and proceed is false; the caller must then skip the
// view's data fetches.
func (g *SessionGuard) Enter(ctx context.Context, view Route) (d Decision, proceed bool) {
	d = g.Check(ctx)

	target, redirect := d.Redirect(view)
	g.logger.Debug(ctx, "guard evaluated", "view", view, "status", d.Status, "redirect", target)
	if redirect {
		g.navigator.GoTo(target)
		return d, false
	}
	return d, true
}
