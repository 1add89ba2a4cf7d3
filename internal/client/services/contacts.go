package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/snappy/internal/client/client"
	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/common"
	"github.com/dmitrijs2005/snappy/internal/logging"
)

const noSelection = -1

// ContactSync keeps the roster of the main screen and the contact selected
// for conversation.
//
// Every Load belongs to one screen entry. Leave, or a newer Load, makes the
// older entry stale: its result is dropped instead of applied.
type ContactSync struct {
	client    client.Client
	notifier  Notifier
	publisher ContactPublisher
	logger    logging.Logger

	mu         sync.Mutex
	generation uint64
	owner      string
	roster     []models.Contact
	selected   int
}

func NewContactSync(c client.Client, notifier Notifier, publisher ContactPublisher, logger logging.Logger) *ContactSync {
	return &ContactSync{
		client:    c,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger.With("component", "contact-sync"),
		roster:    []models.Contact{},
		selected:  noSelection,
	}
}

// Load fetches the roster for a Ready decision and replaces the current one
// in full, clearing the selection. On failure the previous roster is kept and
// the failure is notified. A roster never outlives its identity: loading for
// a different identity empties roster and selection before the fetch.
func (s *ContactSync) Load(ctx context.Context, d Decision) error {
	if d.Status != Ready {
		return ErrNotReady
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.owner != d.Identity.ID {
		s.owner = d.Identity.ID
		s.roster = []models.Contact{}
		s.selected = noSelection
	}
	s.mu.Unlock()

	contacts, err := s.client.GetContacts(ctx, d.Identity.ID)

	s.mu.Lock()
	stale := gen != s.generation || ctx.Err() != nil
	if err == nil && !stale {
		s.roster = contacts
		s.selected = noSelection
	}
	s.mu.Unlock()

	switch {
	case stale:
		s.logger.Debug(ctx, "dropping roster result for inactive view", "identity", d.Identity.ID)
		return ErrStaleView
	case err != nil:
		s.logger.Error(ctx, "roster fetch failed", "identity", d.Identity.ID, "error", err)
		s.notifier.Notify(ctx, "Error fetching contacts", common.KindOf(err).Severity())
		return fmt.Errorf("get contacts: %w", err)
	}

	s.logger.Info(ctx, "roster loaded", "identity", d.Identity.ID, "contacts", len(contacts))
	return nil
}

// Leave marks the current screen entry inactive so in-flight loads are
// dropped. The roster itself is kept as the last known value.
func (s *ContactSync) Leave() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
}

// Reset forgets roster, selection and owner, and drops in-flight loads.
// Called on logout.
func (s *ContactSync) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.owner = ""
	s.roster = []models.Contact{}
	s.selected = noSelection
}

// Select marks contact i as the conversation partner and publishes it.
// Selecting the selected index again only re-publishes. Out-of-range indexes
// are rejected without touching state.
func (s *ContactSync) Select(ctx context.Context, i int) (models.Contact, error) {
	s.mu.Lock()
	if i < 0 || i >= len(s.roster) {
		n := len(s.roster)
		s.mu.Unlock()
		s.notifier.Notify(ctx, fmt.Sprintf("No contact #%d", i), common.KindValidation.Severity())
		return models.Contact{}, fmt.Errorf("select %d of %d: %w", i, n, ErrIndexOutOfRange)
	}
	s.selected = i
	contact := s.roster[i]
	s.mu.Unlock()

	s.publisher.PublishContact(contact)
	return contact, nil
}

// Roster returns a copy of the current roster in display order.
func (s *ContactSync) Roster() []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Contact(nil), s.roster...)
}

// Selected returns the selected contact and its index, if any.
func (s *ContactSync) Selected() (models.Contact, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == noSelection {
		return models.Contact{}, noSelection, false
	}
	return s.roster[s.selected], s.selected, true
}

// IsStale reports whether err only means the result was dropped.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleView) || errors.Is(err, context.Canceled)
}
