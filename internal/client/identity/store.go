// Package identity owns the durable identity slot. Reads return immutable
// snapshots; all writes go through Store, and read-modify-write sequences go
// through the single mutator Update.
package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/client/repositories/slots"
	"github.com/dmitrijs2005/snappy/internal/common"
	"github.com/dmitrijs2005/snappy/internal/cryptox"
	"github.com/dmitrijs2005/snappy/internal/dbx"
	"github.com/dmitrijs2005/snappy/internal/logging"
)

var (
	// ErrNoIdentity is returned by Update when the slot holds no usable record.
	ErrNoIdentity = errors.New("no identity stored")
	// ErrImmutableField is returned by Update when fn changes the id or the
	// username, or clears an avatar that was already set.
	ErrImmutableField = errors.New("identity field is immutable")
)

// Snapshot is a point-in-time copy of the slot. The zero value is absent.
type Snapshot struct {
	identity models.Identity
	present  bool
}

// SnapshotOf wraps id as a present snapshot.
func SnapshotOf(id models.Identity) Snapshot {
	return Snapshot{identity: id, present: true}
}

func (s Snapshot) Present() bool { return s.present }

// Identity returns the record and whether one is present.
func (s Snapshot) Identity() (models.Identity, bool) {
	return s.identity, s.present
}

// Reader is the read side of the store, used by the session guard.
type Reader interface {
	Get(ctx context.Context) (Snapshot, error)
}

// Writer is the write side of the store.
type Writer interface {
	Set(ctx context.Context, id models.Identity) error
	Update(ctx context.Context, fn func(current models.Identity) (models.Identity, error)) (Snapshot, error)
	Clear(ctx context.Context) error
}

type Store struct {
	db     *sql.DB
	slot   string
	logger logging.Logger
}

var (
	_ Reader = (*Store)(nil)
	_ Writer = (*Store)(nil)
)

// NewStore returns a store over the common.IdentitySlotName slot of db.
// db must have been migrated (see client.InitDatabase).
func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, slot: common.IdentitySlotName, logger: logger.With("component", "identity-store")}
}

// Get reads the slot. A value that fails the checksum, does not decode or
// is not well-formed yields an absent snapshot together with an error
// matching common.ErrStorageCorrupt; callers treat it as absent.
func (s *Store) Get(ctx context.Context) (Snapshot, error) {
	return s.read(ctx, slots.NewSQLiteRepository(s.db))
}

func (s *Store) read(ctx context.Context, repo slots.Repository) (Snapshot, error) {
	raw, err := repo.Get(ctx, s.slot)
	if err != nil {
		return Snapshot{}, err
	}
	if raw == nil {
		return Snapshot{}, nil
	}

	id, err := decode(raw)
	if err != nil {
		s.logger.Warn(ctx, "stored identity is corrupt", "error", err)
		return Snapshot{}, err
	}
	return SnapshotOf(id), nil
}

// Set replaces the slot with id. Records that are not well-formed are
// rejected with common.ErrValidation and nothing is written.
func (s *Store) Set(ctx context.Context, id models.Identity) error {
	value, err := encode(id)
	if err != nil {
		return err
	}
	if err := slots.NewSQLiteRepository(s.db).Put(ctx, s.slot, value); err != nil {
		return err
	}
	s.logger.Info(ctx, "identity stored", "identity", id.ID, "avatar_set", id.AvatarImageSet)
	return nil
}

// Update is the single read-modify-write path. fn receives the current record
// and returns its replacement; read, fn and write run in one transaction. The
// id and username may not change and a set avatar may not be unset.
func (s *Store) Update(ctx context.Context, fn func(current models.Identity) (models.Identity, error)) (Snapshot, error) {
	var next models.Identity

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := slots.NewSQLiteRepository(tx)

		snap, err := s.read(ctx, repo)
		if err != nil && !errors.Is(err, common.ErrStorageCorrupt) {
			return err
		}
		current, ok := snap.Identity()
		if !ok {
			return ErrNoIdentity
		}

		next, err = fn(current)
		if err != nil {
			return err
		}
		if next.ID != current.ID || next.Username != current.Username {
			return ErrImmutableField
		}
		if current.AvatarImageSet && (!next.AvatarImageSet || next.AvatarImage != current.AvatarImage) {
			return ErrImmutableField
		}

		value, err := encode(next)
		if err != nil {
			return err
		}
		return repo.Put(ctx, s.slot, value)
	})
	if err != nil {
		return Snapshot{}, err
	}

	s.logger.Info(ctx, "identity updated", "identity", next.ID, "avatar_set", next.AvatarImageSet)
	return SnapshotOf(next), nil
}

// Clear empties the slot.
func (s *Store) Clear(ctx context.Context) error {
	if err := slots.NewSQLiteRepository(s.db).Delete(ctx, s.slot); err != nil {
		return err
	}
	s.logger.Info(ctx, "identity cleared")
	return nil
}

func encode(id models.Identity) ([]byte, error) {
	if err := id.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	data, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("encode identity: %w", err)
	}
	return cryptox.Seal(data), nil
}

func decode(raw []byte) (models.Identity, error) {
	payload, err := cryptox.Open(raw)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", common.ErrStorageCorrupt, err)
	}

	var id models.Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", common.ErrStorageCorrupt, err)
	}
	if err := id.Validate(); err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", common.ErrStorageCorrupt, err)
	}
	return id, nil
}
