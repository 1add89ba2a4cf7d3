// Package models defines client-side data models used by the Snappy client.
package models

import "errors"

var (
	ErrInvalidIdentity  = errors.New("identity record is not well-formed")
	ErrAvatarAlreadySet = errors.New("avatar already set")
	ErrEmptyAvatar      = errors.New("avatar payload is empty")
)

// Identity is the record kept in the identity slot. JSON field names match
// the ones the backend returns on login.
type Identity struct {
	// ID is assigned by the backend at account creation and never changes.
	ID string `json:"_id"`

	// Username is the display name.
	Username string `json:"username"`

	// Email is informational only; the backend may omit it.
	Email string `json:"email,omitempty"`

	// AvatarImageSet flips false→true exactly once, on avatar commit.
	AvatarImageSet bool `json:"isAvatarImageSet"`

	// AvatarImage is the base64 encoded SVG payload, empty until set.
	AvatarImage string `json:"avatarImage,omitempty"`
}

// Validate reports whether i is well-formed: it has an id and a username,
// and AvatarImageSet is true exactly when AvatarImage is non-empty.
func (i Identity) Validate() error {
	if i.ID == "" || i.Username == "" {
		return ErrInvalidIdentity
	}
	if i.AvatarImageSet != (i.AvatarImage != "") {
		return ErrInvalidIdentity
	}
	return nil
}

// WithAvatar returns a copy of i with the avatar committed to payload.
func (i Identity) WithAvatar(payload string) (Identity, error) {
	if i.AvatarImageSet {
		return Identity{}, ErrAvatarAlreadySet
	}
	if payload == "" {
		return Identity{}, ErrEmptyAvatar
	}
	i.AvatarImageSet = true
	i.AvatarImage = payload
	return i, nil
}
