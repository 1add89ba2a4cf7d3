package models

// Contact is a roster entry. Contacts are fetched fresh on every main screen
// entry and never persisted.
type Contact struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	AvatarImage string `json:"avatarImage"`
}
