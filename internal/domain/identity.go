// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const MaxDisplayNameLen = 64

var (
	ErrIdentityIncomplete = errors.New("identity missing id or display name")
	ErrDisplayNameTooLong = errors.New("display name too long")
)

type UserID string

// Identity is resolved once from the verified credential at connect time
// and never changes for the lifetime of the connection.
type Identity struct {
	ID          UserID `json:"id"`
	DisplayName string `json:"displayName"`
}

// NewIdentity is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewIdentity(id, displayName string) (Identity, error) {
	if id == "" || displayName == "" {
		return Identity{}, ErrIdentityIncomplete
	}
	if len(displayName) > MaxDisplayNameLen {
		return Identity{}, ErrDisplayNameTooLong
	}
	return Identity{ID: UserID(id), DisplayName: displayName}, nil
}
