// Package common contains shared constants, sentinel errors and small helpers
// used across ClassPulse client layers. Callers should use errors.Is to match
// the sentinel values.
package common

import "errors"

// Keys under which auth state is persisted in the local metadata store.
// Both are always written (and cleared) together.
const (
	AccessTokenKey = "access_token"
	RoleKey        = "role"
)

var (
	// ErrNoToken is returned when no join token could be extracted from
	// scanned or pasted input.
	ErrNoToken = errors.New("no join token found")

	// ErrUnauthorized indicates the server rejected the current credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal is a generic internal flow-control error.
	ErrInternal = errors.New("internal error")
)

// WipeByteArray overwrites the slice with zeros. Used for passwords that
// should not linger in memory after use.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
