// Package guest persists the anonymous participant identity, one slot per
// join token. The backing storage is scoped to the current browsing session:
// identities do not survive into a new one.
package guest

import "context"

// Identity is the per-token guest record. A non-nil GuestID marks a
// returning guest whose name is already known to the server and therefore
// read-only on the join form; a nil GuestID is an unconfirmed guest whose
// name remains editable.
type Identity struct {
	GuestID   *string `json:"guestId"`
	GuestName string  `json:"guestName"`
}

// Returning reports whether the server has already assigned a guest id.
func (i Identity) Returning() bool {
	return i.GuestID != nil && *i.GuestID != ""
}

// Store is the keyed identity cache. Load returns (nil, nil) when no
// identity is recorded for the token; corrupted stored data also reads as
// no identity, never as an error. Save is idempotent.
type Store interface {
	Load(ctx context.Context, joinToken string) (*Identity, error)
	Save(ctx context.Context, joinToken string, identity Identity) error
}

// StorageKey derives the storage slot for a join token. Distinct tokens map
// to distinct slots and never overwrite each other.
func StorageKey(joinToken string) string {
	return "session_guest_" + joinToken
}
