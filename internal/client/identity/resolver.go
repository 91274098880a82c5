// Package identity decides which identity class a join attempt runs under.
package identity

import (
	"github.com/classpulse/classpulse/internal/client/guest"
)

// Kind is the identity class of a join attempt. Payload building and
// validation branch exhaustively on exactly these variants.
type Kind int

const (
	// AuthenticatedStudent submits under the logged-in student account.
	AuthenticatedStudent Kind = iota

	// GuestReturning is an anonymous guest the server has already assigned
	// an id to; the name field is locked.
	GuestReturning

	// GuestNew is an anonymous guest without a server-assigned id yet; the
	// name field is editable and required.
	GuestNew
)

func (k Kind) String() string {
	switch k {
	case AuthenticatedStudent:
		return "authenticated-student"
	case GuestReturning:
		return "guest-returning"
	case GuestNew:
		return "guest-new"
	default:
		return "unknown"
	}
}

// Mode is the resolved identity for one join attempt.
type Mode struct {
	Kind      Kind
	GuestID   *string
	GuestName string
}

// Inputs collects everything the resolver looks at. Resolution is pure:
// same inputs, same mode, every time.
type Inputs struct {
	// Authenticated is true when an access token is present.
	Authenticated bool

	// StudentRole is true when the authenticated role is "student".
	StudentRole bool

	// ForceGuest is the navigation hint from a guest-join entry point. It
	// always wins over an otherwise-valid authenticated session, so a
	// logged-in teacher previewing a join link is not silently treated as
	// the student account owner.
	ForceGuest bool

	// HintName is the name carried by navigation state, if any.
	HintName string

	// Persisted is the stored guest identity for this join token, if any.
	Persisted *guest.Identity
}

// Resolve maps inputs to an identity mode.
//
// An unresolvable combination (authenticated non-student without a guest
// hint) falls back to a new guest rather than an error state: anonymous
// participation must always be possible.
func Resolve(in Inputs) Mode {
	if in.Authenticated && in.StudentRole && !in.ForceGuest {
		return Mode{Kind: AuthenticatedStudent}
	}

	name := in.HintName
	if name == "" && in.Persisted != nil {
		name = in.Persisted.GuestName
	}

	if in.Persisted != nil && in.Persisted.Returning() {
		return Mode{Kind: GuestReturning, GuestID: in.Persisted.GuestID, GuestName: name}
	}

	return Mode{Kind: GuestNew, GuestName: name}
}
