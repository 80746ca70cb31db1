package model

// NameSource records where an identity's display name came from.
// Writers use it to pick the right fallback label when Name is empty.
type NameSource int

const (
	// NameFromLookup means the name was found in the portal's student database.
	NameFromLookup NameSource = iota

	// NameFromChildren means the name came from the session's children map.
	NameFromChildren

	// NameUnknown means the child was in the children map without a name.
	NameUnknown

	// NameSynthetic means no name was found; writers show "Child ID: {id}".
	NameSynthetic
)

// Identity is the portal account a report is produced for.
// It is either the logged-in account itself (Self) or a dependent
// (child) linked to a parent account.
type Identity struct {
	// ID is the portal's person id of the dependent. Empty for Self.
	ID string

	// Name is the display name. Empty when Source is NameUnknown or NameSynthetic.
	Name string

	// Source records how Name was resolved.
	Source NameSource

	// Self is true for the logged-in account itself.
	Self bool
}

// SelfIdentity returns the identity of the logged-in account.
func SelfIdentity() Identity {
	return Identity{Self: true}
}

// IsDependent reports whether the identity is a dependent of a parent account.
func (i Identity) IsDependent() bool {
	return !i.Self && i.ID != ""
}
