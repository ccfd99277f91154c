package types

import (
	"time"

	"github.com/google/uuid"
)

// RevisionID identifies one saved revision of a rule set. Every save replaces
// the scope's payload atomically and stamps a fresh revision, so concurrent
// admin saves are last-writer-wins with an auditable marker.
// String alias enables type safety while maintaining JSON string serialization.
type RevisionID string

// NewRevisionID generates a UUIDv7 revision identifier.
// Time-ordered IDs keep revision history sortable without a separate counter.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRevisionID() RevisionID {
	return RevisionID(uuid.Must(uuid.NewV7()).String())
}

// ParseRevisionID validates and converts a string to RevisionID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseRevisionID(s string) (RevisionID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return RevisionID(s), nil
}

// RevisionTime extracts the timestamp embedded in a UUIDv7 revision.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func RevisionTime(id RevisionID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
