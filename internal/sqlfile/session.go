package sqlfile

import "github.com/google/uuid"

// newSessionID returns a time-ordered id for one open connection, falling
// back to a random one when the clock source fails.
func newSessionID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
