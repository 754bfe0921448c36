package generate

import "github.com/google/uuid"

// NewSessionID mints an opaque session identifier. Callers that need
// the id before running the turn (to tag stream events) mint it
// themselves and pass it in the request.
func NewSessionID() string {
	return "session-" + uuid.NewString()
}
