package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "bloodlink/pkg/domain-errors"
)

// SessionID identifies one browser session. Each session owns its own
// credential storage, intake form and dashboard state.
type SessionID uuid.UUID

// NewSessionID returns a fresh random session ID.
func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

// ParseSessionID constructs a SessionID from external input (cookie value).
//
// Errors: returns CodeInvalidInput when the value is empty, not a UUID, or the
// nil UUID.
func ParseSessionID(s string) (SessionID, error) {
	if strings.TrimSpace(s) == "" {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "session id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid session id")
	}
	if parsed == uuid.Nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "session id cannot be nil")
	}
	return SessionID(parsed), nil
}

// IsNil reports whether the ID is the zero value.
func (id SessionID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id SessionID) String() string {
	return uuid.UUID(id).String()
}
