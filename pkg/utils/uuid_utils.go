package utils

import (
	"github.com/google/uuid"
)

var newUUIDv7 = uuid.NewV7

// GenerateUUIDv7 generates a new time-ordered UUID
func GenerateUUIDv7() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// NewSessionID returns an opaque identifier for a server-side session.
func NewSessionID() string {
	return uuid.NewString()
}

// NewRequestID returns a sortable identifier for request correlation.
func NewRequestID() string {
	return GenerateUUIDv7().String()
}
