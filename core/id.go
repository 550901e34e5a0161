package core

import "github.com/google/uuid"

// NewID generates a unique identifier for threads and messages.
func NewID() string { return uuid.NewString() }
