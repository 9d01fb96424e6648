package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID is an opaque, time-ordered identifier used to tag orchestrator runs.
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation.
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs.
	// Falls back to v4 if v7 is not available (for compatibility).
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation.
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty.
func (id ID) IsEmpty() bool {
	return id == ""
}

// RunID identifies a single multi-trace orchestrator invocation.
type RunID ID

func (id RunID) String() string { return ID(id).String() }

// ParseRunID parses a string into a RunID.
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}
