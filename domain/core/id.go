package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	DatasetID  ID
	SourceName ID
)

func (id DatasetID) String() string { return ID(id).String() }
func (n SourceName) String() string { return ID(n).String() }
func (id DatasetID) IsEmpty() bool  { return ID(id).IsEmpty() }

// NewDatasetID returns a fresh time-ordered dataset identifier
func NewDatasetID() DatasetID {
	return DatasetID(NewID())
}

// ParseDatasetID parses a string into DatasetID
func ParseDatasetID(s string) (DatasetID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("dataset ID cannot be empty")
	}
	return DatasetID(s), nil
}

// ParseSourceName parses a catalog source name
func ParseSourceName(s string) (SourceName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("source name cannot be empty")
	}
	return SourceName(s), nil
}

// LoadTicket orders dataset loads; a later load carries a larger ticket
type LoadTicket int64
