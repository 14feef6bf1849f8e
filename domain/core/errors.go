package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Ingestion errors
	ErrParse       = errors.New("csv input could not be parsed")
	ErrRowRejected = errors.New("row rejected")

	// Source errors
	ErrNotFound      = errors.New("resource not found")
	ErrUnknownSource = fmt.Errorf("%w: data source", ErrNotFound)
	ErrFetchFailed   = errors.New("data source fetch failed")

	// Store errors
	ErrStaleLoad = errors.New("load superseded by a newer request")
)

// NewUnknownSourceError reports a source name missing from the catalog
func NewUnknownSourceError(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownSource, name)
}

// NewFetchError wraps a transport failure for a named source
func NewFetchError(source string, err error) error {
	return fmt.Errorf("%w for %s: %v", ErrFetchFailed, source, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

func IsStaleLoad(err error) bool {
	return errors.Is(err, ErrStaleLoad)
}
