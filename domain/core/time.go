package core

import (
	"time"
)

// Timestamp is the wall-clock time a dataset was committed
type Timestamp time.Time

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// MarshalJSON writes RFC 3339 in UTC
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).UTC().MarshalJSON()
}

func (t Timestamp) String() string { return t.Time().UTC().Format(time.RFC3339) }
