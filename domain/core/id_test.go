package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseDatasetID tests dataset ID parsing
func TestParseDatasetID(t *testing.T) {
	tests := []struct {
		input    string
		expected DatasetID
		hasError bool
	}{
		{"valid-id", DatasetID("valid-id"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		result, err := ParseDatasetID(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("Expected error for input '%s', got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for input '%s': %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, result)
		}
	}
}

// TestParseSourceName trims surrounding whitespace
func TestParseSourceName(t *testing.T) {
	name, err := ParseSourceName("  Cleveland ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if name != SourceName("Cleveland") {
		t.Errorf("Expected Cleveland, got %q", name)
	}

	if _, err := ParseSourceName(""); err == nil {
		t.Error("Expected error for empty source name")
	}
}

// TestHashDeterminism tests that identical content produces identical hashes
func TestHashDeterminism(t *testing.T) {
	a := NewHash([]byte("63,1,1,145,233,1,2,150,0,2.3,3,0,6,0"))
	b := NewHash([]byte("63,1,1,145,233,1,2,150,0,2.3,3,0,6,0"))
	c := NewHash([]byte("67,1,4,160,286,0,2,108,1,1.5,2,3,3,2"))

	if a != b {
		t.Error("Expected identical content to hash identically")
	}
	if a == c {
		t.Error("Expected different content to hash differently")
	}
	if len(a.Short()) != 12 {
		t.Errorf("Expected short hash of 12 chars, got %d", len(a.Short()))
	}
}

// TestUnknownSourceIsNotFound tests the error hierarchy
func TestUnknownSourceIsNotFound(t *testing.T) {
	err := NewUnknownSourceError("Atlantis")
	if !errors.Is(err, ErrUnknownSource) {
		t.Error("Expected ErrUnknownSource")
	}
	if !IsNotFoundError(err) {
		t.Error("Expected unknown source to be a not-found error")
	}
}
