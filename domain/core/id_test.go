package core

import (
	"encoding/json"
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	// Generate many IDs
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

// TestParseEntryID tests entry ID parsing
func TestParseEntryID(t *testing.T) {
	tests := []struct {
		input    string
		expected EntryID
		hasError bool
	}{
		{"valid-id", EntryID("valid-id"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEntryID(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseEntryID(%q): expected error, got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEntryID(%q): unexpected error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseEntryID(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// TestTimestampJSONRoundTrip tests timestamp marshaling
func TestTimestampJSONRoundTrip(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC))

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var back Timestamp
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !back.Time().Equal(ts.Time()) {
		t.Errorf("Round trip mismatch: got %v, want %v", back.Time(), ts.Time())
	}
}
