package models

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Status
		wantErr  bool
	}{
		{"pending", "pending", StatusPending, false},
		{"approved", "approved", StatusApproved, false},
		{"rejected", "rejected", StatusRejected, false},
		{"uppercase is not a status", "APPROVED", 0, true},
		{"empty", "", 0, true},
		{"unknown", "archived", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStatus_Value(t *testing.T) {
	v, err := StatusApproved.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != "approved" {
		t.Errorf("Value() = %v, want approved", v)
	}

	if _, err := Status(9).Value(); err == nil {
		t.Error("Expected error storing an out-of-range status")
	}
}

func TestStatus_Scan(t *testing.T) {
	var s Status
	if err := s.Scan([]byte("rejected")); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if s != StatusRejected {
		t.Errorf("Scan() = %v, want rejected", s)
	}
	if err := s.Scan("Rejected"); err == nil {
		t.Error("Expected error scanning a status with the wrong case")
	}
	if err := s.Scan(nil); err == nil {
		t.Error("Expected error scanning NULL")
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input    string
		expected Platform
		wantErr  bool
	}{
		{"facebook", PlatformFacebook, false},
		{"reddit", PlatformReddit, false},
		{"Reddit", 0, true},
		{"discord", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParsePlatform(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlatform(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("ParsePlatform(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCommunityListing_JSON(t *testing.T) {
	listing := CommunityListing{
		ID:       "b1",
		Name:     "Bay Oaks",
		Platform: PlatformReddit,
		City:     "Austin",
		Status:   StatusApproved,
	}

	data, err := json.Marshal(listing)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if obj["platform"] != "reddit" {
		t.Errorf("platform = %v, want reddit", obj["platform"])
	}
	if obj["status"] != "approved" {
		t.Errorf("status = %v, want approved", obj["status"])
	}

	var back CommunityListing
	if err := json.Unmarshal([]byte(`{"status":"deleted"}`), &back); err == nil {
		t.Error("Expected error decoding an unknown status")
	}
}
