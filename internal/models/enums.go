package models

import (
	"database/sql/driver"
	"fmt"
)

// Status is the moderation lifecycle state of a listing.
// The zero value is StatusPending, the only state a new listing can enter.
type Status int16

// Status constants
const (
	StatusPending  Status = 0
	StatusApproved Status = 1
	StatusRejected Status = 2
)

var statusNames = map[Status]string{
	StatusPending:  "pending",
	StatusApproved: "approved",
	StatusRejected: "rejected",
}

// ParseStatus converts the lowercase text form into a Status
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Valid reports whether s is one of the defined states
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int16(s))
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int16(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer so statuses are stored as text
func (s Status) Value() (driver.Value, error) {
	b, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *Status) Scan(src interface{}) error {
	return s.UnmarshalText(scanText(src))
}

// Platform is the hosting platform of a community group.
// The zero value is not a platform; listings always carry a parsed one.
type Platform int16

// Platform constants
const (
	PlatformFacebook Platform = 1
	PlatformReddit   Platform = 2
)

var platformNames = map[Platform]string{
	PlatformFacebook: "facebook",
	PlatformReddit:   "reddit",
}

// ParsePlatform converts the lowercase text form into a Platform
func ParsePlatform(s string) (Platform, error) {
	for p, name := range platformNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown platform %q", s)
}

// PlatformNames returns the text form of every platform
func PlatformNames() []string {
	return []string{"facebook", "reddit"}
}

// Valid reports whether p is one of the defined platforms
func (p Platform) Valid() bool {
	_, ok := platformNames[p]
	return ok
}

func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Platform(%d)", int16(p))
}

// MarshalText implements encoding.TextMarshaler
func (p Platform) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid platform %d", int16(p))
	}
	return []byte(platformNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Platform) UnmarshalText(b []byte) error {
	parsed, err := ParsePlatform(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer so platforms are stored as text
func (p Platform) Value() (driver.Value, error) {
	b, err := p.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (p *Platform) Scan(src interface{}) error {
	return p.UnmarshalText(scanText(src))
}

func scanText(src interface{}) []byte {
	switch v := src.(type) {
	case string:
		return []byte(v)
	case []byte:
		return v
	default:
		return nil
	}
}
