package domain

import (
	"strings"
)

// ConversionType identifies what kind of event converted a session
type ConversionType string

const (
	// ConversionTypeEmail is set when a session converts through an email capture (Identify)
	ConversionTypeEmail ConversionType = "email"
)

// CustomerStatus represents the lifecycle stage of a customer record
type CustomerStatus string

const (
	// CustomerStatusLead is the initial status assigned on first identification
	CustomerStatusLead CustomerStatus = "lead"
)

// InsertOutcome is the tagged result of an idempotent insert.
// The tracking beacon protocol has no exactly-once delivery guarantee, so
// duplicate-key conflicts on natural keys (fingerprint, session id) are an
// expected outcome that callers branch on rather than an error.
type InsertOutcome int

const (
	// Inserted means the row was newly written
	Inserted InsertOutcome = iota
	// AlreadyExists means a row with the same natural key was already present
	// and the insert was skipped without touching it
	AlreadyExists
)

// String returns a human-readable name for the outcome
func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// Attribution is the set of marketing provenance fields carried by
// Visitors, Sessions, and Customers. All fields are optional; empty
// strings mean "not captured".
type Attribution struct {
	Source      string `json:"utm_source"`
	Medium      string `json:"utm_medium"`
	Campaign    string `json:"utm_campaign"`
	Term        string `json:"utm_term"`
	Content     string `json:"utm_content"`
	LandingPage string `json:"landing_page"`
	Referrer    string `json:"referrer"`
	GCLID       string `json:"gclid"`
	FBCLID      string `json:"fbclid"`
}

// IsZero reports whether no attribution field was captured
func (a Attribution) IsZero() bool {
	return a == Attribution{}
}

// Device holds informational device facts captured at session start.
// These are stored verbatim and never used in matching logic.
type Device struct {
	Type    string `json:"type"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
}

// NormalizeEmail lowercases and trims an email address. Email is the
// case-insensitive identity key for customers, so every lookup and every
// stored value goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail performs the minimal syntactic check used at the identify
// boundary: the address must contain both "@" and ".". This is
// intentionally permissive; full RFC validation rejects real addresses
// the lead forms accept.
func ValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// FilterClickParams drops non-string and empty values from an open-ended
// ad-click parameter map before storage
func FilterClickParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}

	filtered := make(map[string]string, len(params))
	for key, value := range params {
		s, ok := value.(string)
		if !ok || s == "" {
			continue
		}
		filtered[key] = s
	}

	if len(filtered) == 0 {
		return nil
	}
	return filtered
}
