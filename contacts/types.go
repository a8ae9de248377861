// Package contacts owns the known-contact directory: a file-backed
// ordered collection with fuzzy lookup that can report ambiguity
// instead of silently picking one match.
package contacts

import (
	"errors"
	"regexp"
	"strings"
)

// DefaultMatchThreshold is the minimum per-field similarity score a
// contact needs to count as a fuzzy candidate.
const DefaultMatchThreshold = 0.7

var (
	ErrValidation = errors.New("contacts: missing required field")
	ErrNotFound   = errors.New("contacts: no match")
	ErrAmbiguous  = errors.New("contacts: multiple matches")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Contact struct {
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	// Name is the legacy combined field some directory files carry. It
	// is written for compatibility and only read when first/last are
	// absent.
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

func (c Contact) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// LocalPart is the email substring before the '@'.
func (c Contact) LocalPart() string {
	email := strings.TrimSpace(c.Email)
	if idx := strings.Index(email, "@"); idx >= 0 {
		return email[:idx]
	}
	return email
}

func IsValidEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

type MatchKind string

const (
	MatchResolved  MatchKind = "resolved"
	MatchAmbiguous MatchKind = "ambiguous"
	MatchNotFound  MatchKind = "not_found"
)

// MatchResult is the outcome of a directory lookup. Contact is set for
// MatchResolved, Candidates for MatchAmbiguous.
type MatchResult struct {
	Kind       MatchKind
	Contact    Contact
	Candidates []Contact
}
