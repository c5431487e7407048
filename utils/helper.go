package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a prefixed short id like "cf_1a2b3c4d5e6f".
// The prefix names the entity (user, cf, cv, ent, mat, notif, ins).
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewSessionToken returns an opaque session token like "sess_<32 hex>".
func NewSessionToken() string {
	return "sess_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidDate reports whether s is a calendar day in ISO form YYYY-MM-DD.
// Dates are stored and compared as plain strings of this form.
func IsValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsValidMonth reports whether s is a calendar month in ISO form YYYY-MM.
func IsValidMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// Today returns the server-local current date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format("2006-01-02")
}
