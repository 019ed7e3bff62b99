package ledger

import (
	"regexp"
	"strings"
)

type RecipientKind string

const (
	RecipientEmail RecipientKind = "email"
	RecipientPhone RecipientKind = "phone"
)

var (
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneShape = regexp.MustCompile(`^[0-9]{10}$`)
)

// ClassifyRecipient reports whether the contact string looks like an email
// address or a 10-digit phone number. It is a shape check only; no lookup
// against any real identity happens here.
func ClassifyRecipient(contact string) (RecipientKind, bool) {
	contact = strings.TrimSpace(contact)

	switch {
	case emailShape.MatchString(contact):
		return RecipientEmail, true
	case phoneShape.MatchString(contact):
		return RecipientPhone, true
	default:
		return "", false
	}
}
