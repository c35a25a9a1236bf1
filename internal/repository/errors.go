// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as services
// and handlers to distinguish between different failure scenarios. For
// example, ErrNotFound indicates that a referenced entity is absent and
// should surface as a 404 to the admin API, while ErrDuplicate signals a
// uniqueness violation such as registering the same WhatsApp number twice.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a queried record does not exist. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// such as a duplicate WhatsApp number, admin email or per-session form.
// Handlers should translate this into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate")

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
