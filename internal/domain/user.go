// Package domain holds the core entities of the movie catalog.
package domain

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           int64     `json:"user_id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeUserName trims surrounding whitespace and applies Unicode NFC,
// so visually identical names share one row under the UNIQUE constraint.
func NormalizeUserName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
