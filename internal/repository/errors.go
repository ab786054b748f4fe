// Package repository implements the MySQL-backed stores.  The sentinel
// errors below are the contract every store backend (this package and
// docstore) reports with, so services can tell failure kinds apart
// without knowing which database is behind them.
package repository

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotFound is returned when the addressed row or document does not
// exist, including when it vanished between a read and a write.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned when an identifier is not well formed for the
// backend (e.g. not a decimal id for MySQL, not an ObjectID for Mongo).
var ErrInvalidID = errors.New("invalid id")

// parseID converts a decimal string id into the numeric primary key.
func parseID(id string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return n, nil
}

func formatID(id uint64) string { return strconv.FormatUint(id, 10) }

// placeholders returns "?,?,...,?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
