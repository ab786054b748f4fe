// Package service holds the application operations: emotion tagging and
// lookup, favorites and catalog listing.  Services depend on small store
// interfaces so either database backend can sit behind them.
package service

import "errors"

// Failure kinds reported by every service.  Callers match them with
// errors.Is; the wrapped message carries the underlying cause.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrUpdateFailed    = errors.New("update failed")
	ErrQueryFailed     = errors.New("query failed")
	ErrInvalidArgument = errors.New("invalid argument")
)
