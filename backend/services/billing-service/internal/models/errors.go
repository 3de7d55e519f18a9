package models

import "errors"

// Domain errors shared by clients, repository, service and handlers.
var (
	// ErrSessionAlreadyOpen rejects a second open for a station that already
	// has a running session.
	ErrSessionAlreadyOpen = errors.New("session already open for station")

	// ErrNoActiveSession means there is nothing to close for the station.
	ErrNoActiveSession = errors.New("no active session for station")

	// ErrStationUnavailable maps the inventory conflict: somebody else holds
	// the lease.
	ErrStationUnavailable = errors.New("station unavailable")

	// ErrStationNotFound means inventory does not know the station id.
	ErrStationNotFound = errors.New("station not found")

	// ErrInventoryUnavailable covers transport failures and timeouts talking
	// to the inventory authority. Nothing has been committed when open fails
	// with it, so the caller may safely retry.
	ErrInventoryUnavailable = errors.New("inventory unavailable")
)
