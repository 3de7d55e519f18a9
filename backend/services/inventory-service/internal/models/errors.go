package models

import "errors"

// Domain errors shared by repository, service and handlers.
var (
	ErrStationNotFound = errors.New("station not found")
	ErrNameTaken       = errors.New("station name already exists")
	ErrAlreadyLeased   = errors.New("station already leased")
)
