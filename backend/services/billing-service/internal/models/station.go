package models

// Station lease states as reported by the inventory authority.
const (
	StationStateFree   = "free"
	StationStateLeased = "leased"
)

// StationStatus is the inventory authority's view of a station. Only the id
// and the lease flag cross the authority boundary; billing never dereferences
// inventory's internal objects.
type StationStatus struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}
