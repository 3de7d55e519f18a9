package models

import "time"

// Station lease states.
const (
	StationStateFree   = "free"
	StationStateLeased = "leased"
)

// Station is a rentable workstation. The state flag is the single arbiter of
// exclusivity and is mutated only through lease/release, never set directly.
type Station struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	State     string    `db:"state" json:"state"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
