package models

import "time"

// Session is the billing record for one lease. EndTime and Price stay unset
// while the session is open; once priced they are immutable.
type Session struct {
	ID        int64      `db:"id" json:"id"`
	StationID int64      `db:"station_id" json:"station_id"`
	StartTime time.Time  `db:"start_time" json:"start_time"`
	EndTime   *time.Time `db:"end_time" json:"end_time,omitempty"`
	Price     float64    `db:"price" json:"price"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Open reports whether the session has not been closed yet.
func (s *Session) Open() bool {
	return s.EndTime == nil
}
