package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"netparc/backend/services/billing-service/internal/models"
)

// SessionRepository handles persistence of metered sessions.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts an open session for the station.
func (r *SessionRepository) Create(ctx context.Context, stationID int64, start time.Time) (*models.Session, error) {
	const query = `
		INSERT INTO sessions (station_id, start_time, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, station_id, start_time, created_at, updated_at
	`
	var s models.Session
	err := r.db.QueryRowContext(ctx, query, stationID, start).
		Scan(&s.ID, &s.StationID, &s.StartTime, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOpenByStation returns the station's open session, if any.
func (r *SessionRepository) GetOpenByStation(ctx context.Context, stationID int64) (*models.Session, error) {
	const query = `
		SELECT id, station_id, start_time, end_time, price, created_at, updated_at
		FROM sessions
		WHERE station_id = $1 AND end_time IS NULL
	`
	s, err := scanSession(r.db.QueryRowContext(ctx, query, stationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Complete sets end time and price. The end_time guard makes the price write
// happen at most once; a closed session is never repriced.
func (r *SessionRepository) Complete(ctx context.Context, id int64, end time.Time, price float64) error {
	const query = `
		UPDATE sessions
		SET end_time = $2,
		    price = $3,
		    updated_at = NOW()
		WHERE id = $1 AND end_time IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id, end, price)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNoActiveSession
	}
	return nil
}

// ListClosed returns priced sessions, most recent start first.
func (r *SessionRepository) ListClosed(ctx context.Context) ([]models.Session, error) {
	const query = `
		SELECT id, station_id, start_time, end_time, price, created_at, updated_at
		FROM sessions
		WHERE end_time IS NOT NULL
		ORDER BY start_time DESC
	`
	return r.list(ctx, query)
}

// ListOpen returns running sessions, most recent start first.
func (r *SessionRepository) ListOpen(ctx context.Context) ([]models.Session, error) {
	const query = `
		SELECT id, station_id, start_time, end_time, price, created_at, updated_at
		FROM sessions
		WHERE end_time IS NULL
		ORDER BY start_time DESC
	`
	return r.list(ctx, query)
}

func (r *SessionRepository) list(ctx context.Context, query string) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		s     models.Session
		end   sql.NullTime
		price sql.NullFloat64
	)
	if err := row.Scan(&s.ID, &s.StationID, &s.StartTime, &end, &price, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if end.Valid {
		s.EndTime = &end.Time
	}
	if price.Valid {
		s.Price = price.Float64
	}
	return &s, nil
}
