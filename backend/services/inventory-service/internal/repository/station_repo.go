package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"netparc/backend/services/inventory-service/internal/models"
)

const uniqueViolationCode = "23505"

// Advisory lock key serializing auto-named creates.
const namingLockID = 427431

// StationRepository persists stations.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// List returns a snapshot of all stations ordered by name.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	const query = `
		SELECT id, name, state, created_at, updated_at
		FROM stations
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.State, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// Create inserts a station with the given name in free state.
func (r *StationRepository) Create(ctx context.Context, name string) (*models.Station, error) {
	const query = `
		INSERT INTO stations (name, state, created_at, updated_at)
		VALUES ($1, 'free', NOW(), NOW())
		RETURNING id, name, state, created_at, updated_at
	`
	var s models.Station
	err := r.db.QueryRowContext(ctx, query, name).Scan(&s.ID, &s.Name, &s.State, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, models.ErrNameTaken
		}
		return nil, err
	}
	return &s, nil
}

// CreateAutoNamed synthesizes the smallest unused PC-<n> name and inserts the
// station. The advisory lock serializes concurrent auto-named creates so two
// callers never compute the same gap.
func (r *StationRepository) CreateAutoNamed(ctx context.Context) (*models.Station, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, namingLockID); err != nil {
		return nil, fmt.Errorf("acquire naming lock: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `SELECT name FROM stations`)
	if err != nil {
		return nil, err
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const query = `
		INSERT INTO stations (name, state, created_at, updated_at)
		VALUES ($1, 'free', NOW(), NOW())
		RETURNING id, name, state, created_at, updated_at
	`
	var s models.Station
	if err := tx.QueryRowContext(ctx, query, nextAutoName(names)).Scan(&s.ID, &s.Name, &s.State, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes a station regardless of its lease state.
func (r *StationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrStationNotFound
	}
	return nil
}

// Lease flips free -> leased. The WHERE clause is the atomic check-and-set:
// of any number of concurrent callers exactly one observes state='free'.
func (r *StationRepository) Lease(ctx context.Context, id int64) error {
	const query = `
		UPDATE stations
		SET state = 'leased',
		    updated_at = NOW()
		WHERE id = $1 AND state = 'free'
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrStationNotFound
		}
		return models.ErrAlreadyLeased
	}
	return nil
}

// Release flips leased -> free and succeeds as a no-op when already free, so
// callers can retry after an ambiguous network failure.
func (r *StationRepository) Release(ctx context.Context, id int64) error {
	const query = `
		UPDATE stations
		SET state = 'free',
		    updated_at = NOW()
		WHERE id = $1 AND state = 'leased'
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrStationNotFound
		}
	}
	return nil
}

func (r *StationRepository) exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM stations WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const autoNamePrefix = "PC-"

// nextAutoName picks the smallest positive integer not used as a PC-<n> suffix.
func nextAutoName(names []string) string {
	used := make([]int, 0, len(names))
	for _, name := range names {
		suffix, ok := strings.CutPrefix(name, autoNamePrefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimLeft(suffix, "0"))
		if err != nil || n <= 0 {
			continue
		}
		used = append(used, n)
	}
	sort.Ints(used)

	next := 1
	for _, n := range used {
		if n > next {
			break
		}
		if n == next {
			next++
		}
	}
	return fmt.Sprintf("%s%d", autoNamePrefix, next)
}
