package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"netparc/backend/services/inventory-service/internal/models"
)

// StationRepo abstracts station persistence. The implementation must make
// Lease an atomic check-and-set and Release an idempotent flip.
type StationRepo interface {
	List(ctx context.Context) ([]models.Station, error)
	Create(ctx context.Context, name string) (*models.Station, error)
	CreateAutoNamed(ctx context.Context) (*models.Station, error)
	Delete(ctx context.Context, id int64) error
	Lease(ctx context.Context, id int64) error
	Release(ctx context.Context, id int64) error
}

// InventoryService owns the station set and its exclusive-use flag.
type InventoryService struct {
	repo   StationRepo
	logger *zap.Logger
}

// NewInventoryService builds service.
func NewInventoryService(repo StationRepo, logger *zap.Logger) *InventoryService {
	return &InventoryService{repo: repo, logger: logger}
}

// ListStations returns a read-only snapshot.
func (s *InventoryService) ListStations(ctx context.Context) ([]models.Station, error) {
	return s.repo.List(ctx)
}

// CreateStation registers a station. An empty name asks the authority to
// synthesize the next unused PC-<n> name.
func (s *InventoryService) CreateStation(ctx context.Context, name string) (*models.Station, error) {
	name = strings.TrimSpace(name)

	var (
		station *models.Station
		err     error
	)
	if name == "" {
		station, err = s.repo.CreateAutoNamed(ctx)
	} else {
		station, err = s.repo.Create(ctx, name)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("station created",
		zap.Int64("station_id", station.ID),
		zap.String("name", station.Name),
	)
	return station, nil
}

// DeleteStation removes a station. Deleting a leased station is allowed; any
// open session referencing it is closed through the normal billing flow.
func (s *InventoryService) DeleteStation(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("station deleted", zap.Int64("station_id", id))
	return nil
}

// LeaseStation claims exclusive use of a station. Exactly one of any number
// of concurrent callers wins; the rest get ErrAlreadyLeased.
func (s *InventoryService) LeaseStation(ctx context.Context, id int64) error {
	if err := s.repo.Lease(ctx, id); err != nil {
		return err
	}
	s.logger.Info("station leased", zap.Int64("station_id", id))
	return nil
}

// ReleaseStation hands a station back. Releasing an already-free station is a
// successful no-op.
func (s *InventoryService) ReleaseStation(ctx context.Context, id int64) error {
	if err := s.repo.Release(ctx, id); err != nil {
		return err
	}
	s.logger.Info("station released", zap.Int64("station_id", id))
	return nil
}
