package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"netparc/backend/libs/metrics"
	redisstore "netparc/backend/services/billing-service/internal/redis"
	"netparc/backend/services/billing-service/internal/models"
)

// SessionRepo abstracts session persistence.
type SessionRepo interface {
	Create(ctx context.Context, stationID int64, start time.Time) (*models.Session, error)
	GetOpenByStation(ctx context.Context, stationID int64) (*models.Session, error)
	Complete(ctx context.Context, id int64, end time.Time, price float64) error
	ListClosed(ctx context.Context) ([]models.Session, error)
	ListOpen(ctx context.Context) ([]models.Session, error)
}

// Inventory is the outbound port to the inventory authority.
type Inventory interface {
	ListStations(ctx context.Context) ([]models.StationStatus, error)
	Lease(ctx context.Context, stationID int64) error
	Release(ctx context.Context, stationID int64) error
}

// OpenSessionCache caches open sessions per station, best effort.
type OpenSessionCache interface {
	Save(ctx context.Context, session redisstore.OpenSession) error
	Delete(ctx context.Context, stationID int64) error
}

// CloseResult is what the caller gets back from a close, release outcome
// notwithstanding.
type CloseResult struct {
	SessionID     int64
	Price         float64
	DurationHours float64
}

// BillingService owns sessions and pricing and drives the two-authority
// lease-and-meter saga. Ordering is fixed: lease before session-create on
// open, price before release on close.
type BillingService struct {
	repo         SessionRepo
	inventory    Inventory
	cache        OpenSessionCache
	pricePerHour float64
	now          func() time.Time
	logger       *zap.Logger
}

// NewBillingService builds service. cache may be nil.
func NewBillingService(
	repo SessionRepo,
	inventory Inventory,
	cache OpenSessionCache,
	pricePerHour float64,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		repo:         repo,
		inventory:    inventory,
		cache:        cache,
		pricePerHour: pricePerHour,
		now:          time.Now,
		logger:       logger,
	}
}

// OpenSession leases the station and starts the meter. Any failure before the
// session row exists leaves nothing behind: a conflict or an unreachable
// inventory is reported with no billing-side state, so the caller may retry.
func (s *BillingService) OpenSession(ctx context.Context, stationID int64) (*models.Session, error) {
	// A retry after an ambiguous failure must not lease the station twice.
	existing, err := s.repo.GetOpenByStation(ctx, stationID)
	if err == nil && existing != nil {
		return nil, models.ErrSessionAlreadyOpen
	}
	if err != nil && !errors.Is(err, models.ErrNoActiveSession) {
		return nil, err
	}

	if err := s.inventory.Lease(ctx, stationID); err != nil {
		if errors.Is(err, models.ErrStationUnavailable) {
			metrics.LeaseConflictsTotal.Inc()
		}
		s.logger.Info("lease rejected, open aborted",
			zap.Int64("station_id", stationID),
			zap.Error(err),
		)
		return nil, err
	}

	session, err := s.repo.Create(ctx, stationID, s.now().UTC())
	if err != nil {
		// The lease was won but the session write was lost. Hand the station
		// back so it is not leased forever with no record behind it; if this
		// release fails too the reconciler picks the station up.
		if relErr := s.inventory.Release(ctx, stationID); relErr != nil {
			s.logger.Error("compensating release failed, station left for reconciler",
				zap.Int64("station_id", stationID),
				zap.Error(relErr),
			)
		}
		return nil, err
	}

	metrics.SessionsOpenedTotal.Inc()
	if s.cache != nil {
		if cacheErr := s.cache.Save(ctx, redisstore.OpenSession{
			SessionID: session.ID,
			StationID: session.StationID,
			StartTime: session.StartTime,
		}); cacheErr != nil {
			s.logger.Warn("failed to cache open session", zap.Error(cacheErr))
		}
	}

	s.logger.Info("session opened",
		zap.Int64("session_id", session.ID),
		zap.Int64("station_id", stationID),
	)
	return session, nil
}

// CloseSession prices the station's open session and releases the lease.
// The price is committed before the release call: revenue recognition must
// not be lost to a downstream failure, so a failed release is logged and left
// to the reconciler while the priced result is still returned.
func (s *BillingService) CloseSession(ctx context.Context, stationID int64) (*CloseResult, error) {
	session, err := s.repo.GetOpenByStation(ctx, stationID)
	if err != nil {
		return nil, err
	}

	end := s.now().UTC()
	hours := end.Sub(session.StartTime).Hours()
	price := RoundMoney(hours * s.pricePerHour)

	if err := s.repo.Complete(ctx, session.ID, end, price); err != nil {
		return nil, err
	}
	metrics.SessionsClosedTotal.Inc()

	if err := s.inventory.Release(ctx, stationID); err != nil {
		metrics.ReleaseFailuresTotal.Inc()
		s.logger.Warn("release after close failed, station left leased until reconciliation",
			zap.Int64("station_id", stationID),
			zap.Int64("session_id", session.ID),
			zap.Error(err),
		)
	}

	if s.cache != nil {
		if cacheErr := s.cache.Delete(ctx, stationID); cacheErr != nil {
			s.logger.Warn("failed to drop open session cache", zap.Error(cacheErr))
		}
	}

	s.logger.Info("session closed",
		zap.Int64("session_id", session.ID),
		zap.Int64("station_id", stationID),
		zap.Float64("price", price),
	)
	return &CloseResult{
		SessionID:     session.ID,
		Price:         price,
		DurationHours: RoundMoney(hours),
	}, nil
}

// ListClosedSessions returns priced sessions, most recent start first, with
// aggregate revenue.
func (s *BillingService) ListClosedSessions(ctx context.Context) ([]models.Session, float64, error) {
	sessions, err := s.repo.ListClosed(ctx)
	if err != nil {
		return nil, 0, err
	}
	var total float64
	for _, session := range sessions {
		total += session.Price
	}
	return sessions, RoundMoney(total), nil
}

// ListActiveSessions returns currently running sessions.
func (s *BillingService) ListActiveSessions(ctx context.Context) ([]models.Session, error) {
	return s.repo.ListOpen(ctx)
}
