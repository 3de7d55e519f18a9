package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"netparc/backend/libs/metrics"
	"netparc/backend/services/billing-service/internal/models"
)

// Reconciler repairs the anomaly a failed release leaves behind: a station
// marked leased in inventory with no open session backing it. It never touches
// a station that has an open session.
type Reconciler struct {
	repo      SessionRepo
	inventory Inventory
	interval  time.Duration
	logger    *zap.Logger
}

// NewReconciler builds reconciler.
func NewReconciler(repo SessionRepo, inventory Inventory, interval time.Duration, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		repo:      repo,
		inventory: inventory,
		interval:  interval,
		logger:    logger,
	}
}

// Run executes passes on the configured interval until the context is
// cancelled. A failed pass is logged and retried on the next tick.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				r.logger.Warn("reconciliation pass failed", zap.Error(err))
			}
		}
	}
}

// RunOnce cross-checks inventory lease flags against open sessions and
// force-releases stations that are leased with nothing behind them.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	stations, err := r.inventory.ListStations(ctx)
	if err != nil {
		return err
	}

	open, err := r.repo.ListOpen(ctx)
	if err != nil {
		return err
	}
	openByStation := make(map[int64]bool, len(open))
	for _, session := range open {
		openByStation[session.StationID] = true
	}

	for _, station := range stations {
		if station.State != models.StationStateLeased || openByStation[station.ID] {
			continue
		}
		if err := r.inventory.Release(ctx, station.ID); err != nil {
			r.logger.Warn("force release failed",
				zap.Int64("station_id", station.ID),
				zap.Error(err),
			)
			continue
		}
		metrics.ForcedReleasesTotal.Inc()
		r.logger.Info("force-released stale leased station", zap.Int64("station_id", station.ID))
	}
	return nil
}
