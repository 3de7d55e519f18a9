package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"netparc/backend/services/billing-service/internal/models"
)

// InventoryClient drives the lease/release half of the saga against the
// inventory authority.
type InventoryClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewInventoryClient builds HTTP client wrapper with a bounded timeout; a call
// that exceeds it surfaces as ErrInventoryUnavailable.
func NewInventoryClient(baseURL string, timeout time.Duration, logger *zap.Logger) *InventoryClient {
	return &InventoryClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Lease claims the station. Exactly one concurrent caller wins; losers get
// ErrStationUnavailable.
func (c *InventoryClient) Lease(ctx context.Context, stationID int64) error {
	return c.post(ctx, fmt.Sprintf("/stations/%d/lease", stationID))
}

// Release hands the station back. Idempotent upstream, so retrying after an
// ambiguous failure is safe.
func (c *InventoryClient) Release(ctx context.Context, stationID int64) error {
	return c.post(ctx, fmt.Sprintf("/stations/%d/release", stationID))
}

// ListStations fetches the inventory snapshot for reconciliation.
func (c *InventoryClient) ListStations(ctx context.Context) ([]models.StationStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stations", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("inventory list request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrInventoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list returned status %d", models.ErrInventoryUnavailable, resp.StatusCode)
	}

	var payload struct {
		Stations []models.StationStatus `json:"stations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode list: %v", models.ErrInventoryUnavailable, err)
	}
	return payload.Stations, nil
}

func (c *InventoryClient) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("inventory request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrInventoryUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		return models.ErrStationUnavailable
	case resp.StatusCode == http.StatusNotFound:
		return models.ErrStationNotFound
	default:
		c.logger.Warn("inventory returned non-success",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: status %d", models.ErrInventoryUnavailable, resp.StatusCode)
	}
}
