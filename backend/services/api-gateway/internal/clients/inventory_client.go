package clients

import (
	"context"
	"fmt"
	"net/http"
)

// InventoryClient covers the read-only and CRUD paths the gateway takes to
// the inventory authority. Lease mutations never go through here; they belong
// to billing so the saga ordering cannot be bypassed.
type InventoryClient struct {
	base *BaseClient
}

// NewInventoryClient returns client.
func NewInventoryClient(baseURL string, httpClient HTTPDoer) *InventoryClient {
	return &InventoryClient{base: NewBaseClient(baseURL, httpClient)}
}

// ListStations fetches the station snapshot.
func (c *InventoryClient) ListStations(ctx context.Context) (int, []byte, error) {
	return c.base.Do(ctx, http.MethodGet, "/stations", nil)
}

// CreateStation registers a station; body may carry an optional name.
func (c *InventoryClient) CreateStation(ctx context.Context, body []byte) (int, []byte, error) {
	return c.base.Do(ctx, http.MethodPost, "/stations", body)
}

// DeleteStation removes a station.
func (c *InventoryClient) DeleteStation(ctx context.Context, id int64) (int, []byte, error) {
	return c.base.Do(ctx, http.MethodDelete, fmt.Sprintf("/stations/%d", id), nil)
}
