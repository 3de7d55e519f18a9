package clients

import (
	"context"
	"encoding/json"
	"net/http"
)

// BillingClient drives the session lifecycle through the billing authority.
type BillingClient struct {
	base *BaseClient
}

// NewBillingClient returns client.
func NewBillingClient(baseURL string, httpClient HTTPDoer) *BillingClient {
	return &BillingClient{base: NewBaseClient(baseURL, httpClient)}
}

type stationRef struct {
	StationID int64 `json:"station_id"`
}

// OpenSession starts a metered session on the station.
func (c *BillingClient) OpenSession(ctx context.Context, stationID int64) (int, []byte, error) {
	body, err := json.Marshal(stationRef{StationID: stationID})
	if err != nil {
		return 0, nil, err
	}
	return c.base.Do(ctx, http.MethodPost, "/sessions/open", body)
}

// CloseSession stops the station's open session and returns the price.
func (c *BillingClient) CloseSession(ctx context.Context, stationID int64) (int, []byte, error) {
	body, err := json.Marshal(stationRef{StationID: stationID})
	if err != nil {
		return 0, nil, err
	}
	return c.base.Do(ctx, http.MethodPost, "/sessions/close", body)
}

// History fetches closed sessions with aggregate revenue.
func (c *BillingClient) History(ctx context.Context) (int, []byte, error) {
	return c.base.Do(ctx, http.MethodGet, "/sessions/closed", nil)
}
