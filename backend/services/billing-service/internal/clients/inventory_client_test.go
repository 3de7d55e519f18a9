package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"netparc/backend/services/billing-service/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestLeaseMapsStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"ok", http.StatusOK, nil},
		{"conflict", http.StatusConflict, models.ErrStationUnavailable},
		{"not found", http.StatusNotFound, models.ErrStationNotFound},
		{"server error", http.StatusInternalServerError, models.ErrInventoryUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/stations/7/lease" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tc.status)
			})

			client := NewInventoryClient(server.URL, time.Second, zap.NewNop())
			err := client.Lease(context.Background(), 7)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLeaseTimeoutIsDependencyUnavailable(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	client := NewInventoryClient(server.URL, 20*time.Millisecond, zap.NewNop())
	err := client.Lease(context.Background(), 1)
	if !errors.Is(err, models.ErrInventoryUnavailable) {
		t.Fatalf("expected ErrInventoryUnavailable on timeout, got %v", err)
	}
}

func TestReleaseIsPostToReleasePath(t *testing.T) {
	var gotPath string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	client := NewInventoryClient(server.URL, time.Second, zap.NewNop())
	if err := client.Release(context.Background(), 3); err != nil {
		t.Fatalf("release: %v", err)
	}
	if gotPath != "/stations/3/release" {
		t.Fatalf("unexpected path %s", gotPath)
	}
}

func TestListStationsDecodesSnapshot(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"stations":[{"id":1,"name":"PC-1","state":"leased"},{"id":2,"name":"PC-2","state":"free"}]}`))
	})

	client := NewInventoryClient(server.URL, time.Second, zap.NewNop())
	stations, err := client.ListStations(context.Background())
	if err != nil {
		t.Fatalf("list stations: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
	if stations[0].State != models.StationStateLeased {
		t.Fatalf("expected first station leased, got %s", stations[0].State)
	}
}
