package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	redisstore "netparc/backend/services/billing-service/internal/redis"
	"netparc/backend/services/billing-service/internal/models"
)

type fakeSessionRepo struct {
	mu        sync.Mutex
	nextID    int64
	sessions  map[int64]*models.Session
	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[int64]*models.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, stationID int64, start time.Time) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	s := &models.Session{ID: f.nextID, StationID: stationID, StartTime: start}
	f.sessions[s.ID] = s
	snapshot := *s
	return &snapshot, nil
}

func (f *fakeSessionRepo) GetOpenByStation(ctx context.Context, stationID int64) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.StationID == stationID && s.EndTime == nil {
			snapshot := *s
			return &snapshot, nil
		}
	}
	return nil, models.ErrNoActiveSession
}

func (f *fakeSessionRepo) Complete(ctx context.Context, id int64, end time.Time, price float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.EndTime != nil {
		return models.ErrNoActiveSession
	}
	endCopy := end
	s.EndTime = &endCopy
	s.Price = price
	return nil
}

func (f *fakeSessionRepo) ListClosed(ctx context.Context) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Session
	for _, s := range f.sessions {
		if s.EndTime != nil {
			result = append(result, *s)
		}
	}
	// most recent start first
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].StartTime.After(result[i].StartTime) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (f *fakeSessionRepo) ListOpen(ctx context.Context) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Session
	for _, s := range f.sessions {
		if s.EndTime == nil {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (f *fakeSessionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *fakeSessionRepo) get(id int64) *models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		snapshot := *s
		return &snapshot
	}
	return nil
}

// fakeInventory mimics the inventory authority with the same atomic lease
// semantics the real one guarantees.
type fakeInventory struct {
	mu           sync.Mutex
	states       map[int64]string
	leaseErr     error
	releaseErr   error
	leaseCalls   int
	releaseCalls int
}

func newFakeInventory(stationIDs ...int64) *fakeInventory {
	states := make(map[int64]string, len(stationIDs))
	for _, id := range stationIDs {
		states[id] = models.StationStateFree
	}
	return &fakeInventory{states: states}
}

func (f *fakeInventory) ListStations(ctx context.Context) ([]models.StationStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.StationStatus
	for id, state := range f.states {
		result = append(result, models.StationStatus{ID: id, State: state})
	}
	return result, nil
}

func (f *fakeInventory) Lease(ctx context.Context, stationID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaseCalls++
	if f.leaseErr != nil {
		return f.leaseErr
	}
	state, ok := f.states[stationID]
	if !ok {
		return models.ErrStationNotFound
	}
	if state != models.StationStateFree {
		return models.ErrStationUnavailable
	}
	f.states[stationID] = models.StationStateLeased
	return nil
}

func (f *fakeInventory) Release(ctx context.Context, stationID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseCalls++
	if f.releaseErr != nil {
		return f.releaseErr
	}
	if _, ok := f.states[stationID]; !ok {
		return models.ErrStationNotFound
	}
	f.states[stationID] = models.StationStateFree
	return nil
}

func (f *fakeInventory) state(stationID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[stationID]
}

type fakeCache struct {
	mu      sync.Mutex
	saves   []redisstore.OpenSession
	deletes []int64
}

func (f *fakeCache) Save(ctx context.Context, session redisstore.OpenSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, session)
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, stationID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, stationID)
	return nil
}

func newTestBilling(repo *fakeSessionRepo, inv *fakeInventory, cache OpenSessionCache) *BillingService {
	return NewBillingService(repo, inv, cache, 5.0, zap.NewNop())
}

func TestOpenSessionHappyPath(t *testing.T) {
	repo := newFakeSessionRepo()
	inv := newFakeInventory(1)
	cache := &fakeCache{}
	svc := newTestBilling(repo, inv, cache)

	session, err := svc.OpenSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if session.StationID != 1 {
		t.Fatalf("unexpected station id %d", session.StationID)
	}
	if !session.Open() {
		t.Fatal("expected session to be open")
	}
	if got := inv.state(1); got != models.StationStateLeased {
		t.Fatalf("expected station leased, got %s", got)
	}
	if len(cache.saves) != 1 {
		t.Fatalf("expected 1 cache save, got %d", len(cache.saves))
	}
}

func TestOpenSessionLeaseConflictLeavesNothingBehind(t *testing.T) {
	repo := newFakeSessionRepo()
	inv := newFakeInventory(1)
	svc := newTestBilling(repo, inv, nil)

	if err := inv.Lease(context.Background(), 1); err != nil {
		t.Fatalf("pre-lease: %v", err)
	}
	inv.leaseCalls = 0

	_, err := svc.OpenSession(context.Background(), 1)
	if !errors.Is(err, models.ErrStationUnavailable) {
		t.Fatalf("expected ErrStationUnavailable, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatalf("expected billing store unchanged, found %d sessions", repo.count())
	}
}

func TestOpenSessionAlreadyOpenDoesNotLeaseAgain(t *testing.T) {
	repo := newFakeSessionRepo()
	inv := newFakeInventory(1)
	svc := newTestBilling(repo, inv, nil)

	if _, err := svc.OpenSession(context.Background(), 1); err != nil {
		t.Fatalf("first open: %v", err)
	}
	leases := inv.leaseCalls

	_, err := svc.OpenSession(context.Background(), 1)
	if !errors.Is(err, models.ErrSessionAlreadyOpen) {
		t.Fatalf("expected ErrSessionAlreadyOpen, got %v", err)
	}
	if inv.leaseCalls != leases {
		t.Fatalf("expected no further lease calls, got %d extra", inv.leaseCalls-leases)
	}
	if repo.count() != 1 {
		t.Fatalf("expected single session, got %d", repo.count())
	}
}

func TestOpenSessionInventoryUnreachable(t *testing.T) {
	repo := newFakeSessionRepo()
	inv := newFakeInventory(1)
	inv.leaseErr = models.ErrInventoryUnavailable
	svc := newTestBilling(repo, inv, nil)

	_, err := svc.OpenSession(context.Background(), 1)
	if !errors.Is(err, models.ErrInventoryUnavailable) {
		t.Fatalf("expected ErrInventoryUnavailable, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatalf("expected no session persisted, got %d", repo.count())
	}
}

func TestOpenSessionCompensatesWhenWriteFails(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.createErr = errors.New("disk full")
	inv := newFakeInventory(1)
	svc := newTestBilling(repo, inv, nil)

	_, err := svc.OpenSession(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error when session write fails")
	}
	if got := inv.state(1); got != models.StationStateFree {
		t.Fatalf("expected compensating release to free the station, got %s", got)
	}
}

func TestConcurrentOpensExactlyOneSucceeds(t *testing.T) {
	repo := newFakeSessionRepo()
	inv := newFakeInventory(1)
	svc := newTestBilling(repo, inv, nil)

	const callers = 12
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.OpenSession(context.Background(), 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, models.ErrStationUnavailable),
			errors.Is(err, models.ErrSessionAlreadyOpen):
		default:
			t.Fatalf("unexpected open error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly 1 successful open, got %d", wins)
	}
	if repo.count() != 1 {
		t.Fatalf("expected exactly 1 session persisted, got %d", repo.count())
	}
}

func TestCloseSessionPricesNinetyMinutes(t *testing.T) {
	repo := newFakeSessionRepo()
	inv := newFakeInventory(1)
	svc := newTestBilling(repo, inv, nil)

	start := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	if _, err := svc.OpenSession(context.Background(), 1); err != nil {
		t.Fatalf("open: %v", err)
	}

	svc.now = func() time.Time { return start.Add(90 * time.Minute) }
	result, err := svc.CloseSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if result.Price != 7.50 {
		t.Fatalf("expected price 7.50, got %v", result.Price)
	}
	if result.DurationHours != 1.5 {
		t.Fatalf("expected duration 1.5h, got %v", result.DurationHours)
	}
	if got := inv.state(1); got != models.StationStateFree {
		t.Fatalf("expected station released, got %s", got)
	}
}

func TestCloseSessionSurvivesReleaseFailure(t *testing.T) {
	repo := newFakeSessionRepo()
	inv := newFakeInventory(1)
	svc := newTestBilling(repo, inv, nil)

	start := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	session, err := svc.OpenSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	inv.releaseErr = models.ErrInventoryUnavailable
	svc.now = func() time.Time { return start.Add(time.Hour) }
	result, err := svc.CloseSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("close must not propagate release failure, got %v", err)
	}
	if result.Price != 5.0 {
		t.Fatalf("expected price 5.0, got %v", result.Price)
	}

	closed := repo.get(session.ID)
	if closed == nil || closed.EndTime == nil {
		t.Fatal("expected session closed and priced")
	}
	// The inventory flag is now stale until the reconciler runs.
	if got := inv.state(1); got != models.StationStateLeased {
		t.Fatalf("expected station still leased, got %s", got)
	}
}

func TestCloseSessionWithoutOpenSession(t *testing.T) {
	svc := newTestBilling(newFakeSessionRepo(), newFakeInventory(1), nil)

	_, err := svc.CloseSession(context.Background(), 1)
	if !errors.Is(err, models.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestListClosedSessionsAggregatesRevenue(t *testing.T) {
	repo := newFakeSessionRepo()
	inv := newFakeInventory(1, 2)
	svc := newTestBilling(repo, inv, nil)

	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	// First session: 90 minutes on station 1 -> 7.50.
	svc.now = func() time.Time { return base }
	if _, err := svc.OpenSession(context.Background(), 1); err != nil {
		t.Fatalf("open 1: %v", err)
	}
	svc.now = func() time.Time { return base.Add(90 * time.Minute) }
	if _, err := svc.CloseSession(context.Background(), 1); err != nil {
		t.Fatalf("close 1: %v", err)
	}

	// Second session: 39 minutes on station 2 -> 3.25.
	svc.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, err := svc.OpenSession(context.Background(), 2); err != nil {
		t.Fatalf("open 2: %v", err)
	}
	svc.now = func() time.Time { return base.Add(2*time.Hour + 39*time.Minute) }
	if _, err := svc.CloseSession(context.Background(), 2); err != nil {
		t.Fatalf("close 2: %v", err)
	}

	sessions, total, err := svc.ListClosedSessions(context.Background())
	if err != nil {
		t.Fatalf("list closed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 closed sessions, got %d", len(sessions))
	}
	if sessions[0].StationID != 2 {
		t.Fatalf("expected most recent start first, got station %d", sessions[0].StationID)
	}
	if total != 10.75 {
		t.Fatalf("expected total revenue 10.75, got %v", total)
	}
}
