package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"netparc/backend/services/inventory-service/internal/models"
)

// fakeStationRepo mimics the postgres repository with a mutex standing in for
// row-level atomicity.
type fakeStationRepo struct {
	mu       sync.Mutex
	nextID   int64
	stations map[int64]*models.Station
}

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{stations: make(map[int64]*models.Station)}
}

func (f *fakeStationRepo) List(ctx context.Context) ([]models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]models.Station, 0, len(f.stations))
	for _, s := range f.stations {
		result = append(result, *s)
	}
	return result, nil
}

func (f *fakeStationRepo) Create(ctx context.Context, name string) (*models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stations {
		if s.Name == name {
			return nil, models.ErrNameTaken
		}
	}
	return f.insert(name), nil
}

func (f *fakeStationRepo) CreateAutoNamed(ctx context.Context) (*models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	taken := make(map[string]bool, len(f.stations))
	for _, s := range f.stations {
		taken[s.Name] = true
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("PC-%d", n)
		if !taken[name] {
			return f.insert(name), nil
		}
	}
}

func (f *fakeStationRepo) insert(name string) *models.Station {
	f.nextID++
	s := &models.Station{ID: f.nextID, Name: name, State: models.StationStateFree}
	f.stations[s.ID] = s
	snapshot := *s
	return &snapshot
}

func (f *fakeStationRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stations[id]; !ok {
		return models.ErrStationNotFound
	}
	delete(f.stations, id)
	return nil
}

func (f *fakeStationRepo) Lease(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stations[id]
	if !ok {
		return models.ErrStationNotFound
	}
	if s.State != models.StationStateFree {
		return models.ErrAlreadyLeased
	}
	s.State = models.StationStateLeased
	return nil
}

func (f *fakeStationRepo) Release(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stations[id]
	if !ok {
		return models.ErrStationNotFound
	}
	s.State = models.StationStateFree
	return nil
}

func (f *fakeStationRepo) state(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.stations[id]; ok {
		return s.State
	}
	return ""
}

func newTestService(repo *fakeStationRepo) *InventoryService {
	return NewInventoryService(repo, zap.NewNop())
}

func TestConcurrentLeaseExactlyOneWinner(t *testing.T) {
	repo := newFakeStationRepo()
	svc := newTestService(repo)

	station, err := svc.CreateStation(context.Background(), "")
	if err != nil {
		t.Fatalf("create station: %v", err)
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.LeaseStation(context.Background(), station.ID)
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, models.ErrAlreadyLeased):
			conflicts++
		default:
			t.Fatalf("unexpected lease error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", wins)
	}
	if conflicts != callers-1 {
		t.Fatalf("expected %d conflicts, got %d", callers-1, conflicts)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	repo := newFakeStationRepo()
	svc := newTestService(repo)

	station, err := svc.CreateStation(context.Background(), "PC-1")
	if err != nil {
		t.Fatalf("create station: %v", err)
	}
	if err := svc.LeaseStation(context.Background(), station.ID); err != nil {
		t.Fatalf("lease: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.ReleaseStation(context.Background(), station.ID); err != nil {
			t.Fatalf("release attempt %d: %v", i+1, err)
		}
	}
	if got := repo.state(station.ID); got != models.StationStateFree {
		t.Fatalf("expected station free after double release, got %s", got)
	}
}

func TestCreateStationDuplicateName(t *testing.T) {
	svc := newTestService(newFakeStationRepo())

	if _, err := svc.CreateStation(context.Background(), "PC-7"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateStation(context.Background(), "PC-7")
	if !errors.Is(err, models.ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
}

func TestCreateStationFillsNameGap(t *testing.T) {
	svc := newTestService(newFakeStationRepo())

	for _, name := range []string{"PC-1", "PC-3"} {
		if _, err := svc.CreateStation(context.Background(), name); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	station, err := svc.CreateStation(context.Background(), "  ")
	if err != nil {
		t.Fatalf("auto-named create: %v", err)
	}
	if station.Name != "PC-2" {
		t.Fatalf("expected first gap PC-2, got %s", station.Name)
	}
}

func TestDeleteUnknownStation(t *testing.T) {
	svc := newTestService(newFakeStationRepo())

	err := svc.DeleteStation(context.Background(), 404)
	if !errors.Is(err, models.ErrStationNotFound) {
		t.Fatalf("expected ErrStationNotFound, got %v", err)
	}
}

func TestLeaseUnknownStation(t *testing.T) {
	svc := newTestService(newFakeStationRepo())

	err := svc.LeaseStation(context.Background(), 404)
	if !errors.Is(err, models.ErrStationNotFound) {
		t.Fatalf("expected ErrStationNotFound, got %v", err)
	}
}
