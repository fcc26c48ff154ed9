package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Chatbottax/your-nemt-app/internal/distance"
	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/redis"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
)

// Interface compliance checks.
var (
	_ repository.DriverRepository  = (*MockDriverRepository)(nil)
	_ repository.StudentRepository = (*MockStudentRepository)(nil)
	_ repository.RouteRepository   = (*MockRouteRepository)(nil)
	_ repository.TripRepository    = (*MockTripRepository)(nil)
	_ distance.Client              = (*MockDistanceClient)(nil)
	_ redis.LockStoreInterface     = (*MockLockStore)(nil)
)

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	CreateCallCount int32
	GetAllCallCount int32

	// Error injection
	CreateError error
	GetAllError error
	UpdateError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByPlaceID(ctx context.Context, placeID string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.Home.PlaceID == placeID {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetAll returns drivers sorted by ID, mirroring the stable order the
// postgres repository guarantees.
func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	atomic.AddInt32(&m.GetAllCallCount, 1)
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.ID]; !ok {
		return repository.ErrNotFound
	}
	m.drivers[driver.ID] = driver
	return nil
}

// ──────────────────────────────────────────────
// MOCK STUDENT REPOSITORY
// ──────────────────────────────────────────────

// MockStudentRepository is a mock implementation of StudentRepository.
type MockStudentRepository struct {
	mu       sync.RWMutex
	students map[string]*domain.Student

	// Counters for verification
	UpsertCallCount int32

	// Error injection
	UpsertError error
}

// NewMockStudentRepository creates a new mock student repository.
func NewMockStudentRepository() *MockStudentRepository {
	return &MockStudentRepository{
		students: make(map[string]*domain.Student),
	}
}

// AddStudent adds a student to the mock repository.
func (m *MockStudentRepository) AddStudent(student *domain.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[student.ID] = student
}

func (m *MockStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[student.ID] = student
	return nil
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	student, ok := m.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *student
	return &copy, nil
}

func (m *MockStudentRepository) GetAll(ctx context.Context) ([]*domain.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Student, 0, len(m.students))
	for _, s := range m.students {
		copy := *s
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockStudentRepository) UpsertByPickupPlaceID(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return nil, m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.students {
		if existing.Pickup.PlaceID == student.Pickup.PlaceID {
			existing.Name = student.Name
			existing.Pickup = student.Pickup
			copy := *existing
			return &copy, nil
		}
	}
	m.students[student.ID] = student
	copy := *student
	return &copy, nil
}

// CountStudents returns the number of stored students for test assertions.
func (m *MockStudentRepository) CountStudents() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.students)
}

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{
		routes: make(map[string]*domain.Route),
	}
}

// AddRoute adds a route to the mock repository.
func (m *MockRouteRepository) AddRoute(route *domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
}

func (m *MockRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
	return nil
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *route
	return &copy, nil
}

func (m *MockRouteRepository) GetAll(ctx context.Context) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Route, 0, len(m.routes))
	for _, r := range m.routes {
		copy := *r
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockRouteRepository) Update(ctx context.Context, route *domain.Route) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[route.ID]; !ok {
		return repository.ErrNotFound
	}
	m.routes[route.ID] = route
	return nil
}

func (m *MockRouteRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Route, 0)
	for _, r := range m.routes {
		if !r.CreatedAt.Before(since) {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetRoute returns the stored route for test assertions.
func (m *MockRouteRepository) GetRoute(id string) *domain.Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.routes[id]
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount        int32
	SetAssignmentCallCount int32

	// Error injection
	CreateError        error
	SetAssignmentError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) ListByCreatedRange(ctx context.Context, from, to time.Time) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0)
	for _, t := range m.trips {
		if !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			copy := *t
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockTripRepository) ListAssignedInWindow(ctx context.Context, driverID string, from, to time.Time) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0)
	for _, t := range m.trips {
		if t.AssignedDriverID != driverID {
			continue
		}
		if t.PickupTime.Before(from) || !t.PickupTime.Before(to) {
			continue
		}
		if t.DropoffTime.IsZero() {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockTripRepository) SetAssignment(ctx context.Context, tripID string, assignment *domain.Assignment) error {
	atomic.AddInt32(&m.SetAssignmentCallCount, 1)
	if m.SetAssignmentError != nil {
		return m.SetAssignmentError
	}
	if assignment == nil {
		return errors.New("nil assignment")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[tripID]
	if !ok {
		return repository.ErrNotFound
	}
	trip.AssignedDriverID = assignment.DriverID
	trip.Assignment = assignment
	return nil
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// CountTrips returns the number of stored trips for test assertions.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// ──────────────────────────────────────────────
// MOCK DISTANCE CLIENT
// ──────────────────────────────────────────────

// MockDistanceClient is a scripted implementation of distance.Client keyed by
// origin point (the driver's home).
type MockDistanceClient struct {
	mu        sync.Mutex
	estimates map[distance.Point]distance.Estimate
	errors    map[distance.Point]error

	// Counters for verification
	CallCount int32
}

// NewMockDistanceClient creates a new mock distance client.
func NewMockDistanceClient() *MockDistanceClient {
	return &MockDistanceClient{
		estimates: make(map[distance.Point]distance.Estimate),
		errors:    make(map[distance.Point]error),
	}
}

// SetEstimate scripts the estimate returned for lookups from origin.
func (m *MockDistanceClient) SetEstimate(origin distance.Point, est distance.Estimate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.estimates[origin] = est
}

// FailFor scripts a lookup failure for the given origin.
func (m *MockDistanceClient) FailFor(origin distance.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[origin] = errors.New("distance service unavailable")
}

func (m *MockDistanceClient) Estimate(ctx context.Context, origin, dest distance.Point) (distance.Estimate, error) {
	atomic.AddInt32(&m.CallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errors[origin]; ok {
		return distance.Estimate{}, err
	}
	if est, ok := m.estimates[origin]; ok {
		return est, nil
	}
	return distance.Estimate{}, errors.New("no estimate scripted for origin")
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

// HoldLock pre-acquires a trip lock so the next caller is refused.
func (m *MockLockStore) HoldLock(tripID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[tripID] = true
}

func (m *MockLockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[tripID] {
		return false, nil
	}
	m.locks[tripID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseTripLock(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, tripID)
	return nil
}
