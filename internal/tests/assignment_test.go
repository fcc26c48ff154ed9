package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Chatbottax/your-nemt-app/internal/distance"
	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/service"
)

func newAssignmentFixture() (*MockDriverRepository, *MockStudentRepository, *MockTripRepository) {
	return NewMockDriverRepository(), NewMockStudentRepository(), NewMockTripRepository()
}

func addStudentAt(studentRepo *MockStudentRepository, id string, lat, lng float64) *domain.Student {
	student := &domain.Student{
		ID:   id,
		Name: "Student " + id,
		Pickup: domain.Location{
			FormattedAddress: "1 Pickup St",
			PlaceID:          "place-" + id,
			Lat:              lat,
			Lng:              lng,
		},
	}
	studentRepo.AddStudent(student)
	return student
}

func addDriverAt(driverRepo *MockDriverRepository, id, name string, lat, lng float64) *domain.Driver {
	driver := &domain.Driver{
		ID:   id,
		Name: name,
		Home: domain.Location{
			FormattedAddress: "1 Home St",
			PlaceID:          "place-" + id,
			Lat:              lat,
			Lng:              lng,
		},
	}
	driverRepo.AddDriver(driver)
	return driver
}

func TestPropose_GeometricPicksNearestDriver(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	addDriverAt(driverRepo, "driver-far", "Far", 41.0, -74.0)
	addDriverAt(driverRepo, "driver-near", "Near", 40.01, -74.0)
	addDriverAt(driverRepo, "driver-mid", "Mid", 40.5, -74.0)

	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	// No remote client configured: geometric ranking only.
	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, nil)

	assignment, err := svc.Propose(ctx, trip)
	if err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if assignment.DriverID != "driver-near" {
		t.Errorf("expected driver-near, got %s", assignment.DriverID)
	}
	if assignment.Method != domain.AssignmentMethodGeometricFallback {
		t.Errorf("expected geometric_fallback, got %s", assignment.Method)
	}
	// The geometric pass stores the distance as the duration proxy.
	if assignment.DurationSeconds != assignment.DistanceMeters {
		t.Errorf("expected duration to mirror distance, got %d vs %d",
			assignment.DurationSeconds, assignment.DistanceMeters)
	}
	if assignment.DistanceMeters <= 0 {
		t.Errorf("expected positive distance, got %d", assignment.DistanceMeters)
	}
}

func TestPropose_NameTieBreakIsDeterministic(t *testing.T) {
	ctx := context.Background()

	// Two drivers at the exact same coordinates as the student: duration and
	// distance tie at zero, the lexicographically smaller name must win
	// regardless of insertion order.
	for _, order := range [][2]string{{"Ava", "Zed"}, {"Zed", "Ava"}} {
		driverRepo, studentRepo, tripRepo := newAssignmentFixture()
		addStudentAt(studentRepo, "student-1", 0, 0)
		addDriverAt(driverRepo, "driver-"+order[0], order[0], 0, 0)
		addDriverAt(driverRepo, "driver-"+order[1], order[1], 0, 0)

		trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
		tripRepo.AddTrip(trip)

		svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, nil)
		assignment, err := svc.Propose(ctx, trip)
		if err != nil {
			t.Fatalf("propose failed: %v", err)
		}
		if assignment.DriverID != "driver-Ava" {
			t.Errorf("insertion order %v: expected driver-Ava, got %s", order, assignment.DriverID)
		}
		if assignment.DurationSeconds != 0 || assignment.DistanceMeters != 0 {
			t.Errorf("expected zero cost for co-located driver, got %d/%d",
				assignment.DurationSeconds, assignment.DistanceMeters)
		}
	}
}

func TestPropose_RemoteServiceRanksByDuration(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	// driver-a is geometrically nearest but the remote service reports heavy
	// traffic; driver-b wins on real duration.
	a := addDriverAt(driverRepo, "driver-a", "Alice", 40.01, -74.0)
	b := addDriverAt(driverRepo, "driver-b", "Bob", 40.5, -74.0)

	matrix := NewMockDistanceClient()
	matrix.SetEstimate(distance.Point{Lat: a.Home.Lat, Lng: a.Home.Lng}, distance.Estimate{DurationSeconds: 900.4, DistanceMeters: 1200})
	matrix.SetEstimate(distance.Point{Lat: b.Home.Lat, Lng: b.Home.Lng}, distance.Estimate{DurationSeconds: 600.6, DistanceMeters: 56000})

	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, matrix)
	assignment, err := svc.Propose(ctx, trip)
	if err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if assignment.DriverID != "driver-b" {
		t.Errorf("expected driver-b, got %s", assignment.DriverID)
	}
	if assignment.Method != domain.AssignmentMethodDistanceService {
		t.Errorf("expected distance_service, got %s", assignment.Method)
	}
	// Costs are rounded to the nearest integer.
	if assignment.DurationSeconds != 601 {
		t.Errorf("expected duration 601, got %d", assignment.DurationSeconds)
	}
	if assignment.DistanceMeters != 56000 {
		t.Errorf("expected distance 56000, got %d", assignment.DistanceMeters)
	}
}

func TestPropose_RemoteTieBreaksOnDistanceThenName(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	a := addDriverAt(driverRepo, "driver-a", "Zed", 40.1, -74.0)
	b := addDriverAt(driverRepo, "driver-b", "Ava", 40.2, -74.0)
	c := addDriverAt(driverRepo, "driver-c", "Bea", 40.3, -74.0)

	matrix := NewMockDistanceClient()
	// Equal durations; a has the shorter distance.
	matrix.SetEstimate(distance.Point{Lat: a.Home.Lat, Lng: a.Home.Lng}, distance.Estimate{DurationSeconds: 600, DistanceMeters: 1000})
	matrix.SetEstimate(distance.Point{Lat: b.Home.Lat, Lng: b.Home.Lng}, distance.Estimate{DurationSeconds: 600, DistanceMeters: 2000})
	matrix.SetEstimate(distance.Point{Lat: c.Home.Lat, Lng: c.Home.Lng}, distance.Estimate{DurationSeconds: 700, DistanceMeters: 500})

	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, matrix)
	assignment, err := svc.Propose(ctx, trip)
	if err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if assignment.DriverID != "driver-a" {
		t.Errorf("expected driver-a on distance tie-break, got %s", assignment.DriverID)
	}

	// Now make a and b tie on both costs: the smaller name (Ava) must win.
	matrix.SetEstimate(distance.Point{Lat: b.Home.Lat, Lng: b.Home.Lng}, distance.Estimate{DurationSeconds: 600, DistanceMeters: 1000})
	assignment, err = svc.Propose(ctx, trip)
	if err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if assignment.DriverID != "driver-b" {
		t.Errorf("expected driver-b (Ava) on name tie-break, got %s", assignment.DriverID)
	}
}

func TestPropose_RemoteFailureFallsBackForAllDrivers(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	// driver-a would win the remote pass by a mile, driver-b wins
	// geometrically. A failure for driver-b must discard driver-a's remote
	// result too, never mix the two scales.
	a := addDriverAt(driverRepo, "driver-a", "Alice", 41.0, -74.0)
	b := addDriverAt(driverRepo, "driver-b", "Bob", 40.01, -74.0)

	matrix := NewMockDistanceClient()
	matrix.SetEstimate(distance.Point{Lat: a.Home.Lat, Lng: a.Home.Lng}, distance.Estimate{DurationSeconds: 1, DistanceMeters: 1})
	matrix.FailFor(distance.Point{Lat: b.Home.Lat, Lng: b.Home.Lng})

	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, matrix)
	assignment, err := svc.Propose(ctx, trip)
	if err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if assignment.Method != domain.AssignmentMethodGeometricFallback {
		t.Errorf("expected geometric_fallback, got %s", assignment.Method)
	}
	if assignment.DriverID != "driver-b" {
		t.Errorf("expected geometric winner driver-b, got %s", assignment.DriverID)
	}
}

func TestPropose_NoDrivers(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, nil)
	_, err := svc.Propose(ctx, trip)
	if !errors.Is(err, service.ErrNoDrivers) {
		t.Errorf("expected ErrNoDrivers, got %v", err)
	}
}

func TestPropose_UnresolvedStudentLocation(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	// Student without a place ID: coordinates alone do not count.
	studentRepo.AddStudent(&domain.Student{
		ID:     "student-1",
		Name:   "Student",
		Pickup: domain.Location{Lat: 40.0, Lng: -74.0},
	})
	addDriverAt(driverRepo, "driver-a", "Alice", 40.01, -74.0)

	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, nil)
	_, err := svc.Propose(ctx, trip)
	if !errors.Is(err, service.ErrStudentLocationUnresolved) {
		t.Errorf("expected ErrStudentLocationUnresolved, got %v", err)
	}
}

func TestPropose_DoesNotPersist(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	addDriverAt(driverRepo, "driver-a", "Alice", 40.01, -74.0)

	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, nil)
	if _, err := svc.Propose(ctx, trip); err != nil {
		t.Fatalf("propose failed: %v", err)
	}

	if tripRepo.SetAssignmentCallCount != 0 {
		t.Errorf("propose must not write, saw %d writes", tripRepo.SetAssignmentCallCount)
	}
	if stored := tripRepo.GetTrip("trip-1"); stored.AssignedDriverID != "" || stored.Assignment != nil {
		t.Error("propose must leave the trip unassigned")
	}
}

func TestAssign_AutomaticPersistsDriverAndRecordTogether(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	addDriverAt(driverRepo, "driver-a", "Alice", 40.01, -74.0)

	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, nil)
	result, err := svc.Assign(ctx, service.AssignRequest{TripID: "trip-1"})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if result.AssignedDriverID != "driver-a" {
		t.Errorf("expected driver-a, got %s", result.AssignedDriverID)
	}

	stored := tripRepo.GetTrip("trip-1")
	if stored.AssignedDriverID != "driver-a" {
		t.Errorf("expected persisted driver-a, got %s", stored.AssignedDriverID)
	}
	if stored.Assignment == nil {
		t.Fatal("expected persisted assignment record")
	}
	if stored.Assignment.Method != domain.AssignmentMethodGeometricFallback {
		t.Errorf("expected geometric_fallback record, got %s", stored.Assignment.Method)
	}
	if stored.Assignment.DecidedAt.IsZero() {
		t.Error("expected DecidedAt to be set")
	}
}

func TestAssign_ManualOverride(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	addDriverAt(driverRepo, "driver-near", "Near", 40.01, -74.0)
	addDriverAt(driverRepo, "driver-far", "Far", 41.0, -74.0)

	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, nil)
	result, err := svc.Assign(ctx, service.AssignRequest{TripID: "trip-1", DriverID: "driver-far"})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if result.AssignedDriverID != "driver-far" {
		t.Errorf("manual override ignored, got %s", result.AssignedDriverID)
	}

	stored := tripRepo.GetTrip("trip-1")
	if stored.Assignment.Method != domain.AssignmentMethodManual {
		t.Errorf("expected manual record, got %s", stored.Assignment.Method)
	}
	if stored.Assignment.DurationSeconds != 0 || stored.Assignment.DistanceMeters != 0 {
		t.Error("manual assignment carries no computed costs")
	}
}

func TestAssign_ManualUnknownDriver(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, nil)
	_, err := svc.Assign(ctx, service.AssignRequest{TripID: "trip-1", DriverID: "driver-ghost"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if tripRepo.SetAssignmentCallCount != 0 {
		t.Error("nothing should be written for an unknown driver")
	}
}

func TestAssign_LockContention(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	addDriverAt(driverRepo, "driver-a", "Alice", 40.01, -74.0)

	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	lockStore := NewMockLockStore()
	lockStore.HoldLock("trip-1")

	svc := service.NewAssignmentService(nil, lockStore, driverRepo, studentRepo, tripRepo, nil)
	_, err := svc.Assign(ctx, service.AssignRequest{TripID: "trip-1"})
	if !errors.Is(err, service.ErrTripBeingAssigned) {
		t.Errorf("expected ErrTripBeingAssigned, got %v", err)
	}
}

func TestAssign_ReleasesLockAfterSuccess(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	addDriverAt(driverRepo, "driver-a", "Alice", 40.01, -74.0)

	trip := &domain.Trip{ID: "trip-1", RouteID: "route-1", StudentID: "student-1"}
	tripRepo.AddTrip(trip)

	lockStore := NewMockLockStore()
	svc := service.NewAssignmentService(nil, lockStore, driverRepo, studentRepo, tripRepo, nil)

	if _, err := svc.Assign(ctx, service.AssignRequest{TripID: "trip-1"}); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	if lockStore.ReleaseCallCount != 1 {
		t.Errorf("expected one release, got %d", lockStore.ReleaseCallCount)
	}
	// A second call must be able to re-acquire and overwrite.
	if _, err := svc.Assign(ctx, service.AssignRequest{TripID: "trip-1"}); err != nil {
		t.Fatalf("second assign failed: %v", err)
	}
}

func TestAssign_ReassignmentOverwrites(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	addStudentAt(studentRepo, "student-1", 40.0, -74.0)
	addDriverAt(driverRepo, "driver-a", "Alice", 40.01, -74.0)
	addDriverAt(driverRepo, "driver-b", "Bob", 41.0, -74.0)

	pickup := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	trip := &domain.Trip{
		ID: "trip-1", RouteID: "route-1", StudentID: "student-1",
		PickupTime: pickup, DropoffTime: pickup.Add(30 * time.Minute),
	}
	tripRepo.AddTrip(trip)

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, nil)
	if _, err := svc.Assign(ctx, service.AssignRequest{TripID: "trip-1"}); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	// Reassign manually to the other driver; the prior record is replaced,
	// not appended to, and the trip must not conflict with itself.
	if _, err := svc.Assign(ctx, service.AssignRequest{TripID: "trip-1", DriverID: "driver-b"}); err != nil {
		t.Fatalf("reassign failed: %v", err)
	}

	stored := tripRepo.GetTrip("trip-1")
	if stored.AssignedDriverID != "driver-b" {
		t.Errorf("expected driver-b after reassign, got %s", stored.AssignedDriverID)
	}
	if stored.Assignment.Method != domain.AssignmentMethodManual {
		t.Errorf("expected manual record after reassign, got %s", stored.Assignment.Method)
	}
}

func TestAssign_EmptyTripID(t *testing.T) {
	ctx := context.Background()
	driverRepo, studentRepo, tripRepo := newAssignmentFixture()

	svc := service.NewAssignmentService(nil, nil, driverRepo, studentRepo, tripRepo, nil)
	_, err := svc.Assign(ctx, service.AssignRequest{})
	if !errors.Is(err, service.ErrInvalidTripID) {
		t.Errorf("expected ErrInvalidTripID, got %v", err)
	}
}
