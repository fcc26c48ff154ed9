package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/service"
)

func floatPtr(v float64) *float64 { return &v }

func intakeFixture() (*service.IntakeService, *MockStudentRepository, *MockTripRepository) {
	routeRepo := NewMockRouteRepository()
	routeRepo.AddRoute(&domain.Route{ID: "route-1", Name: "Morning Northside", CreatedAt: time.Now()})
	studentRepo := NewMockStudentRepository()
	tripRepo := NewMockTripRepository()
	return service.NewIntakeService(nil, routeRepo, studentRepo, tripRepo), studentRepo, tripRepo
}

func TestIntakeAccept_CreatesStudentsAndTrips(t *testing.T) {
	ctx := context.Background()
	svc, studentRepo, tripRepo := intakeFixture()

	students, err := svc.Accept(ctx, "route-1", []service.StudentRow{
		{Name: "Dana", FormattedAddress: "1 Oak St", PlaceID: "place-1", Lat: floatPtr(40.0), Lng: floatPtr(-74.0)},
		{Name: "Eli", FormattedAddress: "2 Elm St", PlaceID: "place-2", Lat: floatPtr(40.1), Lng: floatPtr(-74.1)},
	})
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("expected 2 students, got %d", len(students))
	}
	if studentRepo.CountStudents() != 2 {
		t.Errorf("expected 2 stored students, got %d", studentRepo.CountStudents())
	}
	if tripRepo.CountTrips() != 2 {
		t.Errorf("expected 2 trips, got %d", tripRepo.CountTrips())
	}

	// Trips arrive unscheduled and unassigned on the accepted route.
	trips, err := tripRepo.ListByCreatedRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, trip := range trips {
		if trip.RouteID != "route-1" {
			t.Errorf("expected route-1, got %s", trip.RouteID)
		}
		if trip.Scheduled() {
			t.Error("intake trips must start unscheduled")
		}
		if trip.AssignedDriverID != "" {
			t.Error("intake trips must start unassigned")
		}
	}
}

func TestIntakeAccept_UpsertsByPickupPlaceID(t *testing.T) {
	ctx := context.Background()
	svc, studentRepo, tripRepo := intakeFixture()

	// Re-accepting a student at a known place updates the record instead of
	// duplicating it; the trip is still created.
	studentRepo.AddStudent(&domain.Student{
		ID:   "student-existing",
		Name: "Dana (old spelling)",
		Pickup: domain.Location{
			FormattedAddress: "1 Oak St",
			PlaceID:          "place-1",
			Lat:              40.0,
			Lng:              -74.0,
		},
	})

	students, err := svc.Accept(ctx, "route-1", []service.StudentRow{
		{Name: "Dana", FormattedAddress: "1 Oak St", PlaceID: "place-1", Lat: floatPtr(40.0), Lng: floatPtr(-74.0)},
	})
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if students[0].ID != "student-existing" {
		t.Errorf("expected existing student ID, got %s", students[0].ID)
	}
	if students[0].Name != "Dana" {
		t.Errorf("expected updated name, got %q", students[0].Name)
	}
	if studentRepo.CountStudents() != 1 {
		t.Errorf("expected 1 student after upsert, got %d", studentRepo.CountStudents())
	}
	if tripRepo.CountTrips() != 1 {
		t.Errorf("expected 1 trip, got %d", tripRepo.CountTrips())
	}
}

func TestIntakeAccept_UnresolvedRowRejectsBatch(t *testing.T) {
	ctx := context.Background()
	svc, studentRepo, tripRepo := intakeFixture()

	_, err := svc.Accept(ctx, "route-1", []service.StudentRow{
		{Name: "Dana", FormattedAddress: "1 Oak St", PlaceID: "place-1", Lat: floatPtr(40.0), Lng: floatPtr(-74.0)},
		// Missing coordinates.
		{Name: "Eli", FormattedAddress: "2 Elm St", PlaceID: "place-2"},
	})
	if !errors.Is(err, service.ErrUnresolvedStudentRow) {
		t.Fatalf("expected ErrUnresolvedStudentRow, got %v", err)
	}

	// The good first row must not have been written either.
	if studentRepo.CountStudents() != 0 {
		t.Errorf("expected no students, got %d", studentRepo.CountStudents())
	}
	if tripRepo.CountTrips() != 0 {
		t.Errorf("expected no trips, got %d", tripRepo.CountTrips())
	}
}

func TestIntakeAccept_MissingPlaceIDRejectsBatch(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := intakeFixture()

	_, err := svc.Accept(ctx, "route-1", []service.StudentRow{
		{Name: "Dana", FormattedAddress: "1 Oak St", Lat: floatPtr(40.0), Lng: floatPtr(-74.0)},
	})
	if !errors.Is(err, service.ErrUnresolvedStudentRow) {
		t.Errorf("expected ErrUnresolvedStudentRow, got %v", err)
	}
}

func TestIntakeAccept_UnknownRoute(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := intakeFixture()

	_, err := svc.Accept(ctx, "route-ghost", []service.StudentRow{
		{Name: "Dana", FormattedAddress: "1 Oak St", PlaceID: "place-1", Lat: floatPtr(40.0), Lng: floatPtr(-74.0)},
	})
	if err == nil {
		t.Fatal("expected not-found error for unknown route")
	}
}

func TestIntakeAccept_EmptyRouteID(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := intakeFixture()

	_, err := svc.Accept(ctx, "", nil)
	if !errors.Is(err, service.ErrInvalidRouteID) {
		t.Errorf("expected ErrInvalidRouteID, got %v", err)
	}
}
