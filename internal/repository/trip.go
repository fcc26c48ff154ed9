package repository

import (
	"context"
	"time"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// ListByCreatedRange retrieves trips created in [from, to).
	ListByCreatedRange(ctx context.Context, from, to time.Time) ([]*domain.Trip, error)

	// ListAssignedInWindow retrieves trips assigned to the given driver with
	// a pickup time in [from, to) and a non-null dropoff time.
	ListAssignedInWindow(ctx context.Context, driverID string, from, to time.Time) ([]*domain.Trip, error)

	// SetAssignment writes the driver reference and assignment record
	// together. A nil assignment is rejected; clearing an assignment is not
	// an operation the system supports.
	SetAssignment(ctx context.Context, tripID string, assignment *domain.Assignment) error
}
