package repository

import (
	"context"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByPlaceID retrieves a driver by home place ID.
	GetByPlaceID(ctx context.Context, placeID string) (*domain.Driver, error)

	// GetAll retrieves all drivers in a stable order. The assignment engine
	// relies on this order for deterministic ranking.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// Update updates an existing driver's profile.
	Update(ctx context.Context, driver *domain.Driver) error
}
