package repository

import (
	"context"
	"time"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
)

// RouteRepository defines the persistence operations for routes.
type RouteRepository interface {
	// Create persists a new route.
	Create(ctx context.Context, route *domain.Route) error

	// GetByID retrieves a route by ID.
	GetByID(ctx context.Context, id string) (*domain.Route, error)

	// GetAll retrieves all routes.
	GetAll(ctx context.Context) ([]*domain.Route, error)

	// Update updates an existing route.
	Update(ctx context.Context, route *domain.Route) error

	// ListCreatedSince retrieves routes created at or after the given time.
	ListCreatedSince(ctx context.Context, since time.Time) ([]*domain.Route, error)
}
