package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/redis"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
)

// RouteService handles route writes. Reads go straight to the repository;
// writes come through here so the derived pay fields are recomputed on every
// change and can never be stored inconsistently.
type RouteService struct {
	routeRepo  repository.RouteRepository
	cacheStore *redis.CacheStore
}

// NewRouteService creates a new RouteService. cacheStore may be nil.
func NewRouteService(routeRepo repository.RouteRepository, cacheStore *redis.CacheStore) *RouteService {
	return &RouteService{routeRepo: routeRepo, cacheStore: cacheStore}
}

// CreateRouteRequest contains the caller-supplied route inputs. Total and
// profit are derived, never accepted from the caller.
type CreateRouteRequest struct {
	Name           string
	PayOneWayCents int64
	DriverPayCents int64
}

// CreateRoute creates a route with derived pay fields computed.
func (s *RouteService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*domain.Route, error) {
	if req.Name == "" {
		return nil, ErrInvalidRouteName
	}
	if req.PayOneWayCents < 0 || req.DriverPayCents < 0 {
		return nil, ErrNegativePay
	}

	route := &domain.Route{
		ID:             uuid.New().String(),
		Name:           req.Name,
		PayOneWayCents: req.PayOneWayCents,
		DriverPayCents: req.DriverPayCents,
		CreatedAt:      time.Now(),
	}
	route.ComputePay()

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx)
	return route, nil
}

// UpdateRouteRequest contains the parameters for editing a route's pay.
// An empty Name keeps the stored name.
type UpdateRouteRequest struct {
	RouteID        string
	Name           string
	PayOneWayCents int64
	DriverPayCents int64
}

// UpdateRoute rewrites a route's pay inputs and recomputes the derived fields.
func (s *RouteService) UpdateRoute(ctx context.Context, req UpdateRouteRequest) (*domain.Route, error) {
	if req.RouteID == "" {
		return nil, ErrInvalidRouteID
	}
	if req.PayOneWayCents < 0 || req.DriverPayCents < 0 {
		return nil, ErrNegativePay
	}

	route, err := s.routeRepo.GetByID(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		route.Name = req.Name
	}
	route.PayOneWayCents = req.PayOneWayCents
	route.DriverPayCents = req.DriverPayCents
	route.ComputePay()

	if err := s.routeRepo.Update(ctx, route); err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx)
	return route, nil
}

func (s *RouteService) invalidateSummaries(ctx context.Context) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateSummaries(ctx)
}
