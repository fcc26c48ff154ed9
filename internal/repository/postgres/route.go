package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
)

// RouteRepository is a PostgreSQL implementation of repository.RouteRepository.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

// NewRouteRepositoryWithTx creates a route repository using a transaction.
func NewRouteRepositoryWithTx(tx *sql.Tx) *RouteRepository {
	return &RouteRepository{q: tx}
}

const routeColumns = `id, COALESCE(name, ''), pay_one_way_cents, pay_total_cents, driver_pay_cents, profit_cents, created_at`

func scanRoute(row interface{ Scan(...any) error }) (*domain.Route, error) {
	var route domain.Route
	err := row.Scan(
		&route.ID,
		&route.Name,
		&route.PayOneWayCents,
		&route.PayTotalCents,
		&route.DriverPayCents,
		&route.ProfitCents,
		&route.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// Create persists a new route.
func (r *RouteRepository) Create(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO routes (id, name, pay_one_way_cents, pay_total_cents, driver_pay_cents, profit_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		route.ID,
		route.Name,
		route.PayOneWayCents,
		route.PayTotalCents,
		route.DriverPayCents,
		route.ProfitCents,
		route.CreatedAt,
	)
	return err
}

// GetByID retrieves a route by ID.
func (r *RouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`

	route, err := scanRoute(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return route, nil
}

// GetAll retrieves all routes.
func (r *RouteRepository) GetAll(ctx context.Context) ([]*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRoutes(rows)
}

// Update updates an existing route.
func (r *RouteRepository) Update(ctx context.Context, route *domain.Route) error {
	query := `
		UPDATE routes
		SET name = $1, pay_one_way_cents = $2, pay_total_cents = $3, driver_pay_cents = $4, profit_cents = $5
		WHERE id = $6
	`
	result, err := r.q.ExecContext(ctx, query,
		route.Name,
		route.PayOneWayCents,
		route.PayTotalCents,
		route.DriverPayCents,
		route.ProfitCents,
		route.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListCreatedSince retrieves routes created at or after the given time.
func (r *RouteRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE created_at >= $1 ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRoutes(rows)
}

func collectRoutes(rows *sql.Rows) ([]*domain.Route, error) {
	var routes []*domain.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

// Ensure RouteRepository implements repository.RouteRepository.
var _ repository.RouteRepository = (*RouteRepository)(nil)
