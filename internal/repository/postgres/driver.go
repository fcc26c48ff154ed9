package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, home_formatted_address, home_place_id, home_lat, home_lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Home.FormattedAddress,
		driver.Home.PlaceID,
		driver.Home.Lat,
		driver.Home.Lng,
		driver.CreatedAt,
	)
	return err
}

const driverColumns = `id, COALESCE(name, ''), home_formatted_address, home_place_id, home_lat, home_lng, created_at`

func scanDriver(row interface{ Scan(...any) error }) (*domain.Driver, error) {
	var driver domain.Driver
	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Home.FormattedAddress,
		&driver.Home.PlaceID,
		&driver.Home.Lat,
		&driver.Home.Lng,
		&driver.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return driver, nil
}

// GetByPlaceID retrieves a driver by home place ID.
func (r *DriverRepository) GetByPlaceID(ctx context.Context, placeID string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE home_place_id = $1`

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, placeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return driver, nil
}

// GetAll retrieves all drivers ordered by id. The stable order matters: the
// assignment engine scans drivers in this order when ranking.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

// Update updates an existing driver's profile.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	query := `
		UPDATE drivers
		SET name = $1, home_formatted_address = $2, home_place_id = $3, home_lat = $4, home_lng = $5
		WHERE id = $6
	`
	result, err := r.q.ExecContext(ctx, query,
		driver.Name,
		driver.Home.FormattedAddress,
		driver.Home.PlaceID,
		driver.Home.Lat,
		driver.Home.Lng,
		driver.ID,
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

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
