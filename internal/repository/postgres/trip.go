package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
// The assignment record is stored as a JSONB column; its on-disk encoding is
// a persistence concern only, the domain sees one structured value.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, route_id, student_id, pickup_time, dropoff_time, assigned_driver_id, assignment, created_at`

func scanTrip(row interface{ Scan(...any) error }) (*domain.Trip, error) {
	var trip domain.Trip
	var pickupTime, dropoffTime sql.NullTime
	var assignedDriverID sql.NullString
	var assignmentJSON []byte

	err := row.Scan(
		&trip.ID,
		&trip.RouteID,
		&trip.StudentID,
		&pickupTime,
		&dropoffTime,
		&assignedDriverID,
		&assignmentJSON,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if pickupTime.Valid {
		trip.PickupTime = pickupTime.Time
	}
	if dropoffTime.Valid {
		trip.DropoffTime = dropoffTime.Time
	}
	if assignedDriverID.Valid {
		trip.AssignedDriverID = assignedDriverID.String
	}
	if len(assignmentJSON) > 0 {
		var assignment domain.Assignment
		if err := json.Unmarshal(assignmentJSON, &assignment); err != nil {
			return nil, fmt.Errorf("decode assignment record for trip %s: %w", trip.ID, err)
		}
		trip.Assignment = &assignment
	}

	return &trip, nil
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, route_id, student_id, pickup_time, dropoff_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var pickupTime, dropoffTime sql.NullTime
	if !trip.PickupTime.IsZero() {
		pickupTime = sql.NullTime{Time: trip.PickupTime, Valid: true}
	}
	if !trip.DropoffTime.IsZero() {
		dropoffTime = sql.NullTime{Time: trip.DropoffTime, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.RouteID,
		trip.StudentID,
		pickupTime,
		dropoffTime,
		trip.CreatedAt,
	)
	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

// ListByCreatedRange retrieves trips created in [from, to).
func (r *TripRepository) ListByCreatedRange(ctx context.Context, from, to time.Time) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrips(rows)
}

// ListAssignedInWindow retrieves trips assigned to the driver with pickup in
// [from, to) and a non-null dropoff. This is the conflict-check query.
func (r *TripRepository) ListAssignedInWindow(ctx context.Context, driverID string, from, to time.Time) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE assigned_driver_id = $1
		  AND pickup_time >= $2 AND pickup_time < $3
		  AND dropoff_time IS NOT NULL
		ORDER BY pickup_time
	`
	rows, err := r.q.QueryContext(ctx, query, driverID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrips(rows)
}

// SetAssignment writes the driver reference and assignment record together in
// a single statement so the two can never diverge.
func (r *TripRepository) SetAssignment(ctx context.Context, tripID string, assignment *domain.Assignment) error {
	if assignment == nil {
		return errors.New("nil assignment")
	}

	data, err := json.Marshal(assignment)
	if err != nil {
		return err
	}

	query := `UPDATE trips SET assigned_driver_id = $1, assignment = $2 WHERE id = $3`
	result, err := r.q.ExecContext(ctx, query, assignment.DriverID, data, tripID)
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

func collectTrips(rows *sql.Rows) ([]*domain.Trip, error) {
	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
