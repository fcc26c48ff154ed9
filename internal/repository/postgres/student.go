package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
)

// StudentRepository is a PostgreSQL implementation of repository.StudentRepository.
type StudentRepository struct {
	q Querier
}

// NewStudentRepository creates a new PostgreSQL student repository.
func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{q: db}
}

// NewStudentRepositoryWithTx creates a student repository using a transaction.
func NewStudentRepositoryWithTx(tx *sql.Tx) *StudentRepository {
	return &StudentRepository{q: tx}
}

const studentColumns = `id, COALESCE(name, ''), pickup_formatted_address, pickup_place_id, pickup_lat, pickup_lng, created_at`

func scanStudent(row interface{ Scan(...any) error }) (*domain.Student, error) {
	var student domain.Student
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Pickup.FormattedAddress,
		&student.Pickup.PlaceID,
		&student.Pickup.Lat,
		&student.Pickup.Lng,
		&student.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create adds a new student.
func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	query := `
		INSERT INTO students (id, name, pickup_formatted_address, pickup_place_id, pickup_lat, pickup_lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		student.ID,
		student.Name,
		student.Pickup.FormattedAddress,
		student.Pickup.PlaceID,
		student.Pickup.Lat,
		student.Pickup.Lng,
		student.CreatedAt,
	)
	return err
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

// GetAll retrieves all students.
func (r *StudentRepository) GetAll(ctx context.Context) ([]*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*domain.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

// UpsertByPickupPlaceID inserts the student or refreshes the one sharing the
// same pickup place ID, returning the stored row either way.
func (r *StudentRepository) UpsertByPickupPlaceID(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	query := `
		INSERT INTO students (id, name, pickup_formatted_address, pickup_place_id, pickup_lat, pickup_lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (pickup_place_id) DO UPDATE
		SET name = EXCLUDED.name,
		    pickup_formatted_address = EXCLUDED.pickup_formatted_address,
		    pickup_lat = EXCLUDED.pickup_lat,
		    pickup_lng = EXCLUDED.pickup_lng
		RETURNING ` + studentColumns + `
	`
	stored, err := scanStudent(r.q.QueryRowContext(ctx, query,
		student.ID,
		student.Name,
		student.Pickup.FormattedAddress,
		student.Pickup.PlaceID,
		student.Pickup.Lat,
		student.Pickup.Lng,
		student.CreatedAt,
	))
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Ensure StudentRepository implements repository.StudentRepository.
var _ repository.StudentRepository = (*StudentRepository)(nil)
