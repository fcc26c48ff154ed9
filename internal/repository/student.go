package repository

import (
	"context"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
)

// StudentRepository defines the persistence operations for students.
type StudentRepository interface {
	// Create adds a new student.
	Create(ctx context.Context, student *domain.Student) error

	// GetByID retrieves a student by ID.
	GetByID(ctx context.Context, id string) (*domain.Student, error)

	// GetAll retrieves all students.
	GetAll(ctx context.Context) ([]*domain.Student, error)

	// UpsertByPickupPlaceID inserts the student, or updates the existing
	// student sharing the same pickup place ID. Returns the stored student.
	UpsertByPickupPlaceID(ctx context.Context, student *domain.Student) (*domain.Student, error)
}
