package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
	"github.com/Chatbottax/your-nemt-app/internal/repository/postgres"
)

// IntakeService turns reviewed document rows into students and trips.
// Upstream concerns (file storage, OCR, address resolution) live outside the
// system; rows arriving here must already carry resolved place details.
type IntakeService struct {
	db          *sql.DB
	routeRepo   repository.RouteRepository
	studentRepo repository.StudentRepository
	tripRepo    repository.TripRepository
}

// NewIntakeService creates a new IntakeService. db may be nil, in which case
// the accept pass runs without a wrapping transaction.
func NewIntakeService(
	db *sql.DB,
	routeRepo repository.RouteRepository,
	studentRepo repository.StudentRepository,
	tripRepo repository.TripRepository,
) *IntakeService {
	return &IntakeService{
		db:          db,
		routeRepo:   routeRepo,
		studentRepo: studentRepo,
		tripRepo:    tripRepo,
	}
}

// StudentRow is one reviewed row from an intake document. Lat/Lng are
// pointers because unresolved rows arrive with them absent, and rejecting
// those is this service's job.
type StudentRow struct {
	Name             string
	FormattedAddress string
	PlaceID          string
	Lat              *float64
	Lng              *float64
}

func (r StudentRow) resolved() bool {
	return r.PlaceID != "" && r.Lat != nil && r.Lng != nil
}

// Accept upserts one student per row (keyed by pickup place ID) and creates
// one unscheduled trip per student on the given route. Every row is validated
// before anything is written, so a bad row rejects the whole batch.
func (s *IntakeService) Accept(ctx context.Context, routeID string, rows []StudentRow) ([]*domain.Student, error) {
	if routeID == "" {
		return nil, ErrInvalidRouteID
	}
	for _, row := range rows {
		if !row.resolved() {
			return nil, ErrUnresolvedStudentRow
		}
	}

	if _, err := s.routeRepo.GetByID(ctx, routeID); err != nil {
		return nil, err
	}

	if s.db == nil {
		return s.accept(ctx, s.studentRepo, s.tripRepo, routeID, rows)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	students, err := s.accept(ctx, postgres.NewStudentRepositoryWithTx(tx), postgres.NewTripRepositoryWithTx(tx), routeID, rows)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return students, nil
}

func (s *IntakeService) accept(
	ctx context.Context,
	studentRepo repository.StudentRepository,
	tripRepo repository.TripRepository,
	routeID string,
	rows []StudentRow,
) ([]*domain.Student, error) {
	students := make([]*domain.Student, 0, len(rows))
	for _, row := range rows {
		student, err := studentRepo.UpsertByPickupPlaceID(ctx, &domain.Student{
			ID:   uuid.New().String(),
			Name: row.Name,
			Pickup: domain.Location{
				FormattedAddress: row.FormattedAddress,
				PlaceID:          row.PlaceID,
				Lat:              *row.Lat,
				Lng:              *row.Lng,
			},
			CreatedAt: time.Now(),
		})
		if err != nil {
			return nil, err
		}

		trip := &domain.Trip{
			ID:        uuid.New().String(),
			RouteID:   routeID,
			StudentID: student.ID,
			CreatedAt: time.Now(),
		}
		if err := tripRepo.Create(ctx, trip); err != nil {
			return nil, err
		}

		students = append(students, student)
	}
	return students, nil
}
