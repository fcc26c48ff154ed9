package service

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/Chatbottax/your-nemt-app/internal/distance"
	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/geo"
	"github.com/Chatbottax/your-nemt-app/internal/observability"
	"github.com/Chatbottax/your-nemt-app/internal/redis"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
	"github.com/Chatbottax/your-nemt-app/internal/repository/postgres"
)

// tripLockTTL bounds how long a crashed assignment call can keep a trip locked.
const tripLockTTL = 30 * time.Second

// AssignmentService selects a driver for a trip and records the decision.
// It is the sole writer of a trip's driver reference and assignment record.
type AssignmentService struct {
	db          *sql.DB
	lockStore   redis.LockStoreInterface
	driverRepo  repository.DriverRepository
	studentRepo repository.StudentRepository
	tripRepo    repository.TripRepository
	matrix      distance.Client // nil means no remote credential configured
}

// NewAssignmentService creates a new AssignmentService. db and lockStore may
// be nil: without a db the conflict check and persist run directly against
// the trip repository, without a lockStore no cross-process lock is taken.
func NewAssignmentService(
	db *sql.DB,
	lockStore redis.LockStoreInterface,
	driverRepo repository.DriverRepository,
	studentRepo repository.StudentRepository,
	tripRepo repository.TripRepository,
	matrix distance.Client,
) *AssignmentService {
	return &AssignmentService{
		db:          db,
		lockStore:   lockStore,
		driverRepo:  driverRepo,
		studentRepo: studentRepo,
		tripRepo:    tripRepo,
		matrix:      matrix,
	}
}

// candidate is a driver with its computed cost pair.
type candidate struct {
	driver   *domain.Driver
	duration float64
	distance float64
}

// better reports whether c should replace best as the running best.
// Ordering: lower duration, then lower distance, then lexicographically
// smaller driver name. The chain leaves no unresolved ties.
func (c candidate) better(best *candidate) bool {
	if best == nil {
		return true
	}
	if c.duration != best.duration {
		return c.duration < best.duration
	}
	if c.distance != best.distance {
		return c.distance < best.distance
	}
	return c.driver.Name < best.driver.Name
}

// Propose ranks every known driver by estimated travel cost to the trip's
// student pickup location and returns the winning assignment without
// persisting anything.
//
// When a remote distance client is configured, a failed lookup for ANY driver
// abandons the remote pass entirely: partial results are discarded and every
// driver is re-scored geometrically. The policy is all-or-nothing so the
// result never mixes remote and geometric costs.
func (s *AssignmentService) Propose(ctx context.Context, trip *domain.Trip) (*domain.Assignment, error) {
	student, err := s.studentRepo.GetByID(ctx, trip.StudentID)
	if err != nil {
		return nil, err
	}
	if !student.Pickup.Resolved() {
		return nil, ErrStudentLocationUnresolved
	}

	drivers, err := s.driverRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return nil, ErrNoDrivers
	}

	pickup := distance.Point{Lat: student.Pickup.Lat, Lng: student.Pickup.Lng}

	var best *candidate
	method := domain.AssignmentMethodGeometricFallback

	if s.matrix != nil {
		for _, driver := range drivers {
			est, err := s.matrix.Estimate(ctx, distance.Point{Lat: driver.Home.Lat, Lng: driver.Home.Lng}, pickup)
			if err != nil {
				observability.DistanceFallbacksTotal.Inc()
				best = nil
				break
			}
			cur := candidate{driver: driver, duration: est.DurationSeconds, distance: est.DistanceMeters}
			if cur.better(best) {
				best = &cur
			}
		}
		if best != nil {
			method = domain.AssignmentMethodDistanceService
		}
	}

	if best == nil {
		for _, driver := range drivers {
			d := geo.Haversine(driver.Home.Lat, driver.Home.Lng, student.Pickup.Lat, student.Pickup.Lng)
			// The distance doubles as the duration so the same tie-break
			// chain applies; it carries no time-unit meaning here.
			cur := candidate{driver: driver, duration: d, distance: d}
			if cur.better(best) {
				best = &cur
			}
		}
	}

	return &domain.Assignment{
		DriverID:        best.driver.ID,
		DurationSeconds: int64(math.Round(best.duration)),
		DistanceMeters:  int64(math.Round(best.distance)),
		DecidedAt:       time.Now(),
		Method:          method,
	}, nil
}

// AssignRequest contains the parameters for assigning a trip.
type AssignRequest struct {
	TripID   string
	DriverID string // Optional: empty means rank automatically
}

// Assign chooses a driver for the trip (manually when DriverID is set,
// otherwise via Propose), runs the schedule conflict check, and persists the
// driver reference and assignment record together. On conflict nothing is
// written and the returned error carries the conflicting trip's ID.
func (s *AssignmentService) Assign(ctx context.Context, req AssignRequest) (*domain.Trip, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireTripLock(ctx, req.TripID, tripLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrTripBeingAssigned
		}
		defer func() { _ = s.lockStore.ReleaseTripLock(ctx, req.TripID) }()
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	var assignment *domain.Assignment
	if req.DriverID != "" {
		driver, err := s.driverRepo.GetByID(ctx, req.DriverID)
		if err != nil {
			return nil, err
		}
		assignment = &domain.Assignment{
			DriverID:  driver.ID,
			DecidedAt: time.Now(),
			Method:    domain.AssignmentMethodManual,
		}
	} else {
		assignment, err = s.Propose(ctx, trip)
		if err != nil {
			return nil, err
		}
	}

	// The conflict check and the write run in one transaction when a DB is
	// wired, so concurrent callers cannot both pass the check and then both
	// persist.
	if s.db != nil {
		err = s.withTx(ctx, func(repo repository.TripRepository) error {
			return s.checkAndPersist(ctx, repo, trip, assignment)
		})
	} else {
		err = s.checkAndPersist(ctx, s.tripRepo, trip, assignment)
	}
	if err != nil {
		return nil, err
	}

	observability.AssignmentsTotal.WithLabelValues(string(assignment.Method)).Inc()

	trip.AssignedDriverID = assignment.DriverID
	trip.Assignment = assignment
	return trip, nil
}

// checkAndPersist validates the assignment against the driver's existing
// same-day commitments, then writes it. A trip missing either timestamp
// cannot be conflict-checked and proceeds unchecked.
func (s *AssignmentService) checkAndPersist(ctx context.Context, repo repository.TripRepository, trip *domain.Trip, assignment *domain.Assignment) error {
	if trip.Scheduled() {
		conflict, err := s.findConflict(ctx, repo, trip, assignment.DriverID)
		if err != nil {
			return err
		}
		if conflict != nil {
			observability.AssignmentConflictsTotal.Inc()
			return &ConflictError{ConflictingTripID: conflict.ID}
		}
	}

	return repo.SetAssignment(ctx, trip.ID, assignment)
}

// findConflict returns an overlapping different-route trip already assigned
// to the driver within the local calendar day of the trip's pickup, or nil.
// Same-route trips are exempt: they are one multi-stop run by the same driver.
func (s *AssignmentService) findConflict(ctx context.Context, repo repository.TripRepository, trip *domain.Trip, driverID string) (*domain.Trip, error) {
	pickup := trip.PickupTime
	dayStart := time.Date(pickup.Year(), pickup.Month(), pickup.Day(), 0, 0, 0, 0, pickup.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	others, err := repo.ListAssignedInWindow(ctx, driverID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	for _, other := range others {
		if other.ID == trip.ID {
			continue
		}
		if other.RouteID == trip.RouteID {
			continue
		}
		if !other.Scheduled() {
			continue
		}
		if trip.Overlaps(other) {
			return other, nil
		}
	}

	return nil, nil
}

// withTx runs fn against a transaction-scoped trip repository.
func (s *AssignmentService) withTx(ctx context.Context, fn func(repository.TripRepository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(postgres.NewTripRepositoryWithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
