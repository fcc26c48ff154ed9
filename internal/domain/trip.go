package domain

import "time"

// AssignmentMethod identifies which ranking strategy produced an assignment.
type AssignmentMethod string

const (
	// AssignmentMethodDistanceService means the remote distance service
	// succeeded for every candidate driver.
	AssignmentMethodDistanceService AssignmentMethod = "distance_service"

	// AssignmentMethodGeometricFallback means drivers were ranked by
	// great-circle distance, either because no remote credential was
	// configured or because a remote lookup failed mid-pass.
	AssignmentMethodGeometricFallback AssignmentMethod = "geometric_fallback"

	// AssignmentMethodManual means the caller supplied the driver directly.
	AssignmentMethodManual AssignmentMethod = "manual"
)

// Assignment is the structured outcome of a driver-selection decision.
// It is audit data attached to a trip; the engine never reads it back.
// DurationSeconds only carries time-unit meaning for the distance_service
// method; the geometric fallback stores the distance as a duration proxy.
type Assignment struct {
	DriverID        string           `json:"driver_id"`
	DurationSeconds int64            `json:"duration_s"`
	DistanceMeters  int64            `json:"distance_m"`
	DecidedAt       time.Time        `json:"decided_at"`
	Method          AssignmentMethod `json:"method"`
}

// Trip represents one scheduled transport of one student on one route.
// PickupTime and DropoffTime are optional; a zero value means unscheduled.
// A trip begins unassigned; the assignment engine is the sole writer of
// AssignedDriverID and Assignment. Reassignment overwrites the prior record.
type Trip struct {
	ID               string
	RouteID          string
	StudentID        string
	PickupTime       time.Time
	DropoffTime      time.Time
	AssignedDriverID string
	Assignment       *Assignment
	CreatedAt        time.Time
}

// Scheduled reports whether the trip has both pickup and dropoff times,
// which is the precondition for conflict checking.
func (t *Trip) Scheduled() bool {
	return !t.PickupTime.IsZero() && !t.DropoffTime.IsZero()
}

// Overlaps reports whether two scheduled trips overlap using half-open
// [pickup, dropoff) interval comparison.
func (t *Trip) Overlaps(other *Trip) bool {
	return t.PickupTime.Before(other.DropoffTime) && other.PickupTime.Before(t.DropoffTime)
}
