package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDrivers is returned when no candidate drivers exist. Terminal for
	// the call: a driver must be created before assignment can succeed.
	ErrNoDrivers = errors.New("no drivers available")

	// ErrStudentLocationUnresolved is returned when a trip's student has no
	// geocoded pickup location to measure against.
	ErrStudentLocationUnresolved = errors.New("student pickup location not resolved")

	// ErrTripBeingAssigned is returned when another assignment call holds
	// the trip lock.
	ErrTripBeingAssigned = errors.New("trip is being assigned by another request")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidRouteID is returned when route ID is empty.
	ErrInvalidRouteID = errors.New("invalid route id")

	// ErrInvalidStudentID is returned when student ID is empty.
	ErrInvalidStudentID = errors.New("invalid student id")

	// ErrInvalidRouteName is returned when route name is empty.
	ErrInvalidRouteName = errors.New("invalid route name")

	// ErrNegativePay is returned when a pay amount is negative.
	ErrNegativePay = errors.New("pay amounts must not be negative")

	// ErrUnresolvedStudentRow is returned by intake when a student row is
	// missing place details.
	ErrUnresolvedStudentRow = errors.New("missing place details for one or more students")

	// ErrInvalidSummaryRange is returned for an unknown dashboard range.
	ErrInvalidSummaryRange = errors.New("invalid summary range")
)

// ConflictError reports that the candidate driver is already committed to an
// overlapping trip on a different route. The assignment was not persisted;
// the caller may retry with a different driver or adjust the schedule.
type ConflictError struct {
	ConflictingTripID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("driver already committed to overlapping trip %s", e.ConflictingTripID)
}
