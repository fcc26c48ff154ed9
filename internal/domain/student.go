package domain

import "time"

// Student represents a student in the system. Pickup supplies the coordinates
// the assignment engine measures travel cost to.
type Student struct {
	ID        string
	Name      string
	Pickup    Location
	CreatedAt time.Time
}
