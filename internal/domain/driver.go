package domain

import "time"

// Driver represents a driver in the system. Home is the geocoded address the
// assignment engine measures travel cost from.
type Driver struct {
	ID        string
	Name      string
	Home      Location
	CreatedAt time.Time
}
