package domain

// Location is a geocoded address shared by driver homes and student pickups.
type Location struct {
	FormattedAddress string
	PlaceID          string
	Lat              float64
	Lng              float64
}

// Resolved reports whether the address has been geocoded to a place.
// Coordinates alone are not enough: (0, 0) is a valid coordinate pair.
func (l Location) Resolved() bool {
	return l.PlaceID != ""
}
