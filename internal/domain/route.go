package domain

import "time"

// Route represents a recurring transport run with its pay bookkeeping.
// PayTotalCents and ProfitCents are derived, never supplied by callers:
// total = 2 * one-way, profit = total - driver pay. Every write path must
// recompute them via ComputePay.
type Route struct {
	ID             string
	Name           string
	PayOneWayCents int64
	PayTotalCents  int64
	DriverPayCents int64
	ProfitCents    int64
	CreatedAt      time.Time
}

// ComputePay recomputes the derived pay fields from the stored inputs.
func (r *Route) ComputePay() {
	r.PayTotalCents = 2 * r.PayOneWayCents
	r.ProfitCents = r.PayTotalCents - r.DriverPayCents
}
