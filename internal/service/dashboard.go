package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Chatbottax/your-nemt-app/internal/domain"
	"github.com/Chatbottax/your-nemt-app/internal/redis"
	"github.com/Chatbottax/your-nemt-app/internal/repository"
)

// DashboardService aggregates route pay figures into the KPI summary.
type DashboardService struct {
	routeRepo  repository.RouteRepository
	cacheStore *redis.CacheStore
}

// NewDashboardService creates a new DashboardService. cacheStore may be nil.
func NewDashboardService(routeRepo repository.RouteRepository, cacheStore *redis.CacheStore) *DashboardService {
	return &DashboardService{routeRepo: routeRepo, cacheStore: cacheStore}
}

// SummaryTotals are the aggregated pay figures, all in integer cents.
type SummaryTotals struct {
	RevenueCents   int64 `json:"revenue_cents"`
	DriverPayCents int64 `json:"driver_pay_cents"`
	ProfitCents    int64 `json:"profit_cents"`
}

// Summary is the dashboard payload: the routes in range and their totals.
type Summary struct {
	Routes []*domain.Route `json:"routes"`
	Totals SummaryTotals   `json:"totals"`
}

// Summary ranges.
const (
	SummaryRangeDay  = "day"
	SummaryRangeWeek = "week"
)

// Summary returns pay KPIs for routes created since local midnight ("day")
// or since the start of the current week ("week", Sunday-based).
func (s *DashboardService) Summary(ctx context.Context, rng string) (*Summary, error) {
	if rng == "" {
		rng = SummaryRangeDay
	}
	if rng != SummaryRangeDay && rng != SummaryRangeWeek {
		return nil, ErrInvalidSummaryRange
	}

	if s.cacheStore != nil {
		if data, err := s.cacheStore.GetSummary(ctx, rng); err == nil && data != nil {
			var cached Summary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if rng == SummaryRangeWeek {
		start = start.AddDate(0, 0, -int(start.Weekday()))
	}

	routes, err := s.routeRepo.ListCreatedSince(ctx, start)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Routes: routes}
	for _, r := range routes {
		summary.Totals.RevenueCents += r.PayTotalCents
		summary.Totals.DriverPayCents += r.DriverPayCents
		summary.Totals.ProfitCents += r.ProfitCents
	}

	if s.cacheStore != nil {
		if data, err := json.Marshal(summary); err == nil {
			_ = s.cacheStore.SetSummary(ctx, rng, data)
		}
	}

	return summary, nil
}
