package service

import (
	"context"
	"fmt"
	"time"

	"linkshelf/internal/domain"
	"linkshelf/internal/repository"
)

// ReportWindow is the trailing window of the standard click report.
const ReportWindow = 7 * 24 * time.Hour

// ClickReport holds per-product click counts for a window plus the
// total across all products.
type ClickReport struct {
	WindowStart time.Time              `json:"window_start"`
	Rows        []domain.ProductClicks `json:"rows"`
	Total       int                    `json:"total"`
}

// AnalyticsService aggregates the click ledger into reports
type AnalyticsService interface {
	ClicksSince(ctx context.Context, windowStart time.Time) (*ClickReport, error)
	Report(ctx context.Context) (*ClickReport, error)
}

type analyticsService struct {
	clickRepo repository.ClickRepository
}

// NewAnalyticsService creates a new instance of AnalyticsService
func NewAnalyticsService(clickRepo repository.ClickRepository) AnalyticsService {
	return &analyticsService{clickRepo: clickRepo}
}

// ClicksSince produces one row per product with its click count at or
// after windowStart. Products with no clicks in the window are
// included with a count of 0.
func (s *analyticsService) ClicksSince(ctx context.Context, windowStart time.Time) (*ClickReport, error) {
	rows, err := s.clickRepo.CountsSince(ctx, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate clicks: %w", err)
	}

	total := 0
	for _, row := range rows {
		total += row.Clicks
	}

	return &ClickReport{
		WindowStart: windowStart,
		Rows:        rows,
		Total:       total,
	}, nil
}

// Report runs the standard trailing 7-day report, computed in UTC
func (s *analyticsService) Report(ctx context.Context) (*ClickReport, error) {
	return s.ClicksSince(ctx, time.Now().UTC().Add(-ReportWindow))
}
