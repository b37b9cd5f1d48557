package services

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/ports"
	"fmt"
	"strings"
	"time"
)

type ReportService struct {
	repo ports.OrderRepository
	loc  *time.Location
	now  func() time.Time
}

// loc is the business time zone that days are cut in; nil means UTC.
func NewReportService(repo ports.OrderRepository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{repo: repo, loc: loc, now: time.Now}
}

// Daily reports on the day named by date (YYYY-MM-DD). An empty date means today.
func (s *ReportService) Daily(ctx context.Context, date string) (domain.DailyReport, error) {
	day := s.now().In(s.loc)
	if date = strings.TrimSpace(date); date != "" {
		d, err := time.ParseInLocation(time.DateOnly, date, s.loc)
		if err != nil {
			return domain.DailyReport{}, domain.ValidationError{Field: "date", Msg: "must be formatted YYYY-MM-DD"}
		}
		day = d
	}

	rep, err := s.repo.DailyReport(ctx, day)
	if err != nil {
		return domain.DailyReport{}, fmt.Errorf("daily report: %w", err)
	}
	return rep, nil
}

// Summary counts the most recent orders (up to limit) per status.
func (s *ReportService) Summary(ctx context.Context, limit int) (domain.StatusSummary, error) {
	orders, err := s.repo.ListOrders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("status summary: %w", err)
	}
	return domain.SummarizeStatuses(orders), nil
}
