// AngelaMos | 2026
// service.go

package performance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/leadflow/internal/core"
)

// EmployeeReport is the employee-performance payload.
type EmployeeReport struct {
	DateRange string          `json:"dateRange"`
	Summary   Summary         `json:"summaryMetrics"`
	Employees []EmployeeStats `json:"employees"`
}

type StatusReport struct {
	DateRange    string        `json:"dateRange"`
	Distribution []StatusCount `json:"distribution"`
}

type TrendReport struct {
	Days   int          `json:"days"`
	Points []TrendPoint `json:"trend"`
}

type Service struct {
	repo        Repository
	cache       *core.Cache
	defaultDays int
	now         func() time.Time
}

func NewService(repo Repository, cache *core.Cache, defaultDays int) *Service {
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &Service{
		repo:        repo,
		cache:       cache,
		defaultDays: defaultDays,
		now:         time.Now,
	}
}

func (s *Service) EmployeePerformance(ctx context.Context, rawRange string) (*EmployeeReport, error) {
	dr, err := ParseDateRange(rawRange, s.now())
	if err != nil {
		return nil, err
	}

	ctx, span := core.StartSpan(ctx, "performance.employees", attribute.String("date_range", dr.Name))
	report, err := core.Remember(ctx, s.cache, "employee-performance:"+dr.Name,
		func(ctx context.Context) (*EmployeeReport, error) {
			employees, err := s.repo.Employees(ctx)
			if err != nil {
				return nil, err
			}

			leads, err := s.repo.Leads(ctx, dr.Since)
			if err != nil {
				return nil, err
			}

			return &EmployeeReport{
				DateRange: dr.Name,
				Summary:   Summarize(leads),
				Employees: EmployeeBreakdown(employees, leads),
			}, nil
		})
	core.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("employee performance: %w", err)
	}

	return report, nil
}

func (s *Service) LeadStatus(ctx context.Context, rawRange string) (*StatusReport, error) {
	dr, err := ParseDateRange(rawRange, s.now())
	if err != nil {
		return nil, err
	}

	report, err := core.Remember(ctx, s.cache, "lead-status:"+dr.Name,
		func(ctx context.Context) (*StatusReport, error) {
			leads, err := s.repo.Leads(ctx, dr.Since)
			if err != nil {
				return nil, err
			}

			return &StatusReport{
				DateRange:    dr.Name,
				Distribution: StatusDistribution(leads),
			}, nil
		})
	if err != nil {
		return nil, fmt.Errorf("lead status distribution: %w", err)
	}

	return report, nil
}

func (s *Service) ConversionTrend(ctx context.Context, rawDays string) (*TrendReport, error) {
	days, err := ParseTrendDays(rawDays, s.defaultDays)
	if err != nil {
		return nil, err
	}

	today := s.now().UTC()
	key := "conversion-trend:" + strconv.Itoa(days) + ":" + today.Format(time.DateOnly)

	ctx, span := core.StartSpan(ctx, "performance.trend", attribute.Int("days", days))
	report, err := core.Remember(ctx, s.cache, key,
		func(ctx context.Context) (*TrendReport, error) {
			since := TrendStart(days, today)
			leads, err := s.repo.Leads(ctx, &since)
			if err != nil {
				return nil, err
			}

			return &TrendReport{
				Days:   days,
				Points: ConversionTrend(leads, days, today),
			}, nil
		})
	core.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("conversion trend: %w", err)
	}

	return report, nil
}
