// AngelaMos | 2026
// aggregate_test.go

package performance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carterperez-dev/leadflow/internal/core"
)

func ptr(s string) *string { return &s }

func TestConversionRate(t *testing.T) {
	tests := []struct {
		converted, assigned, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{4, 4, 100},
	}

	for _, tt := range tests {
		if got := ConversionRate(tt.converted, tt.assigned); got != tt.want {
			t.Errorf("ConversionRate(%d, %d) = %d, want %d", tt.converted, tt.assigned, got, tt.want)
		}
	}
}

func TestEmployeeBreakdown(t *testing.T) {
	employees := []Employee{
		{ID: "e1", Name: "Ana"},
		{ID: "e2", Name: "Ben"},
	}
	leads := []LeadSnapshot{
		{Status: "New", EmployeeID: ptr("e1")},
		{Status: "Contacted", EmployeeID: ptr("e1")},
		{Status: "Converted", EmployeeID: ptr("e1")},
		{Status: "Closed", EmployeeID: ptr("e1")},
		{Status: "Converted", ManagerID: ptr("m1")},
	}

	stats := EmployeeBreakdown(employees, leads)
	if len(stats) != 2 {
		t.Fatalf("len = %d, want 2", len(stats))
	}

	ana := stats[0]
	if ana.LeadsAssigned != 4 || ana.LeadsContacted != 3 || ana.LeadsConverted != 2 || ana.ConversionRate != 50 {
		t.Errorf("ana = %+v", ana)
	}

	ben := stats[1]
	if ben.LeadsAssigned != 0 || ben.ConversionRate != 0 {
		t.Errorf("employee without leads = %+v, want zeros", ben)
	}
}

func TestSummarize(t *testing.T) {
	leads := []LeadSnapshot{
		{Status: "New"},
		{Status: "Converted"},
		{Status: "Contacted", ManagerID: ptr("m1")},
		{Status: "Closed", EmployeeID: ptr("e1")},
		{Status: "Lost", ManagerID: ptr("m1"), EmployeeID: ptr("e1")},
		{Status: "Qualified", ManagerID: ptr("")},
	}

	got := Summarize(leads)
	want := Summary{
		TotalLeads:     6,
		AssignedLeads:  3,
		ContactedLeads: 2,
		ConvertedLeads: 1,
		ConversionRate: 33,
	}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}

func TestStatusDistribution(t *testing.T) {
	tests := []struct {
		name  string
		leads []LeadSnapshot
		want  []StatusCount
	}{
		{
			name:  "empty",
			leads: nil,
			want:  []StatusCount{},
		},
		{
			name:  "first seen order",
			leads: []LeadSnapshot{{Status: "New"}, {Status: "New"}, {Status: "Contacted"}},
			want:  []StatusCount{{Name: "New", Value: 2}, {Name: "Contacted", Value: 1}},
		},
		{
			name:  "missing status is unknown",
			leads: []LeadSnapshot{{Status: ""}, {Status: "Lost"}, {Status: ""}},
			want:  []StatusCount{{Name: UnknownStatus, Value: 2}, {Name: "Lost", Value: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusDistribution(tt.leads)
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestConversionTrend(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	leads := []LeadSnapshot{
		{Status: "New", CreatedAt: time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)},
		{Status: "Converted", CreatedAt: time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)},
		{Status: "Closed", CreatedAt: time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)},
		{Status: "New", CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}

	points := ConversionTrend(leads, 3, today)
	if len(points) != 3 {
		t.Fatalf("len = %d, want 3", len(points))
	}

	want := []TrendPoint{
		{Date: "Mar 8", ISODate: "2026-03-08", Leads: 1, Conversions: 1},
		{Date: "Mar 9", ISODate: "2026-03-09"},
		{Date: "Mar 10", ISODate: "2026-03-10", Leads: 2, Conversions: 1},
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestParseDateRange(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		raw       string
		wantName  string
		wantSince *time.Time
		wantErr   bool
	}{
		{raw: "", wantName: RangeLast30Days, wantSince: timePtr(now.AddDate(0, 0, -30))},
		{raw: RangeLast7Days, wantName: RangeLast7Days, wantSince: timePtr(now.AddDate(0, 0, -7))},
		{raw: RangeYearToDate, wantName: RangeYearToDate, wantSince: timePtr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))},
		{raw: RangeAllTime, wantName: RangeAllTime},
		{raw: "last-year", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			dr, err := ParseDateRange(tt.raw, now)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidInput) {
					t.Fatalf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateRange: %v", err)
			}
			if dr.Name != tt.wantName {
				t.Errorf("name = %q, want %q", dr.Name, tt.wantName)
			}
			switch {
			case tt.wantSince == nil && dr.Since != nil:
				t.Errorf("since = %v, want unbounded", *dr.Since)
			case tt.wantSince != nil && (dr.Since == nil || !dr.Since.Equal(*tt.wantSince)):
				t.Errorf("since = %v, want %v", dr.Since, *tt.wantSince)
			}
		})
	}
}

func TestParseTrendDays(t *testing.T) {
	if d, err := ParseTrendDays("", 7); err != nil || d != 7 {
		t.Errorf("default = %d, %v", d, err)
	}
	if d, err := ParseTrendDays("30", 7); err != nil || d != 30 {
		t.Errorf("30 = %d, %v", d, err)
	}
	for _, raw := range []string{"0", "-1", "366", "week"} {
		if _, err := ParseTrendDays(raw, 7); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("%q: err = %v, want ErrInvalidInput", raw, err)
		}
	}
}

type stubRepo struct {
	leads     []LeadSnapshot
	employees []Employee
	since     *time.Time
}

func (s *stubRepo) Leads(_ context.Context, since *time.Time) ([]LeadSnapshot, error) {
	s.since = since
	return s.leads, nil
}

func (s *stubRepo) Employees(context.Context) ([]Employee, error) {
	return s.employees, nil
}

func TestServiceAppliesDateBound(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := &stubRepo{
		employees: []Employee{{ID: "e1", Name: "Ana"}},
		leads:     []LeadSnapshot{{Status: "Converted", EmployeeID: ptr("e1")}},
	}
	svc := NewService(repo, nil, 7)
	svc.now = func() time.Time { return now }

	report, err := svc.EmployeePerformance(context.Background(), RangeLast7Days)
	if err != nil {
		t.Fatalf("EmployeePerformance: %v", err)
	}
	if repo.since == nil || !repo.since.Equal(now.AddDate(0, 0, -7)) {
		t.Errorf("since = %v, want 7 days back", repo.since)
	}
	if report.Summary.ConversionRate != 100 || report.Employees[0].LeadsConverted != 1 {
		t.Errorf("report = %+v", report)
	}

	trend, err := svc.ConversionTrend(context.Background(), "")
	if err != nil {
		t.Fatalf("ConversionTrend: %v", err)
	}
	if trend.Days != 7 || len(trend.Points) != 7 {
		t.Errorf("trend = %+v, want 7 points", trend)
	}
	if trend.Points[6].ISODate != "2026-06-15" {
		t.Errorf("last point = %s, want today", trend.Points[6].ISODate)
	}

	if _, err := svc.LeadStatus(context.Background(), "forever"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
