// AngelaMos | 2026
// aggregate.go

package performance

import (
	"math"
	"time"
)

const UnknownStatus = "Unknown"

var (
	contactedStatuses = map[string]bool{
		"Contacted": true,
		"Qualified": true,
		"Converted": true,
		"Closed":    true,
	}
	convertedStatuses = map[string]bool{
		"Converted": true,
		"Closed":    true,
	}
)

// LeadSnapshot is the slice of a lead the aggregates read.
type LeadSnapshot struct {
	Status     string    `db:"status"`
	ManagerID  *string   `db:"assigned_manager_id"`
	EmployeeID *string   `db:"assigned_employee_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func (l LeadSnapshot) assigned() bool {
	return nonEmpty(l.ManagerID) || nonEmpty(l.EmployeeID)
}

func (l LeadSnapshot) workedBy(employeeID string) bool {
	return l.EmployeeID != nil && *l.EmployeeID == employeeID
}

type Employee struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

type EmployeeStats struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	LeadsAssigned  int    `json:"leadsAssigned"`
	LeadsContacted int    `json:"leadsContacted"`
	LeadsConverted int    `json:"leadsConverted"`
	ConversionRate int    `json:"conversionRate"`
}

type Summary struct {
	TotalLeads     int `json:"totalLeads"`
	AssignedLeads  int `json:"assignedLeads"`
	ContactedLeads int `json:"contactedLeads"`
	ConvertedLeads int `json:"convertedLeads"`
	ConversionRate int `json:"conversionRate"`
}

type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type TrendPoint struct {
	Date        string `json:"date"`
	ISODate     string `json:"isoDate"`
	Leads       int    `json:"leads"`
	Conversions int    `json:"conversions"`
}

// ConversionRate is converted as a rounded percentage of assigned, 0 when
// nothing is assigned.
func ConversionRate(converted, assigned int) int {
	if assigned <= 0 {
		return 0
	}
	return int(math.Round(float64(converted) * 100 / float64(assigned)))
}

func IsContacted(status string) bool {
	return contactedStatuses[status]
}

func IsConverted(status string) bool {
	return convertedStatuses[status]
}

// EmployeeBreakdown returns one entry per employee, in the given order,
// including employees without leads.
func EmployeeBreakdown(employees []Employee, leads []LeadSnapshot) []EmployeeStats {
	out := make([]EmployeeStats, 0, len(employees))

	for _, e := range employees {
		stats := EmployeeStats{ID: e.ID, Name: e.Name, Email: e.Email}

		for _, l := range leads {
			if !l.workedBy(e.ID) {
				continue
			}
			stats.LeadsAssigned++
			if IsContacted(l.Status) {
				stats.LeadsContacted++
			}
			if IsConverted(l.Status) {
				stats.LeadsConverted++
			}
		}

		stats.ConversionRate = ConversionRate(stats.LeadsConverted, stats.LeadsAssigned)
		out = append(out, stats)
	}

	return out
}

func Summarize(leads []LeadSnapshot) Summary {
	s := Summary{TotalLeads: len(leads)}

	for _, l := range leads {
		if !l.assigned() {
			continue
		}
		s.AssignedLeads++
		if IsContacted(l.Status) {
			s.ContactedLeads++
		}
		if IsConverted(l.Status) {
			s.ConvertedLeads++
		}
	}

	s.ConversionRate = ConversionRate(s.ConvertedLeads, s.AssignedLeads)
	return s
}

// StatusDistribution counts leads per status in first-seen order. Leads
// without a status land in the Unknown bucket.
func StatusDistribution(leads []LeadSnapshot) []StatusCount {
	out := []StatusCount{}
	index := make(map[string]int)

	for _, l := range leads {
		status := l.Status
		if status == "" {
			status = UnknownStatus
		}

		i, ok := index[status]
		if !ok {
			i = len(out)
			index[status] = i
			out = append(out, StatusCount{Name: status})
		}
		out[i].Value++
	}

	return out
}

// ConversionTrend buckets leads by UTC creation day over the days calendar
// days ending on today's day inclusive.
func ConversionTrend(leads []LeadSnapshot, days int, today time.Time) []TrendPoint {
	if days <= 0 {
		return []TrendPoint{}
	}

	first := TrendStart(days, today)
	points := make([]TrendPoint, days)
	for i := range points {
		day := first.AddDate(0, 0, i)
		points[i] = TrendPoint{
			Date:    day.Format("Jan 2"),
			ISODate: day.Format(time.DateOnly),
		}
	}

	for _, l := range leads {
		created := l.CreatedAt.UTC()
		if created.Before(first) {
			continue
		}
		i := int(startOfDay(created).Sub(first).Hours() / 24)
		if i >= days {
			continue
		}
		points[i].Leads++
		if IsConverted(l.Status) {
			points[i].Conversions++
		}
	}

	return points
}

// TrendStart is midnight UTC of the first day in a days-long window ending
// today.
func TrendStart(days int, today time.Time) time.Time {
	return startOfDay(today.UTC()).AddDate(0, 0, -(days - 1))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
