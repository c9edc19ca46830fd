// AngelaMos | 2026
// daterange.go

package performance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/carterperez-dev/leadflow/internal/core"
)

const (
	RangeLast7Days   = "last-7-days"
	RangeLast30Days  = "last-30-days"
	RangeLast90Days  = "last-90-days"
	RangeYearToDate  = "year-to-date"
	RangeAllTime     = "all-time"
	DefaultDateRange = RangeLast30Days

	MaxTrendDays = 365
)

// DateRange bounds lead creation time. A nil Since means unbounded.
type DateRange struct {
	Name  string
	Since *time.Time
}

func ParseDateRange(raw string, now time.Time) (DateRange, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		name = DefaultDateRange
	}

	now = now.UTC()
	var since time.Time

	switch name {
	case RangeLast7Days:
		since = now.AddDate(0, 0, -7)
	case RangeLast30Days:
		since = now.AddDate(0, 0, -30)
	case RangeLast90Days:
		since = now.AddDate(0, 0, -90)
	case RangeYearToDate:
		since = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case RangeAllTime:
		return DateRange{Name: name}, nil
	default:
		return DateRange{}, fmt.Errorf(
			"dateRange must be one of %s, %s, %s, %s, %s: %w",
			RangeLast7Days, RangeLast30Days, RangeLast90Days, RangeYearToDate, RangeAllTime,
			core.ErrInvalidInput,
		)
	}

	return DateRange{Name: name, Since: &since}, nil
}

// ParseTrendDays reads the days window; empty yields fallback.
func ParseTrendDays(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > MaxTrendDays {
		return 0, fmt.Errorf("days must be between 1 and %d: %w", MaxTrendDays, core.ErrInvalidInput)
	}

	return days, nil
}
