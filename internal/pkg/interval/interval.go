// Package interval is the contract interval and aggregation engine.
//
// A contract is "active in month M" when its closed date interval
// [start_date, end_date] intersects the calendar span of M. Several admin
// screens (active list, domain option report, per-plan counts) share this
// rule; earlier frontend variants drifted apart on boundary handling, so
// every caller goes through this package.
//
// All functions are pure, do no I/O and are safe to call concurrently.
// Contract status is deliberately not consulted here: "was this contract
// in force during M" is a date question, status is display state.
package interval

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/contractdesk/contractdesk/app/models"
	"github.com/contractdesk/contractdesk/internal/pkg/sortfilter"
)

// ErrInvalidMonth reports a malformed year-month value. Callers violating
// the YYYY-MM contract get this error, never a silent coercion.
var ErrInvalidMonth = errors.New("interval: invalid year-month")

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a "YYYY-MM" selector value.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// String renders the selector form, e.g. "2025-06".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Bounds returns the first and last calendar day of the month as UTC
// midnights. The day-0 normalization of time.Date handles month lengths
// and leap years.
func (ym YearMonth) Bounds() (time.Time, time.Time) {
	first := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC)
	return first, last
}

// Contains reports whether the given date falls inside the month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// toDate strips any time-of-day component; the overlap test compares
// calendar dates, not instants.
func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsActiveInMonth reports whether the contract interval intersects the
// month: start_date <= lastDay && end_date >= firstDay, boundaries
// inclusive. A contract starting on the month's last day, or ending on
// its first day, counts.
func IsActiveInMonth(c models.Contract, ym YearMonth) bool {
	first, last := ym.Bounds()
	start := toDate(c.StartDate)
	end := toDate(c.EndDate)
	return !start.After(last) && !end.Before(first)
}

// FilterActive returns the contracts active in the month, preserving
// input order.
func FilterActive(contracts []models.Contract, ym YearMonth) []models.Contract {
	out := make([]models.Contract, 0, len(contracts))
	for _, c := range contracts {
		if IsActiveInMonth(c, ym) {
			out = append(out, c)
		}
	}
	return out
}

// EndsInMonth reports whether the contract's end date falls inside the
// month. The active list highlights these rows.
func EndsInMonth(c models.Contract, ym YearMonth) bool {
	return ym.Contains(toDate(c.EndDate))
}

// TotalAnnualValue sums the snapshotted annual price over contracts whose
// plan name is not excluded. Unresolved plans count under the unknown
// sentinel name, so they can be excluded by name like any other plan.
func TotalAnnualValue(contracts []models.Contract, exclude map[string]bool) int64 {
	var total int64
	for _, c := range contracts {
		if exclude[c.PlanName()] {
			continue
		}
		total += c.Price
	}
	return total
}

// MonthlyEquivalent converts an annual amount to its monthly figure,
// rounding half-up. Rounding happens here, at presentation, never while
// accumulating.
func MonthlyEquivalent(annual int64) int64 {
	return int64(math.Round(float64(annual) / 12))
}

// PlanCount is one row of the per-plan breakdown.
type PlanCount struct {
	PlanName string `json:"plan_name"`
	Count    int    `json:"count"`
}

// CountsByPlan counts contracts per plan for every tracked plan name,
// zero-filling plans without contracts and omitting excluded names
// entirely. Contracts referencing an untracked plan (including the
// unknown bucket, unless the caller tracks it) are not counted. The
// result is ordered by plan name with Japanese collation.
func CountsByPlan(contracts []models.Contract, allPlanNames []string, exclude map[string]bool) []PlanCount {
	counts := make(map[string]int, len(allPlanNames))
	for _, c := range contracts {
		counts[c.PlanName()]++
	}

	out := make([]PlanCount, 0, len(allPlanNames))
	for _, name := range allPlanNames {
		if exclude[name] {
			continue
		}
		out = append(out, PlanCount{PlanName: name, Count: counts[name]})
	}

	return sortfilter.SortBy(out, func(pc PlanCount) sortfilter.Value {
		return sortfilter.String(pc.PlanName)
	}, sortfilter.OrderAsc)
}

// StartMonthGroups buckets contracts by the calendar month of their start
// date, January first. When activeOnly is set, only contracts with status
// "active" are included; the domain option report shows active counts in
// its header row but lists every contract in the detail tables.
func StartMonthGroups(contracts []models.Contract, activeOnly bool) [12][]models.Contract {
	var groups [12][]models.Contract
	for _, c := range contracts {
		if activeOnly && c.Status != models.CONTRACT_STATUS_ACTIVE {
			continue
		}
		m := int(toDate(c.StartDate).Month()) - 1
		groups[m] = append(groups[m], c)
	}
	return groups
}
