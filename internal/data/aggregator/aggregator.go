package aggregator

import (
	"math"
	"sort"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// AnomalyReport describes events whose duration could not be counted as
// given: unusable durations count as zero and sums that would overflow stop
// at math.MaxInt64.
type AnomalyReport struct {
	// Invalid counts durations that were missing or not numeric.
	Invalid int
	// Negative counts durations below zero.
	Negative int
	// Saturated counts events whose addition overflowed their app's total.
	Saturated int
	// Apps lists affected app names in first-seen order.
	Apps []string
}

// Count returns the number of clamped events.
func (r AnomalyReport) Count() int {
	return r.Invalid + r.Negative + r.Saturated
}

// Aggregate groups events by app name and sums their durations.
//
// Every distinct app name yields exactly one record, and the totals add up
// to the sum of all usable durations. Records come back in no particular
// order; use SortByDuration when a stable order is needed.
func Aggregate(events []model.ActivityEvent) []model.SummaryRecord {
	records, report := AggregateWithReport(events)
	if report.Count() > 0 {
		util.Log().Warn("clamped unusable activity durations to zero",
			util.F("invalid", report.Invalid),
			util.F("negative", report.Negative),
			util.F("saturated", report.Saturated),
			util.F("apps", report.Apps))
	}
	return records
}

// AggregateWithReport is Aggregate without logging; the clamped events are
// described in the returned report instead.
func AggregateWithReport(events []model.ActivityEvent) ([]model.SummaryRecord, AnomalyReport) {
	var report AnomalyReport
	seenAnomaly := make(map[string]struct{})
	noteApp := func(app string) {
		if _, ok := seenAnomaly[app]; !ok {
			seenAnomaly[app] = struct{}{}
			report.Apps = append(report.Apps, app)
		}
	}

	totals := make(map[string]int64, len(events))
	for _, event := range events {
		d := event.Duration.Value
		clamped := true
		switch {
		case !event.Duration.Valid:
			report.Invalid++
		case d < 0:
			report.Negative++
		default:
			clamped = false
		}

		if clamped {
			d = 0
			noteApp(event.AppName)
		}

		sum, overflow := addSeconds(totals[event.AppName], d)
		if overflow {
			report.Saturated++
			noteApp(event.AppName)
		}
		totals[event.AppName] = sum
	}

	records := make([]model.SummaryRecord, 0, len(totals))
	for name, total := range totals {
		records = append(records, model.SummaryRecord{AppName: name, TotalDuration: total})
	}
	return records, report
}

// Total sums the durations of the given records, stopping at
// math.MaxInt64.
func Total(records []model.SummaryRecord) int64 {
	var total int64
	for _, r := range records {
		total, _ = addSeconds(total, r.TotalDuration)
	}
	return total
}

// addSeconds adds two non-negative durations, saturating at math.MaxInt64.
func addSeconds(a, b int64) (int64, bool) {
	if b > math.MaxInt64-a {
		return math.MaxInt64, true
	}
	return a + b, false
}

// SortByDuration returns a copy of records ordered by total duration
// descending, ties broken by app name.
func SortByDuration(records []model.SummaryRecord) []model.SummaryRecord {
	sorted := make([]model.SummaryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalDuration != sorted[j].TotalDuration {
			return sorted[i].TotalDuration > sorted[j].TotalDuration
		}
		return sorted[i].AppName < sorted[j].AppName
	})
	return sorted
}

// SortByName returns a copy of records ordered by app name.
func SortByName(records []model.SummaryRecord) []model.SummaryRecord {
	sorted := make([]model.SummaryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AppName < sorted[j].AppName
	})
	return sorted
}

// Share is one slice of the time breakdown.
type Share struct {
	AppName string
	Seconds int64
	Percent float64
}

// Shares computes each record's percentage of the total, keeping the input
// order. With a zero total every share is zero.
func Shares(records []model.SummaryRecord) []Share {
	total := Total(records)
	shares := make([]Share, 0, len(records))
	for _, r := range records {
		var pct float64
		if total > 0 {
			pct = float64(r.TotalDuration) / float64(total) * 100
		}
		shares = append(shares, Share{AppName: r.AppName, Seconds: r.TotalDuration, Percent: pct})
	}
	return shares
}
