package interaction

import (
	"fmt"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/data/aggregator"
)

// SortField represents the field to sort summary rows by
type SortField int

const (
	SortByDuration SortField = iota
	SortByName
	sortFieldCount
)

// String returns the label shown in the status line.
func (f SortField) String() string {
	switch f {
	case SortByName:
		return "name"
	default:
		return "duration"
	}
}

// ParseSortField maps "duration" or "name" to a SortField.
func ParseSortField(name string) (SortField, error) {
	switch name {
	case "", "duration":
		return SortByDuration, nil
	case "name":
		return SortByName, nil
	}
	return SortByDuration, fmt.Errorf("unknown sort field %q (use duration or name)", name)
}

// SummarySorter orders summary rows. Duration sorts descending, name
// ascending.
type SummarySorter struct {
	field SortField
}

// NewSummarySorter creates a sorter that starts with duration order.
func NewSummarySorter() *SummarySorter {
	return &SummarySorter{field: SortByDuration}
}

// Field returns the current sort field.
func (s *SummarySorter) Field() SortField {
	return s.field
}

// SetField selects the sort field. Unknown values fall back to duration.
func (s *SummarySorter) SetField(field SortField) {
	if field < 0 || field >= sortFieldCount {
		field = SortByDuration
	}
	s.field = field
}

// Next cycles to the following sort field and returns it.
func (s *SummarySorter) Next() SortField {
	s.field = (s.field + 1) % sortFieldCount
	return s.field
}

// Sort returns a sorted copy of records.
func (s *SummarySorter) Sort(records []model.SummaryRecord) []model.SummaryRecord {
	if s.field == SortByName {
		return aggregator.SortByName(records)
	}
	return aggregator.SortByDuration(records)
}
