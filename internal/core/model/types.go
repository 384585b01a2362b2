package model

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// ActivityEvent is one recorded interval of foreground application usage,
// as served by GET /activity.
type ActivityEvent struct {
	ID          *int64  `json:"id,omitempty"`
	AppName     string  `json:"app_name"`
	WindowTitle string  `json:"window_title"`
	Duration    Seconds `json:"duration"`
	Timestamp   string  `json:"timestamp"`
}

// SummaryRecord is the total time spent in one application.
type SummaryRecord struct {
	AppName       string `json:"app_name"`
	TotalDuration int64  `json:"total_duration"`
}

// DailySummaryItem is the wire shape of GET /daily-summary. It is converted
// to SummaryRecord as soon as it is decoded.
type DailySummaryItem struct {
	AppName   string  `json:"app_name"`
	TotalTime Seconds `json:"total_time"`
}

// Record maps the pre-aggregated item onto the shared summary vocabulary.
// Unusable totals become zero.
func (d DailySummaryItem) Record() SummaryRecord {
	return SummaryRecord{AppName: d.AppName, TotalDuration: d.TotalTime.Clamped()}
}

// Seconds is a whole-second duration decoded leniently from JSON.
// Numbers and numeric strings are accepted, fractions are truncated toward
// zero. Anything else decodes without error but leaves Valid false, so a
// single bad row never fails a whole payload.
type Seconds struct {
	Value int64
	Valid bool
}

// NewSeconds returns a valid Seconds holding v.
func NewSeconds(v int64) Seconds {
	return Seconds{Value: v, Valid: true}
}

// Clamped returns the value if it is valid and non-negative, zero otherwise.
func (s Seconds) Clamped() int64 {
	if !s.Valid || s.Value < 0 {
		return 0
	}
	return s.Value
}

func (s *Seconds) UnmarshalJSON(data []byte) error {
	*s = Seconds{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	// Integers first to keep full int64 precision
	var whole int64
	if err := sonic.Unmarshal(trimmed, &whole); err == nil {
		*s = NewSeconds(whole)
		return nil
	}

	var num float64
	if err := sonic.Unmarshal(trimmed, &num); err == nil {
		s.setFloat(num)
		return nil
	}

	var str string
	if err := sonic.Unmarshal(trimmed, &str); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			s.setFloat(f)
		}
	}

	return nil
}

func (s Seconds) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(s.Value, 10)), nil
}

func (s *Seconds) setFloat(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return
	}
	*s = NewSeconds(int64(math.Trunc(f)))
}
