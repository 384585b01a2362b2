package util

import (
	"fmt"
	"strconv"
)

// FormatDuration renders whole seconds as "X hr[s] Y min[s]".
// The sub-minute remainder is dropped, so anything under a minute reads "0 mins".
// A count is plural only when it is greater than one.
func FormatDuration(seconds int64) string {
	totalMinutes := seconds / 60
	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	if hours == 0 && minutes == 0 {
		return "0 mins"
	}
	if hours == 0 {
		return fmt.Sprintf("%d %s", minutes, pluralize("min", minutes))
	}
	if minutes == 0 {
		return fmt.Sprintf("%d %s", hours, pluralize("hr", hours))
	}
	return fmt.Sprintf("%d %s %d %s", hours, pluralize("hr", hours), minutes, pluralize("min", minutes))
}

// FormatDurationSafe clamps negative input to zero before formatting.
func FormatDurationSafe(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return FormatDuration(seconds)
}

func pluralize(unit string, n int64) string {
	if n > 1 {
		return unit + "s"
	}
	return unit
}

// FormatSeconds renders a raw duration the way the activity log shows it.
func FormatSeconds(seconds int64) string {
	return strconv.FormatInt(seconds, 10) + " sec"
}

// FormatNumber adds thousands separators.
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var result []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, digit)
	}
	if neg {
		return "-" + string(result)
	}
	return string(result)
}

// FormatPercent renders a share with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
