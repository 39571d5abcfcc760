package model

import "time"

var weekdayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// WeekdayLabel returns the single-character label used on attendance sheets.
func WeekdayLabel(d time.Weekday) string {
	return weekdayLabels[d%7]
}

// ParseWeekdayLabel is the inverse of WeekdayLabel.
func ParseWeekdayLabel(label string) (time.Weekday, bool) {
	for i, l := range weekdayLabels {
		if l == label {
			return time.Weekday(i), true
		}
	}
	return time.Sunday, false
}

// IsWeekend reports whether d is Saturday or Sunday.
func IsWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}
