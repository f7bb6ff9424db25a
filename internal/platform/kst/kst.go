// Package kst holds Korean-locale time helpers shared by the card
// renderers.
package kst

import "time"

var weekdayNames = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// Weekday returns the single-character Korean weekday name, e.g. "월" for
// Monday. Cards append "요일" themselves.
func Weekday(d time.Weekday) string {
	return weekdayNames[d]
}
