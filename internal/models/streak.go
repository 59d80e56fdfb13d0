// ABOUTME: Pure streak calculations over YYYY-MM-DD date strings.
// ABOUTME: Current streak requires activity today or yesterday; longest scans all history.
package models

import (
	"sort"
	"time"
)

// DateFormat is the fixed-width date layout used for all date columns.
// Lexicographic comparison of these strings matches chronological order.
const DateFormat = "2006-01-02"

// Today returns the current local date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(DateFormat)
}

// DateOf formats a time as YYYY-MM-DD.
func DateOf(t time.Time) string {
	return t.Format(DateFormat)
}

// prevDay returns the date one calendar day before d, or "" if d is invalid.
func prevDay(d string) string {
	t, err := time.Parse(DateFormat, d)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateFormat)
}

// CurrentStreak returns the number of consecutive days with activity ending at
// today or yesterday. A gap before today and yesterday means the streak is 0.
func CurrentStreak(dates []string, today string) int {
	if len(dates) == 0 {
		return 0
	}
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		seen[d] = true
	}

	anchor := today
	if !seen[anchor] {
		anchor = prevDay(today)
		if !seen[anchor] {
			return 0
		}
	}

	streak := 0
	for d := anchor; seen[d]; d = prevDay(d) {
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days anywhere in history.
func LongestStreak(dates []string) int {
	if len(dates) == 0 {
		return 0
	}
	uniq := make(map[string]bool, len(dates))
	for _, d := range dates {
		uniq[d] = true
	}
	sorted := make([]string, 0, len(uniq))
	for d := range uniq {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if prevDay(sorted[i]) == sorted[i-1] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
