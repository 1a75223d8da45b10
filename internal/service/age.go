package service

import (
	"fmt"
	"time"

	"github.com/vilaca/teamboard/internal/domain"
)

// Clock returns the current time. Injected so "today" can be fixed in tests.
type Clock func() time.Time

// Layouts accepted for changelog timestamps, tried in order.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999-0700", // Jira: 2024-01-02T10:00:00.000+0000
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// TimestampError reports a changelog timestamp that matches none of the known layouts.
type TimestampError struct {
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("unparsable timestamp %q", e.Value)
}

// ParseTimestamp parses a changelog timestamp, keeping its own UTC offset.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &TimestampError{Value: value}
}

// WorkDaysSince counts the weekdays after the date of timestamp, up to and including today.
// A change dated today, or in the future, yields 0.
func WorkDaysSince(timestamp string, today time.Time) (int, error) {
	changed, err := ParseTimestamp(timestamp)
	if err != nil {
		return 0, err
	}

	from := civilDate(changed)
	days := int(civilDate(today).Sub(from).Hours() / 24)

	count := 0
	for offset := 1; offset <= days; offset++ {
		if isWorkDay(from.AddDate(0, 0, offset)) {
			count++
		}
	}
	return count, nil
}

// IssueAge returns how many work days the issue has been in progress.
// Every transition into progress is considered, most recent first, and the largest age wins.
// An issue that never entered progress has age 0.
func IssueAge(changelog domain.Changelog, today time.Time) (int, error) {
	age := 0
	for i := len(changelog.Histories) - 1; i >= 0; i-- {
		change := changelog.Histories[i]
		for _, item := range change.Items {
			if !item.IsTransitionTo(domain.StatusInProgress) {
				continue
			}
			days, err := WorkDaysSince(change.Created, today)
			if err != nil {
				return 0, err
			}
			age = max(age, days)
		}
	}
	return age, nil
}

// civilDate drops the clock time, keeping the calendar date as seen in t's location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isWorkDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}
