// Package timeparse turns the time expressions offered in the compose dialogue
// into absolute timestamps.
package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Quick options offered on the time prompt.
const (
	InOneHour        = "In 1 hour"
	InTwoHours       = "In 2 hours"
	InSixHours       = "In 6 hours"
	SameTimeTomorrow = "Same time tomorrow"
	EnterManually    = "Enter manually"
)

// AcceptedFormats describes the literal formats users may type.
var AcceptedFormats = []string{
	"DD.MM.YYYY HH:MM (e.g. 25.12.2024 15:30)",
	"HH:MM for today (e.g. 18:00)",
}

var (
	// ErrManualEntry means the user asked to type the time themselves.
	ErrManualEntry = errors.New("timeparse: manual entry requested")
	// ErrMalformed is wrapped by every MalformedError.
	ErrMalformed = errors.New("timeparse: malformed time expression")
)

// MalformedError reports input that matches none of the accepted expressions.
type MalformedError struct {
	Input    string
	Reason   string
	Accepted []string
}

func (e *MalformedError) Error() string {
	msg := fmt.Sprintf("malformed time expression %q", e.Input)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg + "; accepted formats: " + strings.Join(e.Accepted, "; ")
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

var offsets = map[string]time.Duration{
	InOneHour:        time.Hour,
	InTwoHours:       2 * time.Hour,
	InSixHours:       6 * time.Hour,
	SameTimeTomorrow: 24 * time.Hour,
}

var (
	clockPattern    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	datetimePattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})\s+(\d{1,2}):(\d{2})$`)
)

// QuickOptions lists the offered phrases in display order, ending with the
// manual entry option.
func QuickOptions() []string {
	return []string{InOneHour, InTwoHours, InSixHours, SameTimeTomorrow, EnterManually}
}

// Parse resolves input against now. Matching is exact and case-sensitive.
// The result is truncated to the minute and uses now's location.
func Parse(input string, now time.Time) (time.Time, error) {
	if offset, ok := offsets[input]; ok {
		return now.Add(offset).Truncate(time.Minute), nil
	}
	if input == EnterManually {
		return time.Time{}, ErrManualEntry
	}

	if m := clockPattern.FindStringSubmatch(input); m != nil {
		hour, minute := atoi(m[1]), atoi(m[2])
		if err := checkClock(input, hour, minute); err != nil {
			return time.Time{}, err
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		return at, nil
	}

	if m := datetimePattern.FindStringSubmatch(input); m != nil {
		day, month, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		hour, minute := atoi(m[4]), atoi(m[5])
		if err := checkClock(input, hour, minute); err != nil {
			return time.Time{}, err
		}
		at := time.Date(year, time.Month(month), day, hour, minute, 0, 0, now.Location())
		// time.Date normalizes 31.02 into March; reject instead.
		if at.Day() != day || int(at.Month()) != month || at.Year() != year {
			return time.Time{}, malformed(input, "no such date")
		}
		return at, nil
	}

	return time.Time{}, malformed(input, "")
}

func checkClock(input string, hour, minute int) error {
	if hour > 23 || minute > 59 {
		return malformed(input, "hour must be 0-23 and minute 0-59")
	}
	return nil
}

func malformed(input, reason string) error {
	return &MalformedError{Input: input, Reason: reason, Accepted: AcceptedFormats}
}

// atoi is only called on regexp digit groups.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
