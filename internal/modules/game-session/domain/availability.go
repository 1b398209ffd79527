package domain

import (
	"sort"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
)

const (
	// MaxWindowDays bounds the number of calendar days a window spans,
	// both ends included.
	MaxWindowDays = 92
	// MaxSubmittedDates bounds one availability submission before it is
	// de-duplicated.
	MaxSubmittedDates = MaxWindowDays
)

type AvailabilityWindow struct {
	From     time.Time
	To       time.Time
	Deadline time.Time
}

func NewAvailabilityWindow(from, to, deadline time.Time, now time.Time) (AvailabilityWindow, error) {
	from, to = Day(from), Day(to)

	if from.After(to) {
		return AvailabilityWindow{}, core.Validation("availabilityFrom", "InvalidWindowRange")
	}

	if spanDays(from, to) > MaxWindowDays {
		return AvailabilityWindow{}, core.Validation("availabilityTo", "WindowTooLong")
	}

	if !deadline.After(now) {
		return AvailabilityWindow{}, core.Validation("availabilityDeadline", "DeadlineNotInFuture")
	}

	return AvailabilityWindow{From: from, To: to, Deadline: deadline.UTC()}, nil
}

// Contains compares by calendar day, the time of day is ignored.
func (w AvailabilityWindow) Contains(t time.Time) bool {
	day := Day(t)
	return !day.Before(w.From) && !day.After(w.To)
}

func (w AvailabilityWindow) IsOpen(now time.Time) bool {
	return now.Before(w.Deadline)
}

func (w AvailabilityWindow) Days() []time.Time {
	days := make([]time.Time, 0, spanDays(w.From, w.To))
	for d := w.From; !d.After(w.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func spanDays(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}

// Day truncates t to its calendar day at midnight UTC, keeping the
// date as written.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeDays truncates, de-duplicates and sorts a submission and
// rejects any day outside the window.
func NormalizeDays(window AvailabilityWindow, dates []time.Time) ([]time.Time, error) {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))

	for _, date := range dates {
		day := Day(date)
		if !window.Contains(day) {
			return nil, core.Validation("dates", "DateOutsideWindow")
		}

		if _, found := seen[day]; found {
			continue
		}

		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	return days, nil
}

type DayCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// AvailabilityEntry is one stored (user, day) pair.
type AvailabilityEntry struct {
	UserID uuid.UUID `db:"user_id"`
	Day    time.Time `db:"day"`
}

// Summarize counts distinct users per day for every day of the window.
// Entries outside the window are ignored.
func Summarize(window AvailabilityWindow, entries []AvailabilityEntry) []DayCount {
	users := make(map[time.Time]map[uuid.UUID]struct{})
	for _, e := range entries {
		day := Day(e.Day)
		if !window.Contains(day) {
			continue
		}

		if users[day] == nil {
			users[day] = make(map[uuid.UUID]struct{})
		}
		users[day][e.UserID] = struct{}{}
	}

	days := window.Days()
	summary := make([]DayCount, 0, len(days))
	for _, day := range days {
		summary = append(summary, DayCount{Date: day, Count: len(users[day])})
	}

	return summary
}
