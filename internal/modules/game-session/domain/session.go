package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
)

const MaxTitleLength = 100

type Session struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	OwnerID     uuid.UUID  `db:"owner_id" json:"ownerId"`
	Title       string     `db:"title" json:"title"`
	ScheduledAt *time.Time `db:"scheduled_at" json:"date,omitempty"`
	Location    *string    `db:"location" json:"location,omitempty"`
	Description *string    `db:"description" json:"description,omitempty"`

	AvailabilityFrom     *time.Time `db:"availability_from" json:"availabilityFrom,omitempty"`
	AvailabilityTo       *time.Time `db:"availability_to" json:"availabilityTo,omitempty"`
	AvailabilityDeadline *time.Time `db:"availability_deadline" json:"availabilityDeadline,omitempty"`

	FinalDate *time.Time `db:"final_date" json:"finalDate,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

func NewSession(
	ownerID uuid.UUID,
	title string,
	scheduledAt *time.Time,
	location *string,
	description *string,
	now time.Time,
) (Session, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return Session{}, err
	}

	return Session{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		ScheduledAt: scheduledAt,
		Location:    location,
		Description: description,
		CreatedAt:   now.UTC(),
	}, nil
}

func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return "", core.Validation("title", "TitleRequired")
	}

	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", core.Validation("title", "TitleTooLong")
	}

	return title, nil
}

func (s Session) IsOwner(userID uuid.UUID) bool {
	return s.OwnerID == userID
}

// Window returns the configured availability window. The three window
// columns are always set together.
func (s Session) Window() (AvailabilityWindow, bool) {
	if s.AvailabilityFrom == nil || s.AvailabilityTo == nil || s.AvailabilityDeadline == nil {
		return AvailabilityWindow{}, false
	}

	return AvailabilityWindow{
		From:     Day(*s.AvailabilityFrom),
		To:       Day(*s.AvailabilityTo),
		Deadline: *s.AvailabilityDeadline,
	}, true
}

func (s *Session) SetWindow(window AvailabilityWindow) {
	from, to, deadline := window.From, window.To, window.Deadline
	s.AvailabilityFrom = &from
	s.AvailabilityTo = &to
	s.AvailabilityDeadline = &deadline
}

// ValidateFinalDate checks, in order, that the date is not in the past,
// that availability collection has ended and that the date falls inside
// the window.
func (s Session) ValidateFinalDate(date time.Time, now time.Time) error {
	if date.Before(now) {
		return core.Validation("finalDate", "FinalDateInPast")
	}

	window, ok := s.Window()
	if !ok {
		return nil
	}

	if window.IsOpen(now) {
		return core.Conflict("AvailabilityStillOpen")
	}

	if !window.Contains(date) {
		return core.Validation("finalDate", "FinalDateOutsideWindow")
	}

	return nil
}
