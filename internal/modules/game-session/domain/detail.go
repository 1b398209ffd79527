package domain

import "time"

// SessionDetail is the session as seen by one caller.
type SessionDetail struct {
	Session

	MyRole         Role              `json:"myRole"`
	MyStatus       ParticipantStatus `json:"myStatus"`
	ConfirmedCount int               `json:"confirmedCount"`
	InvitedCount   int               `json:"invitedCount"`
	DeclinedCount  int               `json:"declinedCount"`
	FinalGames     []FinalGame       `json:"finalGames"`
}

type StatusCount struct {
	Status ParticipantStatus `db:"status"`
	Count  int               `db:"count"`
}

func NewSessionDetail(session Session, me Participant, counts []StatusCount, finalGames []FinalGame) SessionDetail {
	detail := SessionDetail{
		Session:    session,
		MyRole:     me.Role,
		MyStatus:   me.Status,
		FinalGames: finalGames,
	}

	if detail.FinalGames == nil {
		detail.FinalGames = []FinalGame{}
	}

	for _, c := range counts {
		switch c.Status {
		case StatusConfirmed:
			detail.ConfirmedCount = c.Count
		case StatusInvited:
			detail.InvitedCount = c.Count
		case StatusDeclined:
			detail.DeclinedCount = c.Count
		}
	}

	return detail
}

// AvailableDay is one stored day of the caller's availability.
type AvailableDay struct {
	Day time.Time `db:"day"`
}

type AvailabilitySummary struct {
	AvailabilityFrom     *time.Time `json:"availabilityFrom,omitempty"`
	AvailabilityTo       *time.Time `json:"availabilityTo,omitempty"`
	AvailabilityDeadline *time.Time `json:"availabilityDeadline,omitempty"`
	Days                 []DayCount `json:"days"`
}

type MyAvailability struct {
	Dates []time.Time `json:"dates"`
}
