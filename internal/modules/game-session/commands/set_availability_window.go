package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/domain"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/repository"
	"github.com/eskrenkovic/game-night/internal/modules/notification"
	notificationdomain "github.com/eskrenkovic/game-night/internal/modules/notification/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type SetAvailabilityWindowCommand struct {
	SessionID   uuid.UUID `json:"-"`
	OrganizerID uuid.UUID `json:"-"`
	From        time.Time `json:"availabilityFrom"`
	To          time.Time `json:"availabilityTo"`
	Deadline    time.Time `json:"availabilityDeadline"`
}

func (c SetAvailabilityWindowCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.OrganizerID == uuid.Nil {
		return fmt.Errorf("invalid OrganizerID - '%s'", c.OrganizerID)
	}

	var errs core.FieldErrors
	if c.From.IsZero() {
		errs.Add("availabilityFrom", "Required")
	}
	if c.To.IsZero() {
		errs.Add("availabilityTo", "Required")
	}
	if c.Deadline.IsZero() {
		errs.Add("availabilityDeadline", "Required")
	}

	return errs.Err()
}

func HandleSetAvailabilityWindow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command, err := core.RequestBody[SetAvailabilityWindowCommand](r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}
	command.SessionID = sessionID
	command.OrganizerID = core.Session(ctx).UserID

	response, err := mediator.Send[SetAvailabilityWindowCommand, domain.Session](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type SetAvailabilityWindowCommandHandler struct {
	db         *sql.DB
	dispatcher *notification.Dispatcher
	now        func() time.Time
}

func NewSetAvailabilityWindowCommandHandler(
	db *sql.DB,
	dispatcher *notification.Dispatcher,
) *SetAvailabilityWindowCommandHandler {
	return &SetAvailabilityWindowCommandHandler{db: db, dispatcher: dispatcher, now: time.Now}
}

// Handle replaces the window and drops availability recorded for days
// the new window no longer covers.
func (h *SetAvailabilityWindowCommandHandler) Handle(
	ctx context.Context,
	request SetAvailabilityWindowCommand,
) (domain.Session, error) {
	var (
		session domain.Session
		sent    []notificationdomain.Notification
	)

	err := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		session, err = repository.LoadOwnedSession(ctx, tx, request.SessionID, request.OrganizerID)
		if err != nil {
			return err
		}

		window, err := domain.NewAvailabilityWindow(request.From, request.To, request.Deadline, h.now())
		if err != nil {
			return err
		}
		session.SetWindow(window)

		const stmt = `
			UPDATE
				game_session
			SET
				availability_from = $2,
				availability_to = $3,
				availability_deadline = $4
			WHERE
				id = $1;`
		if _, err := tql.Exec(ctx, tx, stmt, session.ID, window.From, window.To, window.Deadline); err != nil {
			return err
		}

		const pruneStmt = `
			DELETE FROM
				session_availability
			WHERE
				session_id = $1 AND (day < $2 OR day > $3);`
		if _, err := tql.Exec(ctx, tx, pruneStmt, session.ID, window.From, window.To); err != nil {
			return err
		}

		recipients, err := repository.ParticipantIDs(ctx, tx, session.ID, domain.StatusConfirmed)
		if err != nil {
			return err
		}

		message := fmt.Sprintf(
			"Availability is open for %s to %s until %s.",
			window.From.Format(time.DateOnly),
			window.To.Format(time.DateOnly),
			window.Deadline.Format(time.RFC1123),
		)
		sent, err = h.dispatcher.CreateMany(ctx, tx, recipients, detailsUpdatedNotification(session, message))
		return err
	})
	if err != nil {
		return domain.Session{}, core.TranslateDBError(err, "SessionConflict")
	}

	h.dispatcher.Push(ctx, sent...)

	return session, nil
}
