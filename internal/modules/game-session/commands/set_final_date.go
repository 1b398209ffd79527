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

type SetFinalDateCommand struct {
	SessionID   uuid.UUID `json:"-"`
	OrganizerID uuid.UUID `json:"-"`
	FinalDate   time.Time `json:"finalDate"`
}

func (c SetFinalDateCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.OrganizerID == uuid.Nil {
		return fmt.Errorf("invalid OrganizerID - '%s'", c.OrganizerID)
	}

	if c.FinalDate.IsZero() {
		return core.Validation("finalDate", "Required")
	}

	return nil
}

func HandleSetFinalDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command, err := core.RequestBody[SetFinalDateCommand](r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}
	command.SessionID = sessionID
	command.OrganizerID = core.Session(ctx).UserID

	response, err := mediator.Send[SetFinalDateCommand, domain.Session](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type SetFinalDateCommandHandler struct {
	db         *sql.DB
	dispatcher *notification.Dispatcher
	now        func() time.Time
}

func NewSetFinalDateCommandHandler(db *sql.DB, dispatcher *notification.Dispatcher) *SetFinalDateCommandHandler {
	return &SetFinalDateCommandHandler{db: db, dispatcher: dispatcher, now: time.Now}
}

func (h *SetFinalDateCommandHandler) Handle(ctx context.Context, request SetFinalDateCommand) (domain.Session, error) {
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

		if err := session.ValidateFinalDate(request.FinalDate, h.now()); err != nil {
			return err
		}

		finalDate := request.FinalDate.UTC()
		session.FinalDate = &finalDate

		const stmt = `
			UPDATE
				game_session
			SET
				final_date = $2
			WHERE
				id = $1;`
		if _, err := tql.Exec(ctx, tx, stmt, session.ID, finalDate); err != nil {
			return err
		}

		recipients, err := repository.ParticipantIDs(ctx, tx, session.ID, domain.StatusConfirmed)
		if err != nil {
			return err
		}

		message := fmt.Sprintf("The session is confirmed for %s.", finalDate.Format(time.RFC1123))
		sent, err = h.dispatcher.CreateMany(ctx, tx, recipients, detailsUpdatedNotification(session, message))
		return err
	})
	if err != nil {
		return domain.Session{}, core.TranslateDBError(err, "SessionConflict")
	}

	h.dispatcher.Push(ctx, sent...)

	return session, nil
}
