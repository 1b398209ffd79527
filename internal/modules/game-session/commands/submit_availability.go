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

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type SubmitAvailabilityCommand struct {
	SessionID uuid.UUID   `json:"-"`
	UserID    uuid.UUID   `json:"-"`
	Dates     []time.Time `json:"dates"`
}

func (c SubmitAvailabilityCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	if len(c.Dates) > domain.MaxSubmittedDates {
		return core.Validation("dates", "TooManyDates")
	}

	return nil
}

func HandleSubmitAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command, err := core.RequestBody[SubmitAvailabilityCommand](r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}
	command.SessionID = sessionID
	command.UserID = core.Session(ctx).UserID

	response, err := mediator.Send[SubmitAvailabilityCommand, domain.MyAvailability](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type SubmitAvailabilityCommandHandler struct {
	db  *sql.DB
	now func() time.Time
}

func NewSubmitAvailabilityCommandHandler(db *sql.DB) *SubmitAvailabilityCommandHandler {
	return &SubmitAvailabilityCommandHandler{db: db, now: time.Now}
}

// Handle replaces the caller's whole day set for the session.
func (h *SubmitAvailabilityCommandHandler) Handle(
	ctx context.Context,
	request SubmitAvailabilityCommand,
) (domain.MyAvailability, error) {
	var days []time.Time

	err := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		session, err := repository.RequireCollaborator(ctx, tx, request.SessionID, request.UserID)
		if err != nil {
			return err
		}

		window, ok := session.Window()
		if !ok {
			return core.Validation("dates", "AvailabilityWindowNotSet")
		}

		if !window.IsOpen(h.now()) {
			return core.Conflict("AvailabilityClosed")
		}

		days, err = domain.NormalizeDays(window, request.Dates)
		if err != nil {
			return err
		}

		const deleteStmt = `
			DELETE FROM
				session_availability
			WHERE
				session_id = $1 AND user_id = $2;`
		if _, err := tql.Exec(ctx, tx, deleteStmt, request.SessionID, request.UserID); err != nil {
			return err
		}

		const insertStmt = `
			INSERT INTO
				session_availability (session_id, user_id, day)
			VALUES
				($1, $2, $3);`
		for _, day := range days {
			if _, err := tql.Exec(ctx, tx, insertStmt, request.SessionID, request.UserID, day); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return domain.MyAvailability{}, core.TranslateDBError(err, "AvailabilityConflict")
	}

	return domain.MyAvailability{Dates: days}, nil
}
