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

type RespondInvitationCommand struct {
	SessionID uuid.UUID `json:"-"`
	UserID    uuid.UUID `json:"-"`
	Accept    *bool     `json:"accept"`
}

func (c RespondInvitationCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	if c.Accept == nil {
		return core.Validation("accept", "Required")
	}

	return nil
}

func HandleRespondInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command, err := core.RequestBody[RespondInvitationCommand](r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}
	command.SessionID = sessionID
	command.UserID = core.Session(ctx).UserID

	response, err := mediator.Send[RespondInvitationCommand, domain.Participant](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type RespondInvitationCommandHandler struct {
	db  *sql.DB
	now func() time.Time
}

func NewRespondInvitationCommandHandler(db *sql.DB) *RespondInvitationCommandHandler {
	return &RespondInvitationCommandHandler{db: db, now: time.Now}
}

func (h *RespondInvitationCommandHandler) Handle(
	ctx context.Context,
	request RespondInvitationCommand,
) (domain.Participant, error) {
	var participant domain.Participant

	err := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		existing, err := repository.LoadParticipant(ctx, tx, request.SessionID, request.UserID)
		if err != nil {
			return err
		}
		if existing == nil {
			return core.NotFound("InvitationNotFound")
		}

		participant = *existing
		if err := participant.Respond(*request.Accept, h.now()); err != nil {
			return err
		}

		// The status guard turns a concurrent second response into a no-op.
		const stmt = `
			UPDATE
				session_participant
			SET
				status = $3, updated_at = $4
			WHERE
				session_id = $1 AND user_id = $2 AND status = 'invited';`
		result, err := tql.Exec(
			ctx,
			tx,
			stmt,
			request.SessionID,
			request.UserID,
			string(participant.Status),
			participant.UpdatedAt,
		)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return core.Conflict("InvalidState")
		}

		return nil
	})
	if err != nil {
		return domain.Participant{}, core.TranslateDBError(err, "InvalidState")
	}

	return participant, nil
}
