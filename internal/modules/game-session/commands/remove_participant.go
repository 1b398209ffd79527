package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/repository"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type RemoveParticipantCommand struct {
	SessionID   uuid.UUID
	OrganizerID uuid.UUID
	UserID      uuid.UUID
}

func (c RemoveParticipantCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.OrganizerID == uuid.Nil {
		return fmt.Errorf("invalid OrganizerID - '%s'", c.OrganizerID)
	}

	if c.UserID == uuid.Nil {
		return core.NotFound("ParticipantNotFound")
	}

	return nil
}

func HandleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	userID, err := core.UUIDParam(r, "userId")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command := RemoveParticipantCommand{
		SessionID:   sessionID,
		OrganizerID: core.Session(ctx).UserID,
		UserID:      userID,
	}

	if _, err := mediator.Send[RemoveParticipantCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteNoContent(w, r)
}

type RemoveParticipantCommandHandler struct {
	db       *sql.DB
	channels SessionChannels
}

func NewRemoveParticipantCommandHandler(db *sql.DB, channels SessionChannels) *RemoveParticipantCommandHandler {
	return &RemoveParticipantCommandHandler{db: db, channels: channels}
}

// Handle removes the participant together with the availability and
// votes they recorded for the session. Their chat subscriptions are
// dropped once the removal commits.
func (h *RemoveParticipantCommandHandler) Handle(
	ctx context.Context,
	request RemoveParticipantCommand,
) (core.Unit, error) {
	err := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		session, err := repository.LoadOwnedSession(ctx, tx, request.SessionID, request.OrganizerID)
		if err != nil {
			return err
		}

		if session.IsOwner(request.UserID) {
			return core.Validation("userId", "CannotRemoveHost")
		}

		const stmt = `
			DELETE FROM
				session_participant
			WHERE
				session_id = $1 AND user_id = $2 AND role <> 'host';`
		result, err := tql.Exec(ctx, tx, stmt, request.SessionID, request.UserID)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return core.NotFound("ParticipantNotFound")
		}

		const availabilityStmt = `
			DELETE FROM
				session_availability
			WHERE
				session_id = $1 AND user_id = $2;`
		if _, err := tql.Exec(ctx, tx, availabilityStmt, request.SessionID, request.UserID); err != nil {
			return err
		}

		const votesStmt = `
			DELETE FROM
				session_game_vote
			WHERE
				session_id = $1 AND user_id = $2;`
		_, err = tql.Exec(ctx, tx, votesStmt, request.SessionID, request.UserID)
		return err
	})
	if err != nil {
		return core.Unit{}, core.TranslateDBError(err, "ParticipantConflict")
	}

	h.channels.DisconnectSessionUser(request.SessionID, request.UserID)

	return core.Unit{}, nil
}
