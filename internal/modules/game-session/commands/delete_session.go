package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/domain"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/repository"
	"github.com/eskrenkovic/game-night/internal/modules/notification"
	notificationdomain "github.com/eskrenkovic/game-night/internal/modules/notification/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type DeleteSessionCommand struct {
	SessionID   uuid.UUID
	OrganizerID uuid.UUID
}

func (c DeleteSessionCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.OrganizerID == uuid.Nil {
		return fmt.Errorf("invalid OrganizerID - '%s'", c.OrganizerID)
	}

	return nil
}

func HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command := DeleteSessionCommand{
		SessionID:   sessionID,
		OrganizerID: core.Session(ctx).UserID,
	}

	if _, err := mediator.Send[DeleteSessionCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteNoContent(w, r)
}

type DeleteSessionCommandHandler struct {
	db         *sql.DB
	dispatcher *notification.Dispatcher
	channels   SessionChannels
}

func NewDeleteSessionCommandHandler(
	db *sql.DB,
	dispatcher *notification.Dispatcher,
	channels SessionChannels,
) *DeleteSessionCommandHandler {
	return &DeleteSessionCommandHandler{db: db, dispatcher: dispatcher, channels: channels}
}

// Handle notifies invited and confirmed participants, then deletes the
// session. Participants, availability, votes, final games and messages
// go with it through the foreign key cascades.
func (h *DeleteSessionCommandHandler) Handle(ctx context.Context, request DeleteSessionCommand) (core.Unit, error) {
	var sent []notificationdomain.Notification

	err := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		session, err := repository.LoadOwnedSession(ctx, tx, request.SessionID, request.OrganizerID)
		if err != nil {
			return err
		}

		recipients, err := repository.ParticipantIDs(
			ctx,
			tx,
			session.ID,
			domain.StatusInvited,
			domain.StatusConfirmed,
		)
		if err != nil {
			return err
		}

		sent, err = h.dispatcher.CreateMany(ctx, tx, recipients, cancelledNotification(session))
		if err != nil {
			return err
		}

		const stmt = `
			DELETE FROM
				game_session
			WHERE
				id = $1;`
		_, err = tql.Exec(ctx, tx, stmt, session.ID)
		return err
	})
	if err != nil {
		return core.Unit{}, core.TranslateDBError(err, "SessionConflict")
	}

	h.channels.DisconnectSession(request.SessionID)
	h.dispatcher.Push(ctx, sent...)

	return core.Unit{}, nil
}
