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

type InviteCommand struct {
	SessionID uuid.UUID `json:"-"`
	InviterID uuid.UUID `json:"-"`
	UserID    uuid.UUID `json:"userId"`
}

func (c InviteCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.InviterID == uuid.Nil {
		return fmt.Errorf("invalid InviterID - '%s'", c.InviterID)
	}

	if c.UserID == uuid.Nil {
		return core.Validation("userId", "UserRequired")
	}

	return nil
}

func HandleInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command, err := core.RequestBody[InviteCommand](r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}
	command.SessionID = sessionID
	command.InviterID = core.Session(ctx).UserID

	response, err := mediator.Send[InviteCommand, domain.Participant](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type InviteCommandHandler struct {
	db         *sql.DB
	dispatcher *notification.Dispatcher
	now        func() time.Time
}

func NewInviteCommandHandler(db *sql.DB, dispatcher *notification.Dispatcher) *InviteCommandHandler {
	return &InviteCommandHandler{db: db, dispatcher: dispatcher, now: time.Now}
}

func (h *InviteCommandHandler) Handle(ctx context.Context, request InviteCommand) (domain.Participant, error) {
	invitee := domain.NewInvitee(request.SessionID, request.UserID, h.now())

	var sent notificationdomain.Notification

	err := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		session, err := repository.LoadOwnedSession(ctx, tx, request.SessionID, request.InviterID)
		if err != nil {
			return err
		}

		exists, err := repository.UserExists(ctx, tx, request.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return core.Validation("userId", "UserNotFound")
		}

		existing, err := repository.LoadParticipant(ctx, tx, request.SessionID, request.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return core.Conflict("ParticipantAlreadyExists")
		}

		const stmt = `
			INSERT INTO
				session_participant (session_id, user_id, role, status, created_at, updated_at)
			VALUES
				(:session_id, :user_id, :role, :status, :created_at, :updated_at);`
		if _, err := tql.Exec(ctx, tx, stmt, invitee); err != nil {
			return err
		}

		sent, err = h.dispatcher.Create(ctx, tx, inviteNotification(session, request.UserID))
		return err
	})
	if err != nil {
		return domain.Participant{}, core.TranslateDBError(err, "ParticipantAlreadyExists")
	}

	h.dispatcher.Push(ctx, sent)

	return invitee, nil
}
