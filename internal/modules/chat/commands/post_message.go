package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/chat/domain"
	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/repository"
	"github.com/eskrenkovic/game-night/internal/modules/notification"
	notificationdomain "github.com/eskrenkovic/game-night/internal/modules/notification/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const previewLength = 80

type PostMessageCommand struct {
	SessionID uuid.UUID `json:"-"`
	UserID    uuid.UUID `json:"-"`
	Text      string    `json:"text"`
}

func (c PostMessageCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

func HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command, err := core.RequestBody[PostMessageCommand](r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}
	command.SessionID = sessionID
	command.UserID = core.Session(ctx).UserID

	response, err := mediator.Send[PostMessageCommand, domain.Message](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteCreated(w, r, fmt.Sprintf("/sessions/%s/chat/messages", sessionID), response)
}

type PostMessageCommandHandler struct {
	db         *sql.DB
	dispatcher *notification.Dispatcher
	publisher  notification.Publisher
	logger     *zap.Logger
	now        func() time.Time
}

func NewPostMessageCommandHandler(
	db *sql.DB,
	dispatcher *notification.Dispatcher,
	publisher notification.Publisher,
	logger *zap.Logger,
) *PostMessageCommandHandler {
	return &PostMessageCommandHandler{
		db:         db,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle stores the message and bumps the chat counter of every other
// confirmed participant in the same transaction. The message and the
// counters are pushed after commit. Membership is checked before the
// text so outsiders only ever see InvalidParticipant.
func (h *PostMessageCommandHandler) Handle(ctx context.Context, request PostMessageCommand) (domain.Message, error) {
	var (
		message  domain.Message
		counters []notificationdomain.Notification
	)

	err := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		session, err := repository.RequireCollaborator(ctx, tx, request.SessionID, request.UserID)
		if err != nil {
			return err
		}

		text, err := domain.NormalizeText(request.Text)
		if err != nil {
			return err
		}

		const insertQuery = `
			WITH inserted AS (
				INSERT INTO
					session_message (session_id, user_id, text, created_at)
				VALUES
					($1, $2, $3, $4)
				RETURNING
					id, session_id, user_id, text, created_at
			)
			SELECT
				i.id, i.session_id, i.user_id, u.username AS user_name, i.text, i.created_at
			FROM
				inserted i
				JOIN auth.user u ON u.id = i.user_id;`
		message, err = tql.QueryFirst[domain.Message](
			ctx,
			tx,
			insertQuery,
			request.SessionID,
			request.UserID,
			text,
			h.now().UTC(),
		)
		if err != nil {
			return err
		}

		const recipientsQuery = `
			SELECT
				user_id
			FROM
				session_participant
			WHERE
				session_id = $1 AND status = 'confirmed' AND user_id <> $2
			ORDER BY
				user_id;`
		recipients, err := tql.Query[uuid.UUID](ctx, tx, recipientsQuery, request.SessionID, request.UserID)
		if err != nil {
			return err
		}

		sessionID := session.ID
		url := fmt.Sprintf("/sessions/%s/chat", session.ID)
		for _, recipient := range recipients {
			counter, err := h.dispatcher.UpsertCounter(ctx, tx, notificationdomain.CounterInput{
				UserID:    recipient,
				Type:      notificationdomain.TypeChatNewMessage,
				SessionID: &sessionID,
				Key:       notificationdomain.ChatKey(session.ID),
				Title:     session.Title,
				Message:   fmt.Sprintf("%s: %s", message.UserName, notificationdomain.Preview(message.Text, previewLength)),
				URL:       &url,
			})
			if err != nil {
				return err
			}
			counters = append(counters, counter)
		}

		return nil
	})
	if err != nil {
		return domain.Message{}, core.TranslateDBError(err, "MessageConflict")
	}

	if err := h.publisher.PublishToSession(ctx, message.SessionID, domain.EventMessagePosted, message); err != nil {
		h.logger.Warn(
			"failed to push chat message",
			zap.Int64("message_id", message.ID),
			zap.Stringer("session_id", message.SessionID),
			zap.Error(err),
		)
	}

	h.dispatcher.Push(ctx, counters...)

	return message, nil
}
