package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/game-night/internal/modules/chat/domain"
	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/repository"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type GetMessagesQuery struct {
	SessionID       uuid.UUID
	UserID          uuid.UUID
	Limit           int
	BeforeMessageID *int64
}

func (q GetMessagesQuery) Validate() error {
	if q.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - %s", q.SessionID.String())
	}

	if q.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - %s", q.UserID.String())
	}

	if q.Limit < 0 {
		return core.Validation("limit", "InvalidNumber")
	}

	if q.BeforeMessageID != nil && *q.BeforeMessageID <= 0 {
		return core.Validation("beforeMessageId", "InvalidNumber")
	}

	return nil
}

func HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	limit, err := core.QueryInt(r, "limit", domain.DefaultLimit)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	query := GetMessagesQuery{
		SessionID: sessionID,
		UserID:    core.Session(ctx).UserID,
		Limit:     limit,
	}

	if r.URL.Query().Has("beforeMessageId") {
		before, err := core.QueryInt(r, "beforeMessageId", 0)
		if err != nil {
			core.WriteCommandError(w, r, err)
			return
		}
		beforeID := int64(before)
		query.BeforeMessageID = &beforeID
	}

	response, err := mediator.Send[GetMessagesQuery, []domain.Message](ctx, query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetMessagesQueryHandler struct {
	db *sql.DB
}

func NewGetMessagesQueryHandler(db *sql.DB) *GetMessagesQueryHandler {
	return &GetMessagesQueryHandler{db}
}

// Handle pages backwards from BeforeMessageID, exclusive, and returns the
// page oldest first.
func (h *GetMessagesQueryHandler) Handle(ctx context.Context, request GetMessagesQuery) ([]domain.Message, error) {
	if _, err := repository.RequireCollaborator(ctx, h.db, request.SessionID, request.UserID); err != nil {
		return nil, err
	}

	const query = `
		SELECT
			m.id, m.session_id, m.user_id, u.username AS user_name, m.text, m.created_at
		FROM
			session_message m
			JOIN auth.user u ON u.id = m.user_id
		WHERE
			m.session_id = $1 AND ($2::bigint IS NULL OR m.id < $2)
		ORDER BY
			m.id DESC
		LIMIT $3;`
	messages, err := tql.Query[domain.Message](
		ctx,
		h.db,
		query,
		request.SessionID,
		request.BeforeMessageID,
		domain.ClampLimit(request.Limit),
	)
	if err != nil {
		return nil, err
	}

	return domain.Chronological(messages), nil
}
