package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/domain"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/repository"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type GetParticipantsQuery struct {
	SessionID   uuid.UUID
	RequesterID uuid.UUID
}

func (q GetParticipantsQuery) Validate() error {
	if q.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - %s", q.SessionID.String())
	}

	if q.RequesterID == uuid.Nil {
		return fmt.Errorf("invalid RequesterID - %s", q.RequesterID.String())
	}

	return nil
}

func HandleGetParticipants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	response, err := mediator.Send[GetParticipantsQuery, []domain.ParticipantView](
		ctx,
		GetParticipantsQuery{SessionID: sessionID, RequesterID: core.Session(ctx).UserID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetParticipantsQueryHandler struct {
	db *sql.DB
}

func NewGetParticipantsQueryHandler(db *sql.DB) *GetParticipantsQueryHandler {
	return &GetParticipantsQueryHandler{db}
}

// Handle is owner only. The host comes first, then players in
// invitation order.
func (h *GetParticipantsQueryHandler) Handle(
	ctx context.Context,
	request GetParticipantsQuery,
) ([]domain.ParticipantView, error) {
	session, err := repository.LoadSession(ctx, h.db, request.SessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsOwner(request.RequesterID) {
		return nil, core.NotFound("SessionNotFound")
	}

	const query = `
		SELECT
			p.user_id, u.username AS user_name, p.role, p.status
		FROM
			session_participant p
			JOIN auth.user u ON u.id = p.user_id
		WHERE
			p.session_id = $1
		ORDER BY
			CASE WHEN p.role = 'host' THEN 0 ELSE 1 END, p.created_at, u.username;`
	return tql.Query[domain.ParticipantView](ctx, h.db, query, request.SessionID)
}
