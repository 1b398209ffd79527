package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

// GetInvitedSessionsQuery lists the sessions with a pending invitation
// for the user.
type GetInvitedSessionsQuery struct {
	UserID uuid.UUID
}

func (q GetInvitedSessionsQuery) Validate() error {
	if q.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - %s", q.UserID.String())
	}

	return nil
}

func HandleGetInvitedSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response, err := mediator.Send[GetInvitedSessionsQuery, []domain.Session](
		ctx,
		GetInvitedSessionsQuery{UserID: core.Session(ctx).UserID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetInvitedSessionsQueryHandler struct {
	db *sql.DB
}

func NewGetInvitedSessionsQueryHandler(db *sql.DB) *GetInvitedSessionsQueryHandler {
	return &GetInvitedSessionsQueryHandler{db}
}

func (h *GetInvitedSessionsQueryHandler) Handle(
	ctx context.Context,
	request GetInvitedSessionsQuery,
) ([]domain.Session, error) {
	const query = `
		SELECT
			s.id, s.owner_id, s.title, s.scheduled_at, s.location, s.description,
			s.availability_from, s.availability_to, s.availability_deadline,
			s.final_date, s.created_at
		FROM
			game_session s
			JOIN session_participant p ON p.session_id = s.id
		WHERE
			p.user_id = $1 AND p.status = 'invited'
		ORDER BY
			p.created_at DESC, s.id;`
	return tql.Query[domain.Session](ctx, h.db, query, request.UserID)
}
