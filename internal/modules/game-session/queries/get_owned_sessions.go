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

type GetOwnedSessionsQuery struct {
	OwnerID uuid.UUID
}

func (q GetOwnedSessionsQuery) Validate() error {
	if q.OwnerID == uuid.Nil {
		return fmt.Errorf("invalid OwnerID - %s", q.OwnerID.String())
	}

	return nil
}

func HandleGetOwnedSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response, err := mediator.Send[GetOwnedSessionsQuery, []domain.Session](
		ctx,
		GetOwnedSessionsQuery{OwnerID: core.Session(ctx).UserID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetOwnedSessionsQueryHandler struct {
	db *sql.DB
}

func NewGetOwnedSessionsQueryHandler(db *sql.DB) *GetOwnedSessionsQueryHandler {
	return &GetOwnedSessionsQueryHandler{db}
}

func (h *GetOwnedSessionsQueryHandler) Handle(
	ctx context.Context,
	request GetOwnedSessionsQuery,
) ([]domain.Session, error) {
	const query = `
		SELECT
			id, owner_id, title, scheduled_at, location, description,
			availability_from, availability_to, availability_deadline,
			final_date, created_at
		FROM
			game_session
		WHERE
			owner_id = $1
		ORDER BY
			created_at DESC, id;`
	return tql.Query[domain.Session](ctx, h.db, query, request.OwnerID)
}
