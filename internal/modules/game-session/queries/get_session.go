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

type GetSessionQuery struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
}

func (q GetSessionQuery) Validate() error {
	if q.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - %s", q.SessionID.String())
	}

	if q.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - %s", q.UserID.String())
	}

	return nil
}

func HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	response, err := mediator.Send[GetSessionQuery, domain.SessionDetail](
		ctx,
		GetSessionQuery{SessionID: sessionID, UserID: core.Session(ctx).UserID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetSessionQueryHandler struct {
	db *sql.DB
}

func NewGetSessionQueryHandler(db *sql.DB) *GetSessionQueryHandler {
	return &GetSessionQueryHandler{db}
}

// Handle shows the session to its owner and to invited or confirmed
// participants. Everybody else gets NotFound.
func (h *GetSessionQueryHandler) Handle(ctx context.Context, request GetSessionQuery) (domain.SessionDetail, error) {
	membership, err := repository.LoadMembership(ctx, h.db, request.SessionID, request.UserID)
	if err != nil {
		return domain.SessionDetail{}, err
	}

	me := membership.Participant
	if me == nil || me.Status == domain.StatusDeclined {
		return domain.SessionDetail{}, core.NotFound("SessionNotFound")
	}

	const countsQuery = `
		SELECT
			status, COUNT(*) AS count
		FROM
			session_participant
		WHERE
			session_id = $1
		GROUP BY
			status;`
	counts, err := tql.Query[domain.StatusCount](ctx, h.db, countsQuery, request.SessionID)
	if err != nil {
		return domain.SessionDetail{}, err
	}

	finalGames, err := repository.LoadFinalGames(ctx, h.db, request.SessionID)
	if err != nil {
		return domain.SessionDetail{}, err
	}

	return domain.NewSessionDetail(membership.Session, *me, counts, finalGames), nil
}
