package queries

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

type GetMyAvailabilityQuery struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
}

func (q GetMyAvailabilityQuery) Validate() error {
	if q.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - %s", q.SessionID.String())
	}

	if q.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - %s", q.UserID.String())
	}

	return nil
}

func HandleGetMyAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	response, err := mediator.Send[GetMyAvailabilityQuery, domain.MyAvailability](
		ctx,
		GetMyAvailabilityQuery{SessionID: sessionID, UserID: core.Session(ctx).UserID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetMyAvailabilityQueryHandler struct {
	db *sql.DB
}

func NewGetMyAvailabilityQueryHandler(db *sql.DB) *GetMyAvailabilityQueryHandler {
	return &GetMyAvailabilityQueryHandler{db}
}

func (h *GetMyAvailabilityQueryHandler) Handle(
	ctx context.Context,
	request GetMyAvailabilityQuery,
) (domain.MyAvailability, error) {
	if _, err := repository.RequireCollaborator(ctx, h.db, request.SessionID, request.UserID); err != nil {
		return domain.MyAvailability{}, err
	}

	const query = `
		SELECT
			day
		FROM
			session_availability
		WHERE
			session_id = $1 AND user_id = $2
		ORDER BY
			day;`
	rows, err := tql.Query[domain.AvailableDay](ctx, h.db, query, request.SessionID, request.UserID)
	if err != nil {
		return domain.MyAvailability{}, err
	}

	return domain.MyAvailability{
		Dates: core.Map(rows, func(d domain.AvailableDay) time.Time { return domain.Day(d.Day) }),
	}, nil
}
