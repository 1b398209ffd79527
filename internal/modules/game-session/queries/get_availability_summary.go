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

type GetAvailabilitySummaryQuery struct {
	SessionID   uuid.UUID
	RequesterID uuid.UUID
}

func (q GetAvailabilitySummaryQuery) Validate() error {
	if q.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - %s", q.SessionID.String())
	}

	if q.RequesterID == uuid.Nil {
		return fmt.Errorf("invalid RequesterID - %s", q.RequesterID.String())
	}

	return nil
}

func HandleGetAvailabilitySummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	response, err := mediator.Send[GetAvailabilitySummaryQuery, domain.AvailabilitySummary](
		ctx,
		GetAvailabilitySummaryQuery{SessionID: sessionID, RequesterID: core.Session(ctx).UserID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetAvailabilitySummaryQueryHandler struct {
	db *sql.DB
}

func NewGetAvailabilitySummaryQueryHandler(db *sql.DB) *GetAvailabilitySummaryQueryHandler {
	return &GetAvailabilitySummaryQueryHandler{db}
}

// Handle returns one entry per day of the window. A session without a
// window has no days.
func (h *GetAvailabilitySummaryQueryHandler) Handle(
	ctx context.Context,
	request GetAvailabilitySummaryQuery,
) (domain.AvailabilitySummary, error) {
	session, err := repository.RequireCollaborator(ctx, h.db, request.SessionID, request.RequesterID)
	if err != nil {
		return domain.AvailabilitySummary{}, err
	}

	window, ok := session.Window()
	if !ok {
		return domain.AvailabilitySummary{Days: []domain.DayCount{}}, nil
	}

	const query = `
		SELECT
			user_id, day
		FROM
			session_availability
		WHERE
			session_id = $1;`
	entries, err := tql.Query[domain.AvailabilityEntry](ctx, h.db, query, request.SessionID)
	if err != nil {
		return domain.AvailabilitySummary{}, err
	}

	return domain.AvailabilitySummary{
		AvailabilityFrom:     &window.From,
		AvailabilityTo:       &window.To,
		AvailabilityDeadline: &window.Deadline,
		Days:                 domain.Summarize(window, entries),
	}, nil
}
