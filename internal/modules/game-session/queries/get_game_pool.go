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
	"github.com/google/uuid"
)

type GetGamePoolQuery struct {
	SessionID   uuid.UUID
	RequesterID uuid.UUID
}

func (q GetGamePoolQuery) Validate() error {
	if q.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - %s", q.SessionID.String())
	}

	if q.RequesterID == uuid.Nil {
		return fmt.Errorf("invalid RequesterID - %s", q.RequesterID.String())
	}

	return nil
}

func HandleGetGamePool(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	response, err := mediator.Send[GetGamePoolQuery, domain.Pool](
		ctx,
		GetGamePoolQuery{SessionID: sessionID, RequesterID: core.Session(ctx).UserID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetGamePoolQueryHandler struct {
	db *sql.DB
}

func NewGetGamePoolQueryHandler(db *sql.DB) *GetGamePoolQueryHandler {
	return &GetGamePoolQueryHandler{db}
}

func (h *GetGamePoolQueryHandler) Handle(ctx context.Context, request GetGamePoolQuery) (domain.Pool, error) {
	if _, err := repository.RequireCollaborator(ctx, h.db, request.SessionID, request.RequesterID); err != nil {
		return nil, err
	}

	return repository.LoadPool(ctx, h.db, request.SessionID, request.RequesterID)
}
