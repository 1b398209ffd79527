package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/repository"

	"github.com/eskrenkovic/mediator-go"
	"github.com/google/uuid"
)

// Subscriber attaches an upgraded connection to a session's channel.
type Subscriber interface {
	ServeSession(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID)
}

type AuthorizeSubscriptionQuery struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
}

func (q AuthorizeSubscriptionQuery) Validate() error {
	if q.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - %s", q.SessionID.String())
	}

	if q.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - %s", q.UserID.String())
	}

	return nil
}

// HandleSubscribe checks chat access before handing the request to the
// subscriber for the websocket upgrade.
func HandleSubscribe(subscriber Subscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sessionID, err := core.UUIDParam(r, "id")
		if err != nil {
			core.WriteCommandError(w, r, err)
			return
		}

		query := AuthorizeSubscriptionQuery{SessionID: sessionID, UserID: core.Session(ctx).UserID}
		if _, err := mediator.Send[AuthorizeSubscriptionQuery, core.Unit](ctx, query); err != nil {
			core.WriteCommandError(w, r, err)
			return
		}

		subscriber.ServeSession(w, r, sessionID)
	}
}

type AuthorizeSubscriptionQueryHandler struct {
	db *sql.DB
}

func NewAuthorizeSubscriptionQueryHandler(db *sql.DB) *AuthorizeSubscriptionQueryHandler {
	return &AuthorizeSubscriptionQueryHandler{db}
}

func (h *AuthorizeSubscriptionQueryHandler) Handle(
	ctx context.Context,
	request AuthorizeSubscriptionQuery,
) (core.Unit, error) {
	_, err := repository.RequireCollaborator(ctx, h.db, request.SessionID, request.UserID)
	return core.Unit{}, err
}
