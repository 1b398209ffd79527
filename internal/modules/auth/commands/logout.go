package commands

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type LogoutCommand struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
}

func HandleLogout(cookieName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cookie, err := r.Cookie(cookieName)
		if err != nil {
			core.WriteUnauthorized(w, r)
			return
		}

		sessionID, err := uuid.Parse(cookie.Value)
		if err != nil {
			core.WriteUnauthorized(w, r)
			return
		}

		command := LogoutCommand{SessionID: sessionID, UserID: core.Session(ctx).UserID}
		if _, err := mediator.Send[LogoutCommand, core.Unit](ctx, command); err != nil {
			core.WriteCommandError(w, r, err)
			return
		}

		http.SetCookie(w, &http.Cookie{Name: cookieName, Path: "/", MaxAge: -1})
		core.WriteNoContent(w, r)
	}
}

type LogoutCommandHandler struct {
	db *sql.DB
}

func NewLogoutCommandHandler(db *sql.DB) *LogoutCommandHandler {
	return &LogoutCommandHandler{db}
}

// Handle revokes the session so the cookie stops resolving even if the
// client keeps it.
func (h *LogoutCommandHandler) Handle(ctx context.Context, request LogoutCommand) (core.Unit, error) {
	const q = `
		DELETE FROM
			auth.session
		WHERE
			id = $1 AND user_id = $2;`

	if _, err := tql.Exec(ctx, h.db, q, request.SessionID, request.UserID); err != nil {
		return core.Unit{}, err
	}

	return core.Unit{}, nil
}
