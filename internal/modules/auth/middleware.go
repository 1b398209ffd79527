package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/auth/domain"
	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthenticationMiddleware resolves the session cookie to the caller's
// user id and stores it as core.ContextSession.
func AuthenticationMiddleware(db *sql.DB, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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

			const q = `
				SELECT
					id, user_id, expires_at
				FROM
					auth.session
				WHERE
					id = $1;`

			session, err := tql.QueryFirst[domain.UserSession](r.Context(), db, q, sessionID)
			switch {
			case err != nil && errors.Is(err, sql.ErrNoRows):
				core.WriteUnauthorized(w, r)
				return
			case err != nil:
				core.LogError(r.Context(), "failed to load user session", zap.Error(err))
				core.WriteCommandError(w, r, err)
				return
			}

			if err := session.Validate(time.Now().UTC()); err != nil {
				core.WriteUnauthorized(w, r)
				return
			}

			ctx := core.WithSession(r.Context(), core.ContextSession{UserID: session.UserID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
