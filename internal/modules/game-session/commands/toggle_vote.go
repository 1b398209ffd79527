package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/domain"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/repository"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type ToggleVoteCommand struct {
	SessionID uuid.UUID `json:"-"`
	UserID    uuid.UUID `json:"-"`
	GameKey   string    `json:"gameKey"`
}

func (c ToggleVoteCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	if strings.TrimSpace(c.GameKey) == "" {
		return core.Validation("gameKey", "GameKeyRequired")
	}

	return nil
}

type ToggleVoteResponse struct {
	GameKey    string `json:"gameKey"`
	Voted      bool   `json:"voted"`
	VotesCount int    `json:"votesCount"`
}

func HandleToggleVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command, err := core.RequestBody[ToggleVoteCommand](r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}
	command.SessionID = sessionID
	command.UserID = core.Session(ctx).UserID

	response, err := mediator.Send[ToggleVoteCommand, ToggleVoteResponse](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type ToggleVoteCommandHandler struct {
	db  *sql.DB
	now func() time.Time
}

func NewToggleVoteCommandHandler(db *sql.DB) *ToggleVoteCommandHandler {
	return &ToggleVoteCommandHandler{db: db, now: time.Now}
}

// Handle removes the caller's vote for the key when present and records
// it otherwise.
func (h *ToggleVoteCommandHandler) Handle(ctx context.Context, request ToggleVoteCommand) (ToggleVoteResponse, error) {
	key := domain.GameKey(request.GameKey)
	response := ToggleVoteResponse{GameKey: key}

	err := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := repository.RequireCollaborator(ctx, tx, request.SessionID, request.UserID); err != nil {
			return err
		}

		pool, err := repository.LoadPool(ctx, tx, request.SessionID, request.UserID)
		if err != nil {
			return err
		}

		entry, found := pool.Find(key)
		if !found {
			return core.Validation("gameKey", "GameNotInPool")
		}

		const deleteStmt = `
			DELETE FROM
				session_game_vote
			WHERE
				session_id = $1 AND user_id = $2 AND game_key = $3;`
		result, err := tql.Exec(ctx, tx, deleteStmt, request.SessionID, request.UserID, key)
		if err != nil {
			return err
		}

		removed, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if removed > 0 {
			response.Voted = false
			response.VotesCount = entry.VotesCount - 1
			return nil
		}

		const insertStmt = `
			INSERT INTO
				session_game_vote (session_id, user_id, game_key, created_at)
			VALUES
				($1, $2, $3, $4);`
		if _, err := tql.Exec(ctx, tx, insertStmt, request.SessionID, request.UserID, key, h.now().UTC()); err != nil {
			return err
		}

		response.Voted = true
		response.VotesCount = entry.VotesCount + 1
		return nil
	})
	if err != nil {
		return ToggleVoteResponse{}, core.TranslateDBError(err, "VoteConflict")
	}

	return response, nil
}
