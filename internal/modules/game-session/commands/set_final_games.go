package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/domain"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/repository"
	"github.com/eskrenkovic/game-night/internal/modules/notification"
	notificationdomain "github.com/eskrenkovic/game-night/internal/modules/notification/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type SetFinalGamesCommand struct {
	SessionID   uuid.UUID `json:"-"`
	OrganizerID uuid.UUID `json:"-"`
	GameKeys    []string  `json:"gameKeys"`
}

func (c SetFinalGamesCommand) Validate() error {
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	if c.OrganizerID == uuid.Nil {
		return fmt.Errorf("invalid OrganizerID - '%s'", c.OrganizerID)
	}

	if c.GameKeys == nil {
		return core.Validation("gameKeys", "Required")
	}

	for _, key := range c.GameKeys {
		if strings.TrimSpace(key) == "" {
			return core.Validation("gameKeys", "GameKeyRequired")
		}
	}

	return nil
}

func HandleSetFinalGames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command, err := core.RequestBody[SetFinalGamesCommand](r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}
	command.SessionID = sessionID
	command.OrganizerID = core.Session(ctx).UserID

	response, err := mediator.Send[SetFinalGamesCommand, []domain.FinalGame](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type SetFinalGamesCommandHandler struct {
	db         *sql.DB
	dispatcher *notification.Dispatcher
}

func NewSetFinalGamesCommandHandler(db *sql.DB, dispatcher *notification.Dispatcher) *SetFinalGamesCommandHandler {
	return &SetFinalGamesCommandHandler{db: db, dispatcher: dispatcher}
}

// Handle replaces the confirmed game list. Every key has to be in the
// current pool.
func (h *SetFinalGamesCommandHandler) Handle(
	ctx context.Context,
	request SetFinalGamesCommand,
) ([]domain.FinalGame, error) {
	var (
		games []domain.FinalGame
		sent  []notificationdomain.Notification
	)

	keys := core.Map(request.GameKeys, domain.GameKey)

	err := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		session, err := repository.LoadOwnedSession(ctx, tx, request.SessionID, request.OrganizerID)
		if err != nil {
			return err
		}

		pool, err := repository.LoadPool(ctx, tx, session.ID, request.OrganizerID)
		if err != nil {
			return err
		}

		games, err = pool.SelectFinalGames(session.ID, keys)
		if err != nil {
			return err
		}

		const deleteStmt = `
			DELETE FROM
				session_final_game
			WHERE
				session_id = $1;`
		if _, err := tql.Exec(ctx, tx, deleteStmt, session.ID); err != nil {
			return err
		}

		const insertStmt = `
			INSERT INTO
				session_final_game (session_id, game_key, title, position)
			VALUES
				(:session_id, :game_key, :title, :position);`
		for _, game := range games {
			if _, err := tql.Exec(ctx, tx, insertStmt, game); err != nil {
				return err
			}
		}

		recipients, err := repository.ParticipantIDs(ctx, tx, session.ID, domain.StatusConfirmed)
		if err != nil {
			return err
		}

		titles := core.Map(games, func(g domain.FinalGame) string { return g.Title })
		message := "The game list has been cleared."
		if len(titles) > 0 {
			message = fmt.Sprintf("Games to play: %s.", strings.Join(titles, ", "))
		}

		sent, err = h.dispatcher.CreateMany(ctx, tx, recipients, detailsUpdatedNotification(session, message))
		return err
	})
	if err != nil {
		return nil, core.TranslateDBError(err, "FinalGamesConflict")
	}

	h.dispatcher.Push(ctx, sent...)

	return games, nil
}
