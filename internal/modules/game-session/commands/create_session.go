package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type CreateSessionCommand struct {
	OwnerID     uuid.UUID  `json:"-"`
	Title       string     `json:"title"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	Description *string    `json:"description"`
}

func (c CreateSessionCommand) Validate() error {
	if c.OwnerID == uuid.Nil {
		return fmt.Errorf("invalid OwnerID - '%s'", c.OwnerID.String())
	}

	_, err := domain.NormalizeTitle(c.Title)
	return err
}

func HandleCreateGameSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command, err := core.RequestBody[CreateSessionCommand](r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}
	command.OwnerID = core.Session(ctx).UserID

	response, err := mediator.Send[CreateSessionCommand, domain.SessionDetail](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteCreated(w, r, fmt.Sprintf("/sessions/%s", response.ID), response)
}

type CreateSessionCommandHandler struct {
	db  *sql.DB
	now func() time.Time
}

func NewCreateSessionCommandHandler(db *sql.DB) *CreateSessionCommandHandler {
	return &CreateSessionCommandHandler{db: db, now: time.Now}
}

func (h *CreateSessionCommandHandler) Handle(
	ctx context.Context,
	request CreateSessionCommand,
) (domain.SessionDetail, error) {
	now := h.now()

	session, err := domain.NewSession(
		request.OwnerID,
		request.Title,
		request.Date,
		request.Location,
		request.Description,
		now,
	)
	if err != nil {
		return domain.SessionDetail{}, err
	}

	host := domain.NewHost(session.ID, session.OwnerID, now)

	err = core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		const sessionStmt = `
			INSERT INTO
				game_session (id, owner_id, title, scheduled_at, location, description, created_at)
			VALUES
				(:id, :owner_id, :title, :scheduled_at, :location, :description, :created_at);`
		if _, err := tql.Exec(ctx, tx, sessionStmt, session); err != nil {
			return err
		}

		const hostStmt = `
			INSERT INTO
				session_participant (session_id, user_id, role, status, created_at, updated_at)
			VALUES
				(:session_id, :user_id, :role, :status, :created_at, :updated_at);`
		_, err := tql.Exec(ctx, tx, hostStmt, host)
		return err
	})
	if err != nil {
		return domain.SessionDetail{}, core.TranslateDBError(err, "SessionAlreadyExists")
	}

	counts := []domain.StatusCount{{Status: domain.StatusConfirmed, Count: 1}}
	return domain.NewSessionDetail(session, host, counts, nil), nil
}
