package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/notification"

	"github.com/eskrenkovic/mediator-go"
	"github.com/google/uuid"
)

type MarkChatReadCommand struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

func (c MarkChatReadCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	if c.SessionID == uuid.Nil {
		return fmt.Errorf("invalid SessionID - '%s'", c.SessionID)
	}

	return nil
}

func HandleMarkChatRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := core.UUIDParam(r, "sessionId")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command := MarkChatReadCommand{
		UserID:    core.Session(ctx).UserID,
		SessionID: sessionID,
	}

	if _, err := mediator.Send[MarkChatReadCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteNoContent(w, r)
}

type MarkChatReadCommandHandler struct {
	dispatcher *notification.Dispatcher
}

func NewMarkChatReadCommandHandler(dispatcher *notification.Dispatcher) *MarkChatReadCommandHandler {
	return &MarkChatReadCommandHandler{dispatcher}
}

func (h *MarkChatReadCommandHandler) Handle(ctx context.Context, request MarkChatReadCommand) (core.Unit, error) {
	_, err := h.dispatcher.MarkChatRead(ctx, request.UserID, request.SessionID)
	return core.Unit{}, err
}
