package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/notification"
	"github.com/eskrenkovic/game-night/internal/modules/notification/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/google/uuid"
)

type MarkReadCommand struct {
	UserID         uuid.UUID
	NotificationID int64
}

func (c MarkReadCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	if c.NotificationID <= 0 {
		return core.NotFound("NotificationNotFound")
	}

	return nil
}

func HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	notificationID, err := core.Int64Param(r, "id")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	command := MarkReadCommand{
		UserID:         core.Session(ctx).UserID,
		NotificationID: notificationID,
	}

	response, err := mediator.Send[MarkReadCommand, domain.Notification](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type MarkReadCommandHandler struct {
	dispatcher *notification.Dispatcher
}

func NewMarkReadCommandHandler(dispatcher *notification.Dispatcher) *MarkReadCommandHandler {
	return &MarkReadCommandHandler{dispatcher}
}

func (h *MarkReadCommandHandler) Handle(ctx context.Context, request MarkReadCommand) (domain.Notification, error) {
	return h.dispatcher.MarkRead(ctx, request.UserID, request.NotificationID)
}
