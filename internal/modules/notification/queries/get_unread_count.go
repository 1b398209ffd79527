package queries

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/notification"

	"github.com/eskrenkovic/mediator-go"
	"github.com/google/uuid"
)

type GetUnreadCountQuery struct {
	UserID uuid.UUID
}

func (q GetUnreadCountQuery) Validate() error {
	if q.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", q.UserID)
	}

	return nil
}

func HandleGetUnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response, err := mediator.Send[GetUnreadCountQuery, notification.UnreadCount](
		ctx,
		GetUnreadCountQuery{UserID: core.Session(ctx).UserID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetUnreadCountQueryHandler struct {
	dispatcher *notification.Dispatcher
}

func NewGetUnreadCountQueryHandler(dispatcher *notification.Dispatcher) *GetUnreadCountQueryHandler {
	return &GetUnreadCountQueryHandler{dispatcher}
}

func (h *GetUnreadCountQueryHandler) Handle(
	ctx context.Context,
	request GetUnreadCountQuery,
) (notification.UnreadCount, error) {
	count, err := h.dispatcher.UnreadCount(ctx, request.UserID)
	if err != nil {
		return notification.UnreadCount{}, err
	}

	return notification.UnreadCount{Count: count}, nil
}
