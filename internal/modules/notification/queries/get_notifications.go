package queries

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

type GetNotificationsQuery struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Take       int
}

func (q GetNotificationsQuery) Validate() error {
	if q.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", q.UserID)
	}

	if q.Take < 0 {
		return core.Validation("take", "InvalidNumber")
	}

	return nil
}

func HandleGetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	unreadOnly, err := core.QueryBool(r, "unreadOnly")
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	take, err := core.QueryInt(r, "take", domain.DefaultTake)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	query := GetNotificationsQuery{
		UserID:     core.Session(ctx).UserID,
		UnreadOnly: unreadOnly,
		Take:       take,
	}

	response, err := mediator.Send[GetNotificationsQuery, []domain.Notification](ctx, query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetNotificationsQueryHandler struct {
	dispatcher *notification.Dispatcher
}

func NewGetNotificationsQueryHandler(dispatcher *notification.Dispatcher) *GetNotificationsQueryHandler {
	return &GetNotificationsQueryHandler{dispatcher}
}

func (h *GetNotificationsQueryHandler) Handle(
	ctx context.Context,
	request GetNotificationsQuery,
) ([]domain.Notification, error) {
	return h.dispatcher.GetMine(ctx, request.UserID, request.UnreadOnly, request.Take)
}
