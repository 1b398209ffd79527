package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/notification/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishToUser(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	args := m.Called(ctx, userID, event, payload)
	return args.Error(0)
}

func (m *mockPublisher) PublishToSession(ctx context.Context, sessionID uuid.UUID, event string, payload any) error {
	args := m.Called(ctx, sessionID, event, payload)
	return args.Error(0)
}

func newTestDispatcher(publisher Publisher) *Dispatcher {
	d := NewDispatcher(nil, publisher, zap.NewNop())
	d.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return d
}

func Test_Dispatcher_Publish_Sends_Notification_And_Unread_Count(t *testing.T) {
	// Arrange
	ctx := context.Background()
	publisher := &mockPublisher{}
	d := newTestDispatcher(publisher)

	n := domain.Notification{ID: 7, UserID: uuid.New(), Type: domain.TypeChatNewMessage, Title: "New messages", Count: 2}

	publisher.On("PublishToUser", ctx, n.UserID, EventNotificationUpserted, n).Return(nil).Once()
	publisher.On("PublishToUser", ctx, n.UserID, EventUnreadCount, UnreadCount{Count: 3}).Return(nil).Once()

	// Act
	d.publish(ctx, n, 3)

	// Assert
	publisher.AssertExpectations(t)
}

func Test_Dispatcher_Publish_Swallows_Delivery_Failures(t *testing.T) {
	// Arrange
	ctx := context.Background()
	publisher := &mockPublisher{}
	d := newTestDispatcher(publisher)

	n := domain.Notification{ID: 7, UserID: uuid.New(), Type: domain.TypeWelcome, Title: "Welcome"}

	publisher.On("PublishToUser", ctx, n.UserID, EventNotificationUpserted, n).Return(errors.New("closed")).Once()
	publisher.On("PublishToUser", ctx, n.UserID, EventUnreadCount, UnreadCount{Count: 1}).Return(errors.New("closed")).Once()

	// Act
	require.NotPanics(t, func() { d.publish(ctx, n, 1) })

	// Assert
	publisher.AssertExpectations(t)
}

func Test_Dispatcher_Create_Rejects_Invalid_Input_Before_Touching_Store(t *testing.T) {
	// Arrange
	d := newTestDispatcher(&mockPublisher{})

	// Act
	_, err := d.Create(context.Background(), nil, domain.CreateInput{Type: domain.TypeWelcome})

	// Assert
	require.Error(t, err)
}

func Test_Dispatcher_UpsertCounter_Rejects_Missing_Key_Before_Touching_Store(t *testing.T) {
	// Arrange
	d := newTestDispatcher(&mockPublisher{})

	// Act
	_, err := d.UpsertCounter(context.Background(), nil, domain.CounterInput{
		UserID: uuid.New(),
		Type:   domain.TypeChatNewMessage,
		Title:  "New messages",
	})

	// Assert
	require.Error(t, err)
}
