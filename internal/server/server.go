package server

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/eskrenkovic/game-night/internal/config"
	"github.com/eskrenkovic/game-night/internal/modules/auth"
	authcommands "github.com/eskrenkovic/game-night/internal/modules/auth/commands"
	chatcommands "github.com/eskrenkovic/game-night/internal/modules/chat/commands"
	chatdomain "github.com/eskrenkovic/game-night/internal/modules/chat/domain"
	chatqueries "github.com/eskrenkovic/game-night/internal/modules/chat/queries"
	"github.com/eskrenkovic/game-night/internal/modules/core"
	gamesessioncommands "github.com/eskrenkovic/game-night/internal/modules/game-session/commands"
	gamesessiondomain "github.com/eskrenkovic/game-night/internal/modules/game-session/domain"
	gamesessionqueries "github.com/eskrenkovic/game-night/internal/modules/game-session/queries"
	"github.com/eskrenkovic/game-night/internal/modules/notification"
	notificationcommands "github.com/eskrenkovic/game-night/internal/modules/notification/commands"
	notificationdomain "github.com/eskrenkovic/game-night/internal/modules/notification/domain"
	notificationqueries "github.com/eskrenkovic/game-night/internal/modules/notification/queries"
	"github.com/eskrenkovic/game-night/internal/modules/realtime"

	"github.com/cenkalti/backoff/v4"
	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/migrate-go"
	"github.com/go-chi/chi"
	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Server interface {
	Start() error
	Stop(ctx context.Context) error
}

var _ Server = &HTTPServer{}

// HTTPServer acts as the composition root for an application.
type HTTPServer struct {
	server *http.Server
	db     *sql.DB
	hub    *realtime.Hub
	logger *zap.Logger
}

func NewHTTPServer(config config.Config) (*HTTPServer, error) {
	baseCtx := context.Background()
	logger := config.Logger

	db, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := waitForDatabase(baseCtx, db, config.DBConnectTimeout, logger); err != nil {
		return nil, err
	}

	if err := migrate.Run(baseCtx, db, config.MigrationsPath); err != nil {
		return nil, err
	}

	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: logger}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: logger}
	requestValidationBehavior := core.RequestValidationBehavior{}

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)

	hub := realtime.NewHub(logger.Named("realtime"), config.AllowedOrigins)
	dispatcher := notification.NewDispatcher(db, hub, logger.Named("notification"))

	if err := registerHandlers(db, dispatcher, hub, logger); err != nil {
		return nil, err
	}

	server := http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(config.Port)),
		Handler:           newRouter(db, hub, config),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	return &HTTPServer{
		server: &server,
		db:     db,
		hub:    hub,
		logger: logger,
	}, nil
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop drains in-flight requests, disconnects realtime subscribers and
// closes the database pool.
func (s *HTTPServer) Stop(ctx context.Context) error {
	shutdownErr := s.server.Shutdown(ctx)
	s.hub.Close()

	if err := s.db.Close(); err != nil {
		return errors.Join(shutdownErr, err)
	}

	return shutdownErr
}

func waitForDatabase(ctx context.Context, db *sql.DB, timeout time.Duration, logger *zap.Logger) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = timeout

	return backoff.RetryNotify(
		func() error { return db.PingContext(ctx) },
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			logger.Warn("database not ready", zap.Error(err), zap.Duration("retry_in", next))
		},
	)
}

func registerHandlers(
	db *sql.DB,
	dispatcher *notification.Dispatcher,
	hub *realtime.Hub,
	logger *zap.Logger,
) error {
	registrations := []func() error{
		// auth

		func() error {
			return mediator.RegisterRequestHandler[authcommands.LogoutCommand, core.Unit](
				authcommands.NewLogoutCommandHandler(db),
			)
		},

		// game-session

		func() error {
			return mediator.RegisterRequestHandler[gamesessioncommands.CreateSessionCommand, gamesessiondomain.SessionDetail](
				gamesessioncommands.NewCreateSessionCommandHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessioncommands.InviteCommand, gamesessiondomain.Participant](
				gamesessioncommands.NewInviteCommandHandler(db, dispatcher),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessioncommands.RespondInvitationCommand, gamesessiondomain.Participant](
				gamesessioncommands.NewRespondInvitationCommandHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessioncommands.RemoveParticipantCommand, core.Unit](
				gamesessioncommands.NewRemoveParticipantCommandHandler(db, hub),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessioncommands.SetAvailabilityWindowCommand, gamesessiondomain.Session](
				gamesessioncommands.NewSetAvailabilityWindowCommandHandler(db, dispatcher),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessioncommands.SubmitAvailabilityCommand, gamesessiondomain.MyAvailability](
				gamesessioncommands.NewSubmitAvailabilityCommandHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessioncommands.ToggleVoteCommand, gamesessioncommands.ToggleVoteResponse](
				gamesessioncommands.NewToggleVoteCommandHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessioncommands.SetFinalDateCommand, gamesessiondomain.Session](
				gamesessioncommands.NewSetFinalDateCommandHandler(db, dispatcher),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessioncommands.SetFinalGamesCommand, []gamesessiondomain.FinalGame](
				gamesessioncommands.NewSetFinalGamesCommandHandler(db, dispatcher),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessioncommands.DeleteSessionCommand, core.Unit](
				gamesessioncommands.NewDeleteSessionCommandHandler(db, dispatcher, hub),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessionqueries.GetOwnedSessionsQuery, []gamesessiondomain.Session](
				gamesessionqueries.NewGetOwnedSessionsQueryHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessionqueries.GetInvitedSessionsQuery, []gamesessiondomain.Session](
				gamesessionqueries.NewGetInvitedSessionsQueryHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessionqueries.GetSessionQuery, gamesessiondomain.SessionDetail](
				gamesessionqueries.NewGetSessionQueryHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessionqueries.GetParticipantsQuery, []gamesessiondomain.ParticipantView](
				gamesessionqueries.NewGetParticipantsQueryHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessionqueries.GetMyAvailabilityQuery, gamesessiondomain.MyAvailability](
				gamesessionqueries.NewGetMyAvailabilityQueryHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessionqueries.GetAvailabilitySummaryQuery, gamesessiondomain.AvailabilitySummary](
				gamesessionqueries.NewGetAvailabilitySummaryQueryHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[gamesessionqueries.GetGamePoolQuery, gamesessiondomain.Pool](
				gamesessionqueries.NewGetGamePoolQueryHandler(db),
			)
		},

		// chat

		func() error {
			return mediator.RegisterRequestHandler[chatcommands.PostMessageCommand, chatdomain.Message](
				chatcommands.NewPostMessageCommandHandler(db, dispatcher, hub, logger.Named("chat")),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[chatqueries.GetMessagesQuery, []chatdomain.Message](
				chatqueries.NewGetMessagesQueryHandler(db),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[chatqueries.AuthorizeSubscriptionQuery, core.Unit](
				chatqueries.NewAuthorizeSubscriptionQueryHandler(db),
			)
		},

		// notification

		func() error {
			return mediator.RegisterRequestHandler[notificationcommands.MarkReadCommand, notificationdomain.Notification](
				notificationcommands.NewMarkReadCommandHandler(dispatcher),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[notificationcommands.MarkChatReadCommand, core.Unit](
				notificationcommands.NewMarkChatReadCommandHandler(dispatcher),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[notificationqueries.GetNotificationsQuery, []notificationdomain.Notification](
				notificationqueries.NewGetNotificationsQueryHandler(dispatcher),
			)
		},
		func() error {
			return mediator.RegisterRequestHandler[notificationqueries.GetUnreadCountQuery, notification.UnreadCount](
				notificationqueries.NewGetUnreadCountQueryHandler(dispatcher),
			)
		},
	}

	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	return nil
}

func newRouter(db *sql.DB, hub *realtime.Hub, config config.Config) http.Handler {
	logger := config.Logger

	r := chi.NewRouter()

	r.Use(handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger.Named("recovery"))),
		handlers.PrintRecoveryStack(true),
	))
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CombinedLoggingHandler(zap.NewStdLog(logger.Named("access")).Writer(), next)
	})
	r.Use(core.CorrelationIDHTTPMiddleware)
	r.Use(core.LoggerHTTPMiddleware(logger))

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticationMiddleware(db, config.SessionCookieName))

		r.Post("/auth/logout", authcommands.HandleLogout(config.SessionCookieName))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", gamesessioncommands.HandleCreateGameSession)
			r.Get("/", gamesessionqueries.HandleGetOwnedSessions)
			r.Get("/invited", gamesessionqueries.HandleGetInvitedSessions)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", gamesessionqueries.HandleGetSession)
				r.Delete("/", gamesessioncommands.HandleDeleteSession)

				r.Post("/invite", gamesessioncommands.HandleInvite)
				r.Post("/respond", gamesessioncommands.HandleRespondInvitation)
				r.Get("/participants", gamesessionqueries.HandleGetParticipants)
				r.Delete("/participants/{userId}", gamesessioncommands.HandleRemoveParticipant)

				r.Post("/availability/window", gamesessioncommands.HandleSetAvailabilityWindow)
				r.Put("/availability", gamesessioncommands.HandleSubmitAvailability)
				r.Get("/availability/me", gamesessionqueries.HandleGetMyAvailability)
				r.Get("/availability/summary", gamesessionqueries.HandleGetAvailabilitySummary)

				r.Get("/game-pool", gamesessionqueries.HandleGetGamePool)
				r.Post("/game-pool/votes", gamesessioncommands.HandleToggleVote)

				r.Post("/final-date", gamesessioncommands.HandleSetFinalDate)
				r.Put("/games", gamesessioncommands.HandleSetFinalGames)

				r.Get("/chat/messages", chatqueries.HandleGetMessages)
				r.Post("/chat/messages", chatcommands.HandlePostMessage)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationqueries.HandleGetNotifications)
			r.Get("/unread-count", notificationqueries.HandleGetUnreadCount)
			r.Post("/{id}/read", notificationcommands.HandleMarkRead)
			r.Post("/sessions/{sessionId}/chat-read", notificationcommands.HandleMarkChatRead)
		})

		r.Route("/realtime", func(r chi.Router) {
			r.Get("/notifications", hub.HandleUserChannel)
			r.Get("/sessions/{id}/chat", chatqueries.HandleSubscribe(hub))
		})
	})

	return r
}
