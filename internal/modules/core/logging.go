package core

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/mediator-go"

	"go.uber.org/zap"
)

const loggerContextKey contextKey = "logger"

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

func Logger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.L()
}

func LogError(ctx context.Context, msg string, fields ...zap.Field) {
	Logger(ctx).Error(msg, append(fields, correlationField(ctx)...)...)
}

func LoggerHTTPMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

func correlationField(ctx context.Context) []zap.Field {
	correlationID := ctx.Value(CorrelationIDContextKey)
	if correlationID != nil && correlationID != "" {
		return []zap.Field{zap.Any("correlation_id", correlationID)}
	}
	return nil
}

var _ mediator.PipelineBehavior = (*RequestLoggingBehavior)(nil)

type RequestLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *RequestLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	logFields := correlationField(ctx)

	if request != nil {
		logFields = append(
			logFields,
			zap.String("request_type", fmt.Sprintf("%T", request)),
			zap.Any("request_body", request),
		)
	}

	b.Logger.Info("processing request", logFields...)

	return next(ctx, request)
}

var _ mediator.PipelineBehavior = (*HandlerErrorLoggingBehavior)(nil)

type HandlerErrorLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *HandlerErrorLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	response, err := next(ctx, request)
	if err == nil {
		return response, nil
	}

	fields := append(correlationField(ctx), zap.String("request_type", fmt.Sprintf("%T", request)), zap.Error(err))

	// Business errors are part of the contract, only faults are errors.
	if commandErr, ok := AsCommandError(err); ok && commandErr.Kind != KindUnexpected {
		b.Logger.Info("handler rejected request", fields...)
	} else {
		b.Logger.Error("handler returned error", fields...)
	}

	return response, err
}
