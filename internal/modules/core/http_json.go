package core

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func RequestBody[TRequest any](r *http.Request) (TRequest, error) {
	var request TRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return request, Validation("body", "MalformedBody")
	}
	return request, nil
}

type ResponseOption func(http.ResponseWriter, *http.Request)

func WithHeader(header, value string) ResponseOption {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add(header, value)
	}
}

func WriteOK(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusOK, body)
}

func WriteCreated(w http.ResponseWriter, r *http.Request, location string, body interface{}) {
	WriteResponse(w, r, http.StatusCreated, body, WithHeader("Location", location))
}

func WriteNoContent(w http.ResponseWriter, r *http.Request) {
	WriteResponse(w, r, http.StatusNoContent, nil)
}

func WriteUnauthorized(w http.ResponseWriter, r *http.Request) {
	WriteCommandError(w, r, Unauthorized())
}

// WriteCommandError writes err in the problem shape. Errors that are not
// a CommandError are reported as unexpected.
func WriteCommandError(w http.ResponseWriter, r *http.Request, err error) {
	commandErr, ok := AsCommandError(err)
	if !ok {
		commandErr = Unexpected(err)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	WriteResponse(w, r, commandErr.StatusCode, commandErr.Problem(r.URL.Path))
}

func WriteResponse(
	w http.ResponseWriter,
	r *http.Request,
	statusCode int,
	body interface{},
	opts ...ResponseOption,
) {
	for _, opt := range opts {
		opt(w, r)
	}

	if body != nil && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(statusCode)
	writeBodyIfPresent(r.Context(), w, body)
}

func writeBodyIfPresent(ctx context.Context, w http.ResponseWriter, body interface{}) {
	if body == nil {
		return
	}

	responseBytes, err := json.Marshal(body)
	if err != nil {
		LogError(ctx, "failed to serialize response", zap.Error(err))
		return
	}

	if _, err := w.Write(responseBytes); err != nil {
		LogError(ctx, "failed to write response", zap.Error(err))
	}
}
