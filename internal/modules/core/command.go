package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type Unit struct{}

type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindNotFound
	KindForbidden
	KindValidation
	KindConflict
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindForbidden:
		return "Forbidden"
	case KindValidation:
		return "Validation"
	case KindConflict:
		return "Conflict"
	case KindUnauthorized:
		return "Unauthorized"
	default:
		return "Unexpected"
	}
}

func (k ErrorKind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// CommandError is the error every handler returns for an expected
// business condition. Anything that is not a CommandError is treated
// as an unexpected fault by the HTTP layer.
type CommandError struct {
	Kind       ErrorKind
	StatusCode int
	Reason     *string
	Errors     map[string][]string
	Payload    interface{}
}

type CommandErrorOption func(*CommandError)

func WithReason(reason string) CommandErrorOption {
	return func(e *CommandError) {
		e.Reason = &reason
	}
}

func WithFieldError(field string, message string) CommandErrorOption {
	return func(e *CommandError) {
		if e.Errors == nil {
			e.Errors = make(map[string][]string)
		}
		e.Errors[field] = append(e.Errors[field], message)
	}
}

func WithPayload(payload interface{}) CommandErrorOption {
	return func(e *CommandError) {
		e.Payload = payload
	}
}

func NewCommandError(kind ErrorKind, opts ...CommandErrorOption) CommandError {
	e := CommandError{
		Kind:       kind,
		StatusCode: kind.StatusCode(),
	}

	for _, opt := range opts {
		opt(&e)
	}

	return e
}

func NotFound(reason string) CommandError {
	return NewCommandError(KindNotFound, WithReason(reason))
}

func Forbidden(reason string) CommandError {
	return NewCommandError(KindForbidden, WithReason(reason))
}

func Conflict(reason string) CommandError {
	return NewCommandError(KindConflict, WithReason(reason))
}

func Unauthorized() CommandError {
	return NewCommandError(KindUnauthorized)
}

// Validation reports a single offending field. The code doubles as the
// reason so clients can match on it.
func Validation(field string, code string) CommandError {
	return NewCommandError(KindValidation, WithReason(code), WithFieldError(field, code))
}

func Unexpected(err error) CommandError {
	return NewCommandError(KindUnexpected, WithPayload(err))
}

func (r CommandError) ReasonOrEmpty() string {
	if r.Reason == nil {
		return ""
	}
	return *r.Reason
}

func (r CommandError) Error() string {
	var values struct {
		Kind       string
		StatusCode int
		Reason     string
		Errors     map[string][]string
		Payload    interface{}
	}

	values.Kind = r.Kind.String()
	values.StatusCode = r.StatusCode
	values.Reason = r.ReasonOrEmpty()
	values.Errors = r.Errors
	values.Payload = r.Payload

	return fmt.Sprintf("%+v", values)
}

func (r CommandError) Unwrap() error {
	if err, ok := r.Payload.(error); ok {
		return err
	}
	return nil
}

// Problem is the error body written for every failed request.
type Problem struct {
	Status   int                 `json:"status"`
	Title    string              `json:"title"`
	Detail   string              `json:"detail"`
	Instance string              `json:"instance,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

func (r CommandError) Problem(instance string) Problem {
	p := Problem{
		Status:   r.StatusCode,
		Title:    r.Kind.String(),
		Detail:   r.ReasonOrEmpty(),
		Instance: instance,
		Errors:   r.Errors,
	}

	if r.Kind == KindUnexpected {
		// Unexpected faults never leak their cause.
		p.Detail = "something went wrong"
		p.Errors = nil
	}

	return p
}

func (r CommandError) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Problem(""))
}

func AsCommandError(err error) (CommandError, bool) {
	var commandErr CommandError
	if errors.As(err, &commandErr) {
		return commandErr, true
	}
	return CommandError{}, false
}

func IsKind(err error, kind ErrorKind) bool {
	commandErr, ok := AsCommandError(err)
	return ok && commandErr.Kind == kind
}

// HasReason reports whether err is a CommandError of the given kind
// carrying the given reason code.
func HasReason(err error, kind ErrorKind, reason string) bool {
	commandErr, ok := AsCommandError(err)
	return ok && commandErr.Kind == kind && commandErr.ReasonOrEmpty() == reason
}
