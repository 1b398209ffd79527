package core

import (
	"context"

	"github.com/eskrenkovic/mediator-go"
)

type Validator interface {
	Validate() error
}

var _ mediator.PipelineBehavior = (*RequestValidationBehavior)(nil)

type RequestValidationBehavior struct{}

func (b *RequestValidationBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	if request, ok := request.(Validator); ok {
		if err := request.Validate(); err != nil {
			return nil, AsValidationError(err)
		}
	}

	return next(ctx, request)
}

// AsValidationError keeps field-keyed command errors as they are and
// folds anything else into a generic request validation failure.
func AsValidationError(err error) error {
	if _, ok := AsCommandError(err); ok {
		return err
	}

	return NewCommandError(
		KindValidation,
		WithReason("RequestValidationFailed"),
		WithFieldError("request", err.Error()),
	)
}

// FieldErrors accumulates field-keyed validation failures and reports
// them as one CommandError.
type FieldErrors struct {
	errors map[string][]string
	first  string
}

func (f *FieldErrors) Add(field string, code string) {
	if f.errors == nil {
		f.errors = make(map[string][]string)
		f.first = code
	}
	f.errors[field] = append(f.errors[field], code)
}

func (f *FieldErrors) Err() error {
	if len(f.errors) == 0 {
		return nil
	}

	opts := []CommandErrorOption{WithReason(f.first)}
	for field, codes := range f.errors {
		for _, code := range codes {
			opts = append(opts, WithFieldError(field, code))
		}
	}

	return NewCommandError(KindValidation, opts...)
}
