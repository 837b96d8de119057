package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// ProviderError reports an external collaborator (calendar, storage) that could not serve a request.
// The request may be retried later.
type ProviderError struct {
	Op  string
	Err error
}

func NewProviderError(op string, err error) error {
	return &ProviderError{Op: op, Err: err}
}

func (err ProviderError) Error() string {
	return err.Op + ": " + err.Err.Error()
}

func (err ProviderError) Unwrap() error { return err.Err }

func IsProviderError(err error) bool {
	var perr *ProviderError
	return errors.As(err, &perr)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
