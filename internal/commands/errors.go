package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes stamped on handler errors so callers can branch on the
// failure mode without matching message strings.
const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
)

// wrapValidationError marks a rejected message. Errors already wrapped by
// go-errors pass through untouched so domain categories survive the trip
// up the stack.
func wrapValidationError(err error) error {
	switch {
	case err == nil:
		return nil
	case goerrors.IsWrapped(err):
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "message validation failed").
		WithTextCode(commandValidationCode)
}

// wrapContextError classifies the context failure that ended a handler run.
func wrapContextError(err error) error {
	switch {
	case err == nil:
		return nil
	case goerrors.IsWrapped(err):
		return err
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "handler run cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "handler run timed out").
			WithTextCode(commandContextTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "handler context error").
		WithTextCode(commandContextErrorCode)
}

// wrapExecuteError covers runner failures that carry no category of
// their own.
func wrapExecuteError(err error) error {
	switch {
	case err == nil:
		return nil
	case goerrors.IsWrapped(err):
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "handler execution failed").
		WithTextCode(commandExecuteFailed)
}
