package errors

import (
	"context"
	"errors"
	"log/slog"
)

// Process exit codes reported by the command line tools.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitConfig   = 3
	ExitFetch    = 4
	ExitData     = 5
	ExitCanceled = 130
)

// ErrorHandler turns errors returned by a command into an exit code and a
// single log record.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError logs err with whatever structure it carries and returns the
// exit code for it.
func (h *ErrorHandler) HandleError(ctx context.Context, err error) int {
	if err == nil {
		return ExitOK
	}

	code := ExitCode(err)
	attrs := []any{
		slog.String("error", err.Error()),
		slog.Int("exit_code", code),
	}
	if fe, ok := AsFetchError(err); ok {
		attrs = append(attrs,
			slog.Int("year", fe.Year),
			slog.Int("electorate", fe.Electorate),
			slog.String("url", fe.URL))
	}
	if appErr, ok := AsAppError(err); ok {
		attrs = append(attrs, slog.String("error_type", string(appErr.Type)))
		for k, v := range appErr.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
	}

	h.logger.ErrorContext(ctx, "Command failed", attrs...)
	return code
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check for context errors first
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ExitCanceled
	}

	if _, ok := AsFetchError(err); ok {
		return ExitFetch
	}

	appErr, ok := AsAppError(err)
	if !ok {
		return ExitFailure
	}
	switch appErr.Type {
	case ErrTypeValidation:
		return ExitUsage
	case ErrTypeConfig:
		return ExitConfig
	case ErrTypeNetwork:
		return ExitFetch
	case ErrTypeParsing, ErrTypeMissingTotals, ErrTypeShapeMismatch, ErrTypeNotFound:
		return ExitData
	default:
		return ExitFailure
	}
}
