package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"

	"github.com/3leaps/sharelink/internal/config"
	"github.com/3leaps/sharelink/pkg/naming"
	"github.com/3leaps/sharelink/pkg/provider"
	"github.com/3leaps/sharelink/pkg/provider/s3"
	"github.com/3leaps/sharelink/pkg/report"
	"github.com/3leaps/sharelink/pkg/share"
)

// exitFailure is used when no more specific code applies.
const exitFailure = 1

// exitCodeError carries the exit code and message for a failed command.
type exitCodeError struct {
	code    int
	message string
	err     error
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("%s: %v (exit code %d)", e.message, e.err, e.code)
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}

// exitError creates an error that will cause the CLI to exit with the given code.
func exitError(code int, message string, err error) error {
	return &exitCodeError{code: code, message: message, err: err}
}

// describeExit picks the exit code, message and cause reported for err.
// Interruption wins over whatever error the canceled operation produced.
func describeExit(ctx context.Context, err error) (int, string, error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return foundry.ExitSignalInt, "Interrupted", err
	}

	var ee *exitCodeError
	if errors.As(err, &ee) {
		return ee.code, ee.message, ee.err
	}

	// Errors raised by cobra itself: unknown flags, wrong argument count.
	return foundry.ExitInvalidArgument, "Invalid arguments", err
}

// classifyConfigError maps a configuration load failure. An unknown output
// format keeps its own message.
func classifyConfigError(err error) error {
	if errors.Is(err, report.ErrUnsupportedMode) {
		return exitError(foundry.ExitInvalidArgument, "Unsupported output format", err)
	}
	return exitError(foundry.ExitInvalidArgument, "Invalid configuration", err)
}

// classifyShareError maps a failure of the share flow to a message and
// exit code. Each failure class gets its own message.
func classifyShareError(err error) error {
	var cfgErr *s3.ConfigError

	switch {
	case errors.Is(err, context.Canceled):
		return exitError(foundry.ExitSignalInt, "Interrupted", err)
	case errors.Is(err, context.DeadlineExceeded):
		return exitError(foundry.ExitExternalServiceUnavailable, "Upload timed out", err)
	case errors.Is(err, config.ErrMissingConfig):
		return exitError(foundry.ExitInvalidArgument, "Missing configuration", err)
	case errors.As(err, &cfgErr):
		return exitError(foundry.ExitInvalidArgument, "Invalid storage configuration", err)
	case errors.Is(err, share.ErrInvalidExpiry):
		return exitError(foundry.ExitInvalidArgument, "Invalid expiry", err)
	case errors.Is(err, report.ErrUnsupportedMode):
		return exitError(foundry.ExitInvalidArgument, "Unsupported output format", err)
	case errors.Is(err, naming.ErrInvalidName):
		return exitError(foundry.ExitInvalidArgument, "Invalid object name", err)
	case errors.Is(err, share.ErrSourceNotFound):
		return exitError(foundry.ExitFileNotFound, "File not found", err)
	case errors.Is(err, share.ErrSourceIsDir):
		return exitError(foundry.ExitFileReadError, "Cannot upload a directory", err)
	case errors.Is(err, share.ErrIncompleteUpload):
		return exitError(foundry.ExitExternalServiceUnavailable, "Upload incomplete", err)
	case provider.IsBucketNotFound(err):
		return exitError(foundry.ExitExternalServiceUnavailable, "Bucket not found", err)
	case provider.IsInvalidCredentials(err):
		return exitError(foundry.ExitExternalServiceUnavailable, "Invalid credentials", err)
	case provider.IsAccessDenied(err):
		return exitError(foundry.ExitExternalServiceUnavailable, "Access denied", err)
	case provider.IsEndpointUnreachable(err):
		return exitError(foundry.ExitExternalServiceUnavailable, "Storage endpoint unreachable", err)
	case provider.IsThrottled(err), provider.IsProviderUnavailable(err):
		return exitError(foundry.ExitExternalServiceUnavailable, "Storage service unavailable", err)
	default:
		var werr *report.WriteError
		if errors.As(err, &werr) {
			return exitError(foundry.ExitFileWriteError, "Failed to write output", err)
		}
		var perr *os.PathError
		if errors.As(err, &perr) {
			return exitError(foundry.ExitFileReadError, "Cannot read file", err)
		}
		return exitError(exitFailure, "Upload failed", err)
	}
}
