package errors

import (
	"context"
	"errors"
)

// MapStoreError maps errors from session stores and event buses to AppError instances.
//   - context.DeadlineExceeded → Timeout
//   - context.Canceled → Canceled
//   - existing AppError → unchanged
//   - anything else → Unavailable
func MapStoreError(err error, op string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, op+" timed out")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, op+" canceled")
	default:
		return Wrap(err, ErrCodeUnavailable, op+" failed")
	}
}
