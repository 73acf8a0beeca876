package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	domainerrors "github.com/reelrank/reelrank-server/internal/errors"
	"github.com/reelrank/reelrank-server/internal/store"
)

// storeFailure turns an unexpected store error into a domain error.
// Unreachable stores surface as STORE_UNAVAILABLE, expired or abandoned requests
// as REQUEST_TIMEOUT or REQUEST_CANCELED; everything else stays internal.
func storeFailure(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrUnavailable):
		return domainerrors.StoreUnavailable("store unavailable").WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return domainerrors.RequestTimeout("request timed out").WithCause(err)
	case errors.Is(err, context.Canceled):
		return domainerrors.RequestCanceled("request canceled").WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
