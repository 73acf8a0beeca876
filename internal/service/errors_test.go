package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/reelrank/reelrank-server/internal/errors"
	"github.com/reelrank/reelrank-server/internal/store"
)

func TestStoreFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domainerrors.Code
	}{
		{"unavailable", fmt.Errorf("list: %w", store.ErrUnavailable), domainerrors.CodeStoreUnavailable},
		{"deadline", fmt.Errorf("list: %w", context.DeadlineExceeded), domainerrors.CodeRequestTimeout},
		{"canceled", fmt.Errorf("list: %w", context.Canceled), domainerrors.CodeRequestCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var domainErr *domainerrors.Error
			require.ErrorAs(t, storeFailure("list", tt.err), &domainErr)
			assert.Equal(t, tt.want, domainErr.Code)
		})
	}

	other := storeFailure("list", errors.New("syntax error"))
	var domainErr *domainerrors.Error
	assert.False(t, errors.As(other, &domainErr))
}

func TestCatalogService_CanceledRequest(t *testing.T) {
	env := setupServices(t)
	env.movie(t, "Alien", "Sci-Fi", 8.5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.catalog.ListMovies(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrRequestCanceled)

	ctx, cancel = context.WithTimeout(context.Background(), 0)
	defer cancel()

	_, err = env.catalog.GetMovie(ctx, 1)
	assert.ErrorIs(t, err, domainerrors.ErrRequestTimeout)
}
