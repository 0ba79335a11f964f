package banners

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/internal/app/storage/memory"
	"github.com/campuslink/platform/pkg/logger"
)

func quiet() *logger.Logger {
	log := logger.NewDefault("banners-test")
	log.SetOutput(io.Discard)
	return log
}

func TestBannerLifecycle(t *testing.T) {
	svc := New(memory.New(), quiet())
	ctx := context.Background()

	b, err := svc.Create(ctx, "Welcome Week", "https://cdn.campus.edu/welcome.png", "")
	require.NoError(t, err)
	require.Equal(t, int64(1), b.Identifier)
	require.True(t, b.Active)

	_, err = svc.Create(ctx, "", "https://cdn.campus.edu/x.png", "")
	require.Error(t, err, "empty title must be rejected")
	_, err = svc.Create(ctx, "No Image", "", "")
	require.Error(t, err, "empty image url must be rejected")

	inactive := false
	b, err = svc.Update(ctx, 1, nil, nil, nil, &inactive)
	require.NoError(t, err)
	require.False(t, b.Active)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Empty(t, active)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, 1))
	_, err = svc.Get(ctx, 1)
	require.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestBannerIdentifierReuse(t *testing.T) {
	svc := New(memory.New(), quiet())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "Banner", "https://cdn.campus.edu/b.png", "")
		require.NoError(t, err)
	}
	require.NoError(t, svc.Delete(ctx, 2))

	b, err := svc.Create(ctx, "Banner", "https://cdn.campus.edu/b.png", "")
	require.NoError(t, err)
	require.Equal(t, int64(2), b.Identifier, "freed identifier is reused")
}
