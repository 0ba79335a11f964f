package notifications

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuslink/platform/internal/app/domain/notification"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/internal/app/storage/memory"
	"github.com/campuslink/platform/pkg/logger"
)

func quiet() *logger.Logger {
	log := logger.NewDefault("notifications-test")
	log.SetOutput(io.Discard)
	return log
}

func TestAnnounce(t *testing.T) {
	store := memory.New()
	svc := New(store, quiet())
	ctx := context.Background()

	n, err := svc.Announce(ctx, "", "  maintenance window tonight  ", 0, "")
	require.NoError(t, err)
	require.Equal(t, notification.CategorySystem, n.Category)
	require.Equal(t, "maintenance window tonight", n.Message)
	require.NotEmpty(t, n.ID)

	_, err = svc.Announce(ctx, notification.CategorySystem, "   ", 0, "")
	require.Error(t, err)

	all, err := svc.List(ctx, notification.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestListAndMarkRead(t *testing.T) {
	store := memory.New()
	svc := New(store, quiet())
	ctx := context.Background()

	for _, n := range []notification.Notification{
		{Category: notification.CategoryLoan, Message: "loan pending", UserIdentifier: 1},
		{Category: notification.CategoryOrder, Message: "order shipped", UserIdentifier: 1},
		{Category: notification.CategoryLoan, Message: "loan approved", UserIdentifier: 2},
	} {
		_, err := store.CreateNotification(ctx, n)
		require.NoError(t, err)
	}

	loans, err := svc.List(ctx, notification.Filter{Category: notification.CategoryLoan})
	require.NoError(t, err)
	require.Len(t, loans, 2)

	mine, err := svc.List(ctx, notification.Filter{UserIdentifier: 1})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	read, err := svc.MarkRead(ctx, mine[0].ID)
	require.NoError(t, err)
	require.True(t, read.Read)

	unread, err := svc.List(ctx, notification.Filter{UserIdentifier: 1, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)

	_, err = svc.MarkRead(ctx, "missing-id")
	require.True(t, errors.Is(err, storage.ErrNotFound))
}
