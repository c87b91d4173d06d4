package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clipstream/clipstream-server/internal/store"
)

func TestStore_ToggleSubscription(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	channel := newTestUser(t, s, "creator", "creator@example.com")
	fan := newTestUser(t, s, "fan", "fan@example.com")

	t.Run("self subscription rejected", func(t *testing.T) {
		_, _, err := s.ToggleSubscription(ctx, channel.ID, channel.ID)
		require.ErrorIs(t, err, store.ErrInvalidInput)
	})

	t.Run("missing channel is not found", func(t *testing.T) {
		_, _, err := s.ToggleSubscription(ctx, "usr-missing", fan.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("first call subscribes", func(t *testing.T) {
		count, subscribed, err := s.ToggleSubscription(ctx, channel.ID, fan.ID)
		require.NoError(t, err)
		require.True(t, subscribed)
		require.Equal(t, int64(1), count)

		is, err := s.IsSubscribed(ctx, channel.ID, fan.ID)
		require.NoError(t, err)
		require.True(t, is)
	})

	t.Run("count persisted on the channel user", func(t *testing.T) {
		got, err := s.Users.Get(ctx, channel.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), got.SubscriberCount)
	})

	t.Run("second call unsubscribes", func(t *testing.T) {
		count, subscribed, err := s.ToggleSubscription(ctx, channel.ID, fan.ID)
		require.NoError(t, err)
		require.False(t, subscribed)
		require.Equal(t, int64(0), count)

		is, err := s.IsSubscribed(ctx, channel.ID, fan.ID)
		require.NoError(t, err)
		require.False(t, is)

		got, err := s.Users.Get(ctx, channel.ID)
		require.NoError(t, err)
		require.Equal(t, int64(0), got.SubscriberCount)
	})
}

func TestStore_CountSubscribers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	channel := newTestUser(t, s, "streamer", "streamer@example.com")
	fans := []string{}
	for _, name := range []string{"s1", "s2", "s3"} {
		u := newTestUser(t, s, name, name+"@example.com")
		fans = append(fans, u.ID)
	}

	for _, fanID := range fans {
		_, _, err := s.ToggleSubscription(ctx, channel.ID, fanID)
		require.NoError(t, err)
	}

	count, err := s.CountSubscribers(ctx, channel.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	// One unsubscribes.
	_, _, err = s.ToggleSubscription(ctx, channel.ID, fans[0])
	require.NoError(t, err)

	count, err = s.CountSubscribers(ctx, channel.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}
