package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clipstream/clipstream-server/internal/domain"
	"github.com/clipstream/clipstream-server/internal/store"
)

func TestStore_ToggleLike(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, s, "ivan", "ivan@example.com")
	viewer := newTestUser(t, s, "judy", "judy@example.com")
	video := newTestVideo(t, s, owner.ID, "Toggled")

	t.Run("missing video is not found", func(t *testing.T) {
		_, err := s.ToggleLike(ctx, "vid-missing", viewer.ID, domain.ReactionLike)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		_, err := s.ToggleLike(ctx, video.ID, viewer.ID, 7)
		require.ErrorIs(t, err, store.ErrInvalidInput)
	})

	t.Run("first like inserts a row", func(t *testing.T) {
		likes, err := s.ToggleLike(ctx, video.ID, viewer.ID, domain.ReactionLike)
		require.NoError(t, err)
		require.Equal(t, int64(1), likes)

		like, err := s.GetLike(ctx, video.ID, viewer.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ReactionLike, like.Value)
	})

	t.Run("same value again removes the row", func(t *testing.T) {
		likes, err := s.ToggleLike(ctx, video.ID, viewer.ID, domain.ReactionLike)
		require.NoError(t, err)
		require.Equal(t, int64(0), likes)

		_, err = s.GetLike(ctx, video.ID, viewer.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("different value updates in place", func(t *testing.T) {
		likes, err := s.ToggleLike(ctx, video.ID, viewer.ID, domain.ReactionLike)
		require.NoError(t, err)
		require.Equal(t, int64(1), likes)

		likes, err = s.ToggleLike(ctx, video.ID, viewer.ID, domain.ReactionDislike)
		require.NoError(t, err)
		require.Equal(t, int64(0), likes, "dislikes never count toward likes")

		like, err := s.GetLike(ctx, video.ID, viewer.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ReactionDislike, like.Value)
	})

	t.Run("count persisted on the video", func(t *testing.T) {
		likes, err := s.ToggleLike(ctx, video.ID, owner.ID, domain.ReactionLike)
		require.NoError(t, err)
		require.Equal(t, int64(1), likes)

		got, err := s.GetVideo(ctx, video.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), got.Likes)
	})
}

func TestStore_CountLikes_MatchesRows(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, s, "mallory", "mallory@example.com")
	video := newTestVideo(t, s, owner.ID, "Popular")

	users := []*domain.User{
		newTestUser(t, s, "fan1", "fan1@example.com"),
		newTestUser(t, s, "fan2", "fan2@example.com"),
		newTestUser(t, s, "fan3", "fan3@example.com"),
	}

	for _, u := range users {
		_, err := s.ToggleLike(ctx, video.ID, u.ID, domain.ReactionLike)
		require.NoError(t, err)
	}
	// One of them dislikes instead.
	_, err := s.ToggleLike(ctx, video.ID, users[2].ID, domain.ReactionDislike)
	require.NoError(t, err)

	count, err := s.CountLikes(ctx, video.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	// The denormalized counter always equals the fresh recount.
	got, err := s.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	require.Equal(t, count, got.Likes)
}
