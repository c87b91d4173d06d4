package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipstream/clipstream-server/internal/domain"
	domainerrors "github.com/clipstream/clipstream-server/internal/errors"
	"github.com/clipstream/clipstream-server/internal/service"
)

func TestToggleLike(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	aliceID := registerUser(t, env, "alice", "alice@example.com")
	bobID := registerUser(t, env, "bob", "bob@example.com")
	videoID := uploadVideo(t, env, aliceID, "Liked")

	// Like, then like again to remove, then like once more.
	res, err := env.Social.ToggleLike(ctx, bobID, videoID, domain.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LikesCount)

	res, err = env.Social.ToggleLike(ctx, bobID, videoID, domain.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.LikesCount)

	res, err = env.Social.ToggleLike(ctx, bobID, videoID, domain.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LikesCount)

	// A dislike replaces the like and drops it from the count.
	res, err = env.Social.ToggleLike(ctx, bobID, videoID, domain.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.LikesCount)
}

func TestToggleLikeErrors(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	aliceID := registerUser(t, env, "alice", "alice@example.com")
	videoID := uploadVideo(t, env, aliceID, "Liked")

	_, err := env.Social.ToggleLike(ctx, aliceID, "vid-missing", domain.ReactionLike)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = env.Social.ToggleLike(ctx, aliceID, videoID, 7)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestToggleSubscription(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	aliceID := registerUser(t, env, "alice", "alice@example.com")
	bobID := registerUser(t, env, "bob", "bob@example.com")

	res, err := env.Social.ToggleSubscription(ctx, bobID, aliceID)
	require.NoError(t, err)
	assert.True(t, res.Subscribed)
	assert.Equal(t, int64(1), res.SubscriberCount)

	res, err = env.Social.ToggleSubscription(ctx, bobID, aliceID)
	require.NoError(t, err)
	assert.False(t, res.Subscribed)
	assert.Equal(t, int64(0), res.SubscriberCount)
}

// Self-subscription is rejected no matter the current state.
func TestSubscribeToOwnChannel(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	aliceID := registerUser(t, env, "alice", "alice@example.com")

	for i := 0; i < 2; i++ {
		_, err := env.Social.ToggleSubscription(ctx, aliceID, aliceID)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	}
}

func TestToggleSubscriptionUnknownChannel(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	bobID := registerUser(t, env, "bob", "bob@example.com")

	_, err := env.Social.ToggleSubscription(ctx, bobID, "usr-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestGetChannel(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	aliceID := registerUser(t, env, "alice", "alice@example.com")
	bobID := registerUser(t, env, "bob", "bob@example.com")

	uploadVideo(t, env, aliceID, "Older")
	uploadVideo(t, env, aliceID, "Newer")

	_, err := env.Social.ToggleSubscription(ctx, bobID, aliceID)
	require.NoError(t, err)

	channel, err := env.Social.GetChannel(ctx, aliceID, bobID)
	require.NoError(t, err)
	assert.Equal(t, "alice", channel.Username)
	assert.Equal(t, int64(1), channel.SubscriberCount)
	assert.True(t, channel.IsSubscribed)
	require.Len(t, channel.Videos, 2)
	assert.Equal(t, "Newer", channel.Videos[0].Title)

	// Anonymous viewers see the same page without subscription state.
	channel, err = env.Social.GetChannel(ctx, aliceID, "")
	require.NoError(t, err)
	assert.False(t, channel.IsSubscribed)

	_, err = env.Social.GetChannel(ctx, "usr-missing", bobID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

// Walks the happy path across every service the way two users would.
func TestSocialScenario(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	aliceID := registerUser(t, env, "alice", "alice@example.com")
	bobID := registerUser(t, env, "bob", "bob@example.com")

	videoID := uploadVideo(t, env, aliceID, "Alice's debut")

	// Bob finds the video in the feed.
	feed, err := env.Videos.ListFeed(ctx, 10, "")
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, videoID, feed.Items[0].ID)

	// Watches it, likes it, comments, subscribes.
	detail, err := env.Videos.GetDetail(ctx, videoID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Views)

	like, err := env.Social.ToggleLike(ctx, bobID, videoID, domain.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), like.LikesCount)

	_, err = env.Comments.Add(ctx, bobID, videoID, service.AddCommentRequest{Text: "More please"})
	require.NoError(t, err)

	sub, err := env.Social.ToggleSubscription(ctx, bobID, aliceID)
	require.NoError(t, err)
	assert.True(t, sub.Subscribed)

	// Alice's channel page reflects all of it.
	channel, err := env.Social.GetChannel(ctx, aliceID, bobID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), channel.SubscriberCount)
	assert.True(t, channel.IsSubscribed)
	require.Len(t, channel.Videos, 1)
	assert.Equal(t, int64(1), channel.Videos[0].Likes)
	assert.Equal(t, int64(1), channel.Videos[0].CommentCount)
}
