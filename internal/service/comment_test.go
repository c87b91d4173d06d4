package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/clipstream/clipstream-server/internal/errors"
	"github.com/clipstream/clipstream-server/internal/service"
)

func TestAddComment(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	userID := registerUser(t, env, "alice", "alice@example.com")
	videoID := uploadVideo(t, env, userID, "Commented")

	comment, err := env.Comments.Add(ctx, userID, videoID, service.AddCommentRequest{
		Text: "Nice clip!",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(comment.ID, "cmt-"))
	assert.Equal(t, videoID, comment.VideoID)

	// The denormalized counter tracks the stored rows.
	detail, err := env.Videos.GetDetail(ctx, videoID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.CommentCount)
}

func TestAddCommentUnknownVideo(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	userID := registerUser(t, env, "alice", "alice@example.com")

	_, err := env.Comments.Add(ctx, userID, "vid-missing", service.AddCommentRequest{Text: "hello"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAddCommentValidation(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	userID := registerUser(t, env, "alice", "alice@example.com")
	videoID := uploadVideo(t, env, userID, "Commented")

	_, err := env.Comments.Add(ctx, userID, videoID, service.AddCommentRequest{Text: ""})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.Comments.Add(ctx, userID, videoID, service.AddCommentRequest{
		Text: strings.Repeat("x", 1001),
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestListComments(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	aliceID := registerUser(t, env, "alice", "alice@example.com")
	bobID := registerUser(t, env, "bob", "bob@example.com")
	videoID := uploadVideo(t, env, aliceID, "Discussed")

	for i, c := range []struct {
		userID string
		text   string
	}{
		{aliceID, "first"},
		{bobID, "second"},
		{aliceID, "third"},
	} {
		_, err := env.Comments.Add(ctx, c.userID, videoID, service.AddCommentRequest{Text: c.text})
		require.NoError(t, err, "comment %d", i)
		time.Sleep(time.Millisecond)
	}

	comments, err := env.Comments.List(ctx, videoID, 10)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	// Newest first, each with its author's profile.
	assert.Equal(t, "third", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "first", comments[2].Text)
	require.NotNil(t, comments[1].Author)
	assert.Equal(t, "bob", comments[1].Author.Username)
}

func TestListCommentsUnknownVideo(t *testing.T) {
	env := setupServices(t)

	_, err := env.Comments.List(context.Background(), "vid-missing", 10)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
