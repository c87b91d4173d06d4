package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipstream/clipstream-server/internal/service"
)

func TestToggleLikeEndpoint(t *testing.T) {
	server := setupTestServer(t)

	aliceID, _ := registerTestUser(t, server, "alice", "alice@example.com")
	bobID, _ := registerTestUser(t, server, "bob", "bob@example.com")
	videoID := uploadTestVideo(t, server, aliceID, "Liked")

	headers := map[string]string{"X-User-Id": bobID}
	path := "/api/v1/videos/" + videoID + "/like"

	w := doJSON(t, server, http.MethodPost, path, headers, map[string]any{})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, int64(1), decode[service.LikeResult](t, w).Data.LikesCount)

	// Same reaction again removes it.
	w = doJSON(t, server, http.MethodPost, path, headers, map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[service.LikeResult](t, w).Data.LikesCount)

	// Anonymous likes are rejected.
	w = doJSON(t, server, http.MethodPost, path, nil, map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown video is a 404.
	w = doJSON(t, server, http.MethodPost, "/api/v1/videos/vid-missing/like", headers, map[string]any{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleSubscriptionEndpoint(t *testing.T) {
	server := setupTestServer(t)

	aliceID, _ := registerTestUser(t, server, "alice", "alice@example.com")
	bobID, _ := registerTestUser(t, server, "bob", "bob@example.com")

	headers := map[string]string{"X-User-Id": bobID}
	path := "/api/v1/channels/" + aliceID + "/subscribe"

	w := doJSON(t, server, http.MethodPost, path, headers, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	result := decode[service.SubscribeResult](t, w)
	assert.True(t, result.Data.Subscribed)
	assert.Equal(t, int64(1), result.Data.SubscriberCount)

	w = doJSON(t, server, http.MethodPost, path, headers, nil)
	require.Equal(t, http.StatusOK, w.Code)
	result = decode[service.SubscribeResult](t, w)
	assert.False(t, result.Data.Subscribed)
	assert.Equal(t, int64(0), result.Data.SubscriberCount)

	// Self-subscription always fails.
	w = doJSON(t, server, http.MethodPost, path, map[string]string{"X-User-Id": aliceID}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetChannelEndpoint(t *testing.T) {
	server := setupTestServer(t)

	aliceID, _ := registerTestUser(t, server, "alice", "alice@example.com")
	bobID, _ := registerTestUser(t, server, "bob", "bob@example.com")
	uploadTestVideo(t, server, aliceID, "Channel clip")

	w := doJSON(t, server, http.MethodPost, "/api/v1/channels/"+aliceID+"/subscribe",
		map[string]string{"X-User-Id": bobID}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Subscribed viewer.
	w = doJSON(t, server, http.MethodGet, "/api/v1/channels/"+aliceID,
		map[string]string{"X-User-Id": bobID}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	channel := decode[service.ChannelProfile](t, w)
	assert.Equal(t, "alice", channel.Data.Username)
	assert.Equal(t, int64(1), channel.Data.SubscriberCount)
	assert.True(t, channel.Data.IsSubscribed)
	require.Len(t, channel.Data.Videos, 1)

	// Anonymous viewer.
	w = doJSON(t, server, http.MethodGet, "/api/v1/channels/"+aliceID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[service.ChannelProfile](t, w).Data.IsSubscribed)

	// Unknown channel.
	w = doJSON(t, server, http.MethodGet, "/api/v1/channels/usr-missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentEndpoints(t *testing.T) {
	server := setupTestServer(t)

	aliceID, _ := registerTestUser(t, server, "alice", "alice@example.com")
	bobID, _ := registerTestUser(t, server, "bob", "bob@example.com")
	videoID := uploadTestVideo(t, server, aliceID, "Discussed")

	path := "/api/v1/videos/" + videoID + "/comments"

	w := doJSON(t, server, http.MethodPost, path, map[string]string{"X-User-Id": bobID},
		map[string]any{"text": "Nice clip!"})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	// Anonymous comments are rejected.
	w = doJSON(t, server, http.MethodPost, path, nil, map[string]any{"text": "anon"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Listing is public and joins author profiles.
	w = doJSON(t, server, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[CommentListResponse](t, w)
	require.Len(t, list.Data.Comments, 1)
	assert.Equal(t, "Nice clip!", list.Data.Comments[0].Text)
	require.NotNil(t, list.Data.Comments[0].Author)
	assert.Equal(t, "bob", list.Data.Comments[0].Author.Username)

	// Comments on unknown videos 404.
	w = doJSON(t, server, http.MethodPost, "/api/v1/videos/vid-missing/comments",
		map[string]string{"X-User-Id": bobID}, map[string]any{"text": "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Walks two users through the whole API surface end to end.
func TestEndToEndScenario(t *testing.T) {
	server := setupTestServer(t)

	aliceID, _ := registerTestUser(t, server, "alice", "alice@example.com")
	bobID, bobToken := registerTestUser(t, server, "bob", "bob@example.com")

	videoID := uploadTestVideo(t, server, aliceID, "Alice's debut")

	// Bob finds it in the feed.
	w := doJSON(t, server, http.MethodGet, "/api/v1/videos", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[FeedResponse](t, w)
	require.Len(t, feed.Data.Items, 1)
	assert.Equal(t, videoID, feed.Data.Items[0].ID)

	// Watches it.
	w = doJSON(t, server, http.MethodGet, "/api/v1/videos/"+videoID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[service.VideoDetail](t, w).Data.Views)

	// Likes it with his bearer token.
	bearer := map[string]string{"Authorization": "Bearer " + bobToken}
	w = doJSON(t, server, http.MethodPost, "/api/v1/videos/"+videoID+"/like", bearer, map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[service.LikeResult](t, w).Data.LikesCount)

	// Comments and subscribes.
	w = doJSON(t, server, http.MethodPost, "/api/v1/videos/"+videoID+"/comments", bearer,
		map[string]any{"text": "More please"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, server, http.MethodPost, "/api/v1/channels/"+aliceID+"/subscribe", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Alice's channel page reflects all of it.
	w = doJSON(t, server, http.MethodGet, "/api/v1/channels/"+aliceID,
		map[string]string{"X-User-Id": bobID}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	channel := decode[service.ChannelProfile](t, w)
	assert.Equal(t, int64(1), channel.Data.SubscriberCount)
	assert.True(t, channel.Data.IsSubscribed)
	require.Len(t, channel.Data.Videos, 1)
	assert.Equal(t, int64(1), channel.Data.Videos[0].Likes)
	assert.Equal(t, int64(1), channel.Data.Videos[0].CommentCount)
}
