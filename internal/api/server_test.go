package api

import (
	"bytes"
	"encoding/json/v2"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipstream/clipstream-server/internal/auth"
	"github.com/clipstream/clipstream-server/internal/config"
	"github.com/clipstream/clipstream-server/internal/media"
	"github.com/clipstream/clipstream-server/internal/search"
	"github.com/clipstream/clipstream-server/internal/service"
	"github.com/clipstream/clipstream-server/internal/store"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// setupTestServer creates a test server with all dependencies.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(filepath.Join(tmpDir, "data"), logger)
	require.NoError(t, err)

	storage, err := media.NewStorage(filepath.Join(tmpDir, "uploads"))
	require.NoError(t, err)

	index, err := search.NewIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search"),
		Logger:   logger,
	})
	require.NoError(t, err)
	st.SetSearchIndexer(index)

	key := bytes.Repeat([]byte{0x24}, 32)
	tokenService, err := auth.NewTokenService(key, 15*time.Minute)
	require.NoError(t, err)

	services := &Services{
		Auth:    service.NewAuthService(st, tokenService, logger),
		Video:   service.NewVideoService(st, storage, index, logger),
		Comment: service.NewCommentService(st, logger),
		Social:  service.NewSocialService(st, logger),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Name: "ClipStream Test"},
		Upload: config.UploadConfig{
			MaxVideoBytes:     64 << 20,
			MaxThumbnailBytes: 10 << 20,
		},
	}

	server := NewServer(st, services, storage, cfg, logger)

	t.Cleanup(func() {
		server.Close()
		_ = index.Close()
		_ = st.Close()
	})

	return server
}

// doJSON performs a JSON request against the test server.
func doJSON(t *testing.T, server *Server, method, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded envelope body.
func decode[T any](t *testing.T, w *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()

	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope),
		"body: %s", w.Body.String())
	return envelope
}

// registerTestUser registers a user and returns its ID and access token.
func registerTestUser(t *testing.T, server *Server, username, email string) (userID, token string) {
	t.Helper()

	w := doJSON(t, server, http.MethodPost, "/api/v1/auth/register", nil, map[string]any{
		"username": username,
		"email":    email,
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	envelope := decode[AuthResponse](t, w)
	require.True(t, envelope.Success)
	return envelope.Data.User.ID, envelope.Data.AccessToken
}

// uploadTestVideo uploads a minimal video as the given user.
func uploadTestVideo(t *testing.T, server *Server, userID, title string) string {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", title))
	part, err := form.CreateFormFile("file", "clip.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really mpeg4"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("X-User-Id", userID)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	// Keep uploads from the same test strictly ordered in the feed.
	time.Sleep(time.Millisecond)
	return envelope.Data.ID
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	envelope := decode[HealthResponse](t, w)
	assert.True(t, envelope.Success)
	assert.Contains(t, []string{"healthy", "degraded"}, envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
	assert.Equal(t, "healthy", envelope.Data.Components["storage"].Status)
}

func TestStaticServesUploadedFile(t *testing.T) {
	server := setupTestServer(t)

	userID, _ := registerTestUser(t, server, "alice", "alice@example.com")
	videoID := uploadTestVideo(t, server, userID, "Served")

	w := doJSON(t, server, http.MethodGet, "/api/v1/videos/"+videoID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decode[service.VideoDetail](t, w)

	fileResp := doJSON(t, server, http.MethodGet, envelope.Data.VideoURL, nil, nil)
	assert.Equal(t, http.StatusOK, fileResp.Code)
	assert.Equal(t, "not really mpeg4", fileResp.Body.String())
}

func TestUnknownRouteReturns404Envelope(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/api/v1/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
