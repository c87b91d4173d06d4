package service_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clipstream/clipstream-server/internal/auth"
	"github.com/clipstream/clipstream-server/internal/media"
	"github.com/clipstream/clipstream-server/internal/search"
	"github.com/clipstream/clipstream-server/internal/service"
	"github.com/clipstream/clipstream-server/internal/store"
)

// testEnv wires the full service layer over a throwaway store, uploads
// directory and search index.
type testEnv struct {
	Store    *store.Store
	Auth     *service.AuthService
	Videos   *service.VideoService
	Comments *service.CommentService
	Social   *service.SocialService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()

	s, err := store.New(filepath.Join(root, "data"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	storage, err := media.NewStorage(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	index, err := search.NewIndex(search.Options{DataPath: filepath.Join(root, "search")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	s.SetSearchIndexer(index)

	key := bytes.Repeat([]byte{0x42}, 32)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	return &testEnv{
		Store:    s,
		Auth:     service.NewAuthService(s, tokens, nil),
		Videos:   service.NewVideoService(s, storage, index, nil),
		Comments: service.NewCommentService(s, nil),
		Social:   service.NewSocialService(s, nil),
	}
}

func registerUser(t *testing.T, env *testEnv, username, email string) string {
	t.Helper()

	resp, err := env.Auth.Register(context.Background(), service.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.User.ID)
	return resp.User.ID
}

func uploadVideo(t *testing.T, env *testEnv, userID, title string) string {
	t.Helper()

	video, err := env.Videos.Upload(context.Background(), userID, service.UploadRequest{
		Title:    title,
		FileName: "clip.mp4",
		FileData: []byte("not really mpeg4"),
	})
	require.NoError(t, err)

	// Timestamp index keys have nanosecond precision; keep uploads from
	// the same test strictly ordered.
	time.Sleep(time.Millisecond)
	return video.ID
}

// testPNG renders a small solid-color PNG for thumbnail tests.
func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
