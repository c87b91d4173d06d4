package api

import (
	"github.com/clipstream/clipstream-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	Video   *service.VideoService
	Comment *service.CommentService
	Social  *service.SocialService
}
