package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clipstream/clipstream-server/internal/domain"
	domainerrors "github.com/clipstream/clipstream-server/internal/errors"
	"github.com/clipstream/clipstream-server/internal/id"
	"github.com/clipstream/clipstream-server/internal/store"
)

// CommentService handles comment creation and listing.
type CommentService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(store *store.Store, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:  store,
		logger: logger,
	}
}

// AddCommentRequest contains a new comment's text.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

// CommentWithAuthor is a comment joined with its author's public profile.
// Author is null when the author no longer resolves.
type CommentWithAuthor struct {
	domain.Comment
	Author *domain.Profile `json:"author"`
}

// Add creates a comment on a video. Comments are immutable once created.
func (s *CommentService) Add(ctx context.Context, userID, videoID string, req AddCommentRequest) (*domain.Comment, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	commentID, err := id.Generate("cmt")
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	comment := &domain.Comment{
		VideoID: videoID,
		UserID:  userID,
		Text:    req.Text,
	}
	comment.ID = commentID
	comment.InitTimestamps()

	if err := s.store.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("video not found")
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Comment added", "comment_id", commentID, "video_id", videoID, "user_id", userID)
	}

	return comment, nil
}

// List returns a video's comments newest first, each joined with its
// author's profile.
func (s *CommentService) List(ctx context.Context, videoID string, limit int) ([]CommentWithAuthor, error) {
	if _, err := s.store.GetVideo(ctx, videoID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("video not found")
		}
		return nil, fmt.Errorf("get video: %w", err)
	}

	comments, err := s.store.ListVideoComments(ctx, videoID, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	profiles := make(map[string]*domain.Profile, len(comments))
	result := make([]CommentWithAuthor, 0, len(comments))
	for _, comment := range comments {
		profile, ok := profiles[comment.UserID]
		if !ok {
			if user, err := s.store.Users.Get(ctx, comment.UserID); err == nil {
				p := user.Profile()
				profile = &p
			}
			profiles[comment.UserID] = profile
		}
		result = append(result, CommentWithAuthor{Comment: *comment, Author: profile})
	}

	return result, nil
}
