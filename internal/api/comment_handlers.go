package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/clipstream/clipstream-server/internal/domain"
	"github.com/clipstream/clipstream-server/internal/service"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addComment",
		Method:        http.MethodPost,
		Path:          "/api/v1/videos/{id}/comments",
		Summary:       "Add comment",
		Description:   "Posts a comment on a video. Comments are immutable.",
		Tags:          []string{"Comments"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/videos/{id}/comments",
		Summary:     "List comments",
		Description: "Returns a video's comments, newest first, with author profiles",
		Tags:        []string{"Comments"},
	}, s.handleListComments)
}

// === DTOs ===

// AddCommentInput wraps the comment request for Huma.
type AddCommentInput struct {
	ID   string `path:"id" validate:"required,max=64" doc:"Video ID"`
	Body struct {
		Text string `json:"text" validate:"required,min=1,max=1000" doc:"Comment text"`
	}
}

// CommentOutput wraps a created comment for Huma.
type CommentOutput struct {
	Body domain.Comment
}

// ListCommentsInput contains comment listing parameters.
type ListCommentsInput struct {
	ID    string `path:"id" validate:"required,max=64" doc:"Video ID"`
	Limit int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Comments to return (default 50)"`
}

// CommentListResponse contains a video's comments.
type CommentListResponse struct {
	Comments []service.CommentWithAuthor `json:"comments" doc:"Comments, newest first"`
}

// CommentListOutput wraps the comment list for Huma.
type CommentListOutput struct {
	Body CommentListResponse
}

// === Handlers ===

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*CommentOutput, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Comment.Add(ctx, userID, input.ID, service.AddCommentRequest{
		Text: input.Body.Text,
	})
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: *comment}, nil
}

func (s *Server) handleListComments(ctx context.Context, input *ListCommentsInput) (*CommentListOutput, error) {
	comments, err := s.services.Comment.List(ctx, input.ID, input.Limit)
	if err != nil {
		return nil, err
	}

	return &CommentListOutput{Body: CommentListResponse{Comments: comments}}, nil
}
