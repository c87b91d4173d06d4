package api

import (
	"context"
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/clipstream/clipstream-server/internal/http/response"
	"github.com/clipstream/clipstream-server/internal/service"
)

func (s *Server) registerVideoRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listVideos",
		Method:      http.MethodGet,
		Path:        "/api/v1/videos",
		Summary:     "List videos",
		Description: "Returns the global feed of videos, newest first, with cursor pagination",
		Tags:        []string{"Videos"},
	}, s.handleListVideos)

	// Alias kept for clients that consume the original feed path.
	huma.Register(s.api, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed",
		Summary:     "Get feed",
		Description: "Alias of listVideos: the chronological feed, newest first",
		Tags:        []string{"Videos"},
	}, s.handleListVideos)

	huma.Register(s.api, huma.Operation{
		OperationID: "getVideo",
		Method:      http.MethodGet,
		Path:        "/api/v1/videos/{id}",
		Summary:     "Get video",
		Description: "Returns a video with its channel info. Each fetch counts as one view.",
		Tags:        []string{"Videos"},
	}, s.handleGetVideo)
}

// === DTOs ===

// FeedInput contains feed pagination parameters.
type FeedInput struct {
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Videos per page (default 20)"`
	Cursor string `query:"cursor" validate:"omitempty,max=200" doc:"Opaque cursor from a previous page"`
}

// FeedResponse contains a page of the video feed.
type FeedResponse struct {
	Items      []service.VideoDetail `json:"items" doc:"Videos, newest first"`
	NextCursor string                `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool                  `json:"has_more" doc:"Whether more pages exist"`
}

// FeedOutput wraps the feed response for Huma.
type FeedOutput struct {
	Body FeedResponse
}

// GetVideoInput contains the video ID path parameter.
type GetVideoInput struct {
	ID string `path:"id" validate:"required,max=64" doc:"Video ID"`
}

// VideoOutput wraps a single video for Huma.
type VideoOutput struct {
	Body service.VideoDetail
}

// === Handlers ===

func (s *Server) handleListVideos(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	feed, err := s.services.Video.ListFeed(ctx, input.Limit, input.Cursor)
	if err != nil {
		return nil, err
	}

	return &FeedOutput{
		Body: FeedResponse{
			Items:      feed.Items,
			NextCursor: feed.NextCursor,
			HasMore:    feed.HasMore,
		},
	}, nil
}

func (s *Server) handleGetVideo(ctx context.Context, input *GetVideoInput) (*VideoOutput, error) {
	detail, err := s.services.Video.GetDetail(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &VideoOutput{Body: *detail}, nil
}

// handleUploadVideo handles multipart video uploads.
// POST /api/v1/videos
// Content-Type: multipart/form-data with "file", optional "thumbnail",
// and metadata fields (title, description, tags).
// This is a chi handler (not Huma) because Huma doesn't easily support
// multipart forms.
func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	if userID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	maxBytes := s.uploadLimits.MaxVideoBytes + s.uploadLimits.MaxThumbnailBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		response.PayloadTooLarge(w, "Upload too large or malformed form data", s.logger)
		return
	}

	req := service.UploadRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Tags:        r.FormValue("tags"),
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No video uploaded. Use 'file' field in multipart form", s.logger)
		return
	}
	defer file.Close()

	if header.Size > s.uploadLimits.MaxVideoBytes {
		response.PayloadTooLarge(w, "Video file too large", s.logger)
		return
	}

	req.FileName = header.Filename
	req.FileData, err = io.ReadAll(file)
	if err != nil {
		s.logger.Error("Failed to read uploaded video", "error", err, "user_id", userID)
		response.InternalError(w, "Failed to read uploaded file", s.logger)
		return
	}

	// Thumbnail is optional.
	if thumb, thumbHeader, thumbErr := r.FormFile("thumbnail"); thumbErr == nil {
		defer thumb.Close()

		if thumbHeader.Size > s.uploadLimits.MaxThumbnailBytes {
			response.PayloadTooLarge(w, "Thumbnail too large", s.logger)
			return
		}

		req.ThumbnailName = thumbHeader.Filename
		req.ThumbnailData, err = io.ReadAll(thumb)
		if err != nil {
			s.logger.Error("Failed to read uploaded thumbnail", "error", err, "user_id", userID)
			response.InternalError(w, "Failed to read uploaded thumbnail", s.logger)
			return
		}
	}

	video, err := s.services.Video.Upload(ctx, userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, video, s.logger)
}
