package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clipstream/clipstream-server/internal/domain"
	domainerrors "github.com/clipstream/clipstream-server/internal/errors"
	"github.com/clipstream/clipstream-server/internal/id"
	"github.com/clipstream/clipstream-server/internal/media"
	"github.com/clipstream/clipstream-server/internal/search"
	"github.com/clipstream/clipstream-server/internal/store"
	"github.com/clipstream/clipstream-server/internal/util"
)

// VideoService handles upload, detail reads and feed listing.
type VideoService struct {
	store   *store.Store
	storage *media.Storage
	index   *search.Index
	logger  *slog.Logger
}

// NewVideoService creates a new video service.
func NewVideoService(store *store.Store, storage *media.Storage, index *search.Index, logger *slog.Logger) *VideoService {
	return &VideoService{
		store:   store,
		storage: storage,
		index:   index,
		logger:  logger,
	}
}

// UploadRequest contains the parsed multipart upload.
type UploadRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Tags        string `json:"tags" validate:"max=500"` // Comma-separated

	FileName string `json:"-"`
	FileData []byte `json:"-"`

	ThumbnailName string `json:"-"`
	ThumbnailData []byte `json:"-"`
}

// VideoDetail is a video joined with its owning channel's public profile.
// Channel is null when the owner no longer resolves.
type VideoDetail struct {
	domain.Video
	Channel *domain.Profile `json:"channel"`
}

// Upload persists the payloads and creates the video document. If the
// metadata insert fails after the files were written, the files are
// removed again so no orphans accumulate.
func (s *VideoService) Upload(ctx context.Context, userID string, req UploadRequest) (*domain.Video, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if len(req.FileData) == 0 {
		return nil, domainerrors.Validation("file is required")
	}

	savedVideo, err := s.storage.Save(media.CategoryVideo, req.FileName, req.FileData)
	if err != nil {
		return nil, fmt.Errorf("save video file: %w", err)
	}

	var (
		savedThumb *media.SavedFile
		blurHash   string
	)
	if len(req.ThumbnailData) > 0 {
		savedThumb, err = s.storage.Save(media.CategoryThumbnail, req.ThumbnailName, req.ThumbnailData)
		if err != nil {
			s.cleanupUpload(savedVideo, nil)
			return nil, fmt.Errorf("save thumbnail file: %w", err)
		}

		// A thumbnail that doesn't decode still gets stored; it just has
		// no placeholder.
		if hash, hashErr := media.ComputeBlurHash(req.ThumbnailData); hashErr == nil {
			blurHash = hash
		} else if s.logger != nil {
			s.logger.Debug("thumbnail blurhash skipped", "error", hashErr)
		}
	}

	videoID, err := id.Generate("vid")
	if err != nil {
		s.cleanupUpload(savedVideo, savedThumb)
		return nil, fmt.Errorf("generate video ID: %w", err)
	}

	video := &domain.Video{
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		Tags:              parseTags(req.Tags),
		VideoURL:          savedVideo.URL,
		ThumbnailBlurHash: blurHash,
	}
	video.ID = videoID
	video.InitTimestamps()
	if savedThumb != nil {
		video.ThumbnailURL = savedThumb.URL
	}

	if err := s.store.CreateVideo(ctx, video); err != nil {
		s.cleanupUpload(savedVideo, savedThumb)
		return nil, fmt.Errorf("create video: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Video uploaded",
			"video_id", videoID,
			"user_id", userID,
			"size_bytes", len(req.FileData),
		)
	}

	return video, nil
}

// GetDetail returns a video joined with its owner's profile. Each call
// increments the view count by one before the join.
func (s *VideoService) GetDetail(ctx context.Context, videoID string) (*VideoDetail, error) {
	video, err := s.store.IncrementViews(ctx, videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("video not found")
		}
		return nil, fmt.Errorf("get video: %w", err)
	}

	return &VideoDetail{
		Video:   *video,
		Channel: s.lookupProfile(ctx, video.UserID),
	}, nil
}

// Feed lists videos newest first, joined with their owners' profiles.
type Feed struct {
	Items      []VideoDetail `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// ListFeed returns the most-recent-first video listing. No ranking beyond
// recency.
func (s *VideoService) ListFeed(ctx context.Context, limit int, cursor string) (*Feed, error) {
	result, err := s.store.ListVideos(ctx, store.PaginationParams{Limit: limit, Cursor: cursor})
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return nil, domainerrors.Validation("invalid cursor")
		}
		return nil, fmt.Errorf("list videos: %w", err)
	}

	feed := &Feed{
		Items:      make([]VideoDetail, 0, len(result.Items)),
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	}

	// Owners repeat heavily in a feed; resolve each once.
	profiles := make(map[string]*domain.Profile, len(result.Items))
	for _, video := range result.Items {
		profile, ok := profiles[video.UserID]
		if !ok {
			profile = s.lookupProfile(ctx, video.UserID)
			profiles[video.UserID] = profile
		}
		feed.Items = append(feed.Items, VideoDetail{Video: *video, Channel: profile})
	}

	return feed, nil
}

// Search runs a full-text query over titles, descriptions and tags,
// resolving hits to their stored video documents.
func (s *VideoService) Search(ctx context.Context, params search.Params) ([]VideoDetail, error) {
	if s.index == nil {
		return nil, domainerrors.Internal("search is not available")
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}

	details := make([]VideoDetail, 0, len(result.Hits))
	for _, hit := range result.Hits {
		video, err := s.store.GetVideo(ctx, hit.ID)
		if err != nil {
			// The index lags the store; skip hits that no longer resolve.
			continue
		}
		details = append(details, VideoDetail{
			Video:   *video,
			Channel: s.lookupProfile(ctx, video.UserID),
		})
	}

	return details, nil
}

// DocumentCount reports how many videos the search index holds.
func (s *VideoService) DocumentCount() (uint64, error) {
	if s.index == nil {
		return 0, domainerrors.Internal("search is not available")
	}
	return s.index.DocumentCount()
}

// lookupProfile fetches a user's public profile, or nil when the user is
// absent. Missing owners render as null, never as an error.
func (s *VideoService) lookupProfile(ctx context.Context, userID string) *domain.Profile {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil
	}
	profile := user.Profile()
	return &profile
}

// cleanupUpload compensates a failed upload by removing any stored files.
func (s *VideoService) cleanupUpload(video, thumb *media.SavedFile) {
	if video != nil {
		if err := s.storage.Delete(media.CategoryVideo, video.Name); err != nil && s.logger != nil {
			s.logger.Warn("failed to clean up video file", "name", video.Name, "error", err)
		}
	}
	if thumb != nil {
		if err := s.storage.Delete(media.CategoryThumbnail, thumb.Name); err != nil && s.logger != nil {
			s.logger.Warn("failed to clean up thumbnail file", "name", thumb.Name, "error", err)
		}
	}
}

// parseTags splits a comma-separated tag string into canonical tag slugs,
// dropping empties and duplicates.
func parseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := util.NormalizeTagSlug(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
