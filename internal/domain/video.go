package domain

// Video represents an uploaded video with its metadata.
// The media files themselves live on disk under the uploads root; the
// document stores only their /static-relative URLs.
type Video struct {
	Timestamps
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Relative URLs under the static file root, e.g. /static/videos/abc.mp4.
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	// Perceptual placeholder for the thumbnail, computed at upload time.
	ThumbnailBlurHash string `json:"thumbnail_blurhash,omitempty"`

	// Denormalized counters. Views increments on each detail read; the
	// others are refreshed by recount after their respective writes.
	Views        int64 `json:"views"`
	Likes        int64 `json:"likes"`
	CommentCount int64 `json:"comment_count"`
}

// Comment represents a user's comment on a video.
type Comment struct {
	Timestamps
	VideoID string `json:"video_id"`
	UserID  string `json:"user_id"`
	Text    string `json:"text"`
}
