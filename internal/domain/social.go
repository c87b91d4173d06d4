package domain

import "time"

// Like reaction values. A value of 1 is a like, -1 a dislike.
const (
	ReactionLike    = 1
	ReactionDislike = -1
)

// Like records a user's reaction to a video. At most one exists per
// (video, user) pair; toggling with the same value removes it, toggling
// with the other value flips it in place.
type Like struct {
	VideoID   string    `json:"video_id"`
	UserID    string    `json:"user_id"`
	Value     int       `json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
}

// Subscription records that a user follows a channel. At most one exists
// per (channel, subscriber) pair; toggling removes it.
type Subscription struct {
	ChannelID    string    `json:"channel_id"`
	SubscriberID string    `json:"subscriber_id"`
	CreatedAt    time.Time `json:"created_at"`
}
