package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clipstream/clipstream-server/internal/domain"
	domainerrors "github.com/clipstream/clipstream-server/internal/errors"
	"github.com/clipstream/clipstream-server/internal/store"
)

// SocialService handles likes, subscriptions and channel pages.
type SocialService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(store *store.Store, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:  store,
		logger: logger,
	}
}

// LikeResult reports a video's like count after a toggle.
type LikeResult struct {
	VideoID    string `json:"video_id"`
	LikesCount int64  `json:"likes_count"`
}

// SubscribeResult reports a channel's subscriber count after a toggle.
type SubscribeResult struct {
	ChannelID       string `json:"channel_id"`
	SubscriberCount int64  `json:"subscriber_count"`
	Subscribed      bool   `json:"subscribed"`
}

// ChannelProfile is a channel owner's public profile together with their
// uploads and the viewer's subscription state.
type ChannelProfile struct {
	domain.Profile
	Videos       []domain.Video `json:"videos"`
	IsSubscribed bool           `json:"is_subscribed"`
}

// ToggleLike records or removes a reaction on a video. Sending the same
// value twice removes the reaction; sending the opposite value replaces
// it. The returned count always reflects stored rows.
func (s *SocialService) ToggleLike(ctx context.Context, userID, videoID string, value int) (*LikeResult, error) {
	likes, err := s.store.ToggleLike(ctx, videoID, userID, value)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFound("video not found")
		case errors.Is(err, store.ErrInvalidInput):
			return nil, domainerrors.Validation("reaction value must be 1 or -1")
		}
		return nil, fmt.Errorf("toggle like: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Reaction toggled", "video_id", videoID, "user_id", userID, "value", value)
	}

	return &LikeResult{VideoID: videoID, LikesCount: likes}, nil
}

// ToggleSubscription flips the viewer's subscription to a channel.
// Subscribing to your own channel is rejected.
func (s *SocialService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (*SubscribeResult, error) {
	count, subscribed, err := s.store.ToggleSubscription(ctx, channelID, subscriberID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFound("channel not found")
		case errors.Is(err, store.ErrInvalidInput):
			return nil, domainerrors.Validation("cannot subscribe to your own channel")
		}
		return nil, fmt.Errorf("toggle subscription: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Subscription toggled",
			"channel_id", channelID, "subscriber_id", subscriberID, "subscribed", subscribed)
	}

	return &SubscribeResult{
		ChannelID:       channelID,
		SubscriberCount: count,
		Subscribed:      subscribed,
	}, nil
}

// GetChannel returns a channel's public profile, its uploads newest
// first, and whether the viewer is subscribed. viewerID may be empty
// for anonymous viewers.
func (s *SocialService) GetChannel(ctx context.Context, channelID, viewerID string) (*ChannelProfile, error) {
	user, err := s.store.Users.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("channel not found")
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}

	profile := user.Profile()

	// Recount rather than trusting the stored counter so the page is
	// correct even if a denormalized value lags.
	count, err := s.store.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("count subscribers: %w", err)
	}
	profile.SubscriberCount = count

	videos, err := s.store.ListUserVideos(ctx, channelID, channelVideosLimit)
	if err != nil {
		return nil, fmt.Errorf("list channel videos: %w", err)
	}

	channel := &ChannelProfile{
		Profile: profile,
		Videos:  make([]domain.Video, 0, len(videos)),
	}
	for _, video := range videos {
		channel.Videos = append(channel.Videos, *video)
	}

	if viewerID != "" && viewerID != channelID {
		subscribed, err := s.store.IsSubscribed(ctx, channelID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("check subscription: %w", err)
		}
		channel.IsSubscribed = subscribed
	}

	return channel, nil
}

// channelVideosLimit caps how many uploads a channel page shows.
const channelVideosLimit = 50
