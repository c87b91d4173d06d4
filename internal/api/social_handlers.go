package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/clipstream/clipstream-server/internal/domain"
	"github.com/clipstream/clipstream-server/internal/service"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleLike",
		Method:      http.MethodPost,
		Path:        "/api/v1/videos/{id}/like",
		Summary:     "Toggle reaction",
		Description: "Likes or dislikes a video. Repeating the same reaction removes it; the opposite reaction replaces it.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleLike)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleSubscription",
		Method:      http.MethodPost,
		Path:        "/api/v1/channels/{id}/subscribe",
		Summary:     "Toggle subscription",
		Description: "Subscribes to or unsubscribes from a channel. Subscribing to your own channel is rejected.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleSubscription)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChannel",
		Method:      http.MethodGet,
		Path:        "/api/v1/channels/{id}",
		Summary:     "Get channel",
		Description: "Returns a channel's profile, its uploads newest first, and the viewer's subscription state",
		Tags:        []string{"Social"},
	}, s.handleGetChannel)
}

// === DTOs ===

// ToggleLikeInput wraps the reaction request for Huma.
type ToggleLikeInput struct {
	ID   string `path:"id" validate:"required,max=64" doc:"Video ID"`
	Body struct {
		Value int `json:"value,omitempty" doc:"Reaction value: 1 for like, -1 for dislike (default 1)"`
	}
}

// LikeOutput wraps the like result for Huma.
type LikeOutput struct {
	Body service.LikeResult
}

// ChannelIDInput contains the channel ID path parameter.
type ChannelIDInput struct {
	ID string `path:"id" validate:"required,max=64" doc:"Channel (user) ID"`
}

// SubscribeOutput wraps the subscription result for Huma.
type SubscribeOutput struct {
	Body service.SubscribeResult
}

// ChannelOutput wraps a channel profile for Huma.
type ChannelOutput struct {
	Body service.ChannelProfile
}

// === Handlers ===

func (s *Server) handleToggleLike(ctx context.Context, input *ToggleLikeInput) (*LikeOutput, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	value := input.Body.Value
	if value == 0 {
		value = domain.ReactionLike
	}

	result, err := s.services.Social.ToggleLike(ctx, userID, input.ID, value)
	if err != nil {
		return nil, err
	}

	return &LikeOutput{Body: *result}, nil
}

func (s *Server) handleToggleSubscription(ctx context.Context, input *ChannelIDInput) (*SubscribeOutput, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Social.ToggleSubscription(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &SubscribeOutput{Body: *result}, nil
}

func (s *Server) handleGetChannel(ctx context.Context, input *ChannelIDInput) (*ChannelOutput, error) {
	// Viewer identity is optional here; anonymous viewers just get
	// is_subscribed=false.
	channel, err := s.services.Social.GetChannel(ctx, input.ID, getUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &ChannelOutput{Body: *channel}, nil
}
