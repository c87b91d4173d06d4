package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/clipstream/clipstream-server/internal/search"
	"github.com/clipstream/clipstream-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchVideos",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search videos",
		Description: "Full-text search across video titles, descriptions, and tags",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching videos.
type SearchInput struct {
	Query  string `query:"q" required:"true" validate:"required,min=1,max=200" doc:"Search query"`
	Tags   string `query:"tags" validate:"omitempty,max=200" doc:"Comma-separated tags that results must all carry"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset (default 0)"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query   string                `json:"query" doc:"The query that was run"`
	Results []service.VideoDetail `json:"results" doc:"Matching videos, best first"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.Params{
		Query:  input.Query,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if input.Tags != "" {
		for _, tag := range strings.Split(input.Tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				params.Tags = append(params.Tags, strings.ToLower(tag))
			}
		}
	}

	results, err := s.services.Video.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{
		Body: SearchResponse{
			Query:   input.Query,
			Results: results,
		},
	}, nil
}
