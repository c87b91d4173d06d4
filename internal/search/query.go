package search

import (
	"context"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query string   // User's search query
	Tags  []string // Restrict to videos carrying all of these tags

	Limit  int
	Offset int

	Highlight bool // Include match highlighting
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:     20,
		Offset:    0,
		Highlight: true,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single search result.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Tags       []string          `json:"tags,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query against the video index.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"title", "tags"}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("description")
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if title, ok := hit.Fields["title"].(string); ok {
			h.Title = title
		}
		switch tags := hit.Fields["tags"].(type) {
		case string:
			h.Tags = []string{tags}
		case []interface{}:
			for _, tag := range tags {
				if t, ok := tag.(string); ok {
					h.Tags = append(h.Tags, t)
				}
			}
		}

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery combines the text query and tag filters.
func buildSearchQuery(params Params) query.Query {
	var parts []query.Query

	text := strings.TrimSpace(params.Query)
	if text != "" {
		// Match query for analyzed fields with fuzzy fallback
		titleMatch := bleve.NewMatchQuery(text)
		titleMatch.SetField("title")
		titleMatch.SetBoost(2.0)
		titleMatch.SetFuzziness(1)

		descMatch := bleve.NewMatchQuery(text)
		descMatch.SetField("description")

		parts = append(parts, bleve.NewDisjunctionQuery(titleMatch, descMatch))
	}

	for _, tag := range params.Tags {
		tagQuery := bleve.NewTermQuery(tag)
		tagQuery.SetField("tags")
		parts = append(parts, tagQuery)
	}

	if len(parts) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return bleve.NewConjunctionQuery(parts...)
}
