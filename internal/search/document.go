// Package search provides full-text video search using Bleve.
package search

import (
	"github.com/clipstream/clipstream-server/internal/domain"
)

// Document is the indexed representation of a video.
type Document struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   int64    `json:"created_at"` // Unix millis
}

// FromVideo builds the search document for a video.
func FromVideo(video *domain.Video) *Document {
	return &Document{
		ID:          video.ID,
		UserID:      video.UserID,
		Title:       video.Title,
		Description: video.Description,
		Tags:        video.Tags,
		CreatedAt:   video.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"user_id":    d.UserID,
		"title":      d.Title,
		"created_at": d.CreatedAt,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}
