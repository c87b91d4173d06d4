package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/clipstream/clipstream-server/internal/domain"
)

// CreateVideo persists a new video document along with its recency and
// per-owner index entries.
func (s *Store) CreateVideo(ctx context.Context, video *domain.Video) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(videoPrefix + video.ID)
	createdKey := formatTimestampIndexKey(videoByCreatedPrefix, video.CreatedAt, video.ID)
	userKey := formatTimestampIndexKey(videoByUserPrefix+video.UserID+":", video.CreatedAt, video.ID)

	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check video exists: %w", err)
		}

		if err := setInTxn(txn, key, video); err != nil {
			return err
		}
		if err := txn.Set(createdKey, []byte(video.ID)); err != nil {
			return err
		}
		return txn.Set(userKey, []byte(video.ID))
	})
	if err != nil {
		return err
	}

	s.indexVideoAsync(video)
	return nil
}

// GetVideo retrieves a video by ID.
func (s *Store) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var video domain.Video
	if err := s.get([]byte(videoPrefix+id), &video); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound.WithMessage("video not found")
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &video, nil
}

// UpdateVideo overwrites an existing video document. CreatedAt must not
// change; the recency index entries key on it.
func (s *Store) UpdateVideo(ctx context.Context, video *domain.Video) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(videoPrefix + video.ID)

	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound.WithMessage("video not found")
		}
		if err != nil {
			return fmt.Errorf("get video: %w", err)
		}
		return setInTxn(txn, key, video)
	})
	if err != nil {
		return err
	}

	s.indexVideoAsync(video)
	return nil
}

// IncrementViews bumps a video's view count by one and refreshes its
// UpdatedAt, returning the updated document. The read-modify-write runs in
// a single transaction so sequential calls never lose an increment.
func (s *Store) IncrementViews(ctx context.Context, id string) (*domain.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(videoPrefix + id)
	var video domain.Video

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getInTxn(txn, key, &video); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound.WithMessage("video not found")
			}
			return fmt.Errorf("get video: %w", err)
		}

		video.Views++
		video.Touch()

		return setInTxn(txn, key, &video)
	})
	if err != nil {
		return nil, err
	}

	return &video, nil
}

// ListVideos returns videos newest first, paginated by an opaque cursor.
func (s *Store) ListVideos(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Video], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params.Validate()

	return s.listVideosByIndex(videoByCreatedPrefix, params)
}

// ListUserVideos returns one user's videos newest first.
func (s *Store) ListUserVideos(ctx context.Context, userID string, limit int) ([]*domain.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := PaginationParams{Limit: limit}
	params.Validate()

	result, err := s.listVideosByIndex(videoByUserPrefix+userID+":", params)
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// listVideosByIndex walks a recency index in reverse (newest first),
// resolving each entry to its video document.
func (s *Store) listVideosByIndex(indexPrefix string, params PaginationParams) (*PaginatedResult[*domain.Video], error) {
	cursorKey, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, ErrInvalidInput.WithCause(err)
	}

	result := &PaginatedResult[*domain.Video]{
		Items: make([]*domain.Video, 0, params.Limit),
	}

	prefix := []byte(indexPrefix)
	var lastKey string

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts past the end of the prefix range; a
		// cursor resumes at the last key of the previous page.
		seek := append(append([]byte{}, prefix...), 0xff)
		if cursorKey != "" {
			seek = []byte(cursorKey)
		}

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())

			// The cursor points at an already-returned entry.
			if cursorKey != "" && key == cursorKey {
				continue
			}

			if len(result.Items) >= params.Limit {
				result.HasMore = true
				return nil
			}

			id, err := parseTimestampIndexKey(it.Item().Key(), indexPrefix)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("skipping malformed video index key", "key", key, "error", err)
				}
				continue
			}

			var video domain.Video
			if err := getInTxn(txn, []byte(videoPrefix+id), &video); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue // Dangling index entry
				}
				return fmt.Errorf("get video %s: %w", id, err)
			}

			result.Items = append(result.Items, &video)
			lastKey = key
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.HasMore {
		result.NextCursor = EncodeCursor(lastKey)
	}
	return result, nil
}

// indexVideoAsync hands the video to the search indexer without blocking
// the write path.
func (s *Store) indexVideoAsync(video *domain.Video) {
	if s.searchIndexer == nil {
		return
	}

	v := *video
	go func() {
		if err := s.searchIndexer.IndexVideo(context.Background(), &v); err != nil && s.logger != nil {
			s.logger.Warn("failed to index video", "video_id", v.ID, "error", err)
		}
	}()
}
