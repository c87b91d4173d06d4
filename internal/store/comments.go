package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/clipstream/clipstream-server/internal/domain"
)

// defaultCommentLimit is the comment page size when the caller gives none.
const defaultCommentLimit = 50

// CreateComment persists a comment and its per-video recency index entry,
// then refreshes the video's comment count in the same transaction.
func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(commentPrefix + comment.ID)
	videoKey := []byte(videoPrefix + comment.VideoID)
	indexKey := formatTimestampIndexKey(commentByVideoPrefix+comment.VideoID+":", comment.CreatedAt, comment.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		var video domain.Video
		if err := getInTxn(txn, videoKey, &video); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound.WithMessage("video not found")
			}
			return fmt.Errorf("get video: %w", err)
		}

		_, err := txn.Get(key)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check comment exists: %w", err)
		}

		if err := setInTxn(txn, key, comment); err != nil {
			return err
		}
		if err := txn.Set(indexKey, []byte(comment.ID)); err != nil {
			return err
		}

		// Fresh count, not an increment. The iterator sees this
		// transaction's pending writes, so the new entry is included.
		countPrefix := buildPrefix(commentByVideoPrefix, comment.VideoID)
		defer releaseKey(countPrefix)
		video.CommentCount = countKeys(txn, countPrefix)
		video.Touch()

		return setInTxn(txn, videoKey, &video)
	})
}

// GetComment retrieves a comment by ID.
func (s *Store) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var comment domain.Comment
	if err := s.get([]byte(commentPrefix+id), &comment); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound.WithMessage("comment not found")
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// ListVideoComments returns a video's comments newest first, bounded by limit.
func (s *Store) ListVideoComments(ctx context.Context, videoID string, limit int) ([]*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := PaginationParams{Limit: limit}
	if params.Limit <= 0 {
		// Comment pages run larger than the feed default.
		params.Limit = defaultCommentLimit
	}
	params.Validate()

	indexPrefix := commentByVideoPrefix + videoID + ":"
	prefix := []byte(indexPrefix)
	comments := make([]*domain.Comment, 0, params.Limit)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(comments) < params.Limit; it.Next() {
			id, err := parseTimestampIndexKey(it.Item().Key(), indexPrefix)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("skipping malformed comment index key", "key", string(it.Item().Key()), "error", err)
				}
				continue
			}

			var comment domain.Comment
			if err := getInTxn(txn, []byte(commentPrefix+id), &comment); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return fmt.Errorf("get comment %s: %w", id, err)
			}

			comments = append(comments, &comment)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// CountVideoComments returns a fresh count of a video's comments.
func (s *Store) CountVideoComments(ctx context.Context, videoID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	prefix := buildPrefix(commentByVideoPrefix, videoID)
	defer releaseKey(prefix)

	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		n = countKeys(txn, prefix)
		return nil
	})
	return n, err
}
