package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/clipstream/clipstream-server/internal/domain"
)

// ToggleLike applies the like toggle for one (video, user) pair:
// insert when absent, delete when present with the same value, update in
// place when present with a different value. The video's like count is
// then recomputed as a fresh count of value == 1 rows and persisted, all
// in a single transaction.
//
// Returns the video's new like count.
func (s *Store) ToggleLike(ctx context.Context, videoID, userID string, value int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if value != domain.ReactionLike && value != domain.ReactionDislike {
		return 0, ErrInvalidInput.WithMessage("like value must be 1 or -1")
	}

	videoKey := []byte(videoPrefix + videoID)
	likeKey := []byte(likePrefix + videoID + ":" + userID)

	var likes int64
	err := s.db.Update(func(txn *badger.Txn) error {
		var video domain.Video
		if err := getInTxn(txn, videoKey, &video); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound.WithMessage("video not found")
			}
			return fmt.Errorf("get video: %w", err)
		}

		var existing *domain.Like
		item, err := txn.Get(likeKey)
		switch {
		case err == nil:
			var like domain.Like
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &like)
			}); err != nil {
				return fmt.Errorf("unmarshal like: %w", err)
			}
			existing = &like
		case errors.Is(err, badger.ErrKeyNotFound):
			// No existing reaction
		default:
			return fmt.Errorf("get like: %w", err)
		}

		switch {
		case existing == nil:
			like := domain.Like{
				VideoID:   videoID,
				UserID:    userID,
				Value:     value,
				CreatedAt: time.Now(),
			}
			if err := setInTxn(txn, likeKey, &like); err != nil {
				return err
			}
		case existing.Value == value:
			// Same reaction again removes it
			if err := txn.Delete(likeKey); err != nil {
				return fmt.Errorf("delete like: %w", err)
			}
		default:
			existing.Value = value
			if err := setInTxn(txn, likeKey, existing); err != nil {
				return err
			}
		}

		likes = countLikesInTxn(txn, videoID)
		video.Likes = likes
		video.Touch()

		return setInTxn(txn, videoKey, &video)
	})
	if err != nil {
		return 0, err
	}

	return likes, nil
}

// GetLike returns the reaction one user left on a video, or ErrNotFound.
func (s *Store) GetLike(ctx context.Context, videoID, userID string) (*domain.Like, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildPairKey(likePrefix, videoID, userID)
	defer releaseKey(key)

	var like domain.Like
	if err := s.get(key, &like); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound.WithMessage("like not found")
		}
		return nil, fmt.Errorf("get like: %w", err)
	}
	return &like, nil
}

// CountLikes returns a fresh count of value == 1 rows for a video.
func (s *Store) CountLikes(ctx context.Context, videoID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		n = countLikesInTxn(txn, videoID)
		return nil
	})
	return n, err
}

// countLikesInTxn counts a video's value == 1 reactions inside an open
// transaction. Dislikes are stored but never aggregated.
func countLikesInTxn(txn *badger.Txn, videoID string) int64 {
	prefix := buildPrefix(likePrefix, videoID)
	defer releaseKey(prefix)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var n int64
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var like domain.Like
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &like)
		}); err != nil {
			continue
		}
		if like.Value == domain.ReactionLike {
			n++
		}
	}
	return n
}
