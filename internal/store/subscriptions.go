package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/clipstream/clipstream-server/internal/domain"
)

// ToggleSubscription flips the subscription state for one
// (channel, subscriber) pair: insert when absent, delete when present.
// The channel's subscriber count is then recomputed as a fresh row count
// and persisted onto the user, all in a single transaction.
//
// Returns the channel's new subscriber count and whether the subscriber
// is now subscribed.
func (s *Store) ToggleSubscription(ctx context.Context, channelID, subscriberID string) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if channelID == subscriberID {
		return 0, false, ErrInvalidInput.WithMessage("cannot subscribe to yourself")
	}

	channelKey := []byte("user:" + channelID)
	subKey := []byte(subscriptionPrefix + channelID + ":" + subscriberID)

	var (
		count      int64
		subscribed bool
	)
	err := s.db.Update(func(txn *badger.Txn) error {
		var channel domain.User
		if err := getInTxn(txn, channelKey, &channel); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound.WithMessage("channel not found")
			}
			return fmt.Errorf("get channel: %w", err)
		}

		_, err := txn.Get(subKey)
		switch {
		case err == nil:
			// Present: unsubscribe
			if err := txn.Delete(subKey); err != nil {
				return fmt.Errorf("delete subscription: %w", err)
			}
			subscribed = false
		case errors.Is(err, badger.ErrKeyNotFound):
			// Absent: subscribe
			sub := domain.Subscription{
				ChannelID:    channelID,
				SubscriberID: subscriberID,
				CreatedAt:    time.Now(),
			}
			if err := setInTxn(txn, subKey, &sub); err != nil {
				return err
			}
			subscribed = true
		default:
			return fmt.Errorf("get subscription: %w", err)
		}

		// Fresh count, includes this transaction's pending write.
		prefix := buildPrefix(subscriptionPrefix, channelID)
		defer releaseKey(prefix)
		count = countKeys(txn, prefix)

		channel.SubscriberCount = count
		channel.Touch()

		return setInTxn(txn, channelKey, &channel)
	})
	if err != nil {
		return 0, false, err
	}

	return count, subscribed, nil
}

// IsSubscribed reports whether a subscriber follows a channel.
func (s *Store) IsSubscribed(ctx context.Context, channelID, subscriberID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := buildPairKey(subscriptionPrefix, channelID, subscriberID)
	defer releaseKey(key)

	return s.exists(key)
}

// CountSubscribers returns a fresh count of a channel's subscription rows.
func (s *Store) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	prefix := buildPrefix(subscriptionPrefix, channelID)
	defer releaseKey(prefix)

	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		n = countKeys(txn, prefix)
		return nil
	})
	return n, err
}
