// Package guest stores the pre-login cart. Each device gets one Redis key
// holding the full item list as a JSON array; every mutation is a full read,
// modify in memory, full rewrite. There is never a partial update on the wire.
package guest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/pkg/logger"
)

const keyPrefix = "guestcart:"

// Store is the Redis-backed guest cart.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a guest cart store. Carts expire after ttl of inactivity;
// every write refreshes the clock.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Load returns the guest cart items for a device. An absent key and a corrupt
// payload both yield an empty list; corruption is logged and the blob is left
// for the next write to replace. A guest must never be locked out of the shop
// by their own stale cart.
func (s *Store) Load(ctx context.Context, deviceID string) ([]domain.CartItem, error) {
	key := keyPrefix + deviceID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []domain.CartItem{}, nil
		}
		return nil, fmt.Errorf("redis get guest cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.FromContext(ctx).Warn("corrupt guest cart payload, treating as empty",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()),
		)
		return []domain.CartItem{}, nil
	}
	if items == nil {
		items = []domain.CartItem{}
	}

	return items, nil
}

// Append adds an item to the guest cart. Re-adding an existing
// (CourseID, SessionID) pair is a no-op; the stored snapshot wins.
func (s *Store) Append(ctx context.Context, deviceID string, item domain.CartItem) error {
	items, err := s.Load(ctx, deviceID)
	if err != nil {
		return err
	}

	cart := domain.Cart{Items: items}
	if cart.FindItemIndex(item.CourseID, item.SessionID) >= 0 {
		return nil
	}

	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	return s.save(ctx, deviceID, append(items, item))
}

// Remove deletes the item with the given identity. Removing an absent item
// succeeds without touching the blob.
func (s *Store) Remove(ctx context.Context, deviceID, courseID, sessionID string) error {
	items, err := s.Load(ctx, deviceID)
	if err != nil {
		return err
	}

	cart := domain.Cart{Items: items}
	idx := cart.FindItemIndex(courseID, sessionID)
	if idx < 0 {
		return nil
	}

	return s.save(ctx, deviceID, append(items[:idx], items[idx+1:]...))
}

// Clear removes the device's guest cart entirely.
func (s *Store) Clear(ctx context.Context, deviceID string) error {
	if err := s.client.Del(ctx, keyPrefix+deviceID).Err(); err != nil {
		return fmt.Errorf("redis del guest cart: %w", err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, deviceID string, items []domain.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal guest cart: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+deviceID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set guest cart: %w", err)
	}

	return nil
}
