package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CartStore persists a customer's draft between visits. One durable key per
// user, read on load and overwritten on every mutation, last write wins.
type CartStore interface {
	Load(ctx context.Context, userID uuid.UUID) (*Draft, error)
	Save(ctx context.Context, userID uuid.UUID, draft *Draft) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type redisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore creates a cart store backed by redis. Carts expire after
// ttl of inactivity; zero means no expiry.
func NewRedisCartStore(client *redis.Client, ttl time.Duration) CartStore {
	return &redisCartStore{client: client, ttl: ttl}
}

func cartKey(userID uuid.UUID) string {
	return fmt.Sprintf("curepharma:cart:%s", userID.String())
}

func (s *redisCartStore) Load(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return NewDraft(), nil // no saved cart
		}
		return nil, err
	}

	draft := NewDraft()
	if err := json.Unmarshal(data, draft); err != nil {
		// A corrupt cart is discarded rather than blocking the storefront.
		return NewDraft(), nil
	}
	if draft.PaymentMode == "" {
		draft.PaymentMode = NewDraft().PaymentMode
	}
	return draft, nil
}

func (s *redisCartStore) Save(ctx context.Context, userID uuid.UUID, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(userID), data, s.ttl).Err()
}

func (s *redisCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, cartKey(userID)).Err()
}
