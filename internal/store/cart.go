package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisCartStore lit le panier écrit par les routes /api/cart (JSON sous "cart:<userID>").
type RedisCartStore struct {
	rdb *redis.Client
}

func NewRedisCartStore(rdb *redis.Client) *RedisCartStore {
	return &RedisCartStore{rdb: rdb}
}

func CartKey(userID string) string {
	return "cart:" + userID
}

func (s *RedisCartStore) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := s.rdb.Get(ctx, CartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart %s: %w", userID, err)
	}
	return decodeCart(data)
}

// Clear supprime la clé ; supprimer une clé absente n'est pas une erreur.
func (s *RedisCartStore) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, CartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart %s: %w", userID, err)
	}
	return nil
}

func decodeCart(data string) ([]models.CartItem, error) {
	if data == "" {
		return nil, nil
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}
