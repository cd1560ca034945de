package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/adiwicaksono/go-shop-backend/internal/redisx"
)

// Service: keranjang belanja dengan persistensi Redis. Satu key per
// session, TTL 24 jam di-refresh tiap dibaca.
type Service struct {
	Redis *redis.Client
}

func cartKey(sessionID string) string {
	return fmt.Sprintf(redisx.KeyCart, sessionID)
}

// Get ambil cart utk session; session tanpa cart dapat cart kosong.
func (s *Service) Get(ctx context.Context, sessionID string) (Cart, error) {
	key := cartKey(sessionID)
	raw, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Empty(), nil
	}
	if err != nil {
		return Empty(), fmt.Errorf("get cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		// cart korup: buang, mulai kosong
		log.Warn().Str("session_id", sessionID).Err(err).Msg("corrupt cart dropped")
		_ = s.Redis.Del(ctx, key).Err()
		return Empty(), nil
	}

	// refresh TTL
	_ = s.Redis.Expire(ctx, key, redisx.TTLCart).Err()
	return c, nil
}

func (s *Service) Save(ctx context.Context, sessionID string, c Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, cartKey(sessionID), b, redisx.TTLCart).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Service) AddItem(ctx context.Context, sessionID string, it Item) (Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return c, err
	}
	c.Add(it)
	return c, s.Save(ctx, sessionID, c)
}

func (s *Service) UpdateItemQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return c, err
	}
	c.SetQuantity(productID, quantity)
	return c, s.Save(ctx, sessionID, c)
}

func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int64) (Cart, error) {
	return s.UpdateItemQuantity(ctx, sessionID, productID, 0)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.Redis.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// MergeGuest gabungkan cart guest ke cart session (dipanggil saat login).
func (s *Service) MergeGuest(ctx context.Context, sessionID string, guest Cart) (Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return c, err
	}
	c.Merge(guest)
	return c, s.Save(ctx, sessionID, c)
}
