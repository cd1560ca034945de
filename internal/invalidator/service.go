package invalidator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/adiwicaksono/go-shop-backend/internal/kafka"
	"github.com/adiwicaksono/go-shop-backend/internal/orders"
	"github.com/adiwicaksono/go-shop-backend/internal/redisx"
)

// Service buang cache product di Redis setiap ada mutasi stok
// (reserved/adjusted/released), supaya pembaca tidak lihat stok basi
// lebih lama dari event lag.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleStockEvent dipasang sebagai handler consumer.
func (s *Service) HandleStockEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	productIDs, err := affectedProducts(env)
	if err != nil {
		return err
	}
	if len(productIDs) == 0 {
		return nil // event type lain, abaikan
	}

	for _, id := range productIDs {
		if err := s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyProduct, id)).Err(); err != nil {
			return fmt.Errorf("del product cache %d: %w", id, err)
		}
	}
	if _, err := redisx.DeletePattern(ctx, s.Redis, redisx.PatternProductList); err != nil {
		return err
	}

	log.Debug().Str("event", env.EventType).Ints64("product_ids", productIDs).
		Msg("product cache invalidated")
	return nil
}

func affectedProducts(env orders.Envelope) ([]int64, error) {
	switch env.EventType {
	case orders.EventStockReserved:
		p, err := kafkax.UnwrapPayload[orders.StockReservedPayload](env.Payload)
		if err != nil {
			return nil, err
		}
		return []int64{p.ProductID}, nil
	case orders.EventStockAdjusted:
		p, err := kafkax.UnwrapPayload[orders.StockAdjustedPayload](env.Payload)
		if err != nil {
			return nil, err
		}
		if p.OldProductID != 0 && p.OldProductID != p.ProductID {
			return []int64{p.ProductID, p.OldProductID}, nil
		}
		return []int64{p.ProductID}, nil
	case orders.EventStockReleased:
		p, err := kafkax.UnwrapPayload[orders.StockReleasedPayload](env.Payload)
		if err != nil {
			return nil, err
		}
		return []int64{p.ProductID}, nil
	}
	return nil, nil
}
