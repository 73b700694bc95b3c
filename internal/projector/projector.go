package projector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-shop-orders.git/internal/kafka"
	"github.com/ariefcatur/go-shop-orders.git/internal/orders"
	"github.com/ariefcatur/go-shop-orders.git/internal/redisx"
)

// Service keeps the Redis order-status cache in step with order events so
// reads stay fast on instances that did not handle the original request.
type Service struct {
	Redis       *redis.Client
	ServiceName string
	Log         zerolog.Logger
}

// HandleOrderPlaced: dipasang sebagai handler consumer topic order.placed.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	env, ok, err := s.decode(ctx, m, orders.EventOrderPlaced)
	if err != nil || !ok {
		return err
	}
	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}
	return s.setStatus(ctx, p.OrderID, orders.StatusPending)
}

// HandleOrderCancelled: handler untuk topic order.cancelled.
func (s *Service) HandleOrderCancelled(ctx context.Context, m kafkago.Message) error {
	env, ok, err := s.decode(ctx, m, orders.EventOrderCancelled)
	if err != nil || !ok {
		return err
	}
	p, err := kafkax.UnwrapPayload[orders.OrderCancelledPayload](env.Payload)
	if err != nil {
		return err
	}
	return s.setStatus(ctx, p.OrderID, orders.StatusCancelled)
}

// decode unmarshals the envelope, filters foreign event types and dedups via
// Redis on event id.
func (s *Service) decode(ctx context.Context, m kafkago.Message, want string) (orders.Envelope, bool, error) {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return env, false, err
	}
	if env.EventType != want {
		return env, false, nil
	}
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return env, false, nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return env, true, nil
}

func (s *Service) setStatus(ctx context.Context, orderID string, st orders.Status) error {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body, _ := json.Marshal(map[string]any{"status": st})
	if err := s.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err(); err != nil {
		return err
	}
	s.Log.Info().Str("order_id", orderID).Str("status", string(st)).Msg("status projected")
	return nil
}
