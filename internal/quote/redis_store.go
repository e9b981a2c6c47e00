package quote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/khaizansolutions/khaizan-storefront/pkg/logger"
	"github.com/khaizansolutions/khaizan-storefront/pkg/redis"
)

type snapshotKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	QuoteItemsKey(sessionID string) string
}

// RedisStore persists quote snapshots in Redis under the namespaced
// quoteItems slot, one key per session. The TTL bounds abandoned quotes.
type RedisStore struct {
	kv   snapshotKV
	logg *logger.Logger
	ttl  time.Duration
}

// NewRedisStore wires the snapshot store onto the shared Redis client.
func NewRedisStore(kv snapshotKV, logg *logger.Logger, ttl time.Duration) (*RedisStore, error) {
	if kv == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisStore{kv: kv, logg: logg, ttl: ttl}, nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) []LineItem {
	raw, err := s.kv.Get(ctx, s.kv.QuoteItemsKey(sessionID))
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logg != nil {
			s.logg.Warn(ctx, "quote snapshot read failed: "+err.Error())
		}
		return []LineItem{}
	}

	items := decodeSnapshot(ctx, s.logg, []byte(raw))
	return items
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, items []LineItem) error {
	key := s.kv.QuoteItemsKey(sessionID)
	if len(items) == 0 {
		return s.kv.Del(ctx, key)
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, string(payload), s.ttl)
}

// decodeSnapshot parses a stored snapshot, dropping malformed entries rather
// than failing the load. A completely unreadable payload yields an empty
// quote.
func decodeSnapshot(ctx context.Context, logg *logger.Logger, payload []byte) []LineItem {
	var items []LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		if logg != nil {
			logg.Warn(ctx, "quote snapshot unreadable, starting empty: "+err.Error())
		}
		return []LineItem{}
	}
	clean := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 {
			continue
		}
		clean = append(clean, item)
	}
	return clean
}
