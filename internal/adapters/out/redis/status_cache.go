// Package redis caches order status snapshots in Redis. Entries expire after a TTL and are
// dropped after every commit that changes the order. Each drop also bumps a per-order
// generation, and a snapshot is only stored under the generation its reader saw at the miss.
// A reader that loaded the order before a commit therefore cannot put it back afterwards.
// Staleness beyond the TTL remains possible only when an invalidation itself fails.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Keys of one order share the {order_id} hash tag so scripts touch a single slot.
const (
	KeyOrderStatus           = "order_status:{%s}"
	KeyOrderStatusGeneration = "order_status_gen:{%s}"
)

const (
	DefaultTTL = 30 * time.Second

	// generationTTL only has to outlive the slowest reader between its miss and its fill.
	generationTTL = 24 * time.Hour
)

// setIfGenerationScript stores the snapshot only while the generation is the one read at
// the miss. KEYS: snapshot, generation. ARGV: expected generation, snapshot, ttl in ms.
var setIfGenerationScript = goredis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

var (
	_ ports.StatusCache    = (*StatusCache)(nil)
	_ ports.CommitListener = (*StatusCache)(nil)
)

// StatusCache implements ports.StatusCache and, as a ports.CommitListener, invalidates the
// orders a unit of work has committed.
type StatusCache struct {
	client *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient connects to addr and verifies the connection with PING.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// NewStatusCache returns a cache over client. A non-positive ttl falls back to DefaultTTL.
func NewStatusCache(client *goredis.Client, ttl time.Duration, logger *zap.Logger) *StatusCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusCache{
		client: client,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "status_cache")),
	}
}

func key(orderID string) string {
	return fmt.Sprintf(KeyOrderStatus, orderID)
}

func generationKey(orderID string) string {
	return fmt.Sprintf(KeyOrderStatusGeneration, orderID)
}

// Get returns the cached snapshot, or nil on a miss, together with the order's generation.
func (c *StatusCache) Get(ctx context.Context, orderID kernel.UUID) (*ports.OrderStatusSnapshot, int64, error) {
	id := orderID.String()
	values, err := c.client.MGet(ctx, key(id), generationKey(id)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("get order status %s: %w", orderID, err)
	}

	generation, err := parseGeneration(values[1])
	if err != nil {
		return nil, 0, fmt.Errorf("get order status %s: %w", orderID, err)
	}

	raw, ok := values[0].(string)
	if !ok {
		return nil, generation, nil
	}

	var snapshot ports.OrderStatusSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		// a stale layout is treated as a miss and overwritten by the next Set
		c.logger.Warn("dropping undecodable snapshot", zap.Stringer("order_id", orderID), zap.Error(err))
		_ = c.client.Del(ctx, key(id)).Err()
		return nil, generation, nil
	}
	return &snapshot, generation, nil
}

// Set stores the snapshot when generation is still current and reports whether it did.
func (c *StatusCache) Set(ctx context.Context, snapshot ports.OrderStatusSnapshot, generation int64) (bool, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return false, fmt.Errorf("encode order status %s: %w", snapshot.OrderID, err)
	}

	keys := []string{key(snapshot.OrderID), generationKey(snapshot.OrderID)}
	stored, err := setIfGenerationScript.Run(ctx, c.client, keys,
		strconv.FormatInt(generation, 10), raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("set order status %s: %w", snapshot.OrderID, err)
	}
	return stored == 1, nil
}

// Invalidate drops the snapshots and bumps the generation of every order.
func (c *StatusCache) Invalidate(ctx context.Context, orderIDs ...kernel.UUID) error {
	if len(orderIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, orderID := range orderIDs {
			id := orderID.String()
			pipe.Incr(ctx, generationKey(id))
			pipe.Expire(ctx, generationKey(id), generationTTL)
			pipe.Del(ctx, key(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate %d order statuses: %w", len(orderIDs), err)
	}
	return nil
}

func parseGeneration(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected generation value %v", v)
	}
	return strconv.ParseInt(s, 10, 64)
}

// AfterCommit drops the snapshots of the committed orders. The transaction is already
// durable, so failures are only logged and the entries age out with the TTL.
func (c *StatusCache) AfterCommit(ctx context.Context, orderIDs []kernel.UUID) {
	if err := c.Invalidate(context.WithoutCancel(ctx), orderIDs...); err != nil {
		c.logger.Warn("status cache invalidation failed",
			zap.Int("orders", len(orderIDs)),
			zap.Duration("ttl", c.ttl),
			zap.Error(err),
		)
	}
}
