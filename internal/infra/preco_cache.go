package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const precoKeyPrefix = "preco:"

// PrecoCache is the Redis read-through cache behind the price check endpoint.
// A nil client turns every method into a no-op, so callers never branch on it.
type PrecoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPrecoCache(rdb *redis.Client, ttl time.Duration) *PrecoCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PrecoCache{rdb: rdb, ttl: ttl}
}

func (c *PrecoCache) enabled() bool { return c != nil && c.rdb != nil }

// Get returns the cached lookup for codigo, if any.
func (c *PrecoCache) Get(ctx context.Context, codigo string) (*dto.ConsultaPrecoResponse, bool) {
	if !c.enabled() {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, precoKeyPrefix+codigo).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.ConsultaPrecoResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set stores a lookup; errors are logged and swallowed.
func (c *PrecoCache) Set(ctx context.Context, resp dto.ConsultaPrecoResponse) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, precoKeyPrefix+resp.Codigo, b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", resp.Codigo).Msg("preco_cache: set failed")
	}
}

// Invalidar evicts the entries of the given product codes.
func (c *PrecoCache) Invalidar(ctx context.Context, codigos ...string) {
	if !c.enabled() || len(codigos) == 0 {
		return
	}
	keys := make([]string, 0, len(codigos))
	for _, codigo := range codigos {
		keys = append(keys, precoKeyPrefix+codigo)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("codigos", codigos).Msg("preco_cache: invalidate failed")
	}
}
