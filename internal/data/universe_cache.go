package data

import (
	"context"

	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/pkg/logger"
	"github.com/jsj9346/makenaide/pkg/redis"
)

// CachedReturnUniverse wraps a ReturnUniverse with a Redis cache.
// 수익률 유니버스는 스캔 1회당 ticker 수만큼 조회되므로 캐싱 효과가 큼.
type CachedReturnUniverse struct {
	inner  contracts.ReturnUniverse
	cache  *redis.Cache
	logger *logger.Logger
}

var _ contracts.ReturnUniverse = (*CachedReturnUniverse)(nil)

// NewCachedReturnUniverse creates a caching wrapper around a return universe
func NewCachedReturnUniverse(inner contracts.ReturnUniverse, cache *redis.Cache, log *logger.Logger) *CachedReturnUniverse {
	return &CachedReturnUniverse{
		inner:  inner,
		cache:  cache,
		logger: log.Named("return_universe_cache"),
	}
}

// YearReturns serves the universe from cache, falling back to the inner
// source on miss.
func (u *CachedReturnUniverse) YearReturns(ctx context.Context) ([]float64, error) {
	var returns []float64
	err := u.cache.GetOrSet(ctx, redis.ReturnUniverseKey(), &returns, redis.TTLLong, func() (interface{}, error) {
		fresh, err := u.inner.YearReturns(ctx)
		if err != nil {
			return nil, err
		}
		u.logger.WithField("count", len(fresh)).Debug("Return universe refreshed")
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return returns, nil
}
