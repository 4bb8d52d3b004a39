package providers

import (
	"strings"
	"studymate/internal/structures"
)

// recordKeyPrefix is shared by every persisted record key and carries no
// information in a metric label.
const recordKeyPrefix = "studymate_"

// MetricsCacheProvider counts record cache hits and misses per record, so
// a cold sessions list is told apart from a cold stats record.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits(recordLabel(key))
	} else {
		c.metrics.IncCacheMisses(recordLabel(key))
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

// Del drops a record after its backing value was written or removed.
func (c *MetricsCacheProvider) Del(key string) {
	c.inner.Del(key)
}

func recordLabel(key string) string {
	return strings.TrimPrefix(key, recordKeyPrefix)
}

// NewInstrumentedCacheProvider wraps the record cache with per-record
// counters. A disabled cache is returned bare so every read is not
// reported as a miss.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if !conf.Cache.Enabled {
		return inner
	}
	return &MetricsCacheProvider{
		inner:   inner,
		metrics: metrics,
	}
}
