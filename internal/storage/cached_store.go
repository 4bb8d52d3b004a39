package storage

import "studymate/internal/providers"

// CachedStore serves reads from the record cache and drops the cached
// copy on every write so a failed Set never leaves a stale entry.
type CachedStore struct {
	inner KVStore
	cache providers.CacheProviderInterface
}

func NewCachedStore(inner KVStore, cache providers.CacheProviderInterface) *CachedStore {
	return &CachedStore{inner: inner, cache: cache}
}

func (c *CachedStore) Get(key string) ([]byte, bool, error) {
	if val, ok := c.cache.Get(key); ok {
		return val, true, nil
	}
	val, ok, err := c.inner.Get(key)
	if err != nil || !ok {
		return val, ok, err
	}
	c.cache.Set(key, val)
	return val, true, nil
}

func (c *CachedStore) Set(key string, value []byte) error {
	c.cache.Del(key)
	return c.inner.Set(key, value)
}

func (c *CachedStore) Remove(key string) error {
	c.cache.Del(key)
	return c.inner.Remove(key)
}

func (c *CachedStore) Usage() int64 {
	return c.inner.Usage()
}

func (c *CachedStore) Close() error {
	return c.inner.Close()
}
