package cache

import (
	"errors"
	"time"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/cache"
)

var errCorruptEntry = errors.New("stored value is not a byte slice")

// kvStorage keeps serialized carts and favorites in the cache service with a sliding TTL.
type kvStorage struct {
	cache  cache.CacheService
	prefix string
	ttl    time.Duration
}

func NewKeyValueStorage(c cache.CacheService, prefix string, ttl time.Duration) domain.KeyValueStorage {
	return &kvStorage{cache: c, prefix: prefix, ttl: ttl}
}

func (s *kvStorage) Load(key string) ([]byte, bool, error) {
	v, ok := s.cache.Get(s.prefix + key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false, errCorruptEntry
	}
	return data, true, nil
}

func (s *kvStorage) Save(key string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	s.cache.Set(s.prefix+key, buf, s.ttl)
	return nil
}

func (s *kvStorage) Delete(key string) error {
	s.cache.Delete(s.prefix + key)
	return nil
}
