package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheDeletePrefix(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("storefront:s1:retail", 1, time.Minute)
	c.Set("storefront:s1:wholesale", 2, time.Minute)
	c.Set("storefront:s2:retail", 3, time.Minute)

	c.DeletePrefix("storefront:s1:")

	_, ok := c.Get("storefront:s1:retail")
	assert.False(t, ok)
	_, ok = c.Get("storefront:s1:wholesale")
	assert.False(t, ok)
	v, ok := c.Get("storefront:s2:retail")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestKeyValueStorageRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	kv := NewKeyValueStorage(c, "cart:", time.Minute)

	_, ok, err := kv.Load("retail_s1")
	require.NoError(t, err)
	assert.False(t, ok)

	data := []byte(`[{"productId":"p1"}]`)
	require.NoError(t, kv.Save("retail_s1", data))
	data[0] = 'x' // caller mutation must not leak into storage

	got, ok, err := kv.Load("retail_s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"productId":"p1"}]`, string(got))

	require.NoError(t, kv.Delete("retail_s1"))
	_, ok, _ = kv.Load("retail_s1")
	assert.False(t, ok)
}

func TestKeyValueStorageCorruptEntry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("cart:bad", 42, time.Minute)
	kv := NewKeyValueStorage(c, "cart:", time.Minute)

	_, _, err := kv.Load("bad")
	assert.Error(t, err)
}
