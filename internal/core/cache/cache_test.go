package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thing struct {
	Name string `json:"name"`
}

func TestNilCacheLoadsThrough(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	calls := 0
	for i := 0; i < 2; i++ {
		got, err := GetOrLoadJSON(c, ctx, c.Key("item", "1"), time.Minute, func(context.Context) (*thing, error) {
			calls++
			return &thing{Name: "tee"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "tee", got.Name)
	}
	assert.Equal(t, 2, calls)
	assert.NoError(t, c.Del(ctx, "x"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestNilCachePropagatesLoadError(t *testing.T) {
	var c *Cache
	boom := errors.New("boom")
	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*thing, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestNilResultDecodesToNil(t *testing.T) {
	var c *Cache
	got, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*thing, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKey(t *testing.T) {
	c := &Cache{Prefix: "rewear:"}
	assert.Equal(t, "rewear:item:42", c.Key("item", "42"))
	var nilC *Cache
	assert.Equal(t, "item:42", nilC.Key("item", "42"))
}

func TestDecodeStaleValue(t *testing.T) {
	_, err := decode[thing]([]byte(`{"name":1}`))
	assert.Error(t, err)

	got, err := decode[thing]([]byte(`{"name":"tee"}`))
	require.NoError(t, err)
	assert.Equal(t, "tee", got.Name)
}
