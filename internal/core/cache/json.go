package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 读穿缓存的 JSON 版本。
// load 返回 (nil, nil) 时缓存 "null"，读出仍为 nil；load 的错误不缓存。
// 缓存里的值解不开（结构升级后的旧数据）时删键并直接回源
func GetOrLoadJSON[T any](c *Cache, ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (*T, error)) (*T, error) {
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		return encode(load(ctx))
	})
	if err != nil {
		return nil, err
	}
	out, err := decode[T](b)
	if err == nil {
		return out, nil
	}
	_ = c.Del(ctx, key)
	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func encode[T any](v *T, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func decode[T any](b []byte) (*T, error) {
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
