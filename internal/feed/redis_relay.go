package feed

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultChannelPrefix = "rewear:wardrobe:"

// RedisRelay 多实例部署时把变更信号经 Redis pub/sub 广播到所有实例的 Hub
type RedisRelay struct {
	rdb    *redis.Client
	hub    *Hub
	prefix string
	log    *zap.Logger
}

func NewRedisRelay(rdb *redis.Client, hub *Hub, l *zap.Logger) *RedisRelay {
	return &RedisRelay{rdb: rdb, hub: hub, prefix: DefaultChannelPrefix, log: l}
}

// Notify Redis 不可用时退化为只通知本实例
func (r *RedisRelay) Notify(ctx context.Context, uid string) {
	if err := r.rdb.Publish(ctx, r.prefix+uid, "1").Err(); err != nil {
		r.log.Warn("wardrobe relay publish failed", zap.String("uid", uid), zap.Error(err))
		r.hub.Notify(ctx, uid)
	}
}

// Run 阻塞直到 ctx 取消
func (r *RedisRelay) Run(ctx context.Context) error {
	ps := r.rdb.PSubscribe(ctx, r.prefix+"*")
	defer ps.Close()

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if uid, ok := r.uidOf(msg.Channel); ok {
				r.hub.Notify(ctx, uid)
			}
		}
	}
}

func (r *RedisRelay) uidOf(channel string) (string, bool) {
	uid := strings.TrimPrefix(channel, r.prefix)
	if uid == channel || uid == "" {
		return "", false
	}
	return uid, true
}
