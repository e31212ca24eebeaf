// Package feed 衣橱变更信号：谁的物品变了就通知谁的订阅者重新拉取。
package feed

import (
	"context"
	"sync"
)

// Notifier 物品写操作提交后调用
type Notifier interface {
	Notify(ctx context.Context, uid string)
}

// Hub 进程内信号分发。信号只表示"有变化"，不带数据，
// 每个监听者的通道容量为 1，多次变化会合并成一次。
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan struct{}]struct{})}
}

// Listen 返回信号通道和取消函数；取消函数可重复调用
func (h *Hub) Listen(uid string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	set, ok := h.subs[uid]
	if !ok {
		set = make(map[chan struct{}]struct{})
		h.subs[uid] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[uid]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, uid)
				}
			}
		})
	}
}

func (h *Hub) Notify(_ context.Context, uid string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[uid] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Listeners 当前某用户的监听数
func (h *Hub) Listeners(uid string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[uid])
}
