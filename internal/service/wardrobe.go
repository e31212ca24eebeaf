package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"rewear/internal/domain"
	"rewear/internal/feed"
)

// MaxStreamsPerUser 每个用户同时打开的实时衣橱上限（多标签页）
const MaxStreamsPerUser = 8

var errTooManyStreams = fmt.Errorf("%w: too many open wardrobe streams", domain.ErrUnavailable)

type WardrobeService struct {
	items domain.ItemRepository
	hub   *feed.Hub
	log   *zap.Logger
}

func NewWardrobeService(items domain.ItemRepository, hub *feed.Hub, l *zap.Logger) *WardrobeService {
	return &WardrobeService{items: items, hub: hub, log: l}
}

// List 当前用户上传的全部物品，新的在前
func (s *WardrobeService) List(ctx context.Context, uid string) ([]domain.Item, error) {
	items, err := s.items.ListByUploader(ctx, uid)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// Subscribe 建立衣橱的实时视图。首个快照立即可读，之后每次变更推送完整快照；
// 读得慢的一方只会拿到最新一份。调用方必须 Close（ctx 取消也会触发清理）。
func (s *WardrobeService) Subscribe(ctx context.Context, uid string) (*Subscription, error) {
	if s.hub.Listeners(uid) >= MaxStreamsPerUser {
		return nil, errTooManyStreams
	}
	// 先登记再取首个快照，中间发生的变更至少留下一个信号
	signal, unlisten := s.hub.Listen(uid)
	first, err := s.List(ctx, uid)
	if err != nil {
		unlisten()
		return nil, err
	}

	sub := &Subscription{
		out:      make(chan []domain.Item, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		unlisten: unlisten,
	}
	sub.C = sub.out
	sub.out <- first
	wardrobeSubscribers.Inc()

	go sub.run(ctx, signal, func(ctx context.Context) ([]domain.Item, error) {
		return s.List(ctx, uid)
	}, s.log.With(zap.String("uid", uid)))
	return sub, nil
}

type Subscription struct {
	C <-chan []domain.Item

	out      chan []domain.Item
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
	unlisten func()
}

func (sub *Subscription) run(ctx context.Context, signal <-chan struct{}, load func(context.Context) ([]domain.Item, error), l *zap.Logger) {
	defer close(sub.done)
	defer close(sub.out)
	defer wardrobeSubscribers.Dec()
	defer sub.unlisten()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.stop:
			return
		case <-signal:
			items, err := load(ctx)
			if err != nil {
				l.Warn("wardrobe refresh failed", zap.Error(err))
				continue
			}
			sub.push(items)
		}
	}
}

// push 缓冲区满时丢掉旧快照
func (sub *Subscription) push(items []domain.Item) {
	for {
		select {
		case sub.out <- items:
			return
		default:
		}
		select {
		case <-sub.out:
		default:
		}
	}
}

// Close 可重复调用，返回时后台协程已退出、C 已关闭
func (sub *Subscription) Close() {
	sub.once.Do(func() { close(sub.stop) })
	<-sub.done
}
