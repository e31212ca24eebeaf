package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"rewear/internal/core/events"
	"rewear/internal/domain"
	"rewear/internal/notify"
	"rewear/pkg/utils"
)

type SwapService struct {
	swaps  domain.SwapRepository
	items  domain.ItemRepository
	users  domain.UserRepository
	mailer notify.Mailer
	events events.Publisher
	log    *zap.Logger

	mailTimeout time.Duration
	mailing     sync.WaitGroup
}

const defaultMailTimeout = 10 * time.Second

func NewSwapService(swaps domain.SwapRepository, items domain.ItemRepository, users domain.UserRepository,
	m notify.Mailer, p events.Publisher, l *zap.Logger) *SwapService {
	return &SwapService{swaps: swaps, items: items, users: users, mailer: m, events: p, log: l, mailTimeout: defaultMailTimeout}
}

// RequestSwap 只建 pending 请求，不检查物品是否仍可用
func (s *SwapService) RequestSwap(ctx context.Context, requester, itemID string) (*domain.Swap, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.ErrNotFound
	}
	if it.Uploader == requester {
		return nil, domain.ErrForbidden
	}
	sw := &domain.Swap{
		ID:           utils.NewID(),
		ItemID:       it.ID,
		RequesterUID: requester,
		OwnerUID:     it.Uploader,
		Status:       domain.SwapPending,
		CreatedAt:    time.Now(),
	}
	if err := s.swaps.Create(ctx, sw); err != nil {
		return nil, err
	}
	swapRequestsTotal.Inc()

	if err := s.events.Publish(ctx, events.Event{Type: events.SwapRequested, ItemID: it.ID, UserID: requester, SwapID: sw.ID}); err != nil {
		s.log.Warn("publish swap.requested failed", zap.Error(err))
	}

	// 邮件在请求之外发，最多等 mailTimeout
	s.mailing.Add(1)
	go func(it domain.Item) {
		defer s.mailing.Done()
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)
		defer cancel()
		s.mailOwner(mctx, requester, it)
	}(*it)
	return sw, nil
}

// Drain 等待已发出的通知邮件结束，关停前调用
func (s *SwapService) Drain() { s.mailing.Wait() }

func (s *SwapService) mailOwner(ctx context.Context, requester string, it domain.Item) {
	owner, err := s.users.FindByID(ctx, it.Uploader)
	if err != nil || owner == nil {
		s.log.Warn("swap mail skipped: owner lookup", zap.String("item", it.ID), zap.Error(err))
		return
	}
	req, err := s.users.FindByID(ctx, requester)
	if err != nil || req == nil {
		s.log.Warn("swap mail skipped: requester lookup", zap.String("uid", requester), zap.Error(err))
		return
	}
	if err := s.mailer.SwapRequested(ctx, *owner, *req, it); err != nil {
		s.log.Warn("swap mail failed", zap.String("item", it.ID), zap.Error(err))
	}
}

// ListMine 自己发起或收到的请求
func (s *SwapService) ListMine(ctx context.Context, uid string) ([]domain.Swap, error) {
	out, err := s.swaps.ListForUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Swap{}
	}
	return out, nil
}
