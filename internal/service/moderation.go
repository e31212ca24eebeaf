package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rewear/internal/core/events"
	"rewear/internal/domain"
	"rewear/internal/feed"
	"rewear/pkg/utils"
)

type ModerationService struct {
	items    domain.ItemRepository
	catalog  *CatalogService
	notifier feed.Notifier
	events   events.Publisher
	log      *zap.Logger
}

func NewModerationService(items domain.ItemRepository, catalog *CatalogService, n feed.Notifier, p events.Publisher, l *zap.Logger) *ModerationService {
	return &ModerationService{items: items, catalog: catalog, notifier: n, events: p, log: l}
}

// ListPending 待审核队列，旧的在前
func (s *ModerationService) ListPending(ctx context.Context) ([]domain.Item, error) {
	out, err := s.items.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Item{}
	}
	return out, nil
}

// Approve 幂等；未知 id 返回 ErrNotFound
func (s *ModerationService) Approve(ctx context.Context, id string) error {
	it, err := s.items.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if it == nil {
		return domain.ErrNotFound
	}
	if _, err := s.items.Approve(ctx, id); err != nil {
		return err
	}
	moderationTotal.WithLabelValues("approve").Inc()
	s.after(ctx, events.ItemApproved, *it)
	return nil
}

// Reject 删除记录，存储里的图片保留
func (s *ModerationService) Reject(ctx context.Context, id string) error {
	it, err := s.items.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if it == nil {
		return domain.ErrNotFound
	}
	if _, err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	moderationTotal.WithLabelValues("reject").Inc()
	s.after(ctx, events.ItemRejected, *it)
	return nil
}

func (s *ModerationService) after(ctx context.Context, typ string, it domain.Item) {
	bg := context.WithoutCancel(ctx)
	s.catalog.Invalidate(bg, it.ID)
	s.notifier.Notify(bg, it.Uploader)
	if err := s.events.Publish(bg, events.Event{Type: typ, ItemID: it.ID, UserID: it.Uploader}); err != nil {
		s.log.Warn("publish moderation event failed", zap.String("type", typ), zap.Error(err))
	}
	s.log.Info("item moderated", zap.String("action", typ), zap.String("item", it.ID))
}

// Feature 已在精选里则只更新 priority；只能置顶市场上在售的物品
func (s *ModerationService) Feature(ctx context.Context, itemID string, priority int) error {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		return domain.ErrNotFound
	}
	if !it.Listed() {
		return fmt.Errorf("%w: item is not listed", domain.ErrUnavailable)
	}
	if priority < 0 {
		return fmt.Errorf("%w: priority must be >= 0", domain.ErrInvalid)
	}
	err = s.items.UpsertFeatured(ctx, &domain.FeaturedItem{
		ID:        utils.NewID(),
		ItemID:    itemID,
		Priority:  priority,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	moderationTotal.WithLabelValues("feature").Inc()
	s.catalog.Invalidate(context.WithoutCancel(ctx))
	return nil
}

func (s *ModerationService) Unfeature(ctx context.Context, itemID string) error {
	ok, err := s.items.DeleteFeatured(ctx, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	moderationTotal.WithLabelValues("unfeature").Inc()
	s.catalog.Invalidate(context.WithoutCancel(ctx))
	return nil
}
