package service

import (
	"context"

	"go.uber.org/zap"

	"rewear/internal/core/events"
	"rewear/internal/domain"
	"rewear/internal/feed"
)

type RedemptionService struct {
	repo     domain.RedemptionRepository
	catalog  *CatalogService
	notifier feed.Notifier
	events   events.Publisher
	log      *zap.Logger
}

func NewRedemptionService(repo domain.RedemptionRepository, catalog *CatalogService, n feed.Notifier, p events.Publisher, l *zap.Logger) *RedemptionService {
	return &RedemptionService{repo: repo, catalog: catalog, notifier: n, events: p, log: l}
}

// Redeem 价格固定 domain.RedemptionPrice。副作用都在事务提交之后
func (s *RedemptionService) Redeem(ctx context.Context, uid, itemID string) (*domain.RedeemResult, error) {
	res, err := s.repo.Redeem(ctx, uid, itemID, domain.RedemptionPrice)
	redemptionsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	bg := context.WithoutCancel(ctx)
	s.catalog.Invalidate(bg, itemID)
	s.notifier.Notify(bg, res.Item.Uploader)
	if err := s.events.Publish(bg, events.Event{
		Type:   events.ItemRedeemed,
		ItemID: itemID,
		UserID: uid,
		Points: domain.RedemptionPrice,
	}); err != nil {
		s.log.Warn("publish item.redeemed failed", zap.Error(err))
	}
	s.log.Info("item redeemed", zap.String("uid", uid), zap.String("item", itemID), zap.Int("balance", res.Balance))
	return res, nil
}
