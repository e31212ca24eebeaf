package service

import (
	"context"

	"rewear/internal/domain"
)

type Dashboard struct {
	Points         int   `json:"points"`
	ItemCount      int64 `json:"itemCount"`
	PendingSwaps   int64 `json:"pendingSwaps"`
	CompletedSwaps int64 `json:"completedSwaps"`
}

type DashboardService struct {
	users domain.UserRepository
	items domain.ItemRepository
	swaps domain.SwapRepository
}

func NewDashboardService(users domain.UserRepository, items domain.ItemRepository, swaps domain.SwapRepository) *DashboardService {
	return &DashboardService{users: users, items: items, swaps: swaps}
}

func (s *DashboardService) Summary(ctx context.Context, uid string) (*Dashboard, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	n, err := s.items.CountByUploader(ctx, uid)
	if err != nil {
		return nil, err
	}
	sc, err := s.swaps.CountForUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Points: u.Points, ItemCount: n, PendingSwaps: sc.Pending, CompletedSwaps: sc.Completed}, nil
}
