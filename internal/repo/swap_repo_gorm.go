package repo

import (
	"context"

	"gorm.io/gorm"

	"rewear/internal/domain"
)

type SwapRepo struct{ db *gorm.DB }

func NewSwapRepo(db *gorm.DB) *SwapRepo { return &SwapRepo{db: db} }

func (r *SwapRepo) Create(ctx context.Context, s *domain.Swap) error {
	return domain.Store("create swap", r.db.WithContext(ctx).Create(s).Error)
}

// ListForUser 我发起的 + 我收到的
func (r *SwapRepo) ListForUser(ctx context.Context, uid string) ([]domain.Swap, error) {
	var out []domain.Swap
	err := r.db.WithContext(ctx).
		Where("requester_uid = ? OR owner_uid = ?", uid, uid).
		Order("created_at DESC").Order("id").
		Find(&out).Error
	return out, domain.Store("list swaps", err)
}

func (r *SwapRepo) CountForUser(ctx context.Context, uid string) (domain.SwapCounts, error) {
	type row struct {
		Status domain.SwapStatus
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.Swap{}).
		Select("status, COUNT(*) AS n").
		Where("requester_uid = ? OR owner_uid = ?", uid, uid).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return domain.SwapCounts{}, domain.Store("count swaps", err)
	}
	var c domain.SwapCounts
	for _, r := range rows {
		switch r.Status {
		case domain.SwapPending:
			c.Pending = r.N
		case domain.SwapCompleted:
			c.Completed = r.N
		}
	}
	return c, nil
}
