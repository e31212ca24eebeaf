package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rewear/internal/domain"
	"rewear/pkg/utils"
)

type RedemptionRepo struct{ db *gorm.DB }

func NewRedemptionRepo(db *gorm.DB) *RedemptionRepo { return &RedemptionRepo{db: db} }

// Redeem 读-判-写全部在同一事务里，扣分和下架要么一起提交要么都不生效。
// 两条 UPDATE 都带条件，并发兑换时由数据库保证只有一方成功。
func (r *RedemptionRepo) Redeem(ctx context.Context, uid, itemID string, price int) (*domain.RedeemResult, error) {
	var out domain.RedeemResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.First(&u, "id = ?", uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return domain.Store("load user", err)
		}
		if u.Points < price {
			return domain.ErrInsufficientBalance
		}

		var it domain.Item
		if err := tx.First(&it, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return domain.Store("load item", err)
		}
		if it.Uploader == uid {
			return domain.ErrForbidden
		}
		if !it.Listed() {
			return domain.ErrUnavailable
		}

		res := tx.Model(&domain.User{}).
			Where("id = ? AND points >= ?", uid, price).
			Update("points", gorm.Expr("points - ?", price))
		if res.Error != nil {
			return domain.Store("debit points", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrInsufficientBalance
		}

		res = tx.Model(&domain.Item{}).
			Where("id = ? AND availability = ?", itemID, true).
			Update("availability", false)
		if res.Error != nil {
			return domain.Store("mark unavailable", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUnavailable
		}

		out.Redemption = domain.Redemption{
			ID:        utils.NewID(),
			UserID:    uid,
			ItemID:    itemID,
			Points:    price,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&out.Redemption).Error; err != nil {
			return domain.Store("record redemption", err)
		}

		if err := tx.Model(&domain.User{}).Select("points").Where("id = ?", uid).Scan(&out.Balance).Error; err != nil {
			return domain.Store("reload balance", err)
		}
		it.Availability = false
		out.Item = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
