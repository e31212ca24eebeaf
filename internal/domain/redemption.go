package domain

import (
	"context"
	"time"
)

// RedemptionPrice 固定积分价，不做配置
const RedemptionPrice = 100

// Redemption 积分兑换流水，与扣分同一事务写入
type Redemption struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	ItemID    string    `gorm:"size:36;not null;index" json:"itemId"`
	Points    int       `gorm:"not null" json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Redemption) TableName() string { return "redemptions" }

// RedeemResult 提交后的结果：新余额 + 已下架的物品
type RedeemResult struct {
	Redemption Redemption `json:"redemption"`
	Balance    int        `json:"balance"`
	Item       Item       `json:"item"`
}

type RedemptionRepository interface {
	// Redeem 在一个事务内完成校验、扣分、下架、记流水
	Redeem(ctx context.Context, uid, itemID string, price int) (*RedeemResult, error)
}
