package domain

import (
	"context"
	"time"
)

type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapCompleted SwapStatus = "completed"
)

// Swap 交换请求。当前只会以 pending 创建，完成流程在系统外
type Swap struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	ItemID       string     `gorm:"size:36;not null;index" json:"itemId"`
	RequesterUID string     `gorm:"size:36;not null;index" json:"requesterUid"`
	OwnerUID     string     `gorm:"size:36;not null;index" json:"ownerUid"`
	Status       SwapStatus `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt    time.Time  `json:"timestamp"`
}

func (Swap) TableName() string { return "swaps" }

type SwapCounts struct {
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

type SwapRepository interface {
	Create(ctx context.Context, s *Swap) error
	ListForUser(ctx context.Context, uid string) ([]Swap, error)
	CountForUser(ctx context.Context, uid string) (SwapCounts, error)
}
